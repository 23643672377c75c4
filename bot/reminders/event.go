// Package reminders holds the reminder domain: schedule parsing, the per-user
// dialogue session and the in-memory event store.
package reminders

import (
	"time"

	"github.com/google/uuid"
)

// Event is a committed reminder owned by a single user.
type Event struct {
	ID          uuid.UUID
	Text        string
	ScheduledAt time.Time
	CreatedAt   time.Time
}
