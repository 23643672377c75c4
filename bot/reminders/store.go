package reminders

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m3rciful/skeddybot/core/telegram/state"
)

// Dialogue states of the add-reminder conversation.
const (
	StateAwaitingEventText    state.State = "awaiting_event_text"
	StateAwaitingScheduleTime state.State = "awaiting_schedule_time"
)

var (
	// ErrNoPendingText is returned by CommitEvent when no event text was stored.
	ErrNoPendingText = errors.New("reminders: no pending event text")
	// ErrEventLimit is returned when the user already has the maximum number of events.
	ErrEventLimit = errors.New("reminders: event limit reached")
	// ErrEventNotFound is returned by EditEvent for an unknown id.
	ErrEventNotFound = errors.New("reminders: event not found")
)

type session struct {
	state      state.State
	pending    string
	hasPending bool
	// draft is the event committed in this dialogue and still open for edits.
	draft uuid.UUID
}

// Store keeps dialogue sessions and committed events of every user in memory.
// Every method is atomic with respect to the others.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*session
	events   map[int64][]Event

	maxPerUser int
	now        func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithMaxPerUser caps the number of events a user may hold. Zero means unlimited.
func WithMaxPerUser(n int) StoreOption {
	return func(s *Store) { s.maxPerUser = n }
}

// WithClock replaces time.Now for CreatedAt stamps.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore returns an empty Store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		sessions: make(map[int64]*session),
		events:   make(map[int64][]Event),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetState returns the user's dialogue state, StateIdle when there is none.
func (s *Store) GetState(userID int64) state.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[userID]; ok {
		return sess.state
	}
	return state.StateIdle
}

// SetState moves the user to st. Setting StateIdle ends the session.
func (s *Store) SetState(userID int64, st state.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st == state.StateIdle || st == "" {
		delete(s.sessions, userID)
		return
	}
	s.sessionLocked(userID).state = st
}

// ClearState ends the user's session, dropping pending text and draft.
func (s *Store) ClearState(userID int64) {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
}

// Restart starts a fresh session in st, discarding pending text and draft.
func (s *Store) Restart(userID int64, st state.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	if st != state.StateIdle && st != "" {
		s.sessionLocked(userID).state = st
	}
}

func (s *Store) sessionLocked(userID int64) *session {
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &session{state: state.StateIdle}
		s.sessions[userID] = sess
	}
	return sess
}

// StorePendingText replaces the user's pending event text.
func (s *Store) StorePendingText(userID int64, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessionLocked(userID)
	sess.pending = text
	sess.hasPending = true
}

// PendingText returns the stored event text, if any.
func (s *Store) PendingText(userID int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[userID]; ok && sess.hasPending {
		return sess.pending, true
	}
	return "", false
}

// CommitEvent appends an event built from the pending text and consumes that
// text. The new event becomes the session draft.
func (s *Store) CommitEvent(userID int64, scheduledAt time.Time) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok || !sess.hasPending {
		return Event{}, ErrNoPendingText
	}
	if s.maxPerUser > 0 && len(s.events[userID]) >= s.maxPerUser {
		return Event{}, fmt.Errorf("%w (%d)", ErrEventLimit, s.maxPerUser)
	}

	ev := Event{
		ID:          uuid.New(),
		Text:        sess.pending,
		ScheduledAt: scheduledAt,
		CreatedAt:   s.now(),
	}
	s.events[userID] = append(s.events[userID], ev)
	sess.pending = ""
	sess.hasPending = false
	sess.draft = ev.ID
	return ev, nil
}

// Draft returns the event committed earlier in the current session.
func (s *Store) Draft(userID int64) (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok || sess.draft == uuid.Nil {
		return Event{}, false
	}
	i := indexOf(s.events[userID], sess.draft)
	if i < 0 {
		return Event{}, false
	}
	return s.events[userID][i], true
}

// EventPatch lists the fields EditEvent changes. Nil fields stay as they are.
type EventPatch struct {
	Text        *string
	ScheduledAt *time.Time
}

// EditEvent updates an event in place, keeping its position and id.
func (s *Store) EditEvent(userID int64, id uuid.UUID, patch EventPatch) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.events[userID]
	i := indexOf(list, id)
	if i < 0 {
		return Event{}, ErrEventNotFound
	}
	if patch.Text != nil {
		list[i].Text = *patch.Text
	}
	if patch.ScheduledAt != nil {
		list[i].ScheduledAt = *patch.ScheduledAt
	}
	return list[i], nil
}

// ListEvents returns a copy of the user's events in insertion order.
func (s *Store) ListEvents(userID int64) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.events[userID]
	out := make([]Event, len(list))
	copy(out, list)
	return out
}

// DeleteEventAt removes the event at index. Out of range is a no-op.
func (s *Store) DeleteEventAt(userID int64, index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.events[userID]
	if index < 0 || index >= len(list) {
		return false
	}
	s.removeLocked(userID, index)
	return true
}

// DeleteEvent removes the event with id and reports whether it existed.
func (s *Store) DeleteEvent(userID int64, id uuid.UUID) (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.events[userID], id)
	if i < 0 {
		return Event{}, false
	}
	ev := s.events[userID][i]
	s.removeLocked(userID, i)
	return ev, true
}

func (s *Store) removeLocked(userID int64, index int) {
	list := s.events[userID]
	removed := list[index].ID
	list = append(list[:index], list[index+1:]...)
	if len(list) == 0 {
		delete(s.events, userID)
	} else {
		s.events[userID] = list
	}
	if sess, ok := s.sessions[userID]; ok && sess.draft == removed {
		sess.draft = uuid.Nil
	}
}

// Prune drops events scheduled before cutoff and returns how many were removed.
// Users left without events lose their entry.
func (s *Store) Prune(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for userID, list := range s.events {
		kept := list[:0]
		for _, ev := range list {
			if ev.ScheduledAt.Before(cutoff) {
				removed++
				continue
			}
			kept = append(kept, ev)
		}
		if len(kept) == 0 {
			delete(s.events, userID)
			continue
		}
		clear(list[len(kept):])
		s.events[userID] = kept
	}
	return removed
}

// Stats reports how many users hold events, how many events exist in total
// and how many users are mid-dialogue.
func (s *Store) Stats() (users, events, sessions int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, list := range s.events {
		events += len(list)
	}
	return len(s.events), events, len(s.sessions)
}

func indexOf(list []Event, id uuid.UUID) int {
	for i, ev := range list {
		if ev.ID == id {
			return i
		}
	}
	return -1
}
