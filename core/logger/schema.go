package logger

import (
	"log/slog"
	"strings"
)

// Level names as they appear in the "level" field.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
	LevelFatal = "FATAL"
)

// LevelFatalValue is logged right before the process exits on a startup failure.
const LevelFatalValue = slog.Level(12)

var knownStatus = map[string]struct{}{
	"ok":           {},
	"fail":         {},
	"skip":         {},
	"retry":        {},
	"rate_limited": {},
	"cancelled":    {},
	"duplicate":    {},
}

var knownOutcome = map[string]struct{}{
	"ok":        {},
	"fail":      {},
	"rejected":  {},
	"cancelled": {},
}

// normalizeStatus lowercases status; unknown values are kept as-is.
func normalizeStatus(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "error" {
		return "fail"
	}
	return s
}

func normalizeOutcome(o string) (string, bool) {
	o = strings.ToLower(strings.TrimSpace(o))
	_, ok := knownOutcome[o]
	return o, ok
}

// IsKnownStatus reports whether s is one of the documented status values.
func IsKnownStatus(s string) bool {
	_, ok := knownStatus[normalizeStatus(s)]
	return ok
}

var defaultKeyOrder = []string{
	"ts",
	"level",
	"component",
	"event",
	"status",
	"rid",
	"rid_full",
	"ts_unix_nano",
	"update_id",
	"user_id",
	"chat_id",
	"chat_type",
	"handler",
	"cb_key",
	"state",
	"next_state",
	"outcome",
	"duration_ms",
	"event_id",
	"events",
	"removed",
	"scheduled_at",
	"mode",
	"tz",
	"listen",
	"public_url",
	"bot_id",
	"username",
	"err",
	"cause",
	"retryable",
	"attempts",
	"backoff_ms",
	"queue",
}
