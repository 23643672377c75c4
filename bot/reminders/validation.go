package reminders

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Layouts accepted for schedule input, tried in order. Input without a zone
// is read in the parser's location.
var scheduleLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"02.01.2006 15:04",
	"2.1.2006 15:04",
	"2006-01-02",
	"02.01.2006",
}

// ScheduleErrorKind tells an unreadable time apart from one in the past.
type ScheduleErrorKind int

const (
	// ScheduleUnparsable means the text matched no accepted layout.
	ScheduleUnparsable ScheduleErrorKind = iota + 1
	// ScheduleNotFuture means the time parsed but is not after now.
	ScheduleNotFuture
)

// ScheduleError is returned by Parser.Parse for rejected input.
type ScheduleError struct {
	Kind  ScheduleErrorKind
	Input string
	At    time.Time
}

func (e *ScheduleError) Error() string {
	if e.Kind == ScheduleNotFuture {
		return fmt.Sprintf("schedule time %s is not in the future", e.At.Format(time.RFC3339))
	}
	return fmt.Sprintf("cannot parse schedule time %q", e.Input)
}

// Code names the rejection for log summaries.
func (e *ScheduleError) Code() string {
	if e.Kind == ScheduleNotFuture {
		return "schedule_past"
	}
	return "schedule_unparsable"
}

// ValidateEventText reports whether text has at least one non-whitespace rune.
func ValidateEventText(text string) bool {
	return strings.IndexFunc(text, func(r rune) bool { return !unicode.IsSpace(r) }) >= 0
}

// Parser reads schedule times in a fixed location against an injectable clock.
type Parser struct {
	loc *time.Location
	now func() time.Time
}

// NewParser returns a Parser for loc. A nil now uses time.Now.
func NewParser(loc *time.Location, now func() time.Time) *Parser {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Parser{loc: loc, now: now}
}

// Location returns the zone used for input without an offset.
func (p *Parser) Location() *time.Location { return p.loc }

// Parse returns the instant described by text if it is strictly after now.
func (p *Parser) Parse(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	at, ok := p.parse(text)
	if !ok {
		return time.Time{}, &ScheduleError{Kind: ScheduleUnparsable, Input: text}
	}
	if !at.After(p.now()) {
		return time.Time{}, &ScheduleError{Kind: ScheduleNotFuture, Input: text, At: at}
	}
	return at, nil
}

// ValidateScheduleTime is Parse reduced to a success flag.
func (p *Parser) ValidateScheduleTime(text string) (time.Time, bool) {
	at, err := p.Parse(text)
	return at, err == nil
}

func (p *Parser) parse(text string) (time.Time, bool) {
	if text == "" {
		return time.Time{}, false
	}
	if at, err := time.Parse(time.RFC3339, text); err == nil {
		return at, true
	}
	for _, layout := range scheduleLayouts {
		if at, err := time.ParseInLocation(layout, text, p.loc); err == nil {
			return at, true
		}
	}
	return time.Time{}, false
}

// Formats lists the accepted layouts in the form shown to users.
func Formats() []string {
	out := make([]string, 0, len(scheduleLayouts)+1)
	out = append(out, scheduleLayouts...)
	return append(out, time.RFC3339)
}

// IsScheduleError reports whether err is a rejected schedule input of the given kind.
func IsScheduleError(err error, kind ScheduleErrorKind) bool {
	var se *ScheduleError
	return errors.As(err, &se) && se.Kind == kind
}
