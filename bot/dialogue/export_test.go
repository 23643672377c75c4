package dialogue

import (
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/m3rciful/skeddybot/bot/reminders"
)

func TestBuildCalendarRoundTrip(t *testing.T) {
	tallinn, err := time.LoadLocation("Europe/Tallinn")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	now := time.Date(2998, 12, 1, 9, 0, 0, 0, time.UTC)
	ev := reminders.Event{
		ID:          uuid.New(),
		Text:        "Dentist",
		ScheduledAt: time.Date(2999, 1, 1, 10, 0, 0, 0, tallinn),
		CreatedAt:   now,
	}

	var sb strings.Builder
	if err := WriteCalendar(&sb, []reminders.Event{ev}, tallinn, now); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "TZID:Europe/Tallinn") {
		t.Fatalf("calendar zone missing:\n%s", out)
	}
	// 10:00 in Tallinn is 08:00 UTC in winter
	if !strings.Contains(out, "DTSTART:29990101T080000Z") {
		t.Fatalf("start not in UTC form:\n%s", out)
	}

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	events := cal.Events()
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	got := events[0]
	if id := got.Id(); id != ev.ID.String()+"@skeddybot" {
		t.Fatalf("uid = %q", id)
	}
	start, err := got.GetStartAt()
	if err != nil || !start.Equal(ev.ScheduledAt) {
		t.Fatalf("start = %v, %v; want %v", start, err, ev.ScheduledAt)
	}
	end, err := got.GetEndAt()
	if err != nil || end.Sub(start) != exportDuration {
		t.Fatalf("end = %v, %v", end, err)
	}
	if p := got.GetProperty(ical.ComponentPropertySummary); p == nil || p.Value != "Dentist" {
		t.Fatalf("summary = %+v", p)
	}

	alarms := got.Alarms()
	if len(alarms) != 1 {
		t.Fatalf("alarms = %d, want 1", len(alarms))
	}
	if p := alarms[0].GetProperty(ical.ComponentPropertyAction); p == nil || p.Value != string(ical.ActionDisplay) {
		t.Fatalf("alarm action = %+v", p)
	}
	if p := alarms[0].GetProperty(ical.ComponentPropertyTrigger); p == nil || p.Value != "PT0M" {
		t.Fatalf("alarm trigger = %+v", p)
	}
}

func TestBuildCalendarEmpty(t *testing.T) {
	cal := BuildCalendar(nil, nil, time.Now())
	if n := len(cal.Events()); n != 0 {
		t.Fatalf("events = %d", n)
	}
	if !strings.Contains(cal.Serialize(), "BEGIN:VCALENDAR") {
		t.Fatal("empty export must still be a calendar")
	}
}
