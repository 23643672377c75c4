package reminders

import (
	"testing"
	"time"
)

var fixedNow = time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func TestValidateEventText(t *testing.T) {
	cases := map[string]bool{
		"Buy milk": true,
		"  x  ":    true,
		"":         false,
		"   ":      false,
		"\t\n  ":   false,
		" a":       true,
	}
	for in, want := range cases {
		if got := ValidateEventText(in); got != want {
			t.Errorf("ValidateEventText(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParserAcceptsLayouts(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	p := NewParser(berlin, clock)
	want := time.Date(2999, 1, 1, 10, 0, 0, 0, berlin)

	inputs := []string{
		"2999-01-01 10:00",
		"2999-01-01 10:00:00",
		"2999-01-01T10:00",
		"01.01.2999 10:00",
		"1.1.2999 10:00",
		" 2999-01-01 10:00 ",
	}
	for _, in := range inputs {
		got, ok := p.ValidateScheduleTime(in)
		if !ok {
			t.Errorf("%q rejected", in)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("%q = %v, want %v", in, got, want)
		}
	}

	day, ok := p.ValidateScheduleTime("01.01.2999")
	if !ok || !day.Equal(time.Date(2999, 1, 1, 0, 0, 0, 0, berlin)) {
		t.Fatalf("date only = %v ok=%v", day, ok)
	}
}

func TestParserKeepsExplicitOffset(t *testing.T) {
	p := NewParser(time.UTC, clock)
	got, ok := p.ValidateScheduleTime("2999-01-01T10:00:00+03:00")
	if !ok {
		t.Fatal("rfc3339 rejected")
	}
	if !got.Equal(time.Date(2999, 1, 1, 7, 0, 0, 0, time.UTC)) {
		t.Fatalf("got %v", got)
	}
}

func TestParserRejects(t *testing.T) {
	p := NewParser(time.UTC, clock)
	cases := map[string]ScheduleErrorKind{
		"":                 ScheduleUnparsable,
		"tomorrow":         ScheduleUnparsable,
		"2999-13-01 10:00": ScheduleUnparsable,
		"2030-06-15 12:00": ScheduleNotFuture,
		"2000-01-01 10:00": ScheduleNotFuture,
	}
	for in, kind := range cases {
		_, err := p.Parse(in)
		if !IsScheduleError(err, kind) {
			t.Errorf("Parse(%q) err = %v, want kind %d", in, err, kind)
		}
		if _, ok := p.ValidateScheduleTime(in); ok {
			t.Errorf("ValidateScheduleTime(%q) accepted", in)
		}
	}
}

func TestParserStrictlyAfterNow(t *testing.T) {
	p := NewParser(time.UTC, clock)
	if _, ok := p.ValidateScheduleTime("2030-06-15 12:01"); !ok {
		t.Fatal("one minute ahead must be accepted")
	}
}

func TestFormatsIncludeRFC3339(t *testing.T) {
	f := Formats()
	if f[len(f)-1] != time.RFC3339 || len(f) != len(scheduleLayouts)+1 {
		t.Fatalf("formats = %v", f)
	}
}
