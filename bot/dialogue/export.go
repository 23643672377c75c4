package dialogue

import (
	"io"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/m3rciful/skeddybot/bot/reminders"
)

const (
	exportFileName = "skeddybot.ics"
	exportMIME     = "text/calendar"
	exportService  = "skeddybot"
	// exportDuration is how long an exported reminder blocks in a calendar.
	exportDuration = 15 * time.Minute
)

// BuildCalendar renders events as an iCalendar document with a display alarm
// at the start of each event.
func BuildCalendar(events []reminders.Event, loc *time.Location, now time.Time) *ical.Calendar {
	cal := ical.NewCalendarFor(exportService)
	cal.SetMethod(ical.MethodPublish)
	cal.SetXWRCalName("SkeddyBot reminders")
	if loc != nil {
		cal.SetTzid(loc.String())
	}
	for _, ev := range events {
		e := cal.AddEvent(ev.ID.String() + "@skeddybot")
		e.SetCreatedTime(ev.CreatedAt)
		e.SetDtStampTime(now)
		e.SetStartAt(ev.ScheduledAt)
		e.SetEndAt(ev.ScheduledAt.Add(exportDuration))
		e.SetSummary(ev.Text)

		alarm := e.AddAlarm()
		alarm.SetAction(ical.ActionDisplay)
		alarm.SetTrigger("PT0M")
	}
	return cal
}

// WriteCalendar serializes events as an .ics file to w.
func WriteCalendar(w io.Writer, events []reminders.Event, loc *time.Location, now time.Time) error {
	_, err := io.WriteString(w, BuildCalendar(events, loc, now).Serialize())
	return err
}
