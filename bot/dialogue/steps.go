package dialogue

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/m3rciful/skeddybot/bot/reminders"
	"github.com/m3rciful/skeddybot/core/logger"
	"github.com/m3rciful/skeddybot/core/telegram/format"
	tghelpers "github.com/m3rciful/skeddybot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// onEventText handles text while awaiting the reminder description. Once an
// event was committed in this dialogue the new text replaces the draft's.
func (c *Controller) onEventText(ctx tele.Context) error {
	uid := ctx.Sender().ID
	text := strings.TrimSpace(ctx.Text())
	if !reminders.ValidateEventText(text) {
		logger.Debug(tghelpers.BuildContext(ctx), "dialogue", "validation.reject",
			slog.String("status", "skip"),
			slog.String("cause", "empty_text"),
		)
		return tghelpers.SendText(ctx, textEmptyEventText)
	}

	if draft, ok := c.store.Draft(uid); ok {
		// text re-entered after a commit rewrites the saved reminder, no new pending slot
		if _, err := c.store.EditEvent(uid, draft.ID, reminders.EventPatch{Text: &text}); err != nil {
			return fmt.Errorf("edit draft text: %w", err)
		}
	} else {
		c.store.StorePendingText(uid, text)
	}
	c.store.SetState(uid, reminders.StateAwaitingScheduleTime)

	return tghelpers.SendHTML(ctx, "Reminder: "+format.Bold(text), reviewKeyboard(cbEditEvent, cbContinueEvent))
}

// onScheduleText handles text while awaiting the schedule time. The first
// valid time commits the event; later ones reschedule it.
func (c *Controller) onScheduleText(ctx tele.Context) error {
	uid := ctx.Sender().ID
	lctx := tghelpers.BuildContext(ctx)

	at, err := c.parser.Parse(ctx.Text())
	if err != nil {
		reply := textUnparsableTime
		if reminders.IsScheduleError(err, reminders.ScheduleNotFuture) {
			reply = textPastTime
		}
		logger.Debug(lctx, "dialogue", "validation.reject",
			slog.String("status", "skip"),
			slog.String("cause", errCode(err)),
		)
		return tghelpers.SendText(ctx, reply)
	}

	var ev reminders.Event
	if draft, ok := c.store.Draft(uid); ok {
		ev, err = c.store.EditEvent(uid, draft.ID, reminders.EventPatch{ScheduledAt: &at})
		if err != nil {
			return fmt.Errorf("reschedule draft: %w", err)
		}
		logger.Info(lctx, "dialogue", "event.reschedule",
			slog.String("status", "ok"),
			slog.String("event_id", ev.ID.String()),
			slog.Time("scheduled_at", ev.ScheduledAt),
		)
	} else {
		ev, err = c.store.CommitEvent(uid, at)
		switch {
		case errors.Is(err, reminders.ErrNoPendingText):
			c.store.ClearState(uid)
			return tghelpers.SendText(ctx, textNothingToCommit)
		case errors.Is(err, reminders.ErrEventLimit):
			c.store.ClearState(uid)
			n := len(c.store.ListEvents(uid))
			logger.Info(lctx, "dialogue", "event.commit",
				slog.String("status", "skip"),
				slog.String("cause", "limit"),
				slog.Int("events", n),
			)
			return tghelpers.SendText(ctx, fmt.Sprintf(textEventLimitFmt, n))
		case err != nil:
			return fmt.Errorf("commit event: %w", err)
		}
		logger.Info(lctx, "dialogue", "event.commit",
			slog.String("status", "ok"),
			slog.String("event_id", ev.ID.String()),
			slog.Time("scheduled_at", ev.ScheduledAt),
		)
	}

	msg := format.Bold(ev.Text) + " at " + format.Code(c.formatTime(ev.ScheduledAt))
	return tghelpers.SendHTML(ctx, msg, reviewKeyboard(cbEditSchedule, cbContinueSchedule))
}

func errCode(err error) string {
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return "invalid"
}
