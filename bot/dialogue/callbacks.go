package dialogue

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/m3rciful/skeddybot/bot/reminders"
	"github.com/m3rciful/skeddybot/core/logger"
	"github.com/m3rciful/skeddybot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/skeddybot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// Button handlers answer the callback themselves only when the answer carries
// text; the callback route acknowledges everything else.

func (c *Controller) cbEditEvent(ctx tele.Context) error {
	c.store.SetState(ctx.Sender().ID, reminders.StateAwaitingEventText)
	return tghelpers.SendText(ctx, textAskEventTextNew)
}

func (c *Controller) cbContinueEvent(ctx tele.Context) error {
	c.store.SetState(ctx.Sender().ID, reminders.StateAwaitingScheduleTime)
	return tghelpers.SendText(ctx, textAskSchedule)
}

func (c *Controller) cbEditSchedule(ctx tele.Context) error {
	c.store.SetState(ctx.Sender().ID, reminders.StateAwaitingScheduleTime)
	return tghelpers.SendText(ctx, textAskScheduleNew)
}

// cbContinueSchedule closes the dialogue. The event was committed when the
// time arrived, so this only confirms it.
func (c *Controller) cbContinueSchedule(ctx tele.Context) error {
	uid := ctx.Sender().ID
	_, saved := c.store.Draft(uid)
	c.store.ClearState(uid)
	if !saved {
		return tghelpers.SendText(ctx, textNothingSave)
	}
	return tghelpers.SendText(ctx, textSaved)
}

// cbDelete removes the event named by the payload: an event id, or a list
// position from buttons rendered before ids were used.
func (c *Controller) cbDelete(ctx tele.Context) error {
	uid := ctx.Sender().ID
	lctx := tghelpers.BuildContext(ctx)
	payload := callbacks.Payload(ctx)

	var (
		ev      reminders.Event
		removed bool
	)
	if id, err := uuid.Parse(payload); err == nil {
		ev, removed = c.store.DeleteEvent(uid, id)
	} else if idx, err := callbacks.PayloadInt(ctx); err == nil {
		if list := c.store.ListEvents(uid); idx < len(list) {
			ev = list[idx]
			removed = c.store.DeleteEventAt(uid, idx)
		}
	} else {
		logger.Debug(lctx, "dialogue", "validation.reject",
			slog.String("status", "skip"),
			slog.String("cause", "bad_delete_payload"),
		)
		return ctx.RespondText(textBadDelete)
	}

	c.store.ClearState(uid)
	if !removed {
		return tghelpers.SendText(ctx, textDeleteGone)
	}
	logger.Info(lctx, "dialogue", "event.delete",
		slog.String("status", "ok"),
		slog.String("event_id", ev.ID.String()),
	)
	return tghelpers.SendText(ctx, fmt.Sprintf(textDeletedFmt, ev.Text))
}
