package dialogue

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/m3rciful/skeddybot/bot/reminders"
	"github.com/m3rciful/skeddybot/core/logger"
	"github.com/m3rciful/skeddybot/core/telegram/format"
	tghelpers "github.com/m3rciful/skeddybot/core/telegram/helpers"
	"github.com/m3rciful/skeddybot/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

func (c *Controller) cmdStart(ctx tele.Context) error {
	return tghelpers.SendText(ctx, textStart)
}

func (c *Controller) cmdHelp(ctx tele.Context) error {
	return tghelpers.SendHTML(ctx, textHelp)
}

// cmdAdd starts the dialogue from scratch, even when one is already running.
func (c *Controller) cmdAdd(ctx tele.Context) error {
	c.store.Restart(ctx.Sender().ID, reminders.StateAwaitingEventText)
	return tghelpers.SendText(ctx, textAskEventText)
}

func (c *Controller) cmdCancel(ctx tele.Context) error {
	uid := ctx.Sender().ID
	if c.store.GetState(uid) == state.StateIdle {
		return tghelpers.SendText(ctx, textNoDialogue)
	}
	c.store.ClearState(uid)
	return tghelpers.SendText(ctx, textCancelled)
}

func (c *Controller) cmdList(ctx tele.Context) error {
	events := c.store.ListEvents(ctx.Sender().ID)
	if len(events) == 0 {
		return tghelpers.SendText(ctx, textNoEvents)
	}
	return tghelpers.SendHTML(ctx, c.renderList(events))
}

func (c *Controller) renderList(events []reminders.Event) string {
	lines := make([]string, 0, len(events)+1)
	lines = append(lines, format.Bold("Your reminders"))
	for i, ev := range events {
		lines = append(lines, fmt.Sprintf("%d. %s %s", i+1, format.Code(c.formatTime(ev.ScheduledAt)), format.EscapeHTML(ev.Text)))
	}
	return format.Lines(lines...)
}

func (c *Controller) cmdDelete(ctx tele.Context) error {
	events := c.store.ListEvents(ctx.Sender().ID)
	if len(events) == 0 {
		return tghelpers.SendText(ctx, textNoEventsDelete)
	}
	return tghelpers.SendText(ctx, textPickDelete, deleteKeyboard(events, c.parser.Location()))
}

func (c *Controller) cmdFormats(ctx tele.Context) error {
	lines := []string{format.Bold("Accepted formats")}
	for _, f := range reminders.Formats() {
		lines = append(lines, format.Code(f))
	}
	lines = append(lines, "", "Times without an offset are read in "+format.Code(c.parser.Location().String())+".")
	return tghelpers.SendHTML(ctx, strings.Join(lines, "\n"))
}

func (c *Controller) cmdExport(ctx tele.Context) error {
	events := c.store.ListEvents(ctx.Sender().ID)
	if len(events) == 0 {
		return tghelpers.SendText(ctx, textNoEvents)
	}
	var buf bytes.Buffer
	if err := WriteCalendar(&buf, events, c.parser.Location(), c.now()); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	logger.Info(tghelpers.BuildContext(ctx), "dialogue", "export",
		slog.String("status", "ok"),
		slog.Int("events", len(events)),
		slog.Int("bytes", buf.Len()),
	)
	return tghelpers.SendDocument(ctx, exportFileName, exportMIME, &buf, textExportCaption)
}

func (c *Controller) cmdStats(ctx tele.Context) error {
	users, events, sessions := c.store.Stats()
	return tghelpers.SendHTML(ctx, format.Lines(
		format.Bold("Store"),
		fmt.Sprintf("users: %d", users),
		fmt.Sprintf("events: %d", events),
		fmt.Sprintf("open dialogues: %d", sessions),
	))
}
