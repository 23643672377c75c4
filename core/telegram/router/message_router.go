package router

import (
	"strings"
	"time"

	tg "github.com/m3rciful/skeddybot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// FSM is the dialogue state machine consulted for free text.
type FSM interface {
	InProgress(userID int64) bool
	Handle(c tele.Context) error
}

// TextOptions controls fallback behaviour for text and media updates.
type TextOptions struct {
	Commands CommandRouteOptions
	// UnknownCommand answers slash commands nobody registered.
	UnknownCommand tele.HandlerFunc
	// UnknownText answers plain text outside of a dialogue.
	UnknownText tele.HandlerFunc
	// UnsupportedMedia answers photos, files and stickers.
	UnsupportedMedia tele.HandlerFunc
}

// TextRoutes builds the text and media handlers. Text is routed in order:
// registered command or alias, unknown slash command, active dialogue step,
// then the plain-text hint. A slash command therefore never reaches a step
// handler, so "/list" typed mid-dialogue is a command and not an event text.
func TextRoutes(fsm FSM, reg *tg.Registry, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				return commandHandler(key, cmd, opts.Commands)(c)
			}
		}

		if strings.HasPrefix(strings.TrimSpace(text), "/") {
			return runOrSkip(c, "unknown_command", start, opts.UnknownCommand)
		}

		if fsm != nil && c.Sender() != nil && fsm.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "fsm", start, "", func() error {
				return fsm.Handle(c)
			})
		}

		return runOrSkip(c, "unknown_text", start, opts.UnknownText)
	}

	mediaHandler := func(c tele.Context) error {
		return runOrSkip(c, "unsupported_media", time.Now(), opts.UnsupportedMedia)
	}

	return []tg.Route{
		{Endpoint: tele.OnText, Handler: handler},
		{Endpoint: tele.OnMedia, Handler: mediaHandler},
	}
}

func runOrSkip(c tele.Context, name string, start time.Time, h tele.HandlerFunc) error {
	if h == nil {
		logHandlerSummary(c, name, start, "skip", nil)
		return nil
	}
	return handleWithSummary(c, name, start, "", func() error { return h(c) })
}
