package router

import (
	"log/slog"
	"time"

	"github.com/m3rciful/skeddybot/core/logger"
	tg "github.com/m3rciful/skeddybot/core/telegram"
	"github.com/m3rciful/skeddybot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/skeddybot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// CallbackOptions customises fallback behaviour for callbacks.
type CallbackOptions struct {
	// NotFound answers callbacks whose key is not registered. When nil the
	// registry fallback is used.
	NotFound tele.HandlerFunc
}

// CallbackRoute returns a handler that routes button presses through the
// registry. Every callback is acknowledged exactly once, whether the handler
// answers it, fails, or does not exist.
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		if c.Callback() == nil {
			return nil
		}
		ack := newAckContext(c)
		defer func() {
			if rerr := ack.Respond(); rerr != nil {
				logger.Debug(tghelpers.BuildContext(c), "tg", "callback.ack",
					slog.String("status", "fail"),
					logger.Err(rerr),
				)
			}
		}()

		key, payload := callbacks.Parse(c.Callback())
		name := "callback." + normalizeHandlerName(key)
		extras := []slog.Attr{
			slog.String("cb_key", logger.SanitizeLimit(key, 64)),
			slog.String("payload", logger.SanitizeLimit(payload, 128)),
		}

		cbHandler, ok := reg.GetCallback(key)
		if !ok || cbHandler == nil {
			fallback := opts.NotFound
			if fallback == nil {
				fallback = reg.CallbackNotFound()
			}
			extras = append(extras, slog.String("cause", "not_found"))
			return handleWithSummary(ack, name, start, "skip", func() error {
				if fallback != nil {
					return fallback(ack)
				}
				return nil
			}, extras...)
		}

		return handleWithSummary(ack, name, start, "", func() error {
			return cbHandler(ack)
		}, extras...)
	}
	return tg.Route{Endpoint: tele.OnCallback, Handler: handler}
}
