package middleware

import (
	"log/slog"

	"github.com/m3rciful/skeddybot/core/logger"
	tghelpers "github.com/m3rciful/skeddybot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// AdminOptions defines how admin-only checks should behave.
type AdminOptions struct {
	AdminID  int64
	OnReject tele.HandlerFunc
}

// AdminOnlyMiddleware lets only the configured admin reach next. Without an
// admin id every caller is rejected.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if u := c.Sender(); u != nil && opts.AdminID != 0 && u.ID == opts.AdminID {
				return next(c)
			}
			logger.Debug(tghelpers.BuildContext(c), "tg", "admin.reject",
				slog.String("status", "skip"),
			)
			if opts.OnReject != nil {
				return opts.OnReject(c)
			}
			return nil
		}
	}
}
