package middleware

import (
	"log/slog"
	"time"

	"github.com/maypok86/otter"

	"github.com/m3rciful/skeddybot/core/logger"
	tghelpers "github.com/m3rciful/skeddybot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// RateLimitOptions configures behaviour of the rate limit middleware.
type RateLimitOptions struct {
	Interval time.Duration
	// Exclude lists update kinds ("callback", "message") that bypass the limit.
	Exclude   map[string]struct{}
	OnLimited tele.HandlerFunc
	// Capacity bounds the number of tracked users; 0 uses a default.
	Capacity int
}

// RateLimitMiddleware enforces a minimum interval between updates of the same user.
// A user id is remembered for Interval after an accepted update; anything arriving
// while the entry is alive is dropped.
func RateLimitMiddleware(opts RateLimitOptions) (tele.MiddlewareFunc, error) {
	if opts.Interval <= 0 {
		return func(next tele.HandlerFunc) tele.HandlerFunc { return next }, nil
	}
	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = 10_000
	}
	seen, err := otter.MustBuilder[int64, struct{}](capacity).WithTTL(opts.Interval).Build()
	if err != nil {
		return nil, err
	}

	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil {
				return next(c)
			}
			if _, skip := opts.Exclude[updateKind(c.Update())]; skip {
				return next(c)
			}
			if seen.SetIfAbsent(user.ID, struct{}{}) {
				return next(c)
			}

			logger.Warn(tghelpers.BuildContext(c), "tg", "rate_limit",
				slog.String("status", "rate_limited"),
				slog.Duration("interval", opts.Interval),
			)
			if opts.OnLimited != nil {
				_ = opts.OnLimited(c)
			}
			return nil
		}
	}, nil
}

func updateKind(u tele.Update) string {
	switch {
	case u.Callback != nil:
		return "callback"
	case u.Message != nil:
		return "message"
	}
	return "other"
}
