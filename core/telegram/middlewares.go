package telegram

import (
	"fmt"
	"strings"
	"time"

	coreconfig "github.com/m3rciful/skeddybot/core/config"
	"github.com/m3rciful/skeddybot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// DefaultMiddlewares builds the shared chain applied to every update:
// recover, request logging, optional rate limit, per-user serialization, message metrics.
func DefaultMiddlewares(cfg *coreconfig.Config, onLimited tele.HandlerFunc) ([]Middleware, error) {
	mws := []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
		{Name: "logger", Use: middleware.LoggerMiddleware},
	}

	if cfg != nil && cfg.RateLimit.IntervalMS > 0 {
		ex := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
		for _, kind := range cfg.RateLimit.ExcludeUpdates {
			ex[strings.ToLower(kind)] = struct{}{}
		}
		limit, err := middleware.RateLimitMiddleware(middleware.RateLimitOptions{
			Interval:  time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond,
			Exclude:   ex,
			OnLimited: onLimited,
		})
		if err != nil {
			return nil, fmt.Errorf("telegram: rate limit: %w", err)
		}
		mws = append(mws, Middleware{Name: "rate_limit", Use: limit})
	}

	mws = append(mws,
		Middleware{Name: "serialize", Use: middleware.SerializePerUser(middleware.NewKeyedMutex())},
		Middleware{Name: "metrics", Use: middleware.MessageMetricsMiddleware},
	)
	return mws, nil
}
