package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/maypok86/otter"

	"github.com/m3rciful/skeddybot/core/logger"
	"github.com/m3rciful/skeddybot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/skeddybot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

const (
	receiptTTL      = 10 * time.Second
	receiptCapacity = 10_000
)

var (
	receiptsOnce sync.Once
	receipts     *otter.Cache[int, struct{}]
)

// firstReceipt reports whether updateID is seen for the first time within receiptTTL.
func firstReceipt(updateID int) bool {
	receiptsOnce.Do(func() {
		c, err := otter.MustBuilder[int, struct{}](receiptCapacity).WithTTL(receiptTTL).Build()
		if err != nil {
			logger.TWire.Warn("receipt cache disabled", slog.String("event", "receipt.cache"), logger.Err(err))
			return
		}
		receipts = &c
	})
	if receipts == nil {
		return true
	}
	return receipts.SetIfAbsent(updateID, struct{}{})
}

// LoggerMiddleware builds the request context (rid, update, user and chat ids)
// and writes one sampled debug receipt line per update.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		var chatID, userID int64
		if chat := c.Chat(); chat != nil {
			chatID = chat.ID
		}
		if user := c.Sender(); user != nil {
			userID = user.ID
		}

		rid := logger.BuildRID(upd.ID, chatID, userID)
		c.Set("rid", rid)
		c.Set("update_start", time.Now())
		ctx := tghelpers.BuildContext(c)

		if logger.ShouldSampleDebug() && firstReceipt(upd.ID) {
			attrs := []slog.Attr{slog.String("status", "ok")}
			if chat := c.Chat(); chat != nil {
				attrs = append(attrs, slog.String("chat_type", string(chat.Type)))
			}
			if user := c.Sender(); user != nil && user.Username != "" {
				attrs = append(attrs, slog.String("username", logger.SanitizeLimit(user.Username, 64)))
			}
			switch {
			case upd.Callback != nil:
				key, payload := callbacks.Parse(upd.Callback)
				attrs = append(attrs,
					slog.String("cb_key", logger.SanitizeLimit(key, 64)),
					slog.String("payload", logger.SanitizeLimit(payload, 128)),
				)
			case upd.Message != nil:
				attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(c.Text(), 256)))
			}
			logger.LogEvent(ctx, logger.TG, slog.LevelDebug, "update.received", attrs...)
		}

		return next(c)
	}
}
