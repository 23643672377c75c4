package helpers

import (
	"errors"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/m3rciful/skeddybot/core/logger"
	"github.com/m3rciful/skeddybot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the asynchronous sender used by helper functions.
// With nil every helper sends synchronously.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

func sendAsync(c tele.Context, action, endpoint string, run func() error) error {
	disp := globalDispatcher.Load()
	if disp == nil {
		return run()
	}

	ctx := BuildContext(c)
	err := disp.Enqueue(ctx, action, endpoint, run)
	if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
		logger.Warn(ctx, "tg.sender", "queue.fallback",
			slog.String("action", action),
			slog.String("status", "skip"),
			logger.Err(err),
		)
		return run()
	}
	return err
}

// SendText sends plain text (no parse mode) with an optional keyboard.
func SendText(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	opts := &tele.SendOptions{}
	if len(markup) > 0 && markup[0] != nil {
		opts.ReplyMarkup = markup[0]
	}
	return sendAsync(c, "send.text", "sendMessage", func() error {
		return c.Send(text, opts)
	})
}

// SendHTML sends text in HTML parse mode. Callers escape user supplied parts.
func SendHTML(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	opts := &tele.SendOptions{ParseMode: tele.ModeHTML}
	if len(markup) > 0 && markup[0] != nil {
		opts.ReplyMarkup = markup[0]
	}
	return sendAsync(c, "send.html", "sendMessage", func() error {
		return c.Send(text, opts)
	})
}

// SendDocument uploads content read from r as a file named fileName.
// The body is buffered by the caller, so the upload is sent synchronously
// to keep the reader valid for the single attempt.
func SendDocument(c tele.Context, fileName, mime string, r io.Reader, caption string) error {
	doc := &tele.Document{
		File:     tele.FromReader(r),
		FileName: fileName,
		MIME:     mime,
		Caption:  caption,
	}
	return c.Send(doc)
}
