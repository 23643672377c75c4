package router

import (
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/m3rciful/skeddybot/core/logger"
	tghelpers "github.com/m3rciful/skeddybot/core/telegram/helpers"
	"github.com/m3rciful/skeddybot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// handleWithSummary runs fn under handlerName and writes one summary line for the update.
func handleWithSummary(c tele.Context, handlerName string, start time.Time, statusOverride string, fn func() error, extras ...slog.Attr) error {
	tghelpers.WithHandler(c, handlerName)
	err := fn()
	logHandlerSummary(c, handlerName, start, statusOverride, err, extras...)
	return err
}

func logHandlerSummary(c tele.Context, handlerName string, start time.Time, statusOverride string, err error, extras ...slog.Attr) {
	sum := summary{handler: handlerName, status: statusOverride, err: err, took: logger.Took(start)}
	sum.messages, sum.kb = middleware.GetCounters(c)

	lvl := slog.LevelInfo
	if err != nil {
		lvl = slog.LevelWarn
	}
	logger.LogEvent(tghelpers.WithHandler(c, handlerName), logger.TG, lvl, "handler.handled",
		append(sum.attrs(), extras...)...)
}

// summary is the per-update record behind "handler.handled".
type summary struct {
	handler  string
	status   string
	messages int
	kb       bool
	took     time.Duration
	err      error
}

func (s summary) attrs() []slog.Attr {
	status, outcome := s.status, "ok"
	if status == "" {
		status = logger.Status(s.err)
	}
	if s.err != nil {
		outcome = "fail"
	}
	out := make([]slog.Attr, 0, 8)
	out = append(out,
		slog.String("status", status),
		slog.String("handler", s.handler),
		slog.String("outcome", outcome),
		slog.Int("messages", s.messages),
		slog.Bool("kb", s.kb),
		slog.Duration("duration", s.took),
	)
	if s.err != nil {
		out = append(out,
			slog.String("err", logger.SanitizeLimit(s.err.Error(), 256)),
			slog.String("err_code", deriveErrorCode(s.err)),
		)
	}
	return out
}

// normalizeHandlerName turns "/List Events" into "list_events".
func normalizeHandlerName(name string) string {
	name = strings.TrimPrefix(strings.TrimSpace(name), "/")
	if name == "" {
		return "unknown"
	}
	return strings.ToLower(strings.Join(strings.Fields(name), "_"))
}

// deriveErrorCode prefers a Code() method anywhere in the chain, then the
// concrete type name of the outermost error.
func deriveErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var c interface{ Code() string }
	if errors.As(err, &c) {
		if code := strings.TrimSpace(c.Code()); code != "" {
			return strings.ToUpper(strings.ReplaceAll(code, " ", "_"))
		}
	}
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t != nil && t.Name() != "" {
		return strings.ToUpper(t.Name())
	}
	return "UNKNOWN_ERROR"
}
