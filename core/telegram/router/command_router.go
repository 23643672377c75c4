package router

import (
	"context"
	"log/slog"
	"time"

	"github.com/m3rciful/skeddybot/core/logger"
	tg "github.com/m3rciful/skeddybot/core/telegram"
	"github.com/m3rciful/skeddybot/core/telegram/commands"
	"github.com/m3rciful/skeddybot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CommandRouteOptions configures how commands are wrapped and exposed.
type CommandRouteOptions struct {
	AdminID       int64
	OnAdminReject tele.HandlerFunc
}

// CommandRoutes binds every registered command and its aliases to a handler
// that enforces admin-only access and logs a summary line.
func CommandRoutes(reg *tg.Registry, opts CommandRouteOptions) []tg.Route {
	if reg == nil {
		return nil
	}

	cmds := reg.Commands()
	routes := make([]tg.Route, 0, len(cmds))
	for name, def := range cmds {
		h := commandHandler(name, def, opts)
		routes = append(routes, tg.Route{Endpoint: name, Handler: h})
		for _, alias := range def.Aliases {
			if alias == "" {
				continue
			}
			if alias[0] != '/' {
				alias = "/" + alias
			}
			routes = append(routes, tg.Route{Endpoint: alias, Handler: h})
		}
	}

	logger.TWire.LogAttrs(context.Background(), slog.LevelInfo, "wire.complete",
		slog.String("status", "ok"),
		slog.Int("commands", len(cmds)),
		slog.Int("callbacks", len(reg.ListCallbacks())),
	)
	return routes
}

func commandHandler(name string, def commands.Command, opts CommandRouteOptions) tele.HandlerFunc {
	h := def.Handler
	if def.AdminOnly {
		h = middleware.AdminOnlyMiddleware(middleware.AdminOptions{
			AdminID:  opts.AdminID,
			OnReject: opts.OnAdminReject,
		})(h)
	}
	handlerName := "cmd." + normalizeHandlerName(name)
	return func(c tele.Context) error {
		return handleWithSummary(c, handlerName, time.Now(), "", func() error {
			return h(c)
		})
	}
}
