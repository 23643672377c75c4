// Package app wires the reminder dialogue into the Telegram runtime.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/m3rciful/skeddybot/bot/dialogue"
	"github.com/m3rciful/skeddybot/bot/reminders"
	"github.com/m3rciful/skeddybot/core/bootstrap"
	corecmd "github.com/m3rciful/skeddybot/core/cmd"
	coreconfig "github.com/m3rciful/skeddybot/core/config"
	"github.com/m3rciful/skeddybot/core/logger"
	coretelegram "github.com/m3rciful/skeddybot/core/telegram"
	"github.com/m3rciful/skeddybot/core/telegram/router"
	tgsender "github.com/m3rciful/skeddybot/core/telegram/sender"
)

const schedulerStopTimeout = 5 * time.Second

// App holds the wired bot components.
type App struct {
	cfg       *coreconfig.Config
	store     *reminders.Store
	ctrl      *dialogue.Controller
	registry  *coretelegram.Registry
	scheduler *bootstrap.Scheduler
	now       func() time.Time
}

// Bootstrap builds the store, the dialogue and the background jobs.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	return New(carrier.CoreConfig(), nil)
}

// New wires an App from cfg. A nil loggerInit uses the global structured logger.
func New(cfg *coreconfig.Config, loggerInit func(*coreconfig.Config) error) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}
	a := &App{
		cfg:   cfg,
		store: reminders.NewStore(reminders.WithMaxPerUser(cfg.Reminders.MaxPerUser)),
		now:   time.Now,
	}

	ctrl, err := dialogue.New(a.store, reminders.NewParser(cfg.Reminders.Location(), a.now), dialogue.Options{Now: a.now})
	if err != nil {
		return nil, err
	}
	a.ctrl = ctrl
	a.registry = coretelegram.NewRegistry()
	if err := ctrl.Register(a.registry); err != nil {
		return nil, err
	}

	res, err := bootstrap.Run(bootstrap.Options{
		Config:     cfg,
		LoggerInit: loggerInit,
		Jobs:       []bootstrap.Job{a.pruneJob()},
	})
	if err != nil {
		return nil, err
	}
	a.scheduler = res.Scheduler
	return a, nil
}

// pruneJob drops reminders that are more than PruneAfter past due.
func (a *App) pruneJob() bootstrap.Job {
	after := a.cfg.Reminders.PruneAfter
	return bootstrap.Job{
		Name: "reminders.prune",
		Spec: a.cfg.Reminders.PruneSchedule,
		Run: func(ctx context.Context) error {
			cutoff := a.now().Add(-after)
			removed := a.store.Prune(cutoff)
			users, events, _ := a.store.Stats()
			logger.Debug(ctx, "reminders", "prune",
				slog.String("status", "ok"),
				slog.Int("removed", removed),
				slog.Int("users", users),
				slog.Int("events", events),
			)
			return nil
		},
	}
}

// TelegramRunOptions assembles middlewares, routes and lifecycle hooks.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	mws, err := coretelegram.DefaultMiddlewares(a.cfg, a.ctrl.RateLimited())
	if err != nil {
		return coretelegram.RunOptions{}, err
	}

	cmdOpts := router.CommandRouteOptions{
		AdminID:       a.cfg.Telegram.AdminID,
		OnAdminReject: a.ctrl.AdminReject(),
	}
	routes := router.CommandRoutes(a.registry, cmdOpts)
	routes = append(routes, router.TextRoutes(a.ctrl.Machine(), a.registry, router.TextOptions{
		Commands:         cmdOpts,
		UnknownCommand:   a.ctrl.UnknownCommand(),
		UnknownText:      a.ctrl.UnknownText(),
		UnsupportedMedia: a.ctrl.UnsupportedMedia(),
	})...)
	routes = append(routes, router.CallbackRoute(a.registry, router.CallbackOptions{
		NotFound: a.ctrl.UnknownCallback(),
	}))

	s := a.cfg.Sender
	return coretelegram.RunOptions{
		Config:            a.cfg,
		Registry:          a.registry,
		DisableDispatcher: s.Disabled,
		DispatcherOptions: tgsender.Options{
			QueueSize:    s.QueueSize,
			Workers:      s.Workers,
			MaxRetries:   s.MaxRetries,
			RetryBackoff: time.Duration(s.RetryBackoffMS) * time.Millisecond,
		},
		Middlewares: mws,
		Routes:      routes,
		OnStart: func(context.Context, coretelegram.Runtime) error {
			a.scheduler.Start()
			return nil
		},
		OnStop: func(ctx context.Context, _ coretelegram.Runtime) error {
			ctx, cancel := context.WithTimeout(ctx, schedulerStopTimeout)
			defer cancel()
			return a.scheduler.Stop(ctx)
		},
	}, nil
}
