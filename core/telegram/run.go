package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	coreconfig "github.com/m3rciful/skeddybot/core/config"
	"github.com/m3rciful/skeddybot/core/logger"
	tghelpers "github.com/m3rciful/skeddybot/core/telegram/helpers"
	"github.com/m3rciful/skeddybot/core/telegram/netutil"
	tgsender "github.com/m3rciful/skeddybot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// Middleware describes a global bot middleware to be registered via bot.Use.
type Middleware struct {
	Name string
	Use  tele.MiddlewareFunc
}

// Route declares a single bot handler bound to an arbitrary endpoint.
// Endpoint values are passed directly to tele.Bot.Handle.
type Route struct {
	Endpoint any
	Handler  tele.HandlerFunc
}

// RunOptions controls the behaviour of RunTelegram.
type RunOptions struct {
	Config   *coreconfig.Config
	Registry *Registry

	DispatcherOptions tgsender.Options
	// DisableDispatcher makes helpers send synchronously from the handler goroutine.
	DisableDispatcher bool

	Middlewares []Middleware
	Routes      []Route

	DisableWebhookCleanup bool

	// NewBot replaces tele.NewBot, mainly for tests.
	NewBot func(tele.Settings) (Bot, error)

	OnStart func(ctx context.Context, rt Runtime) error
	OnStop  func(ctx context.Context, rt Runtime) error
}

// Bot is the subset of *tele.Bot the lifecycle depends on.
type Bot interface {
	CommandMenuSetter
	Use(middleware ...tele.MiddlewareFunc)
	Handle(endpoint interface{}, h tele.HandlerFunc, m ...tele.MiddlewareFunc)
	RemoveWebhook(dropPending ...bool) error
	Start()
	Stop()
}

// Runtime exposes runtime components to lifecycle hooks.
type Runtime struct {
	Bot        Bot
	Me         *tele.User
	Dispatcher *tgsender.Dispatcher
	Registry   *Registry
}

// RunTelegram builds the bot, wires middlewares and routes, and receives
// updates until ctx is cancelled. Handlers already running are not interrupted;
// queued outbound messages are drained before it returns.
func RunTelegram(ctx context.Context, opts RunOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Config == nil {
		return errors.New("telegram: nil config provided")
	}
	cfg := opts.Config
	reg := opts.Registry
	if reg == nil {
		reg = NewRegistry()
	}

	pollerOpts := PollerOptionsFrom(cfg)
	poller := BuildPoller(pollerOpts)
	settings := tele.Settings{
		Token:   cfg.Telegram.Token,
		Poller:  poller,
		Client:  BuildHTTPClient(time.Duration(pollerOpts.LongPollTimeoutSeconds) * time.Second),
		OnError: onError,
	}

	newBot := opts.NewBot
	if newBot == nil {
		newBot = func(s tele.Settings) (Bot, error) { return tele.NewBot(s) }
	}
	buildStart := time.Now()
	bot, err := newBot(settings)
	if err != nil {
		return fmt.Errorf("telegram: bot initialization failed: %w", err)
	}
	me := botIdentity(bot)
	logIdentity(ctx, me, poller, logger.Took(buildStart))

	if _, ok := poller.(*tele.LongPoller); ok && !opts.DisableWebhookCleanup {
		// a webhook left over from an earlier deployment blocks getUpdates
		if err := bot.RemoveWebhook(false); err != nil {
			logger.TG.LogAttrs(ctx, slog.LevelWarn, "delete_webhook", slog.String("status", "fail"), logger.Err(err))
		}
	}

	var dispatcher *tgsender.Dispatcher
	if !opts.DisableDispatcher {
		dispatcher = tgsender.NewDispatcher(opts.DispatcherOptions)
		tghelpers.SetDispatcher(dispatcher)
	}
	shutdownDispatcher := func() {
		if dispatcher != nil {
			tghelpers.SetDispatcher(nil)
			dispatcher.Close()
		}
	}

	for _, mw := range opts.Middlewares {
		if mw.Use != nil {
			bot.Use(mw.Use)
		}
	}
	for _, route := range opts.Routes {
		if route.Endpoint != nil && route.Handler != nil {
			bot.Handle(route.Endpoint, route.Handler)
		}
	}
	if err := SetupCommands(bot, reg); err != nil {
		// the menu is cosmetic; commands keep working without it
		logger.TG.LogAttrs(ctx, slog.LevelWarn, "commands.menu", slog.String("status", "skip"))
	}

	rt := Runtime{Bot: bot, Me: me, Dispatcher: dispatcher, Registry: reg}
	if opts.OnStart != nil {
		if err := opts.OnStart(ctx, rt); err != nil {
			shutdownDispatcher()
			return err
		}
	}

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		bot.Start()
	}()

	select {
	case <-ctx.Done():
		bot.Stop()
		<-runDone
	case <-runDone:
	}

	var stopErr error
	if opts.OnStop != nil {
		stopErr = opts.OnStop(context.WithoutCancel(ctx), rt)
	}
	shutdownDispatcher()
	return stopErr
}

func botIdentity(bot Bot) *tele.User {
	if b, ok := bot.(*tele.Bot); ok {
		return b.Me
	}
	if m, ok := bot.(interface{ Identity() *tele.User }); ok {
		return m.Identity()
	}
	return nil
}

func logIdentity(ctx context.Context, me *tele.User, poller tele.Poller, took time.Duration) {
	attrs := []slog.Attr{slog.String("status", "ok"), slog.Duration("duration", took)}
	if me != nil {
		attrs = append(attrs,
			slog.Int64("bot_id", me.ID),
			slog.String("username", me.Username),
			slog.String("first_name", me.FirstName),
		)
	}
	switch p := poller.(type) {
	case *tele.Webhook:
		attrs = append(attrs,
			slog.String("mode", coreconfig.RunModeWebhook),
			slog.String("listen", p.Listen),
			slog.String("public_url", p.Endpoint.PublicURL),
		)
	case *tele.LongPoller:
		attrs = append(attrs,
			slog.String("mode", coreconfig.RunModeLongpoll),
			slog.Duration("poll_timeout", p.Timeout),
		)
	}
	logger.LogEvent(ctx, logger.TG, slog.LevelInfo, "bot.identity", attrs...)
}

// onError receives errors telebot could not hand back to a caller, such as a
// failed getUpdates or an error returned by a handler. They are logged and
// the receive loop keeps going.
func onError(err error, c tele.Context) {
	ctx := context.Background()
	if c != nil {
		ctx = tghelpers.BuildContext(c)
	}
	lvl := slog.LevelError
	kind := "internal"
	switch {
	case netutil.IsAPIError(err):
		kind = "api"
	case netutil.ShouldRetry(err):
		kind = "network"
		lvl = slog.LevelWarn
	}
	logger.LogEvent(ctx, logger.TG, lvl, "tg.error",
		slog.String("status", "fail"),
		slog.String("cause", kind),
		logger.Err(err),
	)
}
