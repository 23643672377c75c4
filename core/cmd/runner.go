package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	coreconfig "github.com/m3rciful/skeddybot/core/config"
	"github.com/m3rciful/skeddybot/core/logger"
	coretelegram "github.com/m3rciful/skeddybot/core/telegram"
)

const (
	defaultConfigEnv  = "CONFIG_PATH"
	defaultConfigPath = "config.yaml"
)

// ConfigCarrier exposes access to the embedded core configuration.
type ConfigCarrier interface {
	CoreConfig() *coreconfig.Config
}

// TelegramApp is the minimal interface required to run a Telegram bot.
type TelegramApp interface {
	TelegramRunOptions() (coretelegram.RunOptions, error)
}

// Options describe how to load configuration, bootstrap the app, and run the bot.
type Options struct {
	// ConfigEnvVar names the variable holding the config path. Defaults to CONFIG_PATH.
	ConfigEnvVar string
	// DefaultConfigPath is used when the variable is unset. Defaults to config.yaml.
	DefaultConfigPath string

	LoadConfig func(path string) (ConfigCarrier, error)
	Bootstrap  func(cfg ConfigCarrier) (TelegramApp, error)

	ShutdownLogger func() error
	RunTelegram    func(ctx context.Context, opts coretelegram.RunOptions) error
	// Signals overrides the shutdown signals, mainly for tests.
	Signals []os.Signal
}

// ConfigPath resolves the configuration file path from the environment.
func (o Options) ConfigPath() string {
	env := o.ConfigEnvVar
	if env == "" {
		env = defaultConfigEnv
	}
	if p := os.Getenv(env); p != "" {
		return p
	}
	if o.DefaultConfigPath != "" {
		return o.DefaultConfigPath
	}
	return defaultConfigPath
}

// Run loads configuration, bootstraps the Telegram app, and runs the bot until
// one of the shutdown signals arrives.
func Run(opts Options) error {
	shutdownLogger := opts.ShutdownLogger
	if shutdownLogger == nil {
		shutdownLogger = logger.Shutdown
	}
	defer func() {
		if err := shutdownLogger(); err != nil {
			log.Printf("logger shutdown: %v", err)
		}
	}()

	runOpts, err := prepare(opts)
	if err != nil {
		return err
	}

	announceLifecycle(&runOpts, time.Now())

	ctx, cancel := signal.NotifyContext(context.Background(), opts.signals()...)
	defer cancel()

	run := opts.RunTelegram
	if run == nil {
		run = coretelegram.RunTelegram
	}
	return run(ctx, runOpts)
}

// prepare runs every step that can fail before the bot exists: config,
// bootstrap and run options.
func prepare(opts Options) (coretelegram.RunOptions, error) {
	var none coretelegram.RunOptions
	switch {
	case opts.LoadConfig == nil:
		return none, errors.New("cmd: LoadConfig is required")
	case opts.Bootstrap == nil:
		return none, errors.New("cmd: Bootstrap is required")
	}

	path := opts.ConfigPath()
	log.Printf("config: %s", path)
	carrier, err := opts.LoadConfig(path)
	if err != nil {
		return none, fmt.Errorf("cmd: load config %s: %w", path, err)
	}
	if carrier == nil || carrier.CoreConfig() == nil {
		return none, errors.New("cmd: config carrier has no core section")
	}

	tgApp, err := opts.Bootstrap(carrier)
	if err != nil {
		return none, fmt.Errorf("cmd: bootstrap: %w", err)
	}
	runOpts, err := tgApp.TelegramRunOptions()
	if err != nil {
		return none, fmt.Errorf("cmd: telegram options: %w", err)
	}
	return runOpts, nil
}

// announceLifecycle chains "ready" after the app's OnStart and "shutdown"
// before its OnStop.
func announceLifecycle(runOpts *coretelegram.RunOptions, startedAt time.Time) {
	appStart, appStop := runOpts.OnStart, runOpts.OnStop

	runOpts.OnStart = func(ctx context.Context, rt coretelegram.Runtime) error {
		if appStart != nil {
			if err := appStart(ctx, rt); err != nil {
				return err
			}
		}
		logger.Info(ctx, "app", "ready",
			slog.String("status", "ok"),
			slog.Duration("startup", logger.RoundMS(time.Since(startedAt))),
		)
		return nil
	}
	runOpts.OnStop = func(ctx context.Context, rt coretelegram.Runtime) error {
		logger.Info(ctx, "app", "shutdown")
		if appStop == nil {
			return nil
		}
		return appStop(ctx, rt)
	}
}

func (o Options) signals() []os.Signal {
	if len(o.Signals) > 0 {
		return o.Signals
	}
	return []os.Signal{os.Interrupt, syscall.SIGTERM}
}
