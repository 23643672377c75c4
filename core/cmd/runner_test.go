package cmd

import (
	"context"
	"errors"
	"testing"

	coreconfig "github.com/m3rciful/skeddybot/core/config"
	coretelegram "github.com/m3rciful/skeddybot/core/telegram"
)

type carrier struct{ cfg *coreconfig.Config }

func (c carrier) CoreConfig() *coreconfig.Config { return c.cfg }

type app struct{}

func (app) TelegramRunOptions() (coretelegram.RunOptions, error) {
	return coretelegram.RunOptions{}, nil
}

func TestConfigPathResolution(t *testing.T) {
	t.Setenv("SKEDDY_TEST_CONFIG", "")
	o := Options{ConfigEnvVar: "SKEDDY_TEST_CONFIG"}
	if got := o.ConfigPath(); got != "config.yaml" {
		t.Fatalf("default path = %q", got)
	}
	o.DefaultConfigPath = "bot.yaml"
	if got := o.ConfigPath(); got != "bot.yaml" {
		t.Fatalf("explicit default = %q", got)
	}
	t.Setenv("SKEDDY_TEST_CONFIG", "/etc/skeddy.yaml")
	if got := o.ConfigPath(); got != "/etc/skeddy.yaml" {
		t.Fatalf("env path = %q", got)
	}
}

func TestRunStopsOnLoadError(t *testing.T) {
	err := Run(Options{
		LoadConfig: func(string) (ConfigCarrier, error) { return nil, errors.New("missing token") },
		Bootstrap:  func(ConfigCarrier) (TelegramApp, error) { t.Fatal("bootstrap must not run"); return nil, nil },
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestRunWrapsHooks(t *testing.T) {
	var started, stopped, shutdown bool
	err := Run(Options{
		LoadConfig: func(string) (ConfigCarrier, error) { return carrier{cfg: &coreconfig.Config{}}, nil },
		Bootstrap:  func(ConfigCarrier) (TelegramApp, error) { return app{}, nil },
		ShutdownLogger: func() error {
			shutdown = true
			return nil
		},
		RunTelegram: func(ctx context.Context, opts coretelegram.RunOptions) error {
			if err := opts.OnStart(ctx, coretelegram.Runtime{}); err != nil {
				return err
			}
			started = true
			if err := opts.OnStop(ctx, coretelegram.Runtime{}); err != nil {
				return err
			}
			stopped = true
			return nil
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !started || !stopped || !shutdown {
		t.Fatalf("started=%v stopped=%v shutdown=%v", started, stopped, shutdown)
	}
}
