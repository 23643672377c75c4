package app

import (
	"context"
	"testing"
	"time"

	coreconfig "github.com/m3rciful/skeddybot/core/config"
	coretelegram "github.com/m3rciful/skeddybot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

func testConfig(t *testing.T) *coreconfig.Config {
	t.Helper()
	cfg := &coreconfig.Config{Telegram: coreconfig.TelegramConfig{Token: "123:abc"}}
	if err := coreconfig.Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	return cfg
}

func noLogger(*coreconfig.Config) error { return nil }

func TestRunOptionsWiring(t *testing.T) {
	a, err := New(testConfig(t), noLogger)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	opts, err := a.TelegramRunOptions()
	if err != nil {
		t.Fatalf("run options: %v", err)
	}

	endpoints := map[any]bool{}
	for _, r := range opts.Routes {
		endpoints[r.Endpoint] = true
	}
	for _, ep := range []any{"/add", "/list", "/delete", "/stats", "/ls", tele.OnText, tele.OnMedia, tele.OnCallback} {
		if !endpoints[ep] {
			t.Errorf("route %v missing", ep)
		}
	}
	if len(opts.Middlewares) == 0 || opts.Registry == nil {
		t.Fatal("middlewares or registry not wired")
	}

	if err := opts.OnStart(context.Background(), coretelegram.Runtime{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := opts.OnStop(context.Background(), coretelegram.Runtime{}); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestPruneJob(t *testing.T) {
	a, err := New(testConfig(t), noLogger)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	now := time.Date(2030, 1, 10, 0, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return now }

	a.store.StorePendingText(1, "stale")
	_, _ = a.store.CommitEvent(1, now.Add(-8*24*time.Hour))
	a.store.StorePendingText(1, "recent")
	_, _ = a.store.CommitEvent(1, now.Add(-time.Hour))

	if err := a.pruneJob().Run(context.Background()); err != nil {
		t.Fatalf("prune: %v", err)
	}
	list := a.store.ListEvents(1)
	if len(list) != 1 || list[0].Text != "recent" {
		t.Fatalf("events = %+v", list)
	}
}

func TestConfigCarrier(t *testing.T) {
	var nilCfg *Config
	if nilCfg.CoreConfig() != nil {
		t.Fatal("nil carrier must yield nil config")
	}
	cfg := testConfig(t)
	if (&Config{Config: cfg}).CoreConfig() != cfg {
		t.Fatal("carrier lost the core config")
	}
}
