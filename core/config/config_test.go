package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestNormalizeRequiresToken(t *testing.T) {
	cfg := &Config{}
	err := Normalize(cfg)
	if err == nil || !strings.Contains(err.Error(), "token") {
		t.Fatalf("expected token error, got %v", err)
	}

	cfg.Telegram.Token = "   "
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected whitespace token to be rejected")
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := &Config{Telegram: TelegramConfig{Token: "123:abc", RunMode: "polling"}}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run mode = %q", cfg.Telegram.RunMode)
	}
	if cfg.Reminders.Timezone != "UTC" || cfg.Reminders.Location() != time.UTC {
		t.Fatalf("timezone = %q", cfg.Reminders.Timezone)
	}
	if cfg.Reminders.MaxPerUser != defaultMaxPerUser {
		t.Fatalf("max per user = %d", cfg.Reminders.MaxPerUser)
	}
	if cfg.Reminders.PruneSchedule != defaultPruneSchedule {
		t.Fatalf("prune schedule = %q", cfg.Reminders.PruneSchedule)
	}
	if cfg.Reminders.PruneAfter != defaultPruneAfter {
		t.Fatalf("prune after = %v", cfg.Reminders.PruneAfter)
	}
}

func TestNormalizeRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{"run mode", Config{Telegram: TelegramConfig{Token: "t", RunMode: "carrier-pigeon"}}, "run_mode"},
		{"webhook url", Config{Telegram: TelegramConfig{Token: "t", RunMode: "webhook"}}, "webhook.url"},
		{"webhook port", Config{Telegram: TelegramConfig{Token: "t", RunMode: "webhook"}, Webhook: WebhookConfig{URL: "https://x"}}, "webhook.port"},
		{"timezone", Config{Telegram: TelegramConfig{Token: "t"}, Reminders: RemindersConfig{Timezone: "Mars/Olympus"}}, "timezone"},
		{"cap", Config{Telegram: TelegramConfig{Token: "t"}, Reminders: RemindersConfig{MaxPerUser: -1}}, "max_per_user"},
		{"exclude", Config{Telegram: TelegramConfig{Token: "t"}, RateLimit: RateLimitConfig{ExcludeUpdates: []string{"poll"}}}, "exclude_updates"},
		{"prune schedule", Config{Telegram: TelegramConfig{Token: "t"}, Reminders: RemindersConfig{PruneSchedule: "every tuesday"}}, "prune_schedule"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			err := Normalize(&cfg)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: from-file
  admin_id: 42
webhook:
  url: https://example.org/hook
reminders:
  timezone: Europe/Berlin
  max_per_user: 0
  prune_schedule: "off"
  prune_after: 48h
`)
	t.Setenv("BOT_TOKEN", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.Token != "from-env" {
		t.Fatalf("token = %q, env must win", cfg.Telegram.Token)
	}
	if cfg.Telegram.AdminID != 42 {
		t.Fatalf("admin id = %d", cfg.Telegram.AdminID)
	}
	if cfg.Webhook.URL != "https://example.org/hook" {
		t.Fatalf("webhook url = %q", cfg.Webhook.URL)
	}
	if cfg.Reminders.Location().String() != "Europe/Berlin" {
		t.Fatalf("location = %s", cfg.Reminders.Location())
	}
	if cfg.Reminders.MaxPerUser != 0 {
		t.Fatalf("explicit 0 must mean unlimited, got %d", cfg.Reminders.MaxPerUser)
	}
	if cfg.Reminders.PruneSchedule != "" {
		t.Fatalf("prune schedule = %q, want disabled", cfg.Reminders.PruneSchedule)
	}
	if cfg.Reminders.PruneAfter != 48*time.Hour {
		t.Fatalf("prune after = %v", cfg.Reminders.PruneAfter)
	}
}

func TestLoadWithoutFileUsesEnv(t *testing.T) {
	t.Setenv("BOT_TOKEN", "env-only")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.Token != "env-only" {
		t.Fatalf("token = %q", cfg.Telegram.Token)
	}
}

func TestLoadFailsFastWithoutToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	path := writeConfig(t, "logging:\n  level: debug\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected missing token to fail")
	}
}

func TestPruneScheduleExplicitEmptyDisables(t *testing.T) {
	t.Setenv("BOT_TOKEN", "t")
	cases := []struct {
		name string
		body string
		want string
	}{
		{"absent key", "reminders:\n  timezone: UTC\n", defaultPruneSchedule},
		{"explicit empty", "reminders:\n  prune_schedule: \"\"\n", ""},
		{"off", "reminders:\n  prune_schedule: \"off\"\n", ""},
		{"custom", "reminders:\n  prune_schedule: \"*/30 * * * *\"\n", "*/30 * * * *"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tc.body))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if cfg.Reminders.PruneSchedule != tc.want {
				t.Fatalf("prune schedule = %q, want %q", cfg.Reminders.PruneSchedule, tc.want)
			}
		})
	}
}

func TestPruneScheduleEmptyEnvDisables(t *testing.T) {
	t.Setenv("BOT_TOKEN", "t")
	t.Setenv("REMINDERS_PRUNE_SCHEDULE", "")
	cfg, err := Load(writeConfig(t, "reminders:\n  prune_schedule: \"@daily\"\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Reminders.PruneSchedule != "" {
		t.Fatalf("prune schedule = %q, want disabled", cfg.Reminders.PruneSchedule)
	}
}
