package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot settings.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	AdminID int64  `yaml:"admin_id" envconfig:"TELEGRAM_ADMIN_ID"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings. URL is ignored in longpoll mode.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format      string `yaml:"format" envconfig:"LOG_FORMAT"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample"`
	Dir         string `yaml:"dir" envconfig:"LOG_DIR"`
	File        string `yaml:"file" envconfig:"LOG_FILE"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile" envconfig:"LOG_PROFILE"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

const (
	// UpdateCallback identifies callback updates for rate limit exclusions.
	UpdateCallback = "callback"
	// UpdateMessage identifies message updates for rate limit exclusions.
	UpdateMessage = "message"
)

// RateLimitConfig holds settings for per-user rate limiting.
// ExcludeUpdates accepts "callback" and "message".
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

// SenderConfig tunes the asynchronous outbound dispatcher.
type SenderConfig struct {
	Disabled       bool `yaml:"disabled" envconfig:"SENDER_DISABLED"`
	QueueSize      int  `yaml:"queue_size" envconfig:"SENDER_QUEUE_SIZE"`
	Workers        int  `yaml:"workers" envconfig:"SENDER_WORKERS"`
	MaxRetries     int  `yaml:"max_retries" envconfig:"SENDER_MAX_RETRIES"`
	RetryBackoffMS int  `yaml:"retry_backoff_ms" envconfig:"SENDER_RETRY_BACKOFF_MS"`
}

// RemindersConfig controls the reminder store and schedule parsing.
type RemindersConfig struct {
	// Timezone is used for schedule input without an explicit offset.
	Timezone   string `yaml:"timezone" envconfig:"REMINDERS_TIMEZONE"`
	MaxPerUser int    `yaml:"max_per_user" envconfig:"REMINDERS_MAX_PER_USER"`
	// PruneSchedule is a cron spec. An absent key means "@hourly"; an explicit
	// empty value, "-" or "off" disables pruning.
	PruneSchedule string        `yaml:"prune_schedule" envconfig:"REMINDERS_PRUNE_SCHEDULE"`
	PruneAfter    time.Duration `yaml:"prune_after" envconfig:"REMINDERS_PRUNE_AFTER"`

	location *time.Location
}

// Location returns the resolved time zone; valid after Normalize.
func (r RemindersConfig) Location() *time.Location {
	if r.location == nil {
		return time.UTC
	}
	return r.location
}

const (
	defaultTimezone      = "UTC"
	defaultMaxPerUser    = 50
	defaultPruneSchedule = "@hourly"
	defaultPruneAfter    = 7 * 24 * time.Hour
)

// Config aggregates the whole bot configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Sender    SenderConfig    `yaml:"sender"`
	Reminders RemindersConfig `yaml:"reminders"`

	// set only to distinguish an explicit zero value from an absent key
	maxPerUserSet    bool
	pruneScheduleSet bool
}

// UnmarshalYAML records whether reminders.max_per_user and
// reminders.prune_schedule were given explicitly.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	type plain Config
	var raw plain
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*c = Config(raw)
	c.maxPerUserSet = hasKey(node, "reminders", "max_per_user")
	c.pruneScheduleSet = hasKey(node, "reminders", "prune_schedule")
	return nil
}

func hasKey(node *yaml.Node, path ...string) bool {
	if node == nil || len(path) == 0 {
		return node != nil
	}
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == path[0] {
			return hasKey(node.Content[i+1], path[1:]...)
		}
	}
	return false
}

// Load reads configuration from a YAML file and environment variables.
// A missing file is tolerated; the environment alone may carry the settings.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if _, ok := os.LookupEnv("REMINDERS_MAX_PER_USER"); ok {
		cfg.maxPerUserSet = true
	}
	if _, ok := os.LookupEnv("REMINDERS_PRUNE_SCHEDULE"); ok {
		cfg.pruneScheduleSet = true
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs validation of required fields and fills defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	cfg.Telegram.Token = strings.TrimSpace(cfg.Telegram.Token)
	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" || rm == "polling" {
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	for i, v := range cfg.RateLimit.ExcludeUpdates {
		key := strings.ToLower(strings.TrimSpace(v))
		switch key {
		case "", UpdateCallback, UpdateMessage:
		default:
			return fmt.Errorf("invalid rate_limit.exclude_updates value %q; allowed: callback, message", v)
		}
		cfg.RateLimit.ExcludeUpdates[i] = key
	}

	return normalizeReminders(cfg)
}

func normalizeReminders(cfg *Config) error {
	r := &cfg.Reminders

	tz := strings.TrimSpace(r.Timezone)
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("invalid reminders.timezone %q: %w", r.Timezone, err)
	}
	r.Timezone = tz
	r.location = loc

	if r.MaxPerUser < 0 {
		return fmt.Errorf("reminders.max_per_user must be >= 0")
	}
	if r.MaxPerUser == 0 && !cfg.maxPerUserSet {
		r.MaxPerUser = defaultMaxPerUser
	}

	r.PruneSchedule = strings.TrimSpace(r.PruneSchedule)
	switch {
	case r.PruneSchedule == "-" || strings.EqualFold(r.PruneSchedule, "off"):
		r.PruneSchedule = ""
	case r.PruneSchedule == "" && !cfg.pruneScheduleSet:
		r.PruneSchedule = defaultPruneSchedule
	}
	if r.PruneSchedule != "" {
		if _, err := cron.ParseStandard(r.PruneSchedule); err != nil {
			return fmt.Errorf("invalid reminders.prune_schedule %q: %w", r.PruneSchedule, err)
		}
	}
	if r.PruneAfter < 0 {
		return fmt.Errorf("reminders.prune_after must be >= 0")
	}
	if r.PruneAfter == 0 {
		r.PruneAfter = defaultPruneAfter
	}
	return nil
}
