package app

import (
	coreconfig "github.com/m3rciful/skeddybot/core/config"
	corecmd "github.com/m3rciful/skeddybot/core/cmd"
)

// Config is the bot configuration. The bot adds nothing on top of the core settings yet.
type Config struct {
	*coreconfig.Config
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return c.Config
}

// LoadConfig reads the YAML file at path with environment overrides.
func LoadConfig(path string) (corecmd.ConfigCarrier, error) {
	cfg, err := coreconfig.Load(path)
	if err != nil {
		return nil, err
	}
	return &Config{Config: cfg}, nil
}
