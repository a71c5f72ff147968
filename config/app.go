package config

import (
	"fmt"

	"github.com/kbukum/longreader/audio"
	"github.com/kbukum/longreader/logger"
	"github.com/kbukum/longreader/longread"
	"github.com/kbukum/longreader/observability"
	"github.com/kbukum/longreader/rewrite"
	"github.com/kbukum/longreader/server"
	"github.com/kbukum/longreader/speech"
	"github.com/kbukum/longreader/validation"
)

// ServiceName is the name used to locate config.yml and .env files.
const ServiceName = "longreader"

// Config is the complete application configuration.
type Config struct {
	Base          BaseConfig           `yaml:"base" mapstructure:"base"`
	Logging       logger.Config        `yaml:"logging" mapstructure:"logging"`
	Rewrite       rewrite.Config       `yaml:"rewrite" mapstructure:"rewrite"`
	Speech        speech.Config        `yaml:"speech" mapstructure:"speech"`
	Stretch       audio.StretchConfig  `yaml:"stretch" mapstructure:"stretch"`
	Pipeline      longread.Config      `yaml:"pipeline" mapstructure:"pipeline"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills every section's zero values.
func (c *Config) ApplyDefaults() {
	c.Base.ApplyDefaults()
	c.Logging.ApplyDefaults()
	c.Rewrite.ApplyDefaults()
	c.Speech.ApplyDefaults()
	c.Stretch.ApplyDefaults()
	c.Pipeline.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Observability.ApplyDefaults()
	if c.Observability.ServiceName == "" || c.Observability.ServiceName == ServiceName {
		c.Observability.ServiceName = c.Base.Name
	}
	if c.Base.Version != "" {
		c.Observability.ServiceVersion = c.Base.Version
	}
}

// Validate checks every section. Struct tag rules run first so that all
// field errors are reported together.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Base.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	return nil
}

// Load reads config.yml, .env and the environment into a Config, applies
// defaults and validates the result. API keys are also read from their
// vendor variable names (ANTHROPIC_API_KEY, OPENAI_API_KEY).
func Load(opts ...LoaderOption) (*Config, error) {
	opts = append([]LoaderOption{
		WithEnvAlias("rewrite.api_key", "ANTHROPIC_API_KEY"),
		WithEnvAlias("speech.api_key", "OPENAI_API_KEY"),
	}, opts...)

	var cfg Config
	if err := LoadConfig(ServiceName, &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
