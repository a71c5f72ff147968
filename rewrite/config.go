package rewrite

import "time"

// Defaults for the rewrite stage.
const (
	DefaultBaseURL       = "https://api.anthropic.com/v1"
	DefaultModel         = "claude-sonnet-4-5"
	DefaultMaxTokens     = 8192
	DefaultTemperature   = 0.1
	DefaultMaxInputChars = 4096
	DefaultTimeout       = 60 * time.Second
)

// Config configures the rewrite client. The endpoint must speak the OpenAI
// chat completions protocol with function tools.
type Config struct {
	BaseURL       string        `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`
	APIKey        string        `yaml:"api_key" mapstructure:"api_key"`
	Model         string        `yaml:"model" mapstructure:"model" validate:"required"`
	MaxTokens     int           `yaml:"max_tokens" mapstructure:"max_tokens" validate:"gt=0"`
	Temperature   float32       `yaml:"temperature" mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxInputChars int           `yaml:"max_input_chars" mapstructure:"max_input_chars" validate:"gt=0"`
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`
}

// ApplyDefaults fills zero values. A zero temperature is replaced too; set a
// small positive value to get near-deterministic output.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	}
	if c.MaxInputChars == 0 {
		c.MaxInputChars = DefaultMaxInputChars
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
}
