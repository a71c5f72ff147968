package speech

import "time"

// Defaults for the speech stage.
const (
	DefaultBaseURL       = "https://api.openai.com/v1"
	DefaultModel         = "tts-1-hd"
	DefaultVoice         = "alloy"
	DefaultMaxInputChars = 4096
	DefaultTimeout       = 120 * time.Second
)

// Config configures the speech synthesis client.
type Config struct {
	BaseURL       string        `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`
	APIKey        string        `yaml:"api_key" mapstructure:"api_key"`
	Model         string        `yaml:"model" mapstructure:"model" validate:"required"`
	Voice         string        `yaml:"voice" mapstructure:"voice" validate:"voice"`
	MaxInputChars int           `yaml:"max_input_chars" mapstructure:"max_input_chars" validate:"gt=0"`
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Voice == "" {
		c.Voice = DefaultVoice
	}
	if c.MaxInputChars == 0 {
		c.MaxInputChars = DefaultMaxInputChars
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
}
