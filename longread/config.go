package longread

import "time"

// Defaults for the pipeline.
const (
	DefaultRewriteConcurrency = 3
	DefaultSpeechConcurrency  = 3
	DefaultSpawnInterval      = 250 * time.Millisecond
	DefaultMaxChunkChars      = 4096
	DefaultSampleRate         = 24000
)

// Config configures the orchestrator.
type Config struct {
	// RewriteConcurrency bounds in-flight rewrite calls.
	RewriteConcurrency int `yaml:"rewrite_concurrency" mapstructure:"rewrite_concurrency" validate:"gt=0"`
	// SpeechConcurrency bounds in-flight speech calls.
	SpeechConcurrency int `yaml:"speech_concurrency" mapstructure:"speech_concurrency" validate:"gt=0"`
	// SpawnInterval spaces producer starts. Negative disables pacing.
	SpawnInterval time.Duration `yaml:"spawn_interval" mapstructure:"spawn_interval"`
	// MaxChunkChars is the split size used by Read.
	MaxChunkChars int `yaml:"max_chunk_chars" mapstructure:"max_chunk_chars" validate:"gt=0"`
	// SampleRate is the rate of the samples the stretch stage produces.
	SampleRate int `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gt=0"`
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.RewriteConcurrency == 0 {
		c.RewriteConcurrency = DefaultRewriteConcurrency
	}
	if c.SpeechConcurrency == 0 {
		c.SpeechConcurrency = DefaultSpeechConcurrency
	}
	if c.SpawnInterval == 0 {
		c.SpawnInterval = DefaultSpawnInterval
	}
	if c.MaxChunkChars == 0 {
		c.MaxChunkChars = DefaultMaxChunkChars
	}
	if c.SampleRate == 0 {
		c.SampleRate = DefaultSampleRate
	}
}
