package audio

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/kbukum/longreader/errors"
	"github.com/kbukum/longreader/process"
	"github.com/kbukum/longreader/provider"
)

// Stretch engines and filters.
const (
	EngineFFmpeg = "ffmpeg"
	EngineNone   = "none"

	FilterAtempo     = "atempo"
	FilterRubberband = "rubberband"
)

// Defaults for the stretch stage.
const (
	DefaultRate       = 1.43
	DefaultFFmpegPath = "ffmpeg"
	DefaultSampleRate = 24000
)

const stageName = "stretch"

// StretchConfig configures time-stretching.
type StretchConfig struct {
	Engine     string  `yaml:"engine" mapstructure:"engine" validate:"oneof=ffmpeg none"`
	Filter     string  `yaml:"filter" mapstructure:"filter" validate:"oneof=atempo rubberband"`
	Rate       float64 `yaml:"rate" mapstructure:"rate" validate:"gt=0,lte=100"`
	FFmpegPath string  `yaml:"ffmpeg_path" mapstructure:"ffmpeg_path" validate:"required"`
	SampleRate int     `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gt=0"`
}

// ApplyDefaults fills zero values.
func (c *StretchConfig) ApplyDefaults() {
	if c.Engine == "" {
		c.Engine = EngineFFmpeg
	}
	if c.Filter == "" {
		c.Filter = FilterAtempo
	}
	if c.Rate == 0 {
		c.Rate = DefaultRate
	}
	if c.FFmpegPath == "" {
		c.FFmpegPath = DefaultFFmpegPath
	}
	if c.SampleRate == 0 {
		c.SampleRate = DefaultSampleRate
	}
}

// Stretcher turns one chunk of 16-bit PCM into stretched samples.
type Stretcher = provider.RequestResponse[[]byte, []float32]

// NewStretcher returns the stretcher for cfg.Engine.
func NewStretcher(cfg StretchConfig) (Stretcher, error) {
	cfg.ApplyDefaults()
	switch cfg.Engine {
	case EngineFFmpeg:
		return NewFFmpegStretcher(cfg), nil
	case EngineNone:
		return Passthrough{}, nil
	default:
		return nil, errors.InvalidInput("stretch.engine", fmt.Sprintf("unknown engine %q", cfg.Engine))
	}
}

// FFmpegStretcher changes tempo without changing pitch by piping PCM
// through ffmpeg and reading back f32le.
type FFmpegStretcher struct {
	cfg StretchConfig
	run *process.SubprocessProvider[[]byte, []float32]
}

// NewFFmpegStretcher creates an ffmpeg-backed stretcher.
func NewFFmpegStretcher(cfg StretchConfig) *FFmpegStretcher {
	cfg.ApplyDefaults()
	s := &FFmpegStretcher{cfg: cfg}
	s.run = process.NewSubprocessProvider(stageName, s.command, func(r *process.Result) ([]float32, error) {
		return decodeFloat32(r.Stdout)
	}).WithAvailabilityCheck(func(context.Context) bool {
		return process.Available(cfg.FFmpegPath)
	})
	return s
}

func (s *FFmpegStretcher) Name() string                         { return stageName }
func (s *FFmpegStretcher) IsAvailable(ctx context.Context) bool { return s.run.IsAvailable(ctx) }

// Execute stretches pcm by the configured rate.
func (s *FFmpegStretcher) Execute(ctx context.Context, pcm []byte) ([]float32, error) {
	if len(pcm)%2 != 0 {
		return nil, errors.Encoding("decode", fmt.Errorf("%w: %d bytes", ErrOddLength, len(pcm)))
	}
	if len(pcm) == 0 {
		return []float32{}, nil
	}
	out, err := s.run.Execute(ctx, pcm)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Encoding(stageName, err)
	}
	return out, nil
}

// Filter returns the ffmpeg audio filter expression.
func (s *FFmpegStretcher) Filter() string {
	rate := strconv.FormatFloat(s.cfg.Rate, 'f', -1, 64)
	if s.cfg.Filter == FilterRubberband {
		return "rubberband=tempo=" + rate + ":transients=smooth"
	}
	return "atempo=" + rate
}

func (s *FFmpegStretcher) command(pcm []byte) process.Command {
	sr := strconv.Itoa(s.cfg.SampleRate)
	return process.Command{
		Binary: s.cfg.FFmpegPath,
		Args: []string{
			"-hide_banner", "-loglevel", "error",
			"-f", "s16le", "-ar", sr, "-ac", "1", "-i", "pipe:0",
			"-filter:a", s.Filter(),
			"-f", "f32le", "-ar", sr, "-ac", "1", "pipe:1",
		},
		Stdin: bytes.NewReader(pcm),
	}
}

// Passthrough decodes PCM without changing its tempo.
type Passthrough struct{}

func (Passthrough) Name() string                       { return stageName }
func (Passthrough) IsAvailable(_ context.Context) bool { return true }

func (Passthrough) Execute(_ context.Context, pcm []byte) ([]float32, error) {
	return DecodePCM16(pcm)
}
