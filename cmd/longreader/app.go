package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/kbukum/longreader/audio"
	"github.com/kbukum/longreader/config"
	"github.com/kbukum/longreader/errors"
	"github.com/kbukum/longreader/logger"
	"github.com/kbukum/longreader/longread"
	"github.com/kbukum/longreader/observability"
	"github.com/kbukum/longreader/rewrite"
	"github.com/kbukum/longreader/speech"
)

// app holds what every command needs once configuration is loaded.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	metrics  *observability.Metrics
	shutdown observability.ShutdownFunc
}

// setup loads configuration, builds the logger and starts telemetry export.
func setup(ctx context.Context) (*app, error) {
	opts := []config.LoaderOption{}
	if rootFlags.configFile != "" {
		opts = append(opts, config.WithConfigFile(rootFlags.configFile))
	}
	if rootFlags.envFile != "" {
		opts = append(opts, config.WithEnvFile(rootFlags.envFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, err
	}

	tty := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	applyLogFlags(&cfg.Logging, rootFlags.logLevel, rootFlags.logFormat, tty)
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	log := logger.New(&cfg.Logging, cfg.Base.Name)
	logger.SetGlobalLogger(log)

	shutdown, err := observability.Setup(ctx, cfg.Observability)
	if err != nil {
		return nil, fmt.Errorf("starting telemetry: %w", err)
	}
	a := &app{cfg: cfg, log: log, shutdown: shutdown}
	if cfg.Observability.Enabled {
		m, err := observability.NewMetrics(observability.Meter(cfg.Base.Name))
		if err != nil {
			_ = shutdown(ctx)
			return nil, err
		}
		a.metrics = m
	}
	return a, nil
}

// applyLogFlags lets command-line flags override the logging config. Without
// an explicit format, output that is not a terminal gets JSON lines.
func applyLogFlags(cfg *logger.Config, level, format string, tty bool) {
	if level != "" {
		cfg.Level = level
	}
	switch {
	case format != "":
		cfg.Format = format
	case !tty:
		cfg.Format = logger.FormatJSON
	}
	if !tty {
		cfg.NoColor = true
	}
}

func (a *app) close(ctx context.Context) {
	if err := a.shutdown(ctx); err != nil {
		a.log.Warn("telemetry shutdown failed", logger.ErrorFields("telemetry_shutdown", err))
	}
}

// stages builds the rewrite, speech and stretch stages from configuration.
func (a *app) stages() (longread.Stages, error) {
	stretch, err := audio.NewStretcher(a.cfg.Stretch)
	if err != nil {
		return longread.Stages{}, err
	}
	return longread.Stages{
		Rewrite: rewrite.New(a.cfg.Rewrite),
		Speech:  speech.New(a.cfg.Speech),
		Stretch: stretch,
	}, nil
}

// checkStages fails fast when a stage cannot run: a missing API key or a
// missing ffmpeg binary.
func checkStages(ctx context.Context, s longread.Stages, ffmpeg string) error {
	if !s.Rewrite.IsAvailable(ctx) {
		return errors.MissingField("rewrite.api_key (ANTHROPIC_API_KEY)")
	}
	if !s.Speech.IsAvailable(ctx) {
		return errors.MissingField("speech.api_key (OPENAI_API_KEY)")
	}
	if !s.Stretch.IsAvailable(ctx) {
		return fmt.Errorf("ffmpeg not found at %q; install it or set stretch.ffmpeg_path", ffmpeg)
	}
	return nil
}

// orchestrator builds the pipeline. With strict set, a stage that cannot run
// is an error; otherwise it is only logged and shows up in health checks.
func (a *app) orchestrator(ctx context.Context, strict bool) (*longread.Orchestrator, error) {
	stages, err := a.stages()
	if err != nil {
		return nil, err
	}
	if err := checkStages(ctx, stages, a.cfg.Stretch.FFmpegPath); err != nil {
		if strict {
			return nil, err
		}
		a.log.Warn("stage unavailable", logger.ErrorFields("stage_check", err))
	}
	opts := []longread.Option{longread.WithLogger(a.log)}
	if a.metrics != nil {
		opts = append(opts, longread.WithMetrics(a.metrics))
	}
	pipeline := a.cfg.Pipeline
	pipeline.SampleRate = a.cfg.Stretch.SampleRate
	return longread.New(pipeline, stages, opts...)
}
