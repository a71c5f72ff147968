package longread

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kbukum/longreader/audio"
	"github.com/kbukum/longreader/dag"
	"github.com/kbukum/longreader/errors"
	"github.com/kbukum/longreader/logger"
	"github.com/kbukum/longreader/observability"
	"github.com/kbukum/longreader/provider"
	"github.com/kbukum/longreader/resilience"
	"github.com/kbukum/longreader/speech"
	"github.com/kbukum/longreader/textsplit"
)

const (
	chunkPrefix = "chunk"
	combinedKey = "combined"
	combineNode = "combine"
	spanPrefix  = "longread"
)

// ErrNoOutput is returned when the aggregator finished without emitting
// the combined audio.
var ErrNoOutput = stderrors.New("longread: aggregator produced no output")

// Stages are the external steps each chunk passes through.
type Stages struct {
	Rewrite provider.RequestResponse[string, string]
	Speech  provider.RequestResponse[speech.Request, []byte]
	Stretch audio.Stretcher
}

// Result is the output of one run.
type Result struct {
	RunID      string
	Samples    []float32
	SampleRate int
	Chunks     int
	// Duration is the wall time of the run.
	Duration time.Duration
}

// AudioSeconds returns the play time of the combined audio.
func (r *Result) AudioSeconds() float64 {
	return audio.Duration(len(r.Samples), r.SampleRate)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log *logger.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// WithMetrics records stage, gate and chunk metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// Orchestrator turns chunks of text into one combined audio buffer. Each
// chunk is rewritten, synthesized and stretched by its own producer; the
// results meet in a single aggregator node that orders them by index.
type Orchestrator struct {
	cfg     Config
	log     *logger.Logger
	metrics *observability.Metrics

	rewriteGate *resilience.Bulkhead
	speechGate  *resilience.Bulkhead

	rewrite provider.RequestResponse[string, string]
	speech  provider.RequestResponse[speech.Request, []byte]
	stretch audio.Stretcher
}

// New creates an orchestrator. The gates are shared by every run made with
// the returned value.
func New(cfg Config, stages Stages, opts ...Option) (*Orchestrator, error) {
	if stages.Rewrite == nil || stages.Speech == nil || stages.Stretch == nil {
		return nil, errors.Validation("longread: rewrite, speech and stretch stages are required")
	}
	cfg.ApplyDefaults()

	o := &Orchestrator{cfg: cfg, log: logger.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	o.log = o.log.WithComponent("longread")

	o.rewriteGate = o.newGate("rewrite", cfg.RewriteConcurrency)
	o.speechGate = o.newGate("speech", cfg.SpeechConcurrency)

	o.rewrite = provider.Chain(
		provider.WithBulkhead[string, string](o.rewriteGate),
		provider.WithLogging[string, string](o.log),
		provider.WithTracing[string, string](spanPrefix),
		provider.WithMetrics[string, string](o.metrics),
	)(stages.Rewrite)
	o.speech = provider.Chain(
		provider.WithBulkhead[speech.Request, []byte](o.speechGate),
		provider.WithLogging[speech.Request, []byte](o.log),
		provider.WithTracing[speech.Request, []byte](spanPrefix),
		provider.WithMetrics[speech.Request, []byte](o.metrics),
	)(stages.Speech)
	o.stretch = provider.Chain(
		provider.WithLogging[[]byte, []float32](o.log),
		provider.WithTracing[[]byte, []float32](spanPrefix),
		provider.WithMetrics[[]byte, []float32](o.metrics),
	)(stages.Stretch)

	return o, nil
}

func (o *Orchestrator) newGate(name string, limit int) *resilience.Bulkhead {
	cfg := resilience.DefaultBulkheadConfig(name)
	cfg.MaxConcurrent = limit
	if m := o.metrics; m != nil {
		cfg.OnAcquire = func(gate string) { m.RecordGate(context.Background(), gate, 1) }
		cfg.OnRelease = func(gate string) { m.RecordGate(context.Background(), gate, -1) }
	}
	return resilience.NewBulkhead(cfg)
}

// Gates returns the rewrite and speech gates.
func (o *Orchestrator) Gates() (rewriteGate, speechGate *resilience.Bulkhead) {
	return o.rewriteGate, o.speechGate
}

// HealthCheckers reports the availability of each stage.
func (o *Orchestrator) HealthCheckers() []observability.HealthChecker {
	return []observability.HealthChecker{
		provider.HealthCheck(o.rewrite),
		provider.HealthCheck(o.speech),
		provider.HealthCheck(o.stretch),
	}
}

// Read splits text into chunks and runs them.
func (o *Orchestrator) Read(ctx context.Context, text, voice string) (*Result, error) {
	return o.Run(ctx, textsplit.Split(text, o.cfg.MaxChunkChars), voice)
}

// Run processes chunks concurrently and returns their audio concatenated in
// chunk order. The first failure cancels every other task and is returned;
// no partial result is produced. Run returns only after all of its tasks
// have finished.
func (o *Orchestrator) Run(ctx context.Context, chunks []string, voice string) (*Result, error) {
	n := len(chunks)
	if n == 0 {
		return nil, errors.InvalidInput("text", "nothing to read")
	}

	runID := uuid.NewString()
	ctx = logger.WithRunID(ctx, runID)
	log := o.log.WithContext(ctx)
	start := time.Now()
	log.Info("run started", logger.Fields("chunks", n, "voice", voice))

	terminal, results := dag.NewChannel[[]float32](1)
	defer results.Close()

	combine := dag.WithLogging(
		dag.WithMetrics(
			dag.WithTracing(combineChunks, spanPrefix, combineNode),
			combineNode, o.metrics),
		combineNode, o.log)

	node, err := dag.NewNode(dag.NodeConfig[[]float32]{
		Name:     combineNode,
		Required: dag.IndexedKeys(chunkPrefix, n),
		Compute:  combine,
		Outputs:  []*dag.Sender[[]float32]{terminal},
	})
	if err != nil {
		_ = terminal.Close()
		return nil, err
	}
	inputs, err := node.FanIn(n)
	if err != nil {
		_ = terminal.Close()
		return nil, err
	}

	// A failing task records itself as the run's cause before it releases
	// its channel handle.
	runCtx, fail := context.WithCancelCause(ctx)
	defer fail(nil)
	g, gctx := errgroup.WithContext(runCtx)

	pacer := o.pacer()
	spawned := 0
	for i, text := range chunks {
		if pacer != nil {
			if err := pacer.Wait(gctx); err != nil {
				fail(err)
				break
			}
		}
		h := inputs[i]
		g.Go(func() error {
			defer h.Close()
			err := o.produce(gctx, i, text, voice, h)
			if err != nil {
				fail(err)
			}
			return err
		})
		spawned++
	}
	for _, h := range inputs[spawned:] {
		_ = h.Close()
	}
	log.Debug("producers spawned", logger.Fields("spawned", spawned))

	g.Go(func() error {
		err := node.Run(gctx)
		if err != nil {
			fail(err)
		}
		return err
	})

	var combined []float32
	g.Go(func() error {
		msg, ok, err := results.Receive(gctx)
		if err != nil || !ok {
			// The aggregator reports its own failure.
			return err
		}
		if msg.Key != combinedKey {
			err := &dag.UnexpectedInputError{Node: "result", Key: msg.Key, Reason: "unexpected"}
			fail(err)
			return err
		}
		combined = msg.Value
		return nil
	})

	if err := g.Wait(); err != nil {
		if cause := context.Cause(runCtx); cause != nil {
			err = cause
		}
		return nil, o.failed(log, start, err)
	}
	if combined == nil {
		return nil, o.failed(log, start, ErrNoOutput)
	}

	res := &Result{
		RunID:      runID,
		Samples:    combined,
		SampleRate: o.cfg.SampleRate,
		Chunks:     n,
		Duration:   time.Since(start),
	}
	log.Info("run finished", logger.Fields(
		"samples", len(res.Samples),
		"audio_seconds", res.AudioSeconds(),
		logger.FieldDuration, res.Duration.Milliseconds(),
	))
	return res, nil
}

// produce takes one chunk through rewrite, speech and stretch and sends the
// samples to the aggregator under the chunk's indexed key.
func (o *Orchestrator) produce(ctx context.Context, i int, text, voice string, out *dag.Sender[[]float32]) error {
	ctx = logger.WithChunk(ctx, i)

	readable, err := o.rewrite.Execute(ctx, text)
	if err != nil {
		return fmt.Errorf("chunk %d: %w", i, err)
	}
	pcm, err := o.speech.Execute(ctx, speech.Request{Text: readable, Voice: voice})
	if err != nil {
		return fmt.Errorf("chunk %d: %w", i, err)
	}
	samples, err := o.stretch.Execute(ctx, pcm)
	if err != nil {
		return fmt.Errorf("chunk %d: %w", i, err)
	}

	if err := out.Send(ctx, dag.IndexedKey(chunkPrefix, i), samples); err != nil {
		return fmt.Errorf("chunk %d: %w", i, err)
	}
	if o.metrics != nil {
		o.metrics.RecordChunk(ctx)
	}
	o.log.WithContext(ctx).Debug("chunk delivered", logger.Fields("samples", len(samples)))
	return nil
}

func (o *Orchestrator) pacer() *resilience.RateLimiter {
	if o.cfg.SpawnInterval < 0 {
		return nil
	}
	cfg := resilience.DefaultRateLimiterConfig("spawn")
	cfg.Interval = o.cfg.SpawnInterval
	return resilience.NewRateLimiter(cfg)
}

func (o *Orchestrator) failed(log *logger.Logger, start time.Time, err error) error {
	log.Error("run failed", map[string]interface{}{
		logger.FieldError:    err.Error(),
		logger.FieldDuration: time.Since(start).Milliseconds(),
	})
	return err
}

// combineChunks orders the chunk payloads by index and concatenates them.
func combineChunks(_ context.Context, in dag.Values[[]float32]) (dag.Values[[]float32], error) {
	parts, err := dag.SortByIndex(chunkPrefix, in)
	if err != nil {
		return nil, err
	}
	return dag.Values[[]float32]{combinedKey: audio.Concat(parts)}, nil
}
