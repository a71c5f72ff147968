package dag

import (
	"context"
	"time"

	"github.com/kbukum/longreader/logger"
	"github.com/kbukum/longreader/observability"
)

// WithTracing wraps a ComputeFunc with OpenTelemetry span creation.
// Each execution creates a span named "{prefix}.{name}".
func WithTracing[V any](fn ComputeFunc[V], prefix, name string) ComputeFunc[V] {
	return func(ctx context.Context, in Values[V]) (Values[V], error) {
		ctx, span := observability.StartSpan(ctx, prefix+"."+name)
		defer span.End()

		observability.SetSpanAttribute(ctx, "dag.node", name)
		observability.SetSpanAttribute(ctx, "dag.inputs", len(in))

		out, err := fn(ctx, in)
		if err != nil {
			observability.SetSpanError(ctx, err)
		}
		return out, err
	}
}

// WithMetrics wraps a ComputeFunc with metric recording.
// Records operation count, duration, and errors.
func WithMetrics[V any](fn ComputeFunc[V], name string, metrics *observability.Metrics) ComputeFunc[V] {
	if metrics == nil {
		return fn
	}
	return func(ctx context.Context, in Values[V]) (Values[V], error) {
		start := time.Now()
		out, err := fn(ctx, in)
		duration := time.Since(start)

		status := "ok"
		if err != nil {
			status = "error"
			metrics.RecordError(ctx, "compute", name)
		}
		metrics.RecordOperation(ctx, name, "dag.compute", status, duration)
		return out, err
	}
}

// WithLogging wraps a ComputeFunc with execution logging.
// Logs: node name, input count, duration, and success/error status.
func WithLogging[V any](fn ComputeFunc[V], name string, log *logger.Logger) ComputeFunc[V] {
	return func(ctx context.Context, in Values[V]) (Values[V], error) {
		start := time.Now()
		out, err := fn(ctx, in)

		fields := map[string]interface{}{
			logger.FieldNode: name,
			"inputs":         len(in),
			"duration":       time.Since(start).String(),
		}
		l := log.WithContext(ctx)
		if err != nil {
			fields[logger.FieldError] = err.Error()
			l.Error("dag node failed", fields)
		} else {
			l.Info("dag node fired", fields)
		}
		return out, err
	}
}
