// Package observability wires OpenTelemetry tracing and metrics for the
// pipeline and the HTTP API.
//
// Export is off by default. When enabled, spans and metrics go to an OTLP/HTTP
// collector:
//
//	shutdown, err := observability.Setup(ctx, cfg.Observability)
//	defer shutdown(context.Background())
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanRun)
//	defer span.End()
//
//	metrics, err := observability.NewMetrics(observability.Meter("longreader"))
//	metrics.RecordGate(ctx, "speech", 1)
//
// Health reports fold component checks (ffmpeg on PATH, credentials present)
// into one document served at /health.
package observability
