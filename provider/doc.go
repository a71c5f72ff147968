// Package provider defines the shape shared by every pipeline stage and the
// middleware that decorates it.
//
// A stage is a RequestResponse[I, O]: one input, one output. Cross-cutting
// behavior is layered on with Middleware, composed by Chain:
//
//	stage := provider.Chain(
//	    provider.WithLogging[string, string](log),
//	    provider.WithMetrics[string, string](metrics),
//	    provider.WithTracing[string, string]("longreader"),
//	    provider.WithBulkhead[string, string](gate),
//	)(rewriteClient)
//
// Func lifts a plain function into a stage.
package provider
