package provider

import (
	"context"

	"github.com/kbukum/longreader/resilience"
)

// WithBulkhead returns a Middleware that holds a slot of gate for the whole
// of each Execute call. The slot is released on every exit path.
func WithBulkhead[I, O any](gate *resilience.Bulkhead) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &bulkheadRR[I, O]{inner: inner, gate: gate}
	}
}

type bulkheadRR[I, O any] struct {
	inner RequestResponse[I, O]
	gate  *resilience.Bulkhead
}

func (b *bulkheadRR[I, O]) Name() string                         { return b.inner.Name() }
func (b *bulkheadRR[I, O]) IsAvailable(ctx context.Context) bool { return b.inner.IsAvailable(ctx) }

func (b *bulkheadRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return resilience.ExecuteWithResult(b.gate, ctx, func() (O, error) {
		return b.inner.Execute(ctx, input)
	})
}
