// Package resilience provides the concurrency controls used by the pipeline.
//
//   - Bulkhead: a FIFO gate bounding how many callers hold a slot at once
//   - RateLimiter: a token bucket used to pace task spawning
//
// A gate is shared by every task of a run:
//
//	gate := resilience.NewBulkhead(resilience.BulkheadConfig{Name: "speech", MaxConcurrent: 3})
//	release, err := gate.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer release()
package resilience
