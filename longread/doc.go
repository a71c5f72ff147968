// Package longread runs the read-aloud pipeline: every chunk of text is
// rewritten for listening, synthesized, and time-stretched by its own
// goroutine, and a single dag aggregator joins the results in chunk order.
//
// Rewrite and speech calls are bounded by separate gates and producer
// starts are paced, which keeps request rates within provider limits
// without a retry layer.
package longread
