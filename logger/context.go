package logger

import "context"

// contextKey is an unexported type for context keys to avoid collisions.
type contextKey string

const (
	keyRunID     contextKey = "run_id"
	keyChunk     contextKey = "chunk"
	keyRequestID contextKey = "request_id"
)

// WithRunID returns a context carrying the orchestration run id.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRunID, id)
}

// RunIDFrom returns the run id stored in ctx, if any.
func RunIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(keyRunID).(string)
	return id, ok
}

// WithChunk returns a context carrying the position index of the chunk
// being processed.
func WithChunk(ctx context.Context, index int) context.Context {
	return context.WithValue(ctx, keyChunk, index)
}

// ChunkFrom returns the chunk index stored in ctx, if any.
func ChunkFrom(ctx context.Context) (int, bool) {
	i, ok := ctx.Value(keyChunk).(int)
	return i, ok
}

// WithRequestID returns a context carrying an API request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}
