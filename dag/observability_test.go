package dag

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/longreader/logger"
)

func TestWithLogging(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&logger.Config{Level: "info", Format: logger.FormatJSON, Writer: &buf}, "test")

	ok := WithLogging(func(_ context.Context, in Values[int]) (Values[int], error) {
		return Values[int]{"n": len(in)}, nil
	}, "count", log)
	out, err := ok(context.Background(), Values[int]{"a": 1, "b": 2})
	require.NoError(t, err)
	assert.Equal(t, 2, out["n"])
	assert.Contains(t, buf.String(), "dag node fired")
	assert.Contains(t, buf.String(), `"node":"count"`)

	buf.Reset()
	boom := errors.New("boom")
	failing := WithLogging(func(context.Context, Values[int]) (Values[int], error) {
		return nil, boom
	}, "count", log)
	_, err = failing(context.Background(), nil)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, buf.String(), "dag node failed")
}

func TestWithMetricsNilIsIdentity(t *testing.T) {
	called := false
	fn := WithMetrics(func(context.Context, Values[int]) (Values[int], error) {
		called = true
		return nil, nil
	}, "x", nil)
	_, err := fn(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, called)
}

func TestWithTracingPassesThrough(t *testing.T) {
	boom := errors.New("boom")
	fn := WithTracing(func(context.Context, Values[int]) (Values[int], error) {
		return nil, boom
	}, "test", "node")
	_, err := fn(context.Background(), Values[int]{"a": 1})
	assert.ErrorIs(t, err, boom)
}
