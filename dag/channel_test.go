package dag

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannel_SendReceiveFIFO(t *testing.T) {
	tx, rx := NewChannel[int](3)
	ctx := context.Background()

	for i := range 3 {
		require.NoError(t, tx.Send(ctx, IndexedKey("k", i), i))
	}
	require.NoError(t, tx.Close())

	var got []int
	for msg, err := range rx.All(ctx) {
		require.NoError(t, err)
		got = append(got, msg.Value)
	}
	assert.Equal(t, []int{0, 1, 2}, got)
}

func TestChannel_EndOfStreamOnlyAfterEveryHandleCloses(t *testing.T) {
	tx, rx := NewChannel[string](4)
	ctx := context.Background()

	clone, err := tx.Clone()
	require.NoError(t, err)
	require.NoError(t, tx.Close())

	require.NoError(t, clone.Send(ctx, "a", "from clone"))
	msg, ok, err := rx.Receive(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", msg.Key)

	// One handle is still open, so the receiver must keep waiting.
	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, ok, err = rx.Receive(short)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, ok)

	require.NoError(t, clone.Close())
	_, ok, err = rx.Receive(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestChannel_QueuedMessagesDrainAfterClose(t *testing.T) {
	tx, rx := NewChannel[int](2)
	ctx := context.Background()

	require.NoError(t, tx.Send(ctx, "x", 1))
	require.NoError(t, tx.Send(ctx, "y", 2))
	require.NoError(t, tx.Close())

	var keys []string
	for msg, err := range rx.All(ctx) {
		require.NoError(t, err)
		keys = append(keys, msg.Key)
	}
	assert.Equal(t, []string{"x", "y"}, keys)
}

func TestSender_ClosedHandle(t *testing.T) {
	tx, _ := NewChannel[int](1)
	require.NoError(t, tx.Close())

	assert.ErrorIs(t, tx.Send(context.Background(), "k", 1), ErrChannelClosed)
	assert.ErrorIs(t, tx.Close(), ErrChannelClosed)
	_, err := tx.Clone()
	assert.ErrorIs(t, err, ErrChannelClosed)
}

func TestSender_ClosingOneCloneLeavesOthersUsable(t *testing.T) {
	tx, rx := NewChannel[int](2)
	a, err := tx.Clone()
	require.NoError(t, err)
	require.NoError(t, a.Close())

	require.NoError(t, tx.Send(context.Background(), "still", 7))
	msg, ok, err := rx.Receive(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 7, msg.Value)
}

func TestSender_SendUnblocksWhenReceiverCloses(t *testing.T) {
	tx, rx := NewChannel[int](0)

	errc := make(chan error, 1)
	go func() { errc <- tx.Send(context.Background(), "k", 1) }()

	time.Sleep(10 * time.Millisecond)
	rx.Close()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, ErrChannelClosed)
	case <-time.After(time.Second):
		t.Fatal("send stayed blocked after receiver closed")
	}

	_, ok, err := rx.Receive(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	rx.Close()
}

func TestSender_SendHonoursContext(t *testing.T) {
	tx, _ := NewChannel[int](0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, tx.Send(ctx, "k", 1), context.Canceled)
}

func TestChannel_ConcurrentProducers(t *testing.T) {
	const producers = 16
	tx, rx := NewChannel[int](producers)
	ctx := context.Background()

	handles := make([]*Sender[int], producers)
	for i := range handles {
		h, err := tx.Clone()
		require.NoError(t, err)
		handles[i] = h
	}
	require.NoError(t, tx.Close())

	var wg sync.WaitGroup
	for i, h := range handles {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer h.Close()
			_ = h.Send(ctx, IndexedKey("p", i), i)
		}()
	}

	seen := make(map[string]bool)
	for msg, err := range rx.All(ctx) {
		require.NoError(t, err)
		seen[msg.Key] = true
	}
	wg.Wait()
	assert.Len(t, seen, producers)
}
