package dag

import (
	"context"
	"iter"
	"sync"
)

// Message is a keyed value travelling through a channel.
type Message[V any] struct {
	Key   string
	Value V
}

// queue is the state shared by every handle of one channel.
type queue[V any] struct {
	ch chan Message[V]

	mu   sync.Mutex
	open int // send handles not yet closed

	done     chan struct{} // closed when the receive side is torn down
	doneOnce sync.Once
}

// NewChannel creates a channel and returns its send and receive handles.
// buffer is the number of messages that can be queued before Send blocks.
// The channel closes for the receiver once the returned sender and every
// clone made from it have been closed.
func NewChannel[V any](buffer int) (*Sender[V], *Receiver[V]) {
	if buffer < 0 {
		buffer = 0
	}
	q := &queue[V]{
		ch:   make(chan Message[V], buffer),
		open: 1,
		done: make(chan struct{}),
	}
	return &Sender[V]{q: q}, &Receiver[V]{q: q}
}

// Sender is one send handle on a channel. Handles are independent: each
// must be closed exactly once, and closing one does not affect the others.
type Sender[V any] struct {
	q *queue[V]

	mu     sync.Mutex // serializes Send and Close on this handle
	closed bool
}

// Send enqueues a message. It blocks while the buffer is full and returns
// ErrChannelClosed if this handle was closed or the receive side is gone.
func (s *Sender[V]) Send(ctx context.Context, key string, value V) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrChannelClosed
	}
	select {
	case <-s.q.done:
		return ErrChannelClosed
	default:
	}

	// The handle is open, so the underlying chan cannot be closed while we
	// hold s.mu.
	select {
	case s.q.ch <- Message[V]{Key: key, Value: value}:
		return nil
	case <-s.q.done:
		return ErrChannelClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Clone returns a new independent send handle on the same channel.
func (s *Sender[V]) Clone() (*Sender[V], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrChannelClosed
	}
	s.q.mu.Lock()
	s.q.open++
	s.q.mu.Unlock()
	return &Sender[V]{q: s.q}, nil
}

// Close releases this handle. When the last open handle is closed the
// receiver observes end of stream after draining queued messages.
func (s *Sender[V]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrChannelClosed
	}
	s.closed = true

	s.q.mu.Lock()
	defer s.q.mu.Unlock()
	s.q.open--
	if s.q.open == 0 {
		close(s.q.ch)
	}
	return nil
}

// Receiver is the receive side of a channel.
type Receiver[V any] struct {
	q *queue[V]
}

// Receive waits for the next message. ok is false once every send handle
// has been closed and the buffer is drained, or after Close; that is end of
// stream, not an error. A cancelled ctx returns ctx.Err().
func (r *Receiver[V]) Receive(ctx context.Context) (msg Message[V], ok bool, err error) {
	select {
	case <-r.q.done:
		return msg, false, nil
	default:
	}

	select {
	case msg, ok = <-r.q.ch:
		return msg, ok, nil
	case <-r.q.done:
		return msg, false, nil
	case <-ctx.Done():
		return msg, false, ctx.Err()
	}
}

// All iterates over messages until end of stream. A context error is
// yielded once as the final element.
func (r *Receiver[V]) All(ctx context.Context) iter.Seq2[Message[V], error] {
	return func(yield func(Message[V], error) bool) {
		for {
			msg, ok, err := r.Receive(ctx)
			if err != nil {
				yield(msg, err)
				return
			}
			if !ok {
				return
			}
			if !yield(msg, nil) {
				return
			}
		}
	}
}

// Close tears down the receive side. Later receives report end of stream
// and blocked or later sends fail with ErrChannelClosed. Close is idempotent.
func (r *Receiver[V]) Close() {
	r.q.doneOnce.Do(func() { close(r.q.done) })
}
