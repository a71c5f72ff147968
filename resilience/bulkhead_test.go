package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestBulkhead_AllowsRequestsWithinLimit(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{
		Name:          "test",
		MaxConcurrent: 3,
	})

	var callCount int32

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := b.Execute(context.Background(), func() error {
				atomic.AddInt32(&callCount, 1)
				time.Sleep(10 * time.Millisecond)
				return nil
			})
			if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		}()
	}

	wg.Wait()

	if callCount != 3 {
		t.Errorf("expected 3 calls, got %d", callCount)
	}
}

func TestBulkhead_NeverExceedsCapacity(t *testing.T) {
	const capacity = 3
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: capacity})

	var current, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := b.Execute(context.Background(), func() error {
				n := atomic.AddInt32(&current, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&current, -1)
				return nil
			})
			if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		}()
	}
	wg.Wait()

	if peak > capacity {
		t.Errorf("expected at most %d concurrent holders, saw %d", capacity, peak)
	}
	if b.InUse() != 0 {
		t.Errorf("expected 0 in use after all tasks, got %d", b.InUse())
	}
}

func TestBulkhead_BlocksUntilReleased(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 1})

	release, err := b.Acquire(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	acquired := make(chan struct{})
	go func() {
		r, err := b.Acquire(context.Background())
		if err != nil {
			t.Errorf("expected no error, got %v", err)
			return
		}
		close(acquired)
		r()
	}()

	select {
	case <-acquired:
		t.Fatal("second acquire must wait while the slot is held")
	case <-time.After(20 * time.Millisecond):
	}

	release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second acquire did not proceed after release")
	}
}

func TestBulkhead_ReleaseIsIdempotent(t *testing.T) {
	var released int32
	b := NewBulkhead(BulkheadConfig{
		Name:          "test",
		MaxConcurrent: 2,
		OnRelease:     func(string) { atomic.AddInt32(&released, 1) },
	})

	release, err := b.Acquire(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	release()
	release()

	if b.InUse() != 0 {
		t.Errorf("expected 0 in use, got %d", b.InUse())
	}
	if released != 1 {
		t.Errorf("expected 1 release callback, got %d", released)
	}
}

func TestBulkhead_ReleasesOnPanic(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 1})

	func() {
		defer func() { _ = recover() }()
		_ = b.Execute(context.Background(), func() error {
			panic("boom")
		})
	}()

	if b.InUse() != 0 {
		t.Errorf("expected slot released after panic, got %d in use", b.InUse())
	}
}

func TestBulkhead_ReleasesOnError(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 1})
	want := errors.New("stage failed")

	err := b.Execute(context.Background(), func() error { return want })
	if !errors.Is(err, want) {
		t.Errorf("expected %v, got %v", want, err)
	}
	if b.InUse() != 0 {
		t.Errorf("expected slot released after error, got %d in use", b.InUse())
	}
}

func TestBulkhead_RejectsWhenFull(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{
		Name:          "test",
		MaxConcurrent: 1,
		MaxWait:       -1, // Fail immediately
	})

	release, err := b.Acquire(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer release()

	err = b.Execute(context.Background(), func() error {
		return nil
	})

	if !errors.Is(err, ErrBulkheadFull) {
		t.Errorf("expected ErrBulkheadFull, got %v", err)
	}
}

func TestBulkhead_TimesOutWaiting(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{
		Name:          "test",
		MaxConcurrent: 1,
		MaxWait:       10 * time.Millisecond,
	})

	release, err := b.Acquire(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer release()

	err = b.Execute(context.Background(), func() error {
		return nil
	})

	if !errors.Is(err, ErrBulkheadTimeout) {
		t.Errorf("expected ErrBulkheadTimeout, got %v", err)
	}
}

func TestBulkhead_RespectsContext(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{
		Name:          "test",
		MaxConcurrent: 1,
	})

	release, err := b.Acquire(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err = b.Execute(ctx, func() error {
		return nil
	})

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
	if b.InUse() != 1 {
		t.Errorf("cancelled waiter must not hold a slot, got %d in use", b.InUse())
	}
}

func TestBulkhead_Callbacks(t *testing.T) {
	var acquired, released, rejected int32

	b := NewBulkhead(BulkheadConfig{
		Name:          "test",
		MaxConcurrent: 1,
		MaxWait:       -1,
		OnAcquire: func(name string) {
			atomic.AddInt32(&acquired, 1)
		},
		OnRelease: func(name string) {
			atomic.AddInt32(&released, 1)
		},
		OnReject: func(name string) {
			atomic.AddInt32(&rejected, 1)
		},
	})

	release, err := b.Acquire(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// This should be rejected
	_ = b.Execute(context.Background(), func() error {
		return nil
	})

	release()

	if acquired != 1 {
		t.Errorf("expected 1 acquire callback, got %d", acquired)
	}
	if released != 1 {
		t.Errorf("expected 1 release callback, got %d", released)
	}
	if rejected != 1 {
		t.Errorf("expected 1 reject callback, got %d", rejected)
	}
}

func TestBulkhead_AvailableAndInUse(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{
		Name:          "test",
		MaxConcurrent: 3,
	})

	if b.Available() != 3 {
		t.Errorf("expected 3 available, got %d", b.Available())
	}

	release, err := b.Acquire(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if b.Available() != 2 {
		t.Errorf("expected 2 available, got %d", b.Available())
	}
	if b.InUse() != 1 {
		t.Errorf("expected 1 in use, got %d", b.InUse())
	}

	release()

	if b.Available() != 3 {
		t.Errorf("expected 3 available after release, got %d", b.Available())
	}
}

func TestExecuteWithResult(t *testing.T) {
	b := NewBulkhead(DefaultBulkheadConfig("test"))

	result, err := ExecuteWithResult(b, context.Background(), func() (int, error) {
		return 42, nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result != 42 {
		t.Errorf("expected 42, got %d", result)
	}
}
