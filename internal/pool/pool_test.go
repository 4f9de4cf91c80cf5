package pool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunCollectsErrors(t *testing.T) {
	boom := errors.New("boom")
	jobs := []Job{
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) error { return boom },
		func(ctx context.Context) error { return nil },
	}
	errs := Run(context.Background(), 2, jobs)
	if len(errs) != 3 {
		t.Fatalf("got %d errors; want 3", len(errs))
	}
	if errs[0] != nil || errs[2] != nil {
		t.Errorf("healthy jobs reported errors: %v, %v", errs[0], errs[2])
	}
	if !errors.Is(errs[1], boom) {
		t.Errorf("errs[1] = %v; want boom", errs[1])
	}
}

func TestRunBoundedParallelism(t *testing.T) {
	const size = 3
	var active, peak int64
	jobs := make([]Job, 20)
	for i := range jobs {
		jobs[i] = func(ctx context.Context) error {
			n := atomic.AddInt64(&active, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt64(&active, -1)
			return nil
		}
	}
	Run(context.Background(), size, jobs)
	if got := atomic.LoadInt64(&peak); got > size {
		t.Errorf("peak parallelism %d; want <= %d", got, size)
	}
}

func TestRunRecoversPanic(t *testing.T) {
	done := make(chan struct{})
	jobs := []Job{
		func(ctx context.Context) error { panic("kaboom") },
		func(ctx context.Context) error { close(done); return nil },
	}
	errs := Run(context.Background(), 1, jobs)
	if errs[0] == nil {
		t.Fatal("panicking job reported no error")
	}
	select {
	case <-done:
	default:
		t.Error("sibling job did not run after panic")
	}
}

func TestRunCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var ran int64
	jobs := make([]Job, 5)
	for i := range jobs {
		jobs[i] = func(ctx context.Context) error {
			atomic.AddInt64(&ran, 1)
			return nil
		}
	}
	errs := Run(ctx, 2, jobs)
	var canceled int
	for _, err := range errs {
		if errors.Is(err, context.Canceled) {
			canceled++
		}
	}
	if canceled == 0 {
		t.Error("expected at least one job marked with context.Canceled")
	}
}

func TestRunEmptyAndSmallPool(t *testing.T) {
	if errs := Run(context.Background(), 0, nil); len(errs) != 0 {
		t.Errorf("empty batch returned %d errors", len(errs))
	}
	errs := Run(context.Background(), 0, []Job{func(ctx context.Context) error { return nil }})
	if len(errs) != 1 || errs[0] != nil {
		t.Errorf("size 0 pool: errs = %v", errs)
	}
}
