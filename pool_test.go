package tex2html

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestServicePool_LazyCreation(t *testing.T) {
	t.Parallel()

	var created atomic.Int32
	pool := NewServicePool(3, func() *Service {
		created.Add(1)
		return New(WithConverter(sectionEcho()))
	})
	defer pool.Close()

	if created.Load() != 0 {
		t.Fatalf("pool created %d services eagerly", created.Load())
	}

	svc := pool.Acquire()
	if created.Load() != 1 {
		t.Errorf("created = %d after one acquire, want 1", created.Load())
	}

	// Releasing and reacquiring reuses the instance.
	pool.Release(svc)
	again := pool.Acquire()
	if created.Load() != 1 {
		t.Errorf("created = %d after reacquire, want 1", created.Load())
	}
	if again != svc {
		t.Error("released service was not reused")
	}
	pool.Release(again)
}

func TestServicePool_CapAndBlocking(t *testing.T) {
	t.Parallel()

	var created atomic.Int32
	pool := NewServicePool(2, func() *Service {
		created.Add(1)
		return New()
	})
	defer pool.Close()

	a := pool.Acquire()
	b := pool.Acquire()
	if created.Load() != 2 {
		t.Fatalf("created = %d, want 2", created.Load())
	}

	// A third acquire must wait for a release, not create a new service.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c := pool.Acquire()
		pool.Release(c)
	}()
	pool.Release(a)
	wg.Wait()
	pool.Release(b)

	if created.Load() != 2 {
		t.Errorf("created = %d after blocked acquire, want 2", created.Load())
	}
}

func TestServicePool_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	pool := NewServicePool(1, nil)
	svc := pool.Acquire()
	pool.Release(svc)

	if err := pool.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	// Release after close must not panic on the closed channel.
	pool.Release(svc)
}

func TestServicePool_Size(t *testing.T) {
	t.Parallel()

	if got := NewServicePool(4, nil).Size(); got != 4 {
		t.Errorf("Size() = %d, want 4", got)
	}
	if got := NewServicePool(0, nil).Size(); got != 1 {
		t.Errorf("Size() with invalid capacity = %d, want 1", got)
	}
}

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	if got := ResolvePoolSize(5); got != 5 {
		t.Errorf("ResolvePoolSize(5) = %d, want explicit value", got)
	}
	auto := ResolvePoolSize(0)
	if auto < MinPoolSize || auto > MaxPoolSize {
		t.Errorf("ResolvePoolSize(0) = %d, outside [%d, %d]", auto, MinPoolSize, MaxPoolSize)
	}
}
