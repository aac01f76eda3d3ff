package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_ExpiresWithClock(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store := NewStore(30 * time.Second).WithClock(func() time.Time { return now })
	store.Set(context.Background(), "counters:all", 42)

	if v, ok := store.Get(context.Background(), "counters:all"); !ok || v.(int) != 42 {
		t.Fatalf("expected fresh value, got %v %v", v, ok)
	}

	now = now.Add(31 * time.Second)
	if _, ok := store.Get(context.Background(), "counters:all"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(0)
	ctx := context.Background()
	store.Set(ctx, "counters:all", 1)
	store.Set(ctx, "counters:page", 2)
	store.Set(ctx, "ranking:official", 3)

	store.DeletePrefix(ctx, "counters:")

	if _, ok := store.Get(ctx, "counters:all"); ok {
		t.Fatalf("expected counters:all to be removed")
	}
	if _, ok := store.Get(ctx, "ranking:official"); !ok {
		t.Fatalf("expected unrelated key to survive")
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	loader := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("upstream down")
		}
		return "ok", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err == nil {
		t.Fatalf("expected first load to fail")
	}
	v, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil || v.(string) != "ok" {
		t.Fatalf("expected retry to load, got %v %v", v, err)
	}
}

func TestStore_GetOrLoad_InvalidationDuringLoadIsNotOverwritten(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan any, 1)
	go func() {
		v, _ := store.GetOrLoad(ctx, "counters:all", func(context.Context) (any, error) {
			close(started)
			<-release
			return "before-write", nil
		})
		done <- v
	}()

	<-started
	store.DeletePrefix(ctx, "counters:")

	// a reader arriving after the invalidation must not join the old load
	fresh, err := store.GetOrLoad(ctx, "counters:all", func(context.Context) (any, error) {
		return "after-write", nil
	})
	if err != nil || fresh.(string) != "after-write" {
		t.Fatalf("expected fresh load after invalidation, got %v %v", fresh, err)
	}

	close(release)
	if got := <-done; got.(string) != "before-write" {
		t.Fatalf("in-flight caller should still get its own result, got %v", got)
	}

	v, ok := store.Get(ctx, "counters:all")
	if !ok || v.(string) != "after-write" {
		t.Fatalf("stale load overwrote cache: %v %v", v, ok)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
