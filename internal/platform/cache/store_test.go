package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
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
			v, err := store.GetOrLoad(context.Background(), "same-key", 0, loader)
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

func TestStore_GetOrLoad_LeaderCancellationDoesNotFailSharedLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})
	loader := func(ctx context.Context) (any, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return "value", nil
	}

	leaderCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type result struct {
		value any
		err   error
	}
	leader := make(chan result, 1)
	go func() {
		v, err := store.GetOrLoad(leaderCtx, "shared", 0, loader)
		leader <- result{value: v, err: err}
	}()

	<-started
	cancel()

	follower := make(chan result, 1)
	go func() {
		v, err := store.GetOrLoad(context.Background(), "shared", 0, loader)
		follower <- result{value: v, err: err}
	}()
	close(release)

	for name, ch := range map[string]chan result{"leader": leader, "follower": follower} {
		got := <-ch
		if got.err != nil {
			t.Fatalf("%s: unexpected error: %v", name, got.err)
		}
		if v, _ := got.value.(string); v != "value" {
			t.Fatalf("%s: unexpected value %v", name, got.value)
		}
	}
	if got := store.Stats().Loads; got != 1 {
		t.Fatalf("expected one load, got %d", got)
	}
}

func TestStore_GetOrFetch_HitWithinTTLAndRefetchAfterExpiry(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	store := NewStore(5*time.Minute, WithClock(clock))
	var calls atomic.Int32

	fetch := func(context.Context) ([]string, error) {
		n := calls.Add(1)
		if n == 1 {
			return []string{"first"}, nil
		}
		return []string{"second"}, nil
	}

	ctx := context.Background()
	key := Key("league:rosters", "991")

	got, err := GetOrFetch(ctx, store, key, fetch)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if got[0] != "first" {
		t.Fatalf("unexpected first value: %v", got)
	}

	clock.Advance(5*time.Minute - time.Second)
	got, err = GetOrFetch(ctx, store, key, fetch)
	if err != nil {
		t.Fatalf("cached fetch: %v", err)
	}
	if got[0] != "first" || calls.Load() != 1 {
		t.Fatalf("expected cached value without refetch, got=%v calls=%d", got, calls.Load())
	}

	clock.Advance(time.Second)
	got, err = GetOrFetch(ctx, store, key, fetch)
	if err != nil {
		t.Fatalf("expired fetch: %v", err)
	}
	if got[0] != "second" || calls.Load() != 2 {
		t.Fatalf("expected refetch after ttl, got=%v calls=%d", got, calls.Load())
	}

	stats := store.Stats()
	if stats.Hits != 1 || stats.Misses != 2 || stats.Loads != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	boom := errors.New("upstream down")
	var calls atomic.Int32

	_, err := store.GetOrLoad(context.Background(), "k", 0, func(context.Context) (any, error) {
		calls.Add(1)
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}

	v, err := store.GetOrLoad(context.Background(), "k", 0, func(context.Context) (any, error) {
		calls.Add(1)
		return 42, nil
	})
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if v.(int) != 42 || calls.Load() != 2 {
		t.Fatalf("expected loader to run again after failure, v=%v calls=%d", v, calls.Load())
	}
}

func TestStore_GetOrLoad_PerCallTTL(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	store := NewStore(time.Hour, WithClock(clock))
	ctx := context.Background()

	if _, err := store.GetOrLoad(ctx, "short", time.Minute, func(context.Context) (any, error) { return "v", nil }); err != nil {
		t.Fatalf("load: %v", err)
	}
	clock.Advance(time.Minute)
	if _, ok := store.Get(ctx, "short"); ok {
		t.Fatalf("expected entry to expire after its own ttl")
	}
}

func TestStore_Clear(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()
	store.SetWithTTL(ctx, "league:rosters:1", 1, 0)
	store.SetWithTTL(ctx, "player:trending:add", 3, 0)

	store.Clear()
	if got := store.Stats().Entries; got != 0 {
		t.Fatalf("expected empty store after clear, got %d entries", got)
	}
	if _, ok := store.Get(ctx, "league:rosters:1"); ok {
		t.Fatalf("expected cleared key to miss")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
