package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/riskibarqy/fantasy-insights/internal/platform/resilience"
)

const DefaultTTL = 5 * time.Minute

// Entry is one cached value. Expired entries are dropped lazily on read.
type Entry struct {
	Value     any
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (e Entry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !e.ExpiresAt.After(now)
}

// Stats is a point-in-time view of the store counters.
type Stats struct {
	Entries int    `json:"entries"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Loads   uint64 `json:"loads"`
}

type Option func(*Store)

func WithClock(clock clockwork.Clock) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// Store is a short-lived in-memory read-through cache keyed by logical
// request identity. Concurrent misses for one key share a single load.
type Store struct {
	entries *xsync.Map[string, Entry]
	ttl     time.Duration
	clock   clockwork.Clock
	flight  resilience.SingleFlight[any]

	hits   atomic.Uint64
	misses atomic.Uint64
	loads  atomic.Uint64
}

func NewStore(ttl time.Duration, opts ...Option) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		entries: xsync.NewMap[string, Entry](),
		ttl:     ttl,
		clock:   clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	e, ok := s.entries.Load(key)
	if !ok {
		return nil, false
	}
	if e.expired(s.clock.Now()) {
		s.entries.Delete(key)
		return nil, false
	}

	return e.Value, true
}

// SetWithTTL stores value under key. A ttl of zero or less uses the store default.
func (s *Store) SetWithTTL(_ context.Context, key string, value any, ttl time.Duration) {
	if key == "" {
		return
	}
	if ttl <= 0 {
		ttl = s.ttl
	}

	now := s.clock.Now()
	s.entries.Store(key, Entry{
		Value:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	})
}

// Clear drops every entry. Loads already running will still store their
// result when they finish.
func (s *Store) Clear() {
	s.entries.Clear()
}

func (s *Store) Stats() Stats {
	return Stats{
		Entries: s.entries.Size(),
		Hits:    s.hits.Load(),
		Misses:  s.misses.Load(),
		Loads:   s.loads.Load(),
	}
}

// GetOrLoad returns the cached value for key or calls loader and caches its
// result for ttl. Loader errors are returned and never cached. A shared load
// runs on a context detached from the first caller's cancellation so other
// waiters are not failed by it.
func (s *Store) GetOrLoad(ctx context.Context, key string, ttl time.Duration, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		s.hits.Add(1)
		return value, nil
	}
	s.misses.Add(1)

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		s.loads.Add(1)
		loaded, loadErr := loader(context.WithoutCancel(ctx))
		if loadErr != nil {
			return nil, loadErr
		}
		s.SetWithTTL(ctx, key, loaded, ttl)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

// GetOrFetch is the typed form of GetOrLoad using the store default TTL.
func GetOrFetch[T any](ctx context.Context, s *Store, key string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	v, err := s.GetOrLoad(ctx, key, s.ttl, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return zero, err
	}

	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cache entry %q holds %T", key, v)
	}
	return out, nil
}
