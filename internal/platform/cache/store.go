package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/tournament-sync/internal/platform/resilience"
)

type entry struct {
	value     any
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !e.expiresAt.After(now)
}

// Store is a process-local TTL cache with invalidation generations. Every
// Delete or DeletePrefix starts a new generation; a load that began in an
// older generation is returned to its callers but never stored.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	gen     uint64
	ttl     time.Duration
	flight  resilience.SingleFlight
	now     func() time.Time
}

// NewStore keeps entries for ttl; ttl <= 0 keeps them until invalidated.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Key joins parts into a deterministic cache key.
func Key(parts ...any) string {
	var b strings.Builder
	for i, part := range parts {
		if i > 0 {
			b.WriteByte(':')
		}
		fmt.Fprint(&b, part)
	}
	return b.String()
}

func (s *Store) lookup(key string) (any, uint64, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	gen := s.gen
	s.mu.RUnlock()

	if ok && !e.expired(s.now()) {
		return e.value, gen, true
	}
	if ok {
		s.mu.Lock()
		if cur, still := s.entries[key]; still && cur.expiresAt.Equal(e.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
	}
	return nil, gen, false
}

// put stores value unless the store was invalidated after gen.
func (s *Store) put(key string, value any, gen uint64) bool {
	var expiresAt time.Time
	if s.ttl > 0 {
		expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false
	}
	s.entries[key] = entry{value: value, expiresAt: expiresAt}
	return true
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}
	value, _, ok := s.lookup(key)
	return value, ok
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}
	s.mu.RLock()
	gen := s.gen
	s.mu.RUnlock()
	s.put(key, value, gen)
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}
	s.mu.Lock()
	s.gen++
	delete(s.entries, key)
	s.mu.Unlock()
}

// DeletePrefix drops every key in a namespace and reports how many were removed.
func (s *Store) DeletePrefix(_ context.Context, prefix string) int {
	if prefix == "" {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	removed := 0
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// GetOrLoad collapses concurrent misses of key within one generation into a
// single loader call. Failed loads are not stored.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	value, gen, ok := s.lookup(key)
	if ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(strconv.FormatUint(gen, 10)+"|"+key, func() (any, error) {
		loaded, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		s.put(key, loaded, gen)
		return loaded, nil
	})
	return value, err
}

// Load is GetOrLoad with the value asserted back to T.
func Load[T any](ctx context.Context, s *Store, key string, loader func(context.Context) (T, error)) (T, error) {
	var zero T
	value, err := s.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return loader(ctx)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("cache key %q holds %T", key, value)
	}
	return typed, nil
}
