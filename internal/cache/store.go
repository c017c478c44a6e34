package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	value     any
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// Store is an in-process key/value store with per-entry TTL.
// Expiry is checked lazily at read time; the optional janitor only
// bounds memory and correctness never depends on it.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry

	sf singleflight.Group

	janitorStop chan struct{}
	stopOnce    sync.Once

	// now is swappable for tests.
	now func() time.Time
}

func New() *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// NewWithJanitor returns a Store that additionally sweeps expired
// entries every interval. Call Stop to release the sweeper goroutine.
func NewWithJanitor(interval time.Duration) *Store {
	s := New()
	s.janitorStop = make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.janitorStop:
				return
			}
		}
	}()

	return s
}

func (s *Store) Stop() {
	if s.janitorStop == nil {
		return
	}
	s.stopOnce.Do(func() {
		close(s.janitorStop)
	})
}

// Set stores value under key, overwriting any existing entry and
// resetting its expiry clock.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{
		value:     value,
		expiresAt: s.now().Add(ttl),
	}
}

// Get returns the stored value for key. The second return is false on
// a miss; an expired entry found at read time is removed.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if e.expired(s.now()) {
		s.Delete(key)
		return nil, false
	}
	return e.value, true
}

func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Len counts entries that are still live.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	n := 0
	for _, e := range s.entries {
		if !e.expired(now) {
			n++
		}
	}
	return n
}

// Fetch is the cache-aside path: return the cached value for key, or
// run loader, store its result under key with ttl and return it.
// Concurrent Fetch calls for the same missing key share a single
// loader invocation. Loader errors are returned and never cached.
func (s *Store) Fetch(ctx context.Context, key string, ttl time.Duration, loader func(ctx context.Context) (any, error)) (any, error) {
	if v, ok := s.Get(key); ok {
		return v, nil
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		// Re-check under singleflight: another caller may have
		// populated the key while we waited.
		if v, ok := s.Get(key); ok {
			return v, nil
		}
		v, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		s.Set(key, v, ttl)
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Store) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, k)
		}
	}
}
