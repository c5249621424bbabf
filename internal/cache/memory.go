package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type entry[T any] struct {
	value      T
	insertedAt time.Time
}

// MemoryStore is an in-memory TTL store. Expiry is judged against the
// injected clock at read time and expired entries are dropped lazily.
type MemoryStore[T any] struct {
	cache *gocache.Cache
	ttl   time.Duration
	now   Clock
}

// NewMemoryStore creates a store whose entries live for ttl
func NewMemoryStore[T any](ttl time.Duration, now Clock) *MemoryStore[T] {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore[T]{
		// go-cache's own expiry and janitor are disabled; insertedAt governs
		cache: gocache.New(gocache.NoExpiration, 0),
		ttl:   ttl,
		now:   now,
	}
}

// Get retrieves a live value
func (s *MemoryStore[T]) Get(key string) (T, bool) {
	var zero T

	raw, found := s.cache.Get(key)
	if !found {
		return zero, false
	}
	e, ok := raw.(entry[T])
	if !ok {
		s.cache.Delete(key)
		return zero, false
	}
	if s.now().Sub(e.insertedAt) >= s.ttl {
		s.cache.Delete(key)
		return zero, false
	}
	return e.value, true
}

// Set upserts a value stamped with the current time
func (s *MemoryStore[T]) Set(key string, value T) {
	s.cache.Set(key, entry[T]{value: value, insertedAt: s.now()}, gocache.NoExpiration)
}

// Delete removes a value from the store
func (s *MemoryStore[T]) Delete(key string) {
	s.cache.Delete(key)
}

// Clear removes all values from the store
func (s *MemoryStore[T]) Clear() {
	s.cache.Flush()
}

// Len reports stored entries, expired ones included until read
func (s *MemoryStore[T]) Len() int {
	return s.cache.ItemCount()
}

// TTL returns the configured lifetime
func (s *MemoryStore[T]) TTL() time.Duration {
	return s.ttl
}
