// Package cache provides the shared TTL cache service used by the
// analyzer and orchestrator. Entries are immutable once stored; the cache
// is a pure optimization and never a source of truth; any miss recomputes.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     interface{}
	createdAt time.Time
}

// Cache is a read-mostly map with insert-or-overwrite semantics and
// age-based eviction. Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

func newCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached value for key if present and not expired.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(e.createdAt) > c.ttl {
		return nil, false
	}
	return e.value, true
}

// Put stores value under key, overwriting any previous entry. Stored
// values must not be mutated afterwards.
func (c *Cache) Put(key string, value interface{}) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, createdAt: c.now()}
	c.mu.Unlock()
}

// Len returns the current entry count, expired entries included until the
// next sweep.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// evictExpired removes entries older than the TTL.
func (c *Cache) evictExpired() {
	if c.ttl <= 0 {
		return
	}
	cutoff := c.now().Add(-c.ttl)
	c.mu.Lock()
	for key, e := range c.entries {
		if e.createdAt.Before(cutoff) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

// Service owns the three shared caches and their background eviction
// loop. Construct once per process and pass by reference (no ambient
// static state).
type Service struct {
	Constraints *Cache
	Analyses    *Cache
	Suites      *Cache

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewService creates the cache service and starts eviction on the given
// interval. An interval <= 0 disables background eviction.
func NewService(ttl, evictionInterval time.Duration) *Service {
	s := &Service{
		Constraints: newCache(ttl),
		Analyses:    newCache(ttl),
		Suites:      newCache(ttl),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	go s.evictLoop(evictionInterval)
	return s
}

func (s *Service) evictLoop(interval time.Duration) {
	defer close(s.done)
	if interval <= 0 {
		<-s.stop
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Constraints.evictExpired()
			s.Analyses.evictExpired()
			s.Suites.evictExpired()
		case <-s.stop:
			return
		}
	}
}

// Clear drops all cached entries across the three caches.
func (s *Service) Clear() {
	s.Constraints.Clear()
	s.Analyses.Clear()
	s.Suites.Clear()
}

// Shutdown stops the eviction loop. Safe to call more than once.
func (s *Service) Shutdown() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}
