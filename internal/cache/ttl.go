// Package cache provides a small read-through TTL cache used in front of
// derived DAO-parameter lookups.
package cache

import (
	"sync"
	"time"

	"github.com/daotrack/governance-indexer/internal/adapter"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTL is an in-memory cache with a fixed per-entry lifetime. Stale entries
// read as absent and are evicted lazily on the next access; Clear drops the
// whole cache as a unit. The clock is injectable so tests can advance time.
type TTL[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
	ttl     time.Duration
	clock   adapter.Clock
}

// NewTTL creates a cache whose entries expire after ttl
func NewTTL[V any](ttl time.Duration, clock adapter.Clock) *TTL[V] {
	return &TTL[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		clock:   clock,
	}
}

// Get returns the cached value for key, if present and not expired
func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.clock.Now().After(e.expiresAt) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, resetting its lifetime
func (c *TTL[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{
		value:     value,
		expiresAt: c.clock.Now().Add(c.ttl),
	}
}

// Clear drops all entries
func (c *TTL[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry[V])
}
