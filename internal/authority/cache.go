// Package authority verifies ticker candidates against the external token
// authority and caches the answers.
package authority

import (
	"sync"
	"time"

	"TokenSentinel/internal/model"
)

// DefaultTTL applies to positive and negative entries alike.
const DefaultTTL = 600 * time.Second

// cacheEntry holds one verification result. Only a definitive "not found"
// may be stored as invalid; transient upstream failures are never cached.
type cacheEntry struct {
	valid     bool
	facts     *model.TickerFacts
	expiresAt time.Time
}

// Cache is the process-wide symbol-keyed verification cache. All access is
// serialized by a mutex: a slightly stale read is fine, a torn write is not.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewCache creates a cache with the given TTL (DefaultTTL if zero).
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached verdict for symbol, or ok=false when there is no
// usable entry (missing or expired).
func (c *Cache) Get(symbol string) (valid bool, facts *model.TickerFacts, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, found := c.entries[symbol]
	if !found || !c.now().Before(e.expiresAt) {
		return false, nil, false
	}
	return e.valid, e.facts, true
}

// Put overwrites the entry for symbol with a fresh expiry.
func (c *Cache) Put(symbol string, valid bool, facts *model.TickerFacts) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[symbol] = cacheEntry{
		valid:     valid,
		facts:     facts,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Sweep removes expired entries and returns how many were dropped.
// Driven by the maintenance scheduler.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	dropped := 0
	for sym, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, sym)
			dropped++
		}
	}
	return dropped
}

// Len reports the current entry count, expired included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
