package metadata

import (
	"sync"
	"time"
)

// searchKey identifies a cached search: exact query parameters only.
type searchKey struct {
	Query string
	Limit int
	Lang  string
}

type cacheEntry struct {
	results   []SearchResult
	expiresAt time.Time
}

// resultCache is a TTL-bounded in-process cache of normalized search
// results. Writes may race; last writer wins, which is safe because values
// are idempotent per key within the TTL.
type resultCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[searchKey]cacheEntry
	now     func() time.Time
}

func newResultCache(ttl time.Duration) *resultCache {
	return &resultCache{
		ttl:     ttl,
		entries: make(map[searchKey]cacheEntry),
		now:     time.Now,
	}
}

// get returns a copy of the cached results, or false when the key is absent
// or expired. Expired entries are dropped lazily on lookup.
func (c *resultCache) get(key searchKey) ([]SearchResult, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}

	out := make([]SearchResult, len(entry.results))
	copy(out, entry.results)
	return out, true
}

func (c *resultCache) put(key searchKey, results []SearchResult) {
	stored := make([]SearchResult, len(results))
	copy(stored, results)

	c.mu.Lock()
	c.entries[key] = cacheEntry{results: stored, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// len reports the number of live entries (expired included until touched).
func (c *resultCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
