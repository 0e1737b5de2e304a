// cache/cache.go
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Cache is a process-local TTL key/value store. It exists purely to
// shave latency off repeated authorization lookups; nothing may rely
// on it for correctness, and its contents are lost on restart.
//
// All operations take the same lock, so a read never observes an entry
// mid-eviction.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
}

func New() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

// Get returns the value stored under key. Expired entries are evicted
// lazily here rather than by a background sweeper.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	if time.Now().After(data.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}

	return data.value, true
}

// Set stores value under key, unconditionally replacing any existing
// entry and restarting its TTL.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
}

// Delete removes a single key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// ClearAll drops every entry. Used as the coarse invalidation strategy
// after any successful mutation.
func (c *Cache) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry)
}

// Len reports the number of entries, including any that have expired
// but not yet been evicted.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}
