package utils

import (
	"sync"
	"time"
)

// TTLCacheItem represents a cache item with expiration
type TTLCacheItem[V any] struct {
	Value     V
	ExpiresAt time.Time
}

// IsExpired checks if the cache item has expired
func (item TTLCacheItem[V]) IsExpired(now time.Time) bool {
	return now.After(item.ExpiresAt)
}

// TTLCache is a thread-safe cache with TTL (Time To Live) support
type TTLCache[V any] struct {
	items map[string]TTLCacheItem[V]
	mutex sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
}

// NewTTLCache creates a new TTL cache with the specified default TTL
func NewTTLCache[V any](ttl time.Duration) *TTLCache[V] {
	return &TTLCache[V]{
		items: make(map[string]TTLCacheItem[V]),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Set stores a value in the cache with the default TTL
func (c *TTLCache[V]) Set(key string, value V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items[key] = TTLCacheItem[V]{
		Value:     value,
		ExpiresAt: c.now().Add(c.ttl),
	}
}

// Get returns the value and true if found and not expired
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mutex.RLock()
	item, exists := c.items[key]
	c.mutex.RUnlock()

	if exists && !item.IsExpired(c.now()) {
		return item.Value, true
	}
	if exists {
		c.Delete(key)
	}
	var zero V
	return zero, false
}

// Delete removes a value from the cache
func (c *TTLCache[V]) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.items, key)
}

// CleanupExpired removes all expired items from the cache
func (c *TTLCache[V]) CleanupExpired() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	count := 0
	for key, item := range c.items {
		if item.IsExpired(now) {
			delete(c.items, key)
			count++
		}
	}
	return count
}
