package cache

import (
	"bytes"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// minCleanupInterval bounds how often expired entries are swept
const minCleanupInterval = time.Minute

// MemoryCache keeps comparator answers in process memory until they expire.
// Values are copied on the way in and out, so callers never share a buffer
// with the cache.
type MemoryCache struct {
	entries *gocache.Cache
}

// NewMemoryCache creates a memory cache. A non-positive cleanupInterval
// sweeps expired entries once per defaultTTL, but never more than once a minute.
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = max(defaultTTL, minCleanupInterval)
	}
	return &MemoryCache{entries: gocache.New(defaultTTL, cleanupInterval)}
}

// Get implements Cache
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	val, found := c.entries.Get(key)
	if !found {
		return nil, false
	}
	data, ok := val.([]byte)
	if !ok {
		c.entries.Delete(key)
		return nil, false
	}
	return bytes.Clone(data), true
}

// Set implements Cache. A zero ttl uses the cache default.
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	c.entries.Set(key, bytes.Clone(value), ttl)
	return nil
}

// Delete implements Cache
func (c *MemoryCache) Delete(key string) error {
	c.entries.Delete(key)
	return nil
}

// Clear implements Cache
func (c *MemoryCache) Clear() error {
	c.entries.Flush()
	return nil
}

// Len returns the number of entries, including expired ones not yet swept
func (c *MemoryCache) Len() int {
	return c.entries.ItemCount()
}
