package cache

import (
	"errors"
	"time"

	"github.com/ppiankov/crosscheck/internal/model"
)

// LayeredCache checks its tiers fastest first. A hit in a slower tier is
// copied into every faster tier with that tier's default TTL.
type LayeredCache struct {
	tiers []Cache
}

// NewLayeredCache creates a cache over tiers, ordered fastest first
func NewLayeredCache(tiers ...Cache) *LayeredCache {
	return &LayeredCache{tiers: tiers}
}

// NewStore builds the comparator answer store from config: process memory
// in front of a disk directory that survives between runs.
func NewStore(config model.CacheConfig) *LayeredCache {
	return NewLayeredCache(
		NewMemoryCache(config.MemoryTTL, 0),
		NewDiskCache(config.Dir, config.DiskTTL),
	)
}

// Get implements Cache
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	for i, tier := range c.tiers {
		val, found := tier.Get(key)
		if !found {
			continue
		}
		for _, faster := range c.tiers[:i] {
			_ = faster.Set(key, val, 0)
		}
		return val, true
	}
	return nil, false
}

// Set implements Cache. Every tier is written; failures are joined.
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	var errs []error
	for _, tier := range c.tiers {
		if err := tier.Set(key, value, ttl); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Delete implements Cache
func (c *LayeredCache) Delete(key string) error {
	var errs []error
	for _, tier := range c.tiers {
		if err := tier.Delete(key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Clear implements Cache
func (c *LayeredCache) Clear() error {
	var errs []error
	for _, tier := range c.tiers {
		if err := tier.Clear(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
