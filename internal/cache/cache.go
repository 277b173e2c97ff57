package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey generates a cache key from a namespace (usually the comparator
// backend), the operation and its inputs
func CacheKey(namespace, operation string, inputs ...string) string {
	h := sha256.New()
	h.Write([]byte(namespace))
	h.Write([]byte{0})
	h.Write([]byte(operation))
	for _, in := range inputs {
		h.Write([]byte{0})
		h.Write([]byte(in))
	}
	return "crosscheck:v1:" + hex.EncodeToString(h.Sum(nil))
}

func fileName(key string) string {
	return strings.ReplaceAll(key, ":", "_") + ".cache"
}
