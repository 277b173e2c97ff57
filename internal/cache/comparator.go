package cache

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/ppiankov/crosscheck/internal/verify"
)

// Comparator wraps a verify.Comparator and memoizes its answers. Entries are
// keyed by namespace, so answers from different backends never mix. Errors
// are never cached.
type Comparator struct {
	next      verify.Comparator
	cache     Cache
	namespace string
	logger    *zap.Logger
}

// NewComparator creates a caching comparator
func NewComparator(next verify.Comparator, cache Cache, namespace string, logger *zap.Logger) *Comparator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Comparator{
		next:      next,
		cache:     cache,
		namespace: namespace,
		logger:    logger,
	}
}

// CheckEquivalence implements verify.Comparator
func (c *Comparator) CheckEquivalence(ctx context.Context, field string, values []string) (*verify.EquivalenceResult, error) {
	key := CacheKey(c.namespace, "equivalence", append([]string{field}, values...)...)
	return cached(c, key, func() (*verify.EquivalenceResult, error) {
		return c.next.CheckEquivalence(ctx, field, values)
	})
}

// ExtractClaims implements verify.Comparator
func (c *Comparator) ExtractClaims(ctx context.Context, text string) ([]verify.ExtractedClaim, error) {
	key := CacheKey(c.namespace, "claims", text)
	claims, err := cached(c, key, func() (*[]verify.ExtractedClaim, error) {
		claims, err := c.next.ExtractClaims(ctx, text)
		if err != nil {
			return nil, err
		}
		return &claims, nil
	})
	if err != nil {
		return nil, err
	}
	return *claims, nil
}

// VerifyClaim implements verify.Comparator
func (c *Comparator) VerifyClaim(ctx context.Context, claim string, source string) (*verify.ClaimVerification, error) {
	key := CacheKey(c.namespace, "verify", claim, source)
	return cached(c, key, func() (*verify.ClaimVerification, error) {
		return c.next.VerifyClaim(ctx, claim, source)
	})
}

func cached[T any](c *Comparator, key string, compute func() (*T, error)) (*T, error) {
	if data, ok := c.cache.Get(key); ok {
		var value T
		if err := json.Unmarshal(data, &value); err == nil {
			c.logger.Debug("Cache hit", zap.String("key", key))
			return &value, nil
		}
		// Unreadable entry: recompute and overwrite
		_ = c.cache.Delete(key)
	}

	value, err := compute()
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("Failed to encode cache entry", zap.Error(err))
		return value, nil
	}
	if err := c.cache.Set(key, data, 0); err != nil {
		c.logger.Warn("Failed to write cache entry", zap.String("key", key), zap.Error(err))
	}

	return value, nil
}
