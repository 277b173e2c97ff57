package worker

import (
	"context"

	"github.com/ppiankov/crosscheck/internal/verify"
)

// LimitedComparator throttles every call to a backend endpoint
type LimitedComparator struct {
	next     verify.Comparator
	limiter  *Limiter
	endpoint string
}

// NewLimitedComparator wraps next so calls wait on limiter for endpoint
func NewLimitedComparator(next verify.Comparator, limiter *Limiter, endpoint string) *LimitedComparator {
	return &LimitedComparator{next: next, limiter: limiter, endpoint: endpoint}
}

// CheckEquivalence implements verify.Comparator
func (c *LimitedComparator) CheckEquivalence(ctx context.Context, field string, values []string) (*verify.EquivalenceResult, error) {
	if err := c.limiter.Wait(ctx, c.endpoint); err != nil {
		return nil, err
	}
	return c.next.CheckEquivalence(ctx, field, values)
}

// ExtractClaims implements verify.Comparator
func (c *LimitedComparator) ExtractClaims(ctx context.Context, text string) ([]verify.ExtractedClaim, error) {
	if err := c.limiter.Wait(ctx, c.endpoint); err != nil {
		return nil, err
	}
	return c.next.ExtractClaims(ctx, text)
}

// VerifyClaim implements verify.Comparator
func (c *LimitedComparator) VerifyClaim(ctx context.Context, claim string, source string) (*verify.ClaimVerification, error) {
	if err := c.limiter.Wait(ctx, c.endpoint); err != nil {
		return nil, err
	}
	return c.next.VerifyClaim(ctx, claim, source)
}
