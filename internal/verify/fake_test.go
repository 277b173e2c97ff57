package verify

import (
	"context"
	"sync"
	"time"
)

// fakeComparator answers from scripted tables and records what it was asked
type fakeComparator struct {
	mu sync.Mutex

	equivalence    func(field string, values []string) (*EquivalenceResult, error)
	claims         []ExtractedClaim
	claimsErr      error
	stances        map[string]map[string]ClaimVerification // claim -> source text -> stance
	verifyErr      error
	verifyDelay    func(source string) time.Duration
	equivalenceLog []string
	extractCalls   int
	verifySources  []string
}

func (f *fakeComparator) CheckEquivalence(ctx context.Context, field string, values []string) (*EquivalenceResult, error) {
	f.mu.Lock()
	f.equivalenceLog = append(f.equivalenceLog, field)
	f.mu.Unlock()

	if f.equivalence == nil {
		return &EquivalenceResult{Reasoning: "no script"}, nil
	}
	return f.equivalence(field, values)
}

func (f *fakeComparator) ExtractClaims(ctx context.Context, text string) ([]ExtractedClaim, error) {
	f.mu.Lock()
	f.extractCalls++
	f.mu.Unlock()

	return f.claims, f.claimsErr
}

func (f *fakeComparator) VerifyClaim(ctx context.Context, claim string, source string) (*ClaimVerification, error) {
	if f.verifyDelay != nil {
		select {
		case <-time.After(f.verifyDelay(source)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	f.verifySources = append(f.verifySources, source)
	f.mu.Unlock()

	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	stance := f.stances[claim][source]
	return &stance, nil
}

func strPtr(s string) *string {
	return &s
}

func equivalent(resolved string) func(string, []string) (*EquivalenceResult, error) {
	return func(string, []string) (*EquivalenceResult, error) {
		return &EquivalenceResult{AllEquivalent: true, Compatible: true, ResolvedValue: strPtr(resolved), Reasoning: "same measurement"}, nil
	}
}

func conflicting(string, []string) (*EquivalenceResult, error) {
	return &EquivalenceResult{Reasoning: "values disagree"}, nil
}
