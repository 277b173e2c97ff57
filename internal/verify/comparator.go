// Package verify implements cross-source truth verification: it finds fields
// on which product sources disagree, checks every claim of a merged product
// description against each source, and turns both into a pass/fail verdict.
//
// Semantic judgements (are these values the same fact, does this source back
// this claim) are delegated to a Comparator so backends can be swapped.
package verify

import (
	"context"
	"errors"

	"github.com/ppiankov/crosscheck/internal/model"
)

// ErrMalformedResponse is returned (wrapped) by comparators whose backend
// answered with something other than the expected shape.
var ErrMalformedResponse = errors.New("malformed comparator response")

// Comparator answers the semantic questions the engine cannot decide by
// string comparison.
type Comparator interface {
	// CheckEquivalence judges whether the literal values reported for field
	// describe the same fact.
	CheckEquivalence(ctx context.Context, field string, values []string) (*EquivalenceResult, error)

	// ExtractClaims splits text into atomic factual claims
	ExtractClaims(ctx context.Context, text string) ([]ExtractedClaim, error)

	// VerifyClaim checks one claim against one source's evidence text
	VerifyClaim(ctx context.Context, claim string, source string) (*ClaimVerification, error)
}

// EquivalenceResult is a comparator's verdict over a set of field values
type EquivalenceResult struct {
	AllEquivalent bool    `json:"allEquivalent"`
	Compatible    bool    `json:"compatible"`
	ResolvedValue *string `json:"resolvedValue"`
	Reasoning     string  `json:"reasoning"`
}

// Resolution maps the comparator verdict onto a conflict resolution
func (r EquivalenceResult) Resolution() model.Resolution {
	switch {
	case r.AllEquivalent:
		return model.ResolutionEquivalent
	case r.Compatible:
		return model.ResolutionCompatible
	default:
		return model.ResolutionConflict
	}
}

// ExtractedClaim is one atomic claim pulled from a description
type ExtractedClaim struct {
	Claim      string           `json:"claim"`
	Importance model.Importance `json:"importance"`
}

// ClaimVerification is one source's stance on one claim. Both flags false
// means the source is neutral.
type ClaimVerification struct {
	Supports    bool `json:"supports"`
	Contradicts bool `json:"contradicts"`
}
