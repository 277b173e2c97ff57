// Package compare provides Comparator backends that need no network access
package compare

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/ppiankov/crosscheck/internal/extract"
	"github.com/ppiankov/crosscheck/internal/model"
	"github.com/ppiankov/crosscheck/internal/verify"
)

// HeuristicName identifies the heuristic comparator in reports and cache keys
const HeuristicName = "heuristic"

// antonyms pairs words that make a claim false when swapped
var antonyms = map[string]string{
	"indoor":    "outdoor",
	"outdoor":   "indoor",
	"wired":     "wireless",
	"wireless":  "wired",
	"corded":    "cordless",
	"cordless":  "corded",
	"manual":    "automatic",
	"automatic": "manual",
	"analog":    "digital",
	"digital":   "analog",
	"single":    "double",
	"double":    "single",
	"matte":     "glossy",
	"glossy":    "matte",
	"male":      "female",
	"female":    "male",
	"included":  "excluded",
	"excluded":  "included",
}

// antonymOverlap is the claim word overlap that suffices when the sentence
// swaps in an antonym of a claim word
const antonymOverlap = 0.5

var negations = map[string]bool{
	"not": true, "no": true, "never": true, "without": true, "non": true,
	"cannot": true, "isn": true, "aren": true, "doesn": true, "don": true,
	"wasn": true, "won": true,
}

// Heuristic is a deterministic Comparator built on string normalization,
// unit conversion and word overlap. It is meant for offline runs and tests;
// an LLM comparator handles paraphrase far better.
type Heuristic struct {
	extractor     *extract.ClaimExtractor
	tolerance     float64
	minWordLength int
	threshold     float64
	logger        *zap.Logger
}

// NewHeuristic creates a heuristic comparator. Zero config values fall back
// to the package defaults.
func NewHeuristic(config model.VerificationConfig, logger *zap.Logger) *Heuristic {
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &Heuristic{
		extractor:     extract.NewClaimExtractor(),
		tolerance:     DefaultTolerance,
		minWordLength: config.MinWordLength,
		threshold:     config.OverlapThreshold,
		logger:        logger,
	}
	if h.minWordLength <= 0 {
		h.minWordLength = verify.DefaultMinWordLength
	}
	if h.threshold <= 0 {
		h.threshold = verify.DefaultOverlapThreshold
	}

	return h
}

// Name returns the comparator name
func (h *Heuristic) Name() string {
	return HeuristicName
}

// CheckEquivalence implements verify.Comparator. Values that normalize to the
// same text, or measure the same quantity within tolerance, are equivalent
// and resolve to the first value. When every value is contained in the
// longest one the set is compatible and resolves to the longest.
func (h *Heuristic) CheckEquivalence(ctx context.Context, field string, values []string) (*verify.EquivalenceResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return &verify.EquivalenceResult{AllEquivalent: true, Reasoning: "no values"}, nil
	}

	first := values[0]

	if allMatch(values, func(a, b string) bool { return squash(a) == squash(b) }) {
		return &verify.EquivalenceResult{
			AllEquivalent: true,
			Compatible:    true,
			ResolvedValue: &first,
			Reasoning:     "values differ only in case, spacing or punctuation",
		}, nil
	}

	if h.sameMeasurement(values) {
		return &verify.EquivalenceResult{
			AllEquivalent: true,
			Compatible:    true,
			ResolvedValue: &first,
			Reasoning:     fmt.Sprintf("values measure the same quantity within %.0f%%", h.tolerance*100),
		}, nil
	}

	if longest, ok := containsAll(values); ok {
		return &verify.EquivalenceResult{
			Compatible:    true,
			ResolvedValue: &longest,
			Reasoning:     fmt.Sprintf("%q includes every other value", longest),
		}, nil
	}

	h.logger.Debug("Heuristic conflict", zap.String("field", field), zap.Strings("values", values))

	return &verify.EquivalenceResult{
		Reasoning: fmt.Sprintf("values for %s disagree: %s", field, strings.Join(values, " / ")),
	}, nil
}

// ExtractClaims implements verify.Comparator
func (h *Heuristic) ExtractClaims(ctx context.Context, text string) ([]verify.ExtractedClaim, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	found := h.extractor.Extract(text)
	claims := make([]verify.ExtractedClaim, 0, len(found))
	for _, c := range found {
		claims = append(claims, verify.ExtractedClaim{Claim: c.Text, Importance: c.Importance})
	}
	return claims, nil
}

// VerifyClaim implements verify.Comparator. Each sentence of the source that
// shares enough of the claim's words is read as a statement about the claim;
// it contradicts when it swaps in an antonym, flips negation, or gives a
// different measurement, and supports otherwise.
func (h *Heuristic) VerifyClaim(ctx context.Context, claim string, source string) (*verify.ClaimVerification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &verify.ClaimVerification{}

	claimWords := extract.SignificantWords(claim, h.minWordLength)
	if len(claimWords) == 0 {
		return result, nil
	}
	claimNegated := negated(extract.Words(claim))
	claimQuantities := findQuantities(claim)

	for _, sentence := range extract.SplitSentences(extract.VisibleText(source)) {
		words := extract.Words(sentence)
		present := make(map[string]bool, len(words))
		for _, w := range words {
			present[w] = true
		}

		matched, flipped := 0, false
		for _, w := range claimWords {
			switch {
			case present[w]:
				matched++
			case present[antonyms[w]]:
				matched++
				flipped = true
			}
		}
		// An antonym hit ties the sentence to the claim at a lower overlap
		overlap := float64(matched) / float64(len(claimWords))
		if overlap < h.threshold && !(flipped && overlap >= antonymOverlap) {
			continue
		}

		if flipped || negated(words) != claimNegated || h.quantitiesDisagree(claimQuantities, findQuantities(sentence)) {
			result.Contradicts = true
		} else {
			result.Supports = true
		}
	}

	return result, nil
}

func (h *Heuristic) sameMeasurement(values []string) bool {
	quantities := make([]quantity, 0, len(values))
	for _, v := range values {
		q, ok := parseQuantity(v)
		if !ok {
			return false
		}
		quantities = append(quantities, q)
	}
	for _, q := range quantities[1:] {
		if !sameQuantity(quantities[0], q, h.tolerance) {
			return false
		}
	}
	return true
}

// quantitiesDisagree reports whether the sentence measures a dimension the
// claim also measures, without any matching value.
func (h *Heuristic) quantitiesDisagree(claimed, stated []quantity) bool {
	for _, c := range claimed {
		if c.dimension == "" {
			continue
		}
		measured, match := false, false
		for _, s := range stated {
			if s.dimension != c.dimension {
				continue
			}
			measured = true
			if sameQuantity(c, s, h.tolerance) {
				match = true
				break
			}
		}
		if measured && !match {
			return true
		}
	}
	return false
}

func negated(words []string) bool {
	for _, w := range words {
		if negations[w] {
			return true
		}
	}
	return false
}

func allMatch(values []string, eq func(a, b string) bool) bool {
	for _, v := range values[1:] {
		if !eq(values[0], v) {
			return false
		}
	}
	return true
}

// containsAll returns the longest value when it contains every other one
func containsAll(values []string) (string, bool) {
	longest := values[0]
	for _, v := range values[1:] {
		if len(collapse(v)) > len(collapse(longest)) {
			longest = v
		}
	}

	target := collapse(longest)
	for _, v := range values {
		if !strings.Contains(target, collapse(v)) {
			return "", false
		}
	}
	return longest, true
}

// squash lowercases and drops whitespace and trailing punctuation
func squash(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
	return strings.TrimRight(s, ".,;:!")
}

// collapse lowercases and folds whitespace runs to single spaces
func collapse(s string) string {
	return strings.TrimRight(strings.Join(strings.Fields(strings.ToLower(s)), " "), ".,;:!")
}
