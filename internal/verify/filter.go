package verify

import (
	"strings"

	"github.com/ppiankov/crosscheck/internal/extract"
	"github.com/ppiankov/crosscheck/internal/model"
)

const (
	// DefaultMinWordLength counts only words longer than three characters
	DefaultMinWordLength = 4

	// DefaultOverlapThreshold is the share of claim words a sentence must
	// exceed to be treated as stating the claim.
	DefaultOverlapThreshold = 0.6
)

// SentenceMatcher decides whether a sentence states a claim
type SentenceMatcher interface {
	Matches(claim, sentence string) bool
}

// OverlapMatcher matches a sentence when it contains more than Threshold of
// the claim's significant words. It is approximate and may over- or
// under-match.
type OverlapMatcher struct {
	MinWordLength int
	Threshold     float64
}

// DefaultOverlapMatcher returns the matcher used when none is configured
func DefaultOverlapMatcher() OverlapMatcher {
	return OverlapMatcher{
		MinWordLength: DefaultMinWordLength,
		Threshold:     DefaultOverlapThreshold,
	}
}

// Matches implements SentenceMatcher
func (m OverlapMatcher) Matches(claim, sentence string) bool {
	claimWords := extract.SignificantWords(claim, m.MinWordLength)
	if len(claimWords) == 0 {
		return false
	}

	sentenceWords := make(map[string]bool)
	for _, w := range extract.Words(sentence) {
		sentenceWords[w] = true
	}

	matched := 0
	for _, w := range claimWords {
		if sentenceWords[w] {
			matched++
		}
	}

	return float64(matched)/float64(len(claimWords)) > m.Threshold
}

// FilterContradictedClaims drops every sentence of description that matcher
// ties to a contradicted claim and returns the remaining sentences joined by
// single spaces. A nil matcher uses DefaultOverlapMatcher. The description
// is returned unchanged when no claim was contradicted.
func FilterContradictedClaims(description string, checks []model.TruthCheck, matcher SentenceMatcher) string {
	if matcher == nil {
		matcher = DefaultOverlapMatcher()
	}

	var contradicted []string
	for _, tc := range checks {
		if tc.Verdict == model.VerdictContradicted {
			contradicted = append(contradicted, tc.Claim)
		}
	}
	if len(contradicted) == 0 {
		return description
	}

	var kept []string
	for _, sentence := range extract.SplitSentences(description) {
		drop := false
		for _, claim := range contradicted {
			if matcher.Matches(claim, sentence) {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, sentence)
		}
	}

	return strings.TrimSpace(strings.Join(kept, " "))
}
