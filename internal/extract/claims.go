package extract

import (
	"regexp"
	"strings"

	"github.com/ppiankov/crosscheck/internal/model"
)

// Claim is a candidate factual statement found in a description
type Claim struct {
	Text       string           `json:"text"`
	Importance model.Importance `json:"importance"`
	Heuristic  string           `json:"heuristic,omitempty"` // Which rule assigned the importance (e.g., "keyword:waterproof")
	Sentence   int              `json:"sentence"`            // Sentence index in the description (0-based)
}

var measurementPattern = regexp.MustCompile(`(?i)\d+(\.\d+)?\s*(mm|cm|m|in|inch|inches|ft|g|kg|lb|lbs|oz|ml|l|w|v|mah|hz|gb|tb|%)\b`)

// ClaimExtractor splits product descriptions into atomic claims
type ClaimExtractor struct {
	keywords []string
	minChars int
}

// NewClaimExtractor creates a new claim extractor
func NewClaimExtractor() *ClaimExtractor {
	return &ClaimExtractor{
		keywords: []string{
			"rated", "certified", "waterproof", "water-resistant", "compatible",
			"includes", "included", "made of", "made from", "made in", "warranty",
			"supports", "designed for", "suitable for", "approved", "tested",
			"battery", "capacity", "dishwasher", "machine washable", "organic",
		},
		minChars: 8,
	}
}

// Extract extracts claims from a plain-text description. Bullet lines and
// sentences each become one claim.
func (e *ClaimExtractor) Extract(text string) []Claim {
	var claims []Claim
	index := 0

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*•·"))
		if line == "" {
			continue
		}

		for _, sentence := range SplitSentences(line) {
			trimmed := strings.TrimSpace(strings.TrimRight(sentence, ".!?"))
			if len(trimmed) < e.minChars {
				index++
				continue
			}

			importance, heuristic := e.classify(trimmed)
			claims = append(claims, Claim{
				Text:       trimmed,
				Importance: importance,
				Heuristic:  heuristic,
				Sentence:   index,
			})
			index++
		}
	}

	return dedupeClaims(claims)
}

// classify assigns importance: measurable facts are high, keyword claims medium
func (e *ClaimExtractor) classify(sentence string) (model.Importance, string) {
	if measurementPattern.MatchString(sentence) {
		return model.ImportanceHigh, "measurement"
	}

	lower := strings.ToLower(sentence)
	for _, keyword := range e.keywords {
		if strings.Contains(lower, keyword) {
			return model.ImportanceMedium, "keyword:" + keyword
		}
	}

	return model.ImportanceLow, "sentence"
}

// dedupeClaims removes duplicate claims
func dedupeClaims(claims []Claim) []Claim {
	seen := make(map[string]bool)
	var unique []Claim

	for _, claim := range claims {
		key := strings.ToLower(strings.TrimSpace(claim.Text))
		if !seen[key] {
			seen[key] = true
			unique = append(unique, claim)
		}
	}

	return unique
}
