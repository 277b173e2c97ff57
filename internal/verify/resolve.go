package verify

import (
	"sort"
	"strings"

	"github.com/ppiankov/crosscheck/internal/model"
)

// ResolveConflicts picks a value for every conflict it can. EQUIVALENT and
// COMPATIBLE conflicts use the comparator's resolved value when present;
// otherwise, and for hard CONFLICTs, the value of the most trusted source
// wins, with ties going to the earliest source. Callers that must not
// override a failed gate should check the overall verdict first.
func ResolveConflicts(conflicts []model.FieldConflict, extractions []model.ExtractedData, trust *TrustTable) model.ConflictResolution {
	if trust == nil {
		trust = DefaultTrustTable()
	}

	ranks := make(map[string]int, len(extractions))
	for _, e := range extractions {
		ranks[e.SourceURL] = trust.Rank(e.SourceURL)
	}
	rankOf := func(source string) int {
		if rank, ok := ranks[source]; ok {
			return rank
		}
		return trust.Rank(source)
	}

	resolution := model.ConflictResolution{
		Resolved:   make(map[string]string),
		Unresolved: []model.FieldConflict{},
	}

	for _, conflict := range conflicts {
		if conflict.Resolution.IsResolved() && conflict.ResolvedValue != nil && strings.TrimSpace(*conflict.ResolvedValue) != "" {
			resolution.Resolved[conflict.Field] = *conflict.ResolvedValue
			continue
		}

		if value, ok := mostTrustedValue(conflict.Values, rankOf); ok {
			resolution.Resolved[conflict.Field] = value
			continue
		}

		resolution.Unresolved = append(resolution.Unresolved, conflict)
	}

	return resolution
}

// mostTrustedValue returns the non-blank value from the highest-ranked source
func mostTrustedValue(values []model.SourceValue, rankOf func(string) int) (string, bool) {
	candidates := make([]model.SourceValue, 0, len(values))
	for _, sv := range values {
		if strings.TrimSpace(sv.Value) != "" {
			candidates = append(candidates, sv)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return rankOf(candidates[i].Source) > rankOf(candidates[j].Source)
	})

	return candidates[0].Value, true
}
