package verify

import "github.com/ppiankov/crosscheck/internal/model"

const (
	highConfidenceRatio   = 0.8
	mediumConfidenceRatio = 0.5
)

// CalculateConfidence grades a result. A failed gate is always LOW, and a
// run with no claims is MEDIUM because nothing was corroborated.
func CalculateConfidence(result *model.GateResult) model.Confidence {
	if result == nil || !result.Passed {
		return model.ConfidenceLow
	}

	total := len(result.TruthChecks)
	if total == 0 {
		return model.ConfidenceMedium
	}

	verified := 0
	for _, tc := range result.TruthChecks {
		if tc.Verdict == model.VerdictVerified {
			verified++
		}
	}

	ratio := float64(verified) / float64(total)
	switch {
	case ratio >= highConfidenceRatio && len(result.Conflicts) == 0:
		return model.ConfidenceHigh
	case ratio >= mediumConfidenceRatio:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

// Summarize tallies conflicts and claims by outcome
func Summarize(result *model.GateResult) model.GateSummary {
	var s model.GateSummary
	if result == nil {
		return s
	}

	for _, c := range result.Conflicts {
		if c.Resolution.IsResolved() {
			s.ConflictsResolved++
		} else if c.Resolution == model.ResolutionConflict {
			s.ConflictsUnresolved++
		}
	}
	for _, tc := range result.TruthChecks {
		switch tc.Verdict {
		case model.VerdictVerified:
			s.ClaimsVerified++
		case model.VerdictUnverified:
			s.ClaimsUnverified++
		case model.VerdictContradicted:
			s.ClaimsContradicted++
		}
	}
	return s
}
