package model

// Verdict is the outcome of checking one claim against every source
type Verdict string

const (
	VerdictVerified     Verdict = "VERIFIED"
	VerdictContradicted Verdict = "CONTRADICTED"
	VerdictUnverified   Verdict = "UNVERIFIED"
)

// TruthCheck is the per-claim verification record
type TruthCheck struct {
	Claim          string   `json:"claim"`
	SupportedBy    []string `json:"supportedBy"`
	ContradictedBy []string `json:"contradictedBy"`
	Verdict        Verdict  `json:"verdict"`
}

// VerdictFor applies the claim verdict rule. A single contradiction wins
// over any amount of support.
func VerdictFor(supportedBy, contradictedBy []string) Verdict {
	switch {
	case len(contradictedBy) > 0:
		return VerdictContradicted
	case len(supportedBy) > 0:
		return VerdictVerified
	default:
		return VerdictUnverified
	}
}

// Importance marks how central a claim is to a description. It is carried
// along with extracted claims but does not change verdicts.
type Importance string

const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

// ParseImportance maps free-form importance labels onto Importance.
// Unknown labels map to ImportanceMedium.
func ParseImportance(s string) Importance {
	switch s {
	case "high", "HIGH", "High", "critical", "CRITICAL":
		return ImportanceHigh
	case "low", "LOW", "Low", "minor":
		return ImportanceLow
	default:
		return ImportanceMedium
	}
}
