package model

import "time"

// Report represents the complete output of one verification run
type Report struct {
	RunID       string    `json:"run_id"`
	Subject     string    `json:"subject"`                // Bundle name or first product name
	GeneratedAt time.Time `json:"generated_at"`           // When the run finished
	Comparator  string    `json:"comparator"`             // Backend that answered equivalence/claim questions
	Sources     []string  `json:"sources"`                // Source URLs in extraction order

	Result     GateResult  `json:"result"`
	Confidence Confidence  `json:"confidence"`
	Summary    GateSummary `json:"summary"`

	Resolution         *ConflictResolution `json:"resolution,omitempty"`          // Present when auto-resolve ran
	CleanedDescription *string             `json:"cleaned_description,omitempty"` // Present when contradicted claims were filtered
}

// SubjectFor picks a human-readable subject for a bundle
func SubjectFor(bundle SourceBundle) string {
	if bundle.Name != "" {
		return bundle.Name
	}
	for _, e := range bundle.Extractions {
		if e.ProductName != "" {
			return e.ProductName
		}
	}
	return "unnamed product"
}
