package model

// Resolution classifies a disagreement between sources on one field
type Resolution string

const (
	ResolutionEquivalent Resolution = "EQUIVALENT" // Same fact, different wording or units
	ResolutionCompatible Resolution = "COMPATIBLE" // Not contradictory, not interchangeable
	ResolutionConflict   Resolution = "CONFLICT"   // Sources genuinely disagree
)

// IsResolved reports whether the resolution is EQUIVALENT or COMPATIBLE
func (r Resolution) IsResolved() bool {
	return r == ResolutionEquivalent || r == ResolutionCompatible
}

// SourceValue is one source's literal value for a field
type SourceValue struct {
	Source string `json:"source" yaml:"source"`
	Value  string `json:"value" yaml:"value"`
}

// FieldConflict records a field on which at least two sources reported
// different non-empty values.
type FieldConflict struct {
	Field         string        `json:"field"`
	Values        []SourceValue `json:"values"`
	Resolution    Resolution    `json:"resolution"`
	ResolvedValue *string       `json:"resolvedValue"`
	Reasoning     string        `json:"reasoning,omitempty"`
}
