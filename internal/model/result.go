package model

// OverallVerdict summarises a whole verification run
type OverallVerdict string

const (
	OverallConflictsFound OverallVerdict = "CONFLICTS_FOUND"
	OverallSomeUnverified OverallVerdict = "SOME_UNVERIFIED"
	OverallAllVerified    OverallVerdict = "ALL_VERIFIED"
)

// GateResult is the outcome of one cross-source truth verification run
type GateResult struct {
	Passed         bool            `json:"passed"`
	Conflicts      []FieldConflict `json:"conflicts"`
	TruthChecks    []TruthCheck    `json:"truthChecks"`
	OverallVerdict OverallVerdict  `json:"overallVerdict"`
}

// Confidence is the coarse confidence attached to a GateResult
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// GateSummary holds plain counts over a GateResult
type GateSummary struct {
	ConflictsResolved   int `json:"conflictsResolved"`
	ConflictsUnresolved int `json:"conflictsUnresolved"`
	ClaimsVerified      int `json:"claimsVerified"`
	ClaimsUnverified    int `json:"claimsUnverified"`
	ClaimsContradicted  int `json:"claimsContradicted"`
}

// ConflictResolution is the output of automatic conflict resolution
type ConflictResolution struct {
	Resolved   map[string]string `json:"resolved"`
	Unresolved []FieldConflict   `json:"unresolved"`
}
