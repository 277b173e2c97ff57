package verify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ppiankov/crosscheck/internal/model"
)

// VerifyCrossSourceTruth runs conflict detection and claim verification and
// combines them into a verdict. An error means a comparator call failed and
// no result was produced.
func (v *Verifier) VerifyCrossSourceTruth(ctx context.Context, extractions []model.ExtractedData, aggregated model.AggregatedData) (*model.GateResult, error) {
	conflicts, err := v.DetectFieldConflicts(ctx, extractions, aggregated)
	if err != nil {
		return nil, fmt.Errorf("detect field conflicts: %w", err)
	}

	checks, err := v.VerifyDescriptionClaims(ctx, aggregated.Description, extractions)
	if err != nil {
		return nil, fmt.Errorf("verify description claims: %w", err)
	}

	result := Evaluate(conflicts, checks)

	v.logger.Info("truth verification complete",
		zap.Int("sources", len(extractions)),
		zap.Int("conflicts", len(conflicts)),
		zap.Int("claims", len(checks)),
		zap.String("verdict", string(result.OverallVerdict)),
		zap.Bool("passed", result.Passed))

	return result, nil
}

// Evaluate derives the overall verdict from conflicts and truth checks.
// Unresolved conflicts and contradicted claims fail the gate; claims no
// source mentions do not.
func Evaluate(conflicts []model.FieldConflict, checks []model.TruthCheck) *model.GateResult {
	if conflicts == nil {
		conflicts = []model.FieldConflict{}
	}
	if checks == nil {
		checks = []model.TruthCheck{}
	}

	var hasUnresolvedConflicts, hasContradictions, hasUnverified bool
	for _, c := range conflicts {
		if c.Resolution == model.ResolutionConflict {
			hasUnresolvedConflicts = true
		}
	}
	for _, tc := range checks {
		switch tc.Verdict {
		case model.VerdictContradicted:
			hasContradictions = true
		case model.VerdictUnverified:
			hasUnverified = true
		}
	}

	result := &model.GateResult{
		Conflicts:   conflicts,
		TruthChecks: checks,
	}
	switch {
	case hasUnresolvedConflicts || hasContradictions:
		result.OverallVerdict = model.OverallConflictsFound
		result.Passed = false
	case hasUnverified:
		result.OverallVerdict = model.OverallSomeUnverified
		result.Passed = true
	default:
		result.OverallVerdict = model.OverallAllVerified
		result.Passed = true
	}
	return result
}
