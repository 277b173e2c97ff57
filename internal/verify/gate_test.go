package verify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/crosscheck/internal/model"
)

func TestVerifyCrossSourceTruth_EquivalentUnits(t *testing.T) {
	fake := &fakeComparator{equivalence: equivalent("50mm")}
	v := NewVerifier(fake)

	extractions := []model.ExtractedData{
		{SourceURL: "https://a.example/item", Specifications: map[string]string{"width": "50mm"}},
		{SourceURL: "https://b.example/item", Specifications: map[string]string{"width": "2 inch"}},
	}
	aggregated := model.AggregatedData{Specifications: map[string]string{"width": "50mm"}}

	result, err := v.VerifyCrossSourceTruth(context.Background(), extractions, aggregated)
	require.NoError(t, err)

	require.Len(t, result.Conflicts, 1)
	conflict := result.Conflicts[0]
	assert.Equal(t, "width", conflict.Field)
	assert.Equal(t, model.ResolutionEquivalent, conflict.Resolution)
	require.NotNil(t, conflict.ResolvedValue)
	assert.Equal(t, "50mm", *conflict.ResolvedValue)
	assert.Equal(t, []model.SourceValue{
		{Source: "https://a.example/item", Value: "50mm"},
		{Source: "https://b.example/item", Value: "2 inch"},
	}, conflict.Values)

	assert.True(t, result.Passed)
	assert.Equal(t, model.OverallAllVerified, result.OverallVerdict)
}

func TestVerifyCrossSourceTruth_ContradictionIsSticky(t *testing.T) {
	claim := "rated for outdoor use"
	fake := &fakeComparator{
		claims: []ExtractedClaim{{Claim: claim, Importance: model.ImportanceHigh}},
		stances: map[string]map[string]ClaimVerification{
			claim: {
				"Great lamp for outdoor use.": {Supports: true},
				"Indoor use only.":            {Contradicts: true},
			},
		},
	}
	v := NewVerifier(fake)

	extractions := []model.ExtractedData{
		{SourceURL: "https://a.example", RawExtract: "Great lamp for outdoor use."},
		{SourceURL: "https://b.example", RawExtract: "Indoor use only."},
	}
	aggregated := model.AggregatedData{Description: "Rated for outdoor use."}

	result, err := v.VerifyCrossSourceTruth(context.Background(), extractions, aggregated)
	require.NoError(t, err)

	require.Len(t, result.TruthChecks, 1)
	check := result.TruthChecks[0]
	assert.Equal(t, model.VerdictContradicted, check.Verdict)
	assert.Equal(t, []string{"https://a.example"}, check.SupportedBy)
	assert.Equal(t, []string{"https://b.example"}, check.ContradictedBy)

	assert.False(t, result.Passed)
	assert.Equal(t, model.OverallConflictsFound, result.OverallVerdict)
	assert.Equal(t, model.ConfidenceLow, CalculateConfidence(result))
}

func TestVerifyCrossSourceTruth_SingleSupportIsEnough(t *testing.T) {
	claim := "ships with a carry case"
	fake := &fakeComparator{
		claims: []ExtractedClaim{{Claim: claim}},
		stances: map[string]map[string]ClaimVerification{
			claim: {"raw-a": {Supports: true}},
		},
	}
	v := NewVerifier(fake)

	extractions := []model.ExtractedData{
		{SourceURL: "https://a.example", RawExtract: "raw-a"},
		{SourceURL: "https://b.example", RawExtract: "raw-b"},
		{SourceURL: "https://c.example", RawExtract: "raw-c"},
	}
	aggregated := model.AggregatedData{Description: "Ships with a carry case."}

	result, err := v.VerifyCrossSourceTruth(context.Background(), extractions, aggregated)
	require.NoError(t, err)

	assert.Empty(t, result.Conflicts)
	require.Len(t, result.TruthChecks, 1)
	assert.Equal(t, model.VerdictVerified, result.TruthChecks[0].Verdict)
	assert.Empty(t, result.TruthChecks[0].ContradictedBy)
	assert.Equal(t, model.OverallAllVerified, result.OverallVerdict)
	assert.True(t, result.Passed)
	assert.Equal(t, model.ConfidenceHigh, CalculateConfidence(result))
}

func TestVerifyCrossSourceTruth_NothingToVerify(t *testing.T) {
	fake := &fakeComparator{}
	v := NewVerifier(fake)

	extractions := []model.ExtractedData{
		{SourceURL: "https://a.example", ProductName: "Trail Lamp"},
		{SourceURL: "https://b.example", ProductName: "trail lamp"},
	}

	result, err := v.VerifyCrossSourceTruth(context.Background(), extractions, model.AggregatedData{Description: "   "})
	require.NoError(t, err)

	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.TruthChecks)
	assert.NotNil(t, result.TruthChecks)
	assert.True(t, result.Passed)
	assert.Equal(t, model.OverallAllVerified, result.OverallVerdict)
	assert.Equal(t, model.ConfidenceMedium, CalculateConfidence(result))
	assert.Zero(t, fake.extractCalls, "blank description must not reach the comparator")
	assert.Empty(t, fake.equivalenceLog, "agreeing sources must not reach the comparator")
}

func TestVerifyCrossSourceTruth_UnverifiedClaimsStillPass(t *testing.T) {
	fake := &fakeComparator{
		claims: []ExtractedClaim{{Claim: "hand-made in Portugal"}},
	}
	v := NewVerifier(fake)

	extractions := []model.ExtractedData{{SourceURL: "https://a.example", RawExtract: "a mug"}}

	result, err := v.VerifyCrossSourceTruth(context.Background(), extractions, model.AggregatedData{Description: "Hand-made in Portugal."})
	require.NoError(t, err)

	assert.Equal(t, model.VerdictUnverified, result.TruthChecks[0].Verdict)
	assert.Equal(t, model.OverallSomeUnverified, result.OverallVerdict)
	assert.True(t, result.Passed)
	assert.Equal(t, model.ConfidenceLow, CalculateConfidence(result))
}

func TestVerifyCrossSourceTruth_UnresolvedConflictFails(t *testing.T) {
	fake := &fakeComparator{equivalence: conflicting}
	v := NewVerifier(fake)

	extractions := []model.ExtractedData{
		{SourceURL: "https://a.example", Specifications: map[string]string{"color": "red"}},
		{SourceURL: "https://b.example", Specifications: map[string]string{"color": "blue"}},
	}

	result, err := v.VerifyCrossSourceTruth(context.Background(), extractions, model.AggregatedData{Specifications: map[string]string{"color": "red"}})
	require.NoError(t, err)

	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, model.ResolutionConflict, result.Conflicts[0].Resolution)
	assert.Nil(t, result.Conflicts[0].ResolvedValue)
	assert.Equal(t, model.OverallConflictsFound, result.OverallVerdict)
	assert.False(t, result.Passed)
}

func TestVerifyCrossSourceTruth_ComparatorFailureFailsRun(t *testing.T) {
	backendErr := errors.New("backend unavailable")

	t.Run("equivalence", func(t *testing.T) {
		fake := &fakeComparator{equivalence: func(string, []string) (*EquivalenceResult, error) {
			return nil, backendErr
		}}
		extractions := []model.ExtractedData{
			{SourceURL: "https://a.example", ProductName: "Lamp"},
			{SourceURL: "https://b.example", ProductName: "Lantern"},
		}

		result, err := NewVerifier(fake).VerifyCrossSourceTruth(context.Background(), extractions, model.AggregatedData{})
		require.Error(t, err)
		assert.ErrorIs(t, err, backendErr)
		assert.Nil(t, result)
	})

	t.Run("claim extraction", func(t *testing.T) {
		fake := &fakeComparator{claimsErr: backendErr}

		result, err := NewVerifier(fake).VerifyCrossSourceTruth(context.Background(), nil, model.AggregatedData{Description: "Bright."})
		assert.ErrorIs(t, err, backendErr)
		assert.Nil(t, result)
	})

	t.Run("claim verification", func(t *testing.T) {
		fake := &fakeComparator{
			claims:    []ExtractedClaim{{Claim: "bright"}},
			verifyErr: backendErr,
		}
		extractions := []model.ExtractedData{{SourceURL: "https://a.example", RawExtract: "x"}}

		result, err := NewVerifier(fake).VerifyCrossSourceTruth(context.Background(), extractions, model.AggregatedData{Description: "Bright."})
		assert.ErrorIs(t, err, backendErr)
		assert.Nil(t, result)
	})

	t.Run("empty equivalence result", func(t *testing.T) {
		fake := &fakeComparator{equivalence: func(string, []string) (*EquivalenceResult, error) {
			return nil, nil
		}}
		extractions := []model.ExtractedData{
			{SourceURL: "https://a.example", ProductName: "Lamp"},
			{SourceURL: "https://b.example", ProductName: "Lantern"},
		}

		_, err := NewVerifier(fake).VerifyCrossSourceTruth(context.Background(), extractions, model.AggregatedData{})
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})
}

func TestDetectFieldConflicts_AgreementIsSilent(t *testing.T) {
	fake := &fakeComparator{equivalence: conflicting}
	v := NewVerifier(fake)

	extractions := []model.ExtractedData{
		{SourceURL: "https://a.example", ProductName: "Trail Lamp", Specifications: map[string]string{"material": "Steel", "weight": "1 kg"}},
		{SourceURL: "https://b.example", ProductName: "TRAIL LAMP", Specifications: map[string]string{"material": "steel"}},
		{SourceURL: "https://c.example", ProductName: "", Specifications: map[string]string{"material": "  "}},
	}
	aggregated := model.AggregatedData{Specifications: map[string]string{"material": "steel", "weight": "1 kg"}}

	conflicts, err := v.DetectFieldConflicts(context.Background(), extractions, aggregated)
	require.NoError(t, err)

	assert.Empty(t, conflicts)
	assert.Empty(t, fake.equivalenceLog)
}

func TestDetectFieldConflicts_MinimumSources(t *testing.T) {
	fake := &fakeComparator{equivalence: conflicting}
	v := NewVerifier(fake)

	extractions := []model.ExtractedData{
		{SourceURL: "https://a.example", Specifications: map[string]string{"voltage": "12V"}},
		{SourceURL: "https://b.example"},
	}

	conflicts, err := v.DetectFieldConflicts(context.Background(), extractions, model.AggregatedData{Specifications: map[string]string{"voltage": "12V"}})
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestDetectFieldConflicts_EquivalentWordingNotRecorded(t *testing.T) {
	fake := &fakeComparator{equivalence: equivalent("50 mm")}
	v := NewVerifier(fake)

	extractions := []model.ExtractedData{
		{SourceURL: "https://a.example", Specifications: map[string]string{"width": "50 mm"}},
		{SourceURL: "https://b.example", Specifications: map[string]string{"width": "50mm."}},
	}

	conflicts, err := v.DetectFieldConflicts(context.Background(), extractions, model.AggregatedData{Specifications: map[string]string{"width": ""}})
	require.NoError(t, err)

	assert.Equal(t, []string{"width"}, fake.equivalenceLog)
	assert.Empty(t, conflicts)
}

func TestDetectFieldConflicts_CompatibleAndFieldOrder(t *testing.T) {
	fake := &fakeComparator{equivalence: func(field string, values []string) (*EquivalenceResult, error) {
		switch field {
		case "material":
			return &EquivalenceResult{Compatible: true, ResolvedValue: strPtr("anodized aluminium"), Reasoning: "more specific"}, nil
		default:
			return &EquivalenceResult{ResolvedValue: strPtr("ignored"), Reasoning: "disagree"}, nil
		}
	}}
	v := NewVerifier(fake, WithConcurrency(3))

	extractions := []model.ExtractedData{
		{SourceURL: "https://a.example", ProductName: "Lamp", Description: "A lamp", Specifications: map[string]string{"material": "aluminium", "color": "red"}},
		{SourceURL: "https://b.example", ProductName: "Lantern", Description: "A lantern", Specifications: map[string]string{"material": "anodized aluminium", "color": "blue"}},
	}
	aggregated := model.AggregatedData{Specifications: map[string]string{"material": "", "color": "", "productName": "dup"}}

	conflicts, err := v.DetectFieldConflicts(context.Background(), extractions, aggregated)
	require.NoError(t, err)

	fields := make([]string, len(conflicts))
	for i, c := range conflicts {
		fields[i] = c.Field
	}
	if diff := cmp.Diff([]string{"productName", "description", "color", "material"}, fields); diff != "" {
		t.Errorf("field order mismatch (-want +got):\n%s", diff)
	}

	material := conflicts[3]
	assert.Equal(t, model.ResolutionCompatible, material.Resolution)
	require.NotNil(t, material.ResolvedValue)
	assert.Equal(t, "anodized aluminium", *material.ResolvedValue)
	assert.Equal(t, "more specific", material.Reasoning)

	assert.Nil(t, conflicts[0].ResolvedValue, "hard conflicts carry no resolved value")
}

func TestVerifyDescriptionClaims_OrderFollowsExtractions(t *testing.T) {
	claim := "fits 700c wheels"
	stances := map[string]ClaimVerification{}
	var extractions []model.ExtractedData
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		raw := "raw-" + name
		stances[raw] = ClaimVerification{Supports: name != "c", Contradicts: name == "c" || name == "e"}
		extractions = append(extractions, model.ExtractedData{SourceURL: "https://" + name + ".example", RawExtract: raw})
	}

	fake := &fakeComparator{
		claims:  []ExtractedClaim{{Claim: claim}},
		stances: map[string]map[string]ClaimVerification{claim: stances},
		// Earlier sources answer last
		verifyDelay: func(source string) time.Duration {
			return time.Duration('f'-source[len(source)-1]) * 5 * time.Millisecond
		},
	}
	v := NewVerifier(fake, WithConcurrency(5))

	checks, err := v.VerifyDescriptionClaims(context.Background(), "Fits 700c wheels.", extractions)
	require.NoError(t, err)
	require.Len(t, checks, 1)

	want := model.TruthCheck{
		Claim:          claim,
		SupportedBy:    []string{"https://a.example", "https://b.example", "https://d.example", "https://e.example"},
		ContradictedBy: []string{"https://c.example", "https://e.example"},
		Verdict:        model.VerdictContradicted,
	}
	if diff := cmp.Diff(want, checks[0]); diff != "" {
		t.Errorf("truth check mismatch (-want +got):\n%s", diff)
	}
}

func TestVerifyDescriptionClaims_TruncatesRawExtract(t *testing.T) {
	fake := &fakeComparator{claims: []ExtractedClaim{{Claim: "durable"}}}
	v := NewVerifier(fake, WithMaxSourceChars(100))

	extractions := []model.ExtractedData{{SourceURL: "https://a.example", RawExtract: strings.Repeat("é", 250)}}

	_, err := v.VerifyDescriptionClaims(context.Background(), "Durable.", extractions)
	require.NoError(t, err)

	require.Len(t, fake.verifySources, 1)
	assert.Equal(t, strings.Repeat("é", 100), fake.verifySources[0])
}

func TestVerifyDescriptionClaims_NoClaims(t *testing.T) {
	fake := &fakeComparator{}
	checks, err := NewVerifier(fake).VerifyDescriptionClaims(context.Background(), "Lovely.", []model.ExtractedData{{SourceURL: "https://a.example"}})
	require.NoError(t, err)
	assert.Empty(t, checks)
	assert.Empty(t, fake.verifySources)
}

func TestEvaluate_VerdictPrecedence(t *testing.T) {
	tests := []struct {
		name      string
		conflicts []model.FieldConflict
		verdicts  []model.Verdict
		want      model.OverallVerdict
		passed    bool
	}{
		{"empty", nil, nil, model.OverallAllVerified, true},
		{"verified only", nil, []model.Verdict{model.VerdictVerified}, model.OverallAllVerified, true},
		{"unverified", nil, []model.Verdict{model.VerdictVerified, model.VerdictUnverified}, model.OverallSomeUnverified, true},
		{"contradicted beats unverified", nil, []model.Verdict{model.VerdictUnverified, model.VerdictContradicted}, model.OverallConflictsFound, false},
		{"resolved conflicts pass", []model.FieldConflict{{Resolution: model.ResolutionEquivalent}, {Resolution: model.ResolutionCompatible}}, nil, model.OverallAllVerified, true},
		{"hard conflict beats verified", []model.FieldConflict{{Resolution: model.ResolutionConflict}}, []model.Verdict{model.VerdictVerified}, model.OverallConflictsFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var checks []model.TruthCheck
			for _, v := range tt.verdicts {
				checks = append(checks, model.TruthCheck{Verdict: v})
			}
			result := Evaluate(tt.conflicts, checks)
			assert.Equal(t, tt.want, result.OverallVerdict)
			assert.Equal(t, tt.passed, result.Passed)
		})
	}
}
