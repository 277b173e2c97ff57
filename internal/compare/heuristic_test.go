package compare

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/crosscheck/internal/model"
	"github.com/ppiankov/crosscheck/internal/verify"
)

var _ verify.Comparator = (*Heuristic)(nil)

func newTestHeuristic() *Heuristic {
	return NewHeuristic(model.VerificationConfig{}, nil)
}

func TestHeuristic_CheckEquivalence(t *testing.T) {
	h := newTestHeuristic()

	tests := []struct {
		name       string
		values     []string
		resolution model.Resolution
		resolved   string
	}{
		{"case and spacing", []string{"Steel Blue", "steel  blue."}, model.ResolutionEquivalent, "Steel Blue"},
		{"metric and imperial length", []string{"50 mm", "5 cm", "1.97 in"}, model.ResolutionEquivalent, "50 mm"},
		{"mass within tolerance", []string{"1 kg", "2.2 lbs"}, model.ResolutionEquivalent, "1 kg"},
		{"mass outside tolerance", []string{"1 kg", "2 lb"}, model.ResolutionConflict, ""},
		{"different dimensions", []string{"5 cm", "5 g"}, model.ResolutionConflict, ""},
		{"more specific value", []string{"aluminium", "6061 Aluminium"}, model.ResolutionCompatible, "6061 Aluminium"},
		{"hard conflict", []string{"red", "blue"}, model.ResolutionConflict, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.CheckEquivalence(context.Background(), "field", tt.values)
			require.NoError(t, err)
			require.NotNil(t, result)

			assert.Equal(t, tt.resolution, result.Resolution())
			assert.NotEmpty(t, result.Reasoning)
			if tt.resolved == "" {
				assert.Nil(t, result.ResolvedValue)
				return
			}
			require.NotNil(t, result.ResolvedValue)
			assert.Equal(t, tt.resolved, *result.ResolvedValue)
		})
	}
}

func TestHeuristic_ExtractClaims(t *testing.T) {
	h := newTestHeuristic()

	claims, err := h.ExtractClaims(context.Background(), "Weighs only 1.2 kg. Rated for outdoor use!\n- Ships in a box")
	require.NoError(t, err)
	require.Len(t, claims, 3)

	assert.Equal(t, verify.ExtractedClaim{Claim: "Weighs only 1.2 kg", Importance: model.ImportanceHigh}, claims[0])
	assert.Equal(t, verify.ExtractedClaim{Claim: "Rated for outdoor use", Importance: model.ImportanceMedium}, claims[1])
	assert.Equal(t, verify.ExtractedClaim{Claim: "Ships in a box", Importance: model.ImportanceLow}, claims[2])
}

func TestHeuristic_VerifyClaim(t *testing.T) {
	h := newTestHeuristic()

	tests := []struct {
		name   string
		claim  string
		source string
		want   verify.ClaimVerification
	}{
		{
			name:   "supporting sentence",
			claim:  "Rated for outdoor use",
			source: "Specs: 40 lumens. This lamp is rated for outdoor use.",
			want:   verify.ClaimVerification{Supports: true},
		},
		{
			name:   "antonym contradicts",
			claim:  "Rated for outdoor use",
			source: "This lamp is rated for indoor use only.",
			want:   verify.ClaimVerification{Contradicts: true},
		},
		{
			name:   "antonym with half the claim words contradicts",
			claim:  "Rated for outdoor use",
			source: "Great lamp. Indoor use only.",
			want:   verify.ClaimVerification{Contradicts: true},
		},
		{
			name:   "lone antonym in an unrelated sentence is neutral",
			claim:  "Wireless charging pad with cooling fan",
			source: "Wired keyboard included.",
			want:   verify.ClaimVerification{},
		},
		{
			name:   "negation contradicts",
			claim:  "Dishwasher safe stainless bowl",
			source: "The stainless bowl is not dishwasher safe.",
			want:   verify.ClaimVerification{Contradicts: true},
		},
		{
			name:   "different measurement contradicts",
			claim:  "Battery capacity 5000 mAh",
			source: "Battery capacity: 4000 mAh.",
			want:   verify.ClaimVerification{Contradicts: true},
		},
		{
			name:   "converted measurement supports",
			claim:  "Blade length 12 inches",
			source: "<ul><li>Blade length 30.5 cm</li><li>Handle: walnut</li></ul>",
			want:   verify.ClaimVerification{Supports: true},
		},
		{
			name:   "unrelated source is neutral",
			claim:  "Rated for outdoor use",
			source: "Comes in three colors.",
			want:   verify.ClaimVerification{},
		},
		{
			name:   "claim without significant words is neutral",
			claim:  "It is a fit",
			source: "It is a fit.",
			want:   verify.ClaimVerification{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.VerifyClaim(context.Background(), tt.claim, tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestHeuristic_CancelledContext(t *testing.T) {
	h := newTestHeuristic()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.CheckEquivalence(ctx, "color", []string{"red", "blue"})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = h.ExtractClaims(ctx, "Rated for outdoor use.")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = h.VerifyClaim(ctx, "Rated for outdoor use", "Rated for outdoor use.")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseQuantity(t *testing.T) {
	q, ok := parseQuantity("12 in")
	require.True(t, ok)
	assert.Equal(t, "length", q.dimension)
	assert.InDelta(t, 0.3048, q.value, 1e-9)

	q, ok = parseQuantity("42")
	require.True(t, ok)
	assert.Empty(t, q.dimension)

	_, ok = parseQuantity("about 12 in")
	assert.False(t, ok)
}
