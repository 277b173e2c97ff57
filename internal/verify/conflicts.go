package verify

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/crosscheck/internal/model"
)

// DetectFieldConflicts reports every field on which at least two sources gave
// different non-empty values. Fields where all sources agree
// (case-insensitively) or fewer than two sources answered are skipped. A
// comparator failure fails the whole pass.
func (v *Verifier) DetectFieldConflicts(ctx context.Context, extractions []model.ExtractedData, aggregated model.AggregatedData) ([]model.FieldConflict, error) {
	fields := candidateFields(aggregated)
	results := make([]*model.FieldConflict, len(fields))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.concurrency)

	for i, field := range fields {
		values := collectValues(field, extractions)
		if len(values) < 2 {
			continue
		}
		if countDistinct(values, strings.ToLower) == 1 {
			continue
		}

		g.Go(func() error {
			conflict, err := v.evaluateField(gctx, field, values)
			if err != nil {
				return err
			}
			results[i] = conflict
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	conflicts := make([]model.FieldConflict, 0, len(fields))
	for _, c := range results {
		if c != nil {
			conflicts = append(conflicts, *c)
		}
	}
	return conflicts, nil
}

// evaluateField asks the comparator about one field's values. It returns nil
// when the field resolves to a single fact with no wording difference worth
// recording.
func (v *Verifier) evaluateField(ctx context.Context, field string, values []model.SourceValue) (*model.FieldConflict, error) {
	literals := make([]string, len(values))
	for i, sv := range values {
		literals[i] = sv.Value
	}

	eq, err := v.comparator.CheckEquivalence(ctx, field, literals)
	if err != nil {
		return nil, fmt.Errorf("check equivalence of %q: %w", field, err)
	}
	if eq == nil {
		return nil, fmt.Errorf("check equivalence of %q: %w: empty result", field, ErrMalformedResponse)
	}

	resolution := eq.Resolution()
	if resolution == model.ResolutionEquivalent && countDistinct(values, normalizeValue) == 1 {
		v.logger.Debug("field values equivalent after normalization",
			zap.String("field", field),
			zap.Int("sources", len(values)))
		return nil, nil
	}

	v.logger.Debug("field disagreement",
		zap.String("field", field),
		zap.String("resolution", string(resolution)),
		zap.Int("sources", len(values)))

	conflict := &model.FieldConflict{
		Field:      field,
		Values:     values,
		Resolution: resolution,
		Reasoning:  eq.Reasoning,
	}
	if resolution != model.ResolutionConflict && eq.ResolvedValue != nil {
		resolved := *eq.ResolvedValue
		conflict.ResolvedValue = &resolved
	}
	return conflict, nil
}

// candidateFields lists productName, description and every aggregated
// specification key (sorted, so runs are reproducible).
func candidateFields(aggregated model.AggregatedData) []string {
	fields := []string{model.FieldProductName, model.FieldDescription}

	keys := make([]string, 0, len(aggregated.Specifications))
	for key := range aggregated.Specifications {
		if key == model.FieldProductName || key == model.FieldDescription {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return append(fields, keys...)
}

// collectValues gathers the non-blank values sources report for field, in
// extraction order.
func collectValues(field string, extractions []model.ExtractedData) []model.SourceValue {
	var values []model.SourceValue
	for _, e := range extractions {
		value := e.FieldValue(field)
		if strings.TrimSpace(value) == "" {
			continue
		}
		values = append(values, model.SourceValue{Source: e.SourceURL, Value: value})
	}
	return values
}

func countDistinct(values []model.SourceValue, key func(string) string) int {
	seen := make(map[string]bool, len(values))
	for _, sv := range values {
		seen[key(sv.Value)] = true
	}
	return len(seen)
}

// normalizeValue folds case, whitespace and trailing punctuation so that
// "50 mm" and "50mm." count as the same literal.
func normalizeValue(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), ".,;:!")
}
