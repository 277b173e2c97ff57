package verify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/crosscheck/internal/extract"
	"github.com/ppiankov/crosscheck/internal/model"
)

// VerifyDescriptionClaims extracts the atomic claims of description and
// checks each against every source's raw extract. supportedBy and
// contradictedBy list sources in extraction order regardless of the order
// in which comparator calls complete.
func (v *Verifier) VerifyDescriptionClaims(ctx context.Context, description string, extractions []model.ExtractedData) ([]model.TruthCheck, error) {
	if strings.TrimSpace(description) == "" {
		return []model.TruthCheck{}, nil
	}

	claims, err := v.comparator.ExtractClaims(ctx, description)
	if err != nil {
		return nil, fmt.Errorf("extract claims: %w", err)
	}
	if len(claims) == 0 {
		return []model.TruthCheck{}, nil
	}

	sources := make([]string, len(extractions))
	for j, e := range extractions {
		sources[j] = extract.Truncate(e.RawExtract, v.maxSourceChars)
	}

	// stances[i][j] is source j's stance on claim i
	stances := make([][]ClaimVerification, len(claims))
	for i := range stances {
		stances[i] = make([]ClaimVerification, len(extractions))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.concurrency)

	for i, claim := range claims {
		for j := range extractions {
			g.Go(func() error {
				res, err := v.comparator.VerifyClaim(gctx, claim.Claim, sources[j])
				if err != nil {
					return fmt.Errorf("verify claim %q against %s: %w", claim.Claim, extractions[j].SourceURL, err)
				}
				if res == nil {
					return fmt.Errorf("verify claim %q against %s: %w: empty result", claim.Claim, extractions[j].SourceURL, ErrMalformedResponse)
				}
				stances[i][j] = *res
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	checks := make([]model.TruthCheck, len(claims))
	for i, claim := range claims {
		supportedBy := []string{}
		contradictedBy := []string{}
		for j, stance := range stances[i] {
			if stance.Supports {
				supportedBy = append(supportedBy, extractions[j].SourceURL)
			}
			if stance.Contradicts {
				contradictedBy = append(contradictedBy, extractions[j].SourceURL)
			}
		}

		checks[i] = model.TruthCheck{
			Claim:          claim.Claim,
			SupportedBy:    supportedBy,
			ContradictedBy: contradictedBy,
			Verdict:        model.VerdictFor(supportedBy, contradictedBy),
		}

		v.logger.Debug("claim checked",
			zap.String("claim", claim.Claim),
			zap.String("importance", string(claim.Importance)),
			zap.String("verdict", string(checks[i].Verdict)),
			zap.Int("supported", len(supportedBy)),
			zap.Int("contradicted", len(contradictedBy)))
	}

	return checks, nil
}
