package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/crosscheck/internal/model"
	"github.com/ppiankov/crosscheck/internal/verify"
)

const systemPrompt = `You compare product information gathered from several retail and reference sources.
Judge only from the text you are given. Do not use outside knowledge.
Respond with a single JSON object and nothing else.`

const equivalencePrompt = `Field: %s
Values reported by different sources:
%s

Decide whether these values describe the same fact.
- allEquivalent: true when every value states the same fact (e.g. "50mm" and "5 cm").
- compatible: true when the values do not contradict each other (e.g. one is more specific).
- resolvedValue: the single best value when allEquivalent or compatible, otherwise null.
- reasoning: one short sentence.

Respond as {"allEquivalent": bool, "compatible": bool, "resolvedValue": string|null, "reasoning": string}.`

const extractClaimsPrompt = `Product description:
"""
%s
"""

Split the description into atomic factual claims that a source could confirm or refute.
Skip marketing language that states no fact. Rate each claim's importance as high, medium or low.

Respond as {"claims": [{"claim": string, "importance": "high"|"medium"|"low"}]}.`

const verifyClaimPrompt = `Claim: %s

Source text:
"""
%s
"""

Does the source text support the claim, contradict it, or say nothing about it?
Set supports to true only if the text states the claim. Set contradicts to true only if the text states something incompatible with it.

Respond as {"supports": bool, "contradicts": bool}.`

// Comparator answers verification questions by prompting an LLM for strict JSON
type Comparator struct {
	provider Provider
	logger   *zap.Logger
}

// NewComparator creates a comparator backed by provider
func NewComparator(provider Provider, logger *zap.Logger) *Comparator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Comparator{provider: provider, logger: logger}
}

// Name identifies the backend as provider/model
func (c *Comparator) Name() string {
	return c.provider.Name() + "/" + c.provider.Model()
}

// CheckEquivalence implements verify.Comparator
func (c *Comparator) CheckEquivalence(ctx context.Context, field string, values []string) (*verify.EquivalenceResult, error) {
	var listed strings.Builder
	for _, v := range values {
		fmt.Fprintf(&listed, "- %q\n", v)
	}

	var raw struct {
		AllEquivalent *bool   `json:"allEquivalent"`
		Compatible    *bool   `json:"compatible"`
		ResolvedValue *string `json:"resolvedValue"`
		Reasoning     string  `json:"reasoning"`
	}
	if err := c.ask(ctx, fmt.Sprintf(equivalencePrompt, field, listed.String()), &raw); err != nil {
		return nil, err
	}
	if raw.AllEquivalent == nil || raw.Compatible == nil {
		return nil, fmt.Errorf("%w: equivalence answer missing allEquivalent or compatible", verify.ErrMalformedResponse)
	}

	return &verify.EquivalenceResult{
		AllEquivalent: *raw.AllEquivalent,
		Compatible:    *raw.Compatible || *raw.AllEquivalent,
		ResolvedValue: raw.ResolvedValue,
		Reasoning:     raw.Reasoning,
	}, nil
}

// ExtractClaims implements verify.Comparator
func (c *Comparator) ExtractClaims(ctx context.Context, text string) ([]verify.ExtractedClaim, error) {
	var raw struct {
		Claims *[]struct {
			Claim      string `json:"claim"`
			Importance string `json:"importance"`
		} `json:"claims"`
	}
	if err := c.ask(ctx, fmt.Sprintf(extractClaimsPrompt, text), &raw); err != nil {
		return nil, err
	}
	if raw.Claims == nil {
		return nil, fmt.Errorf("%w: claims answer missing claims list", verify.ErrMalformedResponse)
	}

	claims := make([]verify.ExtractedClaim, 0, len(*raw.Claims))
	for _, item := range *raw.Claims {
		claim := strings.TrimSpace(item.Claim)
		if claim == "" {
			continue
		}
		claims = append(claims, verify.ExtractedClaim{
			Claim:      claim,
			Importance: model.ParseImportance(item.Importance),
		})
	}
	return claims, nil
}

// VerifyClaim implements verify.Comparator
func (c *Comparator) VerifyClaim(ctx context.Context, claim string, source string) (*verify.ClaimVerification, error) {
	var raw struct {
		Supports    *bool `json:"supports"`
		Contradicts *bool `json:"contradicts"`
	}
	if err := c.ask(ctx, fmt.Sprintf(verifyClaimPrompt, claim, source), &raw); err != nil {
		return nil, err
	}
	if raw.Supports == nil || raw.Contradicts == nil {
		return nil, fmt.Errorf("%w: verification answer missing supports or contradicts", verify.ErrMalformedResponse)
	}

	return &verify.ClaimVerification{
		Supports:    *raw.Supports,
		Contradicts: *raw.Contradicts,
	}, nil
}

// ask sends prompt and decodes the JSON reply into out
func (c *Comparator) ask(ctx context.Context, prompt string, out any) error {
	resp, err := c.provider.Complete(ctx, CompletionRequest{System: systemPrompt, Prompt: prompt})
	if err != nil {
		return err
	}

	c.logger.Debug("LLM reply",
		zap.String("provider", c.provider.Name()),
		zap.String("model", resp.Model),
		zap.Int("tokens", resp.TokensUsed),
	)

	if err := json.Unmarshal([]byte(cleanJSONContent(resp.Text)), out); err != nil {
		return fmt.Errorf("%w: %v", verify.ErrMalformedResponse, err)
	}
	return nil
}

// cleanJSONContent strips markdown code fences some models wrap JSON in
func cleanJSONContent(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
