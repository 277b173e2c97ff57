package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/crosscheck/internal/cache"
	"github.com/ppiankov/crosscheck/internal/compare"
	"github.com/ppiankov/crosscheck/internal/llm"
	"github.com/ppiankov/crosscheck/internal/model"
	"github.com/ppiankov/crosscheck/internal/verify"
	"github.com/ppiankov/crosscheck/internal/worker"
)

// Pipeline orchestrates one verification run per source bundle
type Pipeline struct {
	verifier       *verify.Verifier
	comparatorName string
	trust          *verify.TrustTable
	matcher        verify.SentenceMatcher
	renderer       *Renderer
	config         *model.Config
	logger         *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewPipeline creates a pipeline whose comparator is built from cfg
func NewPipeline(ctx context.Context, cfg *model.Config, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	comparator, name, err := BuildComparator(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	return NewPipelineWithComparator(cfg, comparator, name, logger), nil
}

// NewPipelineWithComparator creates a pipeline around an existing comparator
func NewPipelineWithComparator(cfg *model.Config, comparator verify.Comparator, name string, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}

	matcher := verify.DefaultOverlapMatcher()
	if cfg.Verification.MinWordLength > 0 {
		matcher.MinWordLength = cfg.Verification.MinWordLength
	}
	if cfg.Verification.OverlapThreshold > 0 {
		matcher.Threshold = cfg.Verification.OverlapThreshold
	}

	return &Pipeline{
		verifier: verify.NewVerifier(comparator,
			verify.WithLogger(logger),
			verify.WithMaxSourceChars(cfg.Verification.MaxSourceChars),
			verify.WithConcurrency(cfg.Verification.Concurrency),
		),
		comparatorName: name,
		trust:          verify.NewTrustTable(cfg.Trust),
		matcher:        matcher,
		renderer:       NewRenderer(cfg.Output.IncludeFooter),
		config:         cfg,
		logger:         logger,
		now:            time.Now,
		newID:          uuid.NewString,
	}
}

// BuildComparator assembles the comparator stack for cfg: an LLM comparator
// behind a rate limiter and an optional cache, or the heuristic comparator
// when no LLM provider is configured.
func BuildComparator(ctx context.Context, cfg *model.Config, logger *zap.Logger) (verify.Comparator, string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	provider, err := llm.NewProvider(ctx, llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, "", fmt.Errorf("init LLM provider: %w", err)
	}
	if provider == nil {
		logger.Debug("Using heuristic comparator")
		return compare.NewHeuristic(cfg.Verification, logger), compare.HeuristicName, nil
	}

	llmComparator := llm.NewComparator(provider, logger)
	name := llmComparator.Name()

	endpoint := cfg.LLM.BaseURL
	if endpoint == "" {
		endpoint = provider.Name()
	}
	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	for host, rps := range cfg.RateLimiting.Endpoints {
		limiter.SetEndpointRate(host, rps, 0)
	}

	var comparator verify.Comparator = worker.NewLimitedComparator(llmComparator, limiter, endpoint)

	if cfg.Cache.Enabled {
		comparator = cache.NewComparator(comparator, cache.NewStore(cfg.Cache), name, logger)
	}

	logger.Debug("Using LLM comparator",
		zap.String("comparator", name),
		zap.String("endpoint", endpoint),
		zap.Bool("cache", cfg.Cache.Enabled),
	)

	return comparator, name, nil
}

// Verify runs cross-source verification on bundle and builds a report.
// Conflict resolution and claim filtering run when enabled in config.
func (p *Pipeline) Verify(ctx context.Context, bundle model.SourceBundle) (*model.Report, error) {
	result, err := p.verifier.VerifyCrossSourceTruth(ctx, bundle.Extractions, bundle.Aggregated)
	if err != nil {
		return nil, err
	}

	report := &model.Report{
		RunID:       p.newID(),
		Subject:     model.SubjectFor(bundle),
		GeneratedAt: p.now().UTC(),
		Comparator:  p.comparatorName,
		Sources:     bundle.SourceURLs(),
		Result:      *result,
		Confidence:  verify.CalculateConfidence(result),
		Summary:     verify.Summarize(result),
	}

	if p.config.Verification.AutoResolve && len(result.Conflicts) > 0 {
		resolution := verify.ResolveConflicts(result.Conflicts, bundle.Extractions, p.trust)
		report.Resolution = &resolution
	}

	if p.config.Verification.FilterClaims && report.Summary.ClaimsContradicted > 0 {
		cleaned := verify.FilterContradictedClaims(bundle.Aggregated.Description, result.TruthChecks, p.matcher)
		report.CleanedDescription = &cleaned
	}

	p.logger.Info("Verification complete",
		zap.String("run_id", report.RunID),
		zap.String("subject", report.Subject),
		zap.String("verdict", string(result.OverallVerdict)),
		zap.String("confidence", string(report.Confidence)),
	)

	return report, nil
}

// VerifyFile loads a bundle file and verifies it
func (p *Pipeline) VerifyFile(ctx context.Context, path string) (*model.Report, error) {
	bundle, err := LoadBundle(path)
	if err != nil {
		return nil, err
	}

	report, err := p.Verify(ctx, *bundle)
	if err != nil {
		return nil, fmt.Errorf("verify %s: %w", path, err)
	}
	return report, nil
}

// RenderReport writes the report to the requested outputs
func (p *Pipeline) RenderReport(report *model.Report, jsonPath string, mdPath string) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		p.logger.Debug("Wrote JSON", zap.String("path", jsonPath))
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		p.logger.Debug("Wrote Markdown", zap.String("path", mdPath))
	}

	return nil
}

// Renderer returns the pipeline's renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// OutputPaths derives report paths for a bundle inside outDir
func OutputPaths(bundlePath, outDir string) (jsonPath, mdPath string) {
	base := filepath.Base(bundlePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	prefix := filepath.Join(outDir, base)
	return prefix + ".report.json", prefix + ".report.md"
}
