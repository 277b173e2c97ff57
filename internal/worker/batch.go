package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/crosscheck/internal/model"
)

// Runner verifies one source bundle file
type Runner interface {
	VerifyFile(ctx context.Context, path string) (*model.Report, error)
}

// VerifyJob represents one bundle verification
type VerifyJob struct {
	Index  int
	Path   string
	Runner Runner
}

// Execute executes the verification job
func (j *VerifyJob) Execute(ctx context.Context) Result {
	report, err := j.Runner.VerifyFile(ctx, j.Path)
	if err != nil {
		return &BatchResult{
			Index: j.Index,
			Path:  j.Path,
			Error: err,
		}
	}
	return &BatchResult{
		Index:  j.Index,
		Path:   j.Path,
		Report: report,
	}
}

// BatchResult represents the result of one bundle verification
type BatchResult struct {
	Index  int
	Path   string
	Report *model.Report
	Error  error
}

// GetError returns the error from the batch result
func (r *BatchResult) GetError() error {
	return r.Error
}

// BatchProcessor verifies many bundles concurrently
type BatchProcessor struct {
	runner      Runner
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(runner Runner, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
	}
}

// ProcessPaths verifies every bundle file. Results are in input order and
// one failing bundle does not stop the others.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*BatchResult {
	if len(paths) == 0 {
		return []*BatchResult{}
	}

	jobs := make([]Job, len(paths))
	for i, path := range paths {
		jobs[i] = &VerifyJob{Index: i, Path: path, Runner: b.runner}
	}

	results := NewPoolWithContext(ctx, b.concurrency).Run(jobs)

	batchResults := make([]*BatchResult, len(paths))
	for _, result := range results {
		br := result.(*BatchResult)
		batchResults[br.Index] = br
	}

	// Jobs dropped by cancellation still get a result
	for i, br := range batchResults {
		if br == nil {
			batchResults[i] = &BatchResult{
				Index: i,
				Path:  paths[i],
				Error: fmt.Errorf("bundle not verified: %w", context.Cause(ctx)),
			}
		}
	}

	return batchResults
}

// ProcessFile reads bundle paths from a list file and verifies them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*BatchResult, error) {
	paths, err := ReadPathsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read bundle paths: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}

// ReadPathsFromFile reads bundle paths from a file (one per line). Relative
// paths are resolved against the list file's directory.
func ReadPathsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	baseDir := filepath.Dir(filePath)

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !filepath.IsAbs(line) {
			line = filepath.Join(baseDir, line)
		}

		// Deduplicate paths
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
