package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/crosscheck/internal/pipeline"
	"github.com/ppiankov/crosscheck/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	batchStrict  bool
	batchFlags   comparatorFlags
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Verify many source bundles listed in a file",
	Long: `Batch verifies source bundles concurrently:
- Read bundle paths from the input file (one per line, # for comments)
- Relative paths are resolved against the list file's directory
- Verify bundles in parallel with a configurable worker count
- Write <name>.report.json and <name>.report.md per bundle

Example:
  crosscheck batch bundles.txt
  crosscheck batch bundles.txt --concurrency 8 --output-dir ./reports
  crosscheck batch bundles.txt --provider anthropic --timeout 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent bundles (default: concurrency.workers from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./crosscheck-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&batchStrict, "strict", false, "exit non-zero when any bundle errors or fails verification")
	batchFlags.register(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig(&batchFlags)
	if err != nil {
		return err
	}
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  crosscheck batch\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Comparator:   %s\n", cfg.LLM.Provider)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.NewPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers)

	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	var successCount, failedCount, errorCount int
	for _, result := range results {
		if result.Error != nil {
			errorCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		jsonPath, mdPath := pipeline.OutputPaths(result.Path, outputDir)
		if err := p.RenderReport(result.Report, jsonPath, mdPath); err != nil {
			errorCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, err)
			continue
		}

		if result.Report.Result.Passed {
			successCount++
			fmt.Fprintf(os.Stderr, "✓ %s (%s, confidence %s)\n",
				result.Report.Subject, result.Report.Result.OverallVerdict, result.Report.Confidence)
		} else {
			failedCount++
			fmt.Fprintf(os.Stderr, "✗ %s (%s)\n", result.Report.Subject, result.Report.Result.OverallVerdict)
		}
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d bundles\n", len(results))
	fmt.Fprintf(os.Stderr, "  Passed:    %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failed:    %d\n", failedCount)
	fmt.Fprintf(os.Stderr, "  Errors:    %d\n", errorCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if batchStrict && (failedCount > 0 || errorCount > 0) {
		return fmt.Errorf("%d of %d bundles: %w", failedCount+errorCount, len(results), ErrGateFailed)
	}
	return nil
}
