package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/crosscheck/internal/pipeline"
)

var (
	outJSON       string
	outMD         string
	verifyTimeout time.Duration
	strict        bool
	verifyFlags   comparatorFlags
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <bundle>",
	Short: "Verify one source bundle and generate a report",
	Long: `Verify checks a source bundle (.json, .yaml or .yml) holding several
sources' extractions of one product plus the merged record built from them:
- Detect fields on which sources disagree
- Check each claim of the merged description against every source
- Resolve conflicts by source trust and drop contradicted claims
- Generate JSON and Markdown reports

Example:
  crosscheck verify lamp.json
  crosscheck verify lamp.yaml --json report.json --md report.md
  crosscheck verify lamp.json --provider openai --model gpt-4o-mini --strict`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path (empty to skip)")
	verifyCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	verifyCmd.Flags().DurationVar(&verifyTimeout, "timeout", 2*time.Minute, "overall verification timeout")
	verifyCmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when the bundle fails verification")
	verifyFlags.register(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), verifyTimeout)
	defer cancel()

	cfg, err := loadConfig(&verifyFlags)
	if err != nil {
		return err
	}

	logger.Debug("Verifying bundle",
		zap.String("path", path),
		zap.String("provider", cfg.LLM.Provider),
		zap.Duration("timeout", verifyTimeout),
		zap.Bool("cache", cfg.Cache.Enabled))

	p, err := pipeline.NewPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}

	report, err := p.VerifyFile(ctx, path)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	if err := p.RenderReport(report, outJSON, outMD); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	p.Renderer().RenderSummary(os.Stderr, report)
	if outJSON != "" {
		fmt.Fprintf(os.Stderr, "\n  JSON:       %s\n", outJSON)
	}
	if outMD != "" {
		fmt.Fprintf(os.Stderr, "  Markdown:   %s\n", outMD)
	}

	if strict && !report.Result.Passed {
		return fmt.Errorf("%s: %w", path, ErrGateFailed)
	}
	return nil
}
