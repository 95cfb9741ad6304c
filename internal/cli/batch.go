package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kase1111-hash/speccheck/internal/analyze"
	"github.com/kase1111-hash/speccheck/internal/model"
	"github.com/kase1111-hash/speccheck/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	// componentsFile, product, noCache and noFooter are shared with verify
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Check many claims from a file in parallel",
	Long: `Batch checks multiple claims concurrently:
- Read claims from input file (one per line, # starts a comment)
- Check every claim against the same component inventory
- Process claims in parallel with configurable worker count
- Generate a JSON and Markdown report per claim

Example:
  speccheck batch claims.txt -c powerbank.yaml
  speccheck batch claims.txt --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./speccheck-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	addAnalysisFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlags(cfg)
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  SpecCheck Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Components:   %s\n", componentsFile)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	components, err := loadComponents()
	if err != nil {
		return err
	}

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	a, cleanup, err := newAnalyzer(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	verifier := worker.VerifierFunc(func(ctx context.Context, claim string) (*model.Report, error) {
		return a.Analyze(ctx, analyze.Request{
			Claim:      claim,
			Source:     model.SourceListing,
			Product:    product,
			Components: components,
		})
	})
	processor := worker.NewBatchProcessor(verifier, cfg.Concurrency.Workers)

	// Process claims
	fmt.Fprintf(os.Stderr, "⚙️  Checking claims with %d workers...\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "\n")

	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	// Process results
	renderer := analyze.NewRenderer(cfg.Output.IncludeFooter)
	counts := map[model.VerdictResult]int{}
	failureCount := 0

	for i, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Claim, result.Error)
			continue
		}

		// Generate output file names
		slug := fmt.Sprintf("%03d-%s", i+1, sanitizeFilename(result.Claim))
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		if err := renderer.RenderJSON(jsonPath, result.Report); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Claim, err)
			failureCount++
			continue
		}
		if err := renderer.RenderMarkdown(mdPath, result.Report); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.Claim, err)
			failureCount++
			continue
		}

		counts[result.Report.Verdict.Result]++
		fmt.Fprintf(os.Stderr, "✓ %s (%s, max %.4g %s)\n", result.Claim,
			result.Report.Verdict.Result, result.Report.Verdict.MaxPossible, result.Report.Verdict.Unit)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:       %d claims\n", len(results))
	fmt.Fprintf(os.Stderr, "  Plausible:   %d\n", counts[model.VerdictPlausible])
	fmt.Fprintf(os.Stderr, "  Impossible:  %d\n", counts[model.VerdictImpossible])
	fmt.Fprintf(os.Stderr, "  Uncertain:   %d\n", counts[model.VerdictUncertain])
	fmt.Fprintf(os.Stderr, "  Failures:    %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:      %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-z0-9.]+`)

// sanitizeFilename turns claim text into a short, portable file name
func sanitizeFilename(s string) string {
	s = unsafeFilenameChars.ReplaceAllString(strings.ToLower(s), "-")
	s = strings.Trim(s, "-.")

	// Limit length
	if len(s) > 60 {
		s = strings.TrimRight(s[:60], "-.")
	}
	if s == "" {
		s = "claim"
	}

	return s
}
