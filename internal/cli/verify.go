package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kase1111-hash/speccheck/internal/analyze"
	"github.com/kase1111-hash/speccheck/internal/model"
	"github.com/kase1111-hash/speccheck/internal/verdict"
)

var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	claimSource string
	checkAll    bool
	shareText   bool
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <claim>",
	Short: "Check whether a claim is physically plausible",
	Long: `Verify parses a claim and checks it against the identified components:
- Read the claimed quantity and unit ("10,000 mAh", "3000 lumens", "65W")
- Derive a ceiling from each component's datasheet specs
- Find the bottleneck and compare it with the claim
- Report a plausible, impossible or uncertain verdict with reasoning

Example:
  speccheck verify "3000 lumens" --components flashlight.yaml
  speccheck verify "20000mAh, 65W" --all -c powerbank.json --product power_bank
  speccheck verify "65W" --llm-provider ollama --llm-model llama3.1 --share`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	// Output flags
	verifyCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	verifyCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	verifyCmd.Flags().BoolVar(&shareText, "share", false, "print the verdict as shareable plain text")

	// Analysis flags
	verifyCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall timeout")
	verifyCmd.Flags().StringVar(&claimSource, "source", string(model.SourceUserInput), "claim source (user_input, listing, ocr)")
	verifyCmd.Flags().BoolVar(&checkAll, "all", false, "check every claim found in the text")
	addAnalysisFlags(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlags(cfg)

	components, err := loadComponents()
	if err != nil {
		return err
	}

	a, cleanup, err := newAnalyzer(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	req := analyze.Request{
		Claim:      strings.Join(args, " "),
		Source:     model.ClaimSource(claimSource),
		Product:    product,
		Components: components,
	}

	var reports []*model.Report
	if checkAll {
		reports, err = a.AnalyzeText(ctx, req)
	} else {
		var report *model.Report
		report, err = a.Analyze(ctx, req)
		reports = []*model.Report{report}
	}
	if err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Checked %d claim(s) against %d components\n", len(reports), len(components))
	}

	return renderReports(cmd, analyze.NewRenderer(cfg.Output.IncludeFooter), reports)
}

// renderReports writes the requested files and prints summaries
func renderReports(cmd *cobra.Command, renderer *analyze.Renderer, reports []*model.Report) error {
	// Render JSON
	if outJSON != "" {
		if err := renderer.RenderJSON(outJSON, reports...); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}

	// Render Markdown
	if outMD != "" {
		if err := renderer.RenderMarkdown(outMD, reports...); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", outMD)
		}
	}

	// Print summary to stdout
	out := cmd.OutOrStdout()
	for _, report := range reports {
		if shareText {
			fmt.Fprintln(out, verdict.FormatForShare(report.Verdict))
			continue
		}
		renderer.RenderSummary(out, report, verbose)
	}

	return nil
}
