package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kase1111-hash/speccheck/internal/analyze"
	"github.com/kase1111-hash/speccheck/internal/cache"
	"github.com/kase1111-hash/speccheck/internal/inventory"
	"github.com/kase1111-hash/speccheck/internal/llm"
	"github.com/kase1111-hash/speccheck/internal/model"
	"github.com/kase1111-hash/speccheck/internal/worker"
)

// Flags shared by the analysis commands
var (
	componentsFile string
	product        string
	noCache        bool
	noFooter       bool
	llmProvider    string
	llmModel       string
)

func addAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&componentsFile, "components", "c", "", "component inventory file (YAML or JSON)")
	cmd.Flags().StringVar(&product, "product", "", "product profile (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the report cache")
	cmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "", "fallback LLM provider for undecided claims (openai, ollama)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "fallback LLM model name")
}

// applyFlags lays command flags over the loaded configuration
func applyFlags(cfg *model.Config) {
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
		if cfg.LLM.APIKey == "" && llmProvider == "openai" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	cfg.Output.Verbose = cfg.Output.Verbose || verbose
}

// loadComponents reads the inventory named by --components, if any
func loadComponents() ([]model.ComponentWithSpecs, error) {
	if componentsFile == "" {
		return nil, nil
	}

	components, err := inventory.Load(componentsFile)
	if err != nil {
		return nil, fmt.Errorf("load components: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Loaded %d components from %s\n", len(components), componentsFile)
	}
	return components, nil
}

// newAnalyzer wires cache and fallback into an analyzer.
// The returned cleanup releases backend connections.
func newAnalyzer(cfg *model.Config) (*analyze.Analyzer, func(), error) {
	c, err := cache.New(cfg.Cache)
	if err != nil {
		return nil, nil, fmt.Errorf("create cache: %w", err)
	}

	cleanup := func() {
		if closer, ok := c.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				logger.Warn("failed to close cache", zap.Error(err))
			}
		}
	}

	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	fallback, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM), limiter)
	if err != nil {
		// Don't fail the run, rule-based analysis still works
		logger.Warn("LLM fallback disabled", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Warning: Failed to initialize LLM provider: %v\n", err)
		fallback = nil
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "  Product:  %s\n", cfg.Analysis.Product)
		fmt.Fprintf(os.Stderr, "  Cache:    %v (%s)\n", cfg.Cache.Enabled, cfg.Cache.Backend)
		if fallback != nil {
			fmt.Fprintf(os.Stderr, "  LLM:      %s/%s\n", fallback.Name(), cfg.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	return analyze.NewAnalyzer(cfg, c, fallback, logger), cleanup, nil
}
