package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kase1111-hash/speccheck/internal/cache"
	"github.com/kase1111-hash/speccheck/internal/chain"
	"github.com/kase1111-hash/speccheck/internal/claim"
	"github.com/kase1111-hash/speccheck/internal/llm"
	"github.com/kase1111-hash/speccheck/internal/model"
	"github.com/kase1111-hash/speccheck/internal/verdict"
)

// ErrUnparsableClaim is returned when no claim can be read from the input text
var ErrUnparsableClaim = errors.New("no recognizable claim")

// Request is one claim check
type Request struct {
	Claim      string                     // Claim text, e.g. "10,000 mAh"
	Source     model.ClaimSource          // Defaults to user input
	Product    string                     // Profile name; empty selects the configured default
	Components []model.ComponentWithSpecs // Identified components with their specs
}

// Analyzer runs claims through the parse, chain and verdict steps
type Analyzer struct {
	parser     *claim.Parser
	generator  *verdict.Generator
	efficiency chain.EfficiencyModel
	cache      cache.Cache  // Optional (nil if disabled)
	fallback   llm.Provider // Optional LLM fallback (nil if disabled)
	logger     *zap.Logger
	config     *model.Config
}

// NewAnalyzer creates an analyzer. cache, fallback and logger may all be nil.
func NewAnalyzer(cfg *model.Config, c cache.Cache, fallback llm.Provider, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Analyzer{
		parser:     claim.NewParser(),
		generator:  verdict.NewGenerator(),
		efficiency: chain.NewDroopModel(cfg.Analysis.LED),
		cache:      c,
		fallback:   fallback,
		logger:     logger,
		config:     cfg,
	}
}

// SetGenerator replaces the verdict generator, mainly to pin the clock in tests
func (a *Analyzer) SetGenerator(g *verdict.Generator) {
	a.generator = g
}

// Parser returns the claim parser used by the analyzer
func (a *Analyzer) Parser() *claim.Parser {
	return a.parser
}

// Analyze checks a single claim against the supplied components
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*model.Report, error) {
	source := req.Source
	if source == "" {
		source = model.SourceUserInput
	}

	c := a.parser.Parse(req.Claim, source)
	if c == nil {
		return nil, fmt.Errorf("parse %q: %w", req.Claim, ErrUnparsableClaim)
	}

	return a.analyzeClaim(ctx, req.Claim, *c, req)
}

// AnalyzeText reads every claim in text and checks each of them.
// Reports come back in the order the claims appear.
func (a *Analyzer) AnalyzeText(ctx context.Context, req Request) ([]*model.Report, error) {
	source := req.Source
	if source == "" {
		source = model.SourceUserInput
	}

	claims := a.parser.ParseMultiple(req.Claim, source)
	if len(claims) == 0 {
		return nil, fmt.Errorf("parse %q: %w", req.Claim, ErrUnparsableClaim)
	}

	reports := make([]*model.Report, len(claims))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(a.config.Concurrency.ClaimFanOut, 1))

	for i, c := range claims {
		g.Go(func() error {
			report, err := a.analyzeClaim(gctx, c.OriginalText, c, req)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func (a *Analyzer) analyzeClaim(ctx context.Context, input string, c model.Claim, req Request) (*model.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	productName := req.Product
	if productName == "" {
		productName = a.config.Analysis.Product
	}

	// 1. Resolve the product profile
	profile, err := a.config.Profile(productName)
	if err != nil {
		return nil, fmt.Errorf("select profile: %w", err)
	}

	// 2. Serve from cache when possible
	key, err := a.cacheKey(productName, profile, c, req.Components)
	if err != nil {
		return nil, fmt.Errorf("cache key: %w", err)
	}
	if report, ok := a.cached(ctx, key); ok {
		a.logger.Debug("cache hit", zap.String("claim", input))
		return report, nil
	}

	// 3. Build the constraint chain
	constraints := chain.NewBuilder(profile, a.efficiency).Build(c, req.Components)

	// 4. Generate the verdict
	report := &model.Report{
		ID:         uuid.NewString(),
		Input:      input,
		Engine:     model.EngineRules,
		Claim:      c,
		Validation: claim.Validate(c),
		Chain:      constraints,
		Verdict:    a.generator.Generate(constraints),
	}
	for _, comp := range req.Components {
		report.Components++
		if !comp.HasSpecs() {
			report.Skipped++
		}
	}
	if !report.Validation.Valid {
		report.Warnings = append(report.Warnings, report.Validation.Warning)
	}

	// 5. Ask the fallback when the rules cannot decide (never overrides a decided verdict)
	if constraints.Verdict == model.VerdictUncertain && a.fallback != nil {
		analysis, err := a.fallback.Analyze(ctx, llm.AnalyzeRequest{Claim: c, Components: req.Components})
		if err != nil {
			// Don't fail the check, keep the rule verdict
			a.logger.Warn("fallback analysis failed",
				zap.String("provider", a.fallback.Name()),
				zap.String("claim", input),
				zap.Error(err))
			report.Warnings = append(report.Warnings, fmt.Sprintf("fallback analysis failed: %v", err))
		} else {
			report.Engine = model.EngineLLM
			report.Verdict = a.generator.FromAnalysis(c, *analysis)
			report.Reasoning = analysis.Reasoning
			report.LLMChain = analysis.Chain
		}
	}
	report.GeneratedAt = report.Verdict.AnalyzedAt

	a.store(ctx, key, report)

	a.logger.Debug("claim analyzed",
		zap.String("claim", input),
		zap.String("verdict", string(report.Verdict.Result)),
		zap.String("engine", string(report.Engine)),
		zap.Int("links", len(constraints.Links)))

	return report, nil
}

func (a *Analyzer) cacheKey(product string, profile model.ProductProfile, c model.Claim, components []model.ComponentWithSpecs) (string, error) {
	if a.cache == nil {
		return "", nil
	}

	encoded, err := json.Marshal(components)
	if err != nil {
		return "", err
	}

	fallback := ""
	if a.fallback != nil {
		fallback = a.fallback.Name()
	}

	return cache.CacheKey(
		product,
		fmt.Sprintf("%+v", profile),
		fmt.Sprintf("%+v", a.config.Analysis.LED),
		fmt.Sprintf("%s|%g|%s", c.Category, c.Value, c.Unit),
		string(encoded),
		fallback,
	), nil
}

func (a *Analyzer) cached(ctx context.Context, key string) (*model.Report, bool) {
	if a.cache == nil {
		return nil, false
	}

	data, ok := a.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}

	var report model.Report
	if err := json.Unmarshal(data, &report); err != nil {
		a.logger.Warn("discarding unreadable cache entry", zap.Error(err))
		return nil, false
	}
	return &report, true
}

func (a *Analyzer) store(ctx context.Context, key string, report *model.Report) {
	if a.cache == nil {
		return
	}

	data, err := json.Marshal(report)
	if err != nil {
		a.logger.Warn("failed to encode report for cache", zap.Error(err))
		return
	}

	// Zero TTL uses the backend default
	if err := a.cache.Set(ctx, key, data, 0); err != nil {
		a.logger.Warn("failed to cache report", zap.Error(err))
	}
}

// AnalysisOf expresses a report in the engine-neutral response shape
func AnalysisOf(report *model.Report) model.Analysis {
	if report.Engine == model.EngineRules {
		return verdict.AnalysisFromChain(report.Chain)
	}

	return model.Analysis{
		Verdict:     report.Verdict.Result,
		MaxPossible: report.Verdict.MaxPossible,
		Unit:        report.Verdict.Unit,
		Reasoning:   report.Reasoning,
		Chain:       report.LLMChain,
	}
}
