package verdict

import (
	"fmt"
	"math"
	"time"

	"github.com/kase1111-hash/speccheck/internal/claim"
	"github.com/kase1111-hash/speccheck/internal/model"
)

// Fixed guidance for chains without any usable component
const (
	detailNoComponents = "No relevant components were identified."
	detailManualCheck  = "Manual verification is recommended."
)

// Caveats appended to the details for less than high confidence
const (
	caveatLow    = "Low confidence: few components could be matched to verified datasheets, so limits may be missing."
	caveatMedium = "Medium confidence: some limits rest on partial component matches."
)

// Generator turns resolved constraint chains into verdicts
type Generator struct {
	now func() time.Time
}

// NewGenerator creates a generator stamping verdicts with the wall clock
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// NewGeneratorWithClock creates a generator with a fixed time source
func NewGeneratorWithClock(now func() time.Time) *Generator {
	return &Generator{now: now}
}

// Generate builds the user-facing verdict for a chain
func (g *Generator) Generate(chain model.ConstraintChain) model.Verdict {
	return model.Verdict{
		Result:      chain.Verdict,
		Confidence:  chain.Confidence,
		Claimed:     chain.Claim.Value,
		MaxPossible: chain.MaxPossible,
		Unit:        chain.Unit,
		Bottleneck:  bottleneckPart(chain),
		Explanation: Explain(chain),
		Details:     details(chain),
		AnalyzedAt:  g.now().UTC(),
	}
}

// Explain returns the one-paragraph explanation of a chain's verdict
func Explain(chain model.ConstraintChain) string {
	claimed := claim.FormatPrecise(chain.Claim.Value, chain.Unit)
	limit := claim.FormatPrecise(chain.MaxPossible, chain.Unit)

	switch chain.Verdict {
	case model.VerdictPlausible:
		return fmt.Sprintf("The claimed %s is physically plausible. The identified components can support up to %s.",
			claimed, limit)

	case model.VerdictImpossible:
		if part := bottleneckPart(chain); part != nil {
			return fmt.Sprintf("The claimed %s is not achievable: the %s limits output to %s.",
				claimed, *part, limit)
		}
		return fmt.Sprintf("The claimed %s exceeds the physical limits of the identified components. Maximum possible: %s.",
			claimed, limit)

	default:
		return fmt.Sprintf("Cannot verify the claimed %s: not enough components were identified to build a constraint chain.",
			claimed)
	}
}

func details(chain model.ConstraintChain) []string {
	if len(chain.Links) == 0 {
		return []string{detailNoComponents, detailManualCheck}
	}

	var out []string

	if chain.Verdict == model.VerdictImpossible && chain.Claim.Value > 0 {
		pct := math.Round(chain.MaxPossible / chain.Claim.Value * 100)
		out = append(out, fmt.Sprintf("Maximum possible output is %.0f%% of the claimed value.", pct))
	}

	for _, l := range chain.Links {
		prefix := "•"
		if l.IsBottleneck {
			prefix = "⚠️"
		}
		out = append(out, prefix+" "+l.Explanation)
	}

	switch chain.Confidence {
	case model.ConfidenceLow:
		out = append(out, caveatLow)
	case model.ConfidenceMedium:
		out = append(out, caveatMedium)
	}

	return out
}

// bottleneckPart returns the limiting component's part number, nil when unknown
func bottleneckPart(chain model.ConstraintChain) *string {
	if chain.Bottleneck == nil {
		return nil
	}
	part := chain.Bottleneck.Component.PartNumber()
	if part == "" {
		return nil
	}
	return &part
}
