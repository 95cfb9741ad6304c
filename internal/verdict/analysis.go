package verdict

import (
	"github.com/kase1111-hash/speccheck/internal/model"
)

const detailLLM = "Produced by the language-model fallback; limits were not checked against datasheets."

// AnalysisFromChain expresses a rule-based chain in the fallback's response shape
func AnalysisFromChain(chain model.ConstraintChain) model.Analysis {
	return model.Analysis{
		Verdict:     chain.Verdict,
		MaxPossible: chain.MaxPossible,
		Unit:        chain.Unit,
		Reasoning:   Explain(chain),
		Chain:       chain.Links,
	}
}

// FromAnalysis builds a verdict from a fallback analysis of claim.
// Fallback verdicts are never better than low confidence.
func (g *Generator) FromAnalysis(c model.Claim, a model.Analysis) model.Verdict {
	unit := a.Unit
	if unit == "" {
		unit = c.Unit
	}

	var bottleneck *string
	var details []string
	for _, l := range a.Chain {
		prefix := "•"
		if l.IsBottleneck {
			prefix = "⚠️"
			if part := l.Component.PartNumber(); part != "" && bottleneck == nil {
				bottleneck = &part
			}
		}
		if l.Explanation != "" {
			details = append(details, prefix+" "+l.Explanation)
		}
	}
	details = append(details, detailLLM)

	return model.Verdict{
		Result:      a.Verdict,
		Confidence:  model.ConfidenceLow,
		Claimed:     c.Value,
		MaxPossible: a.MaxPossible,
		Unit:        unit,
		Bottleneck:  bottleneck,
		Explanation: a.Reasoning,
		Details:     details,
		AnalyzedAt:  g.now().UTC(),
	}
}
