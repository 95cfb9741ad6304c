package chain

import "github.com/kase1111-hash/speccheck/internal/model"

// Confidence thresholds
const (
	highQualityMatchConfidence = 0.9 // Minimum match confidence for a link to count as high quality
	highConfidenceLinks        = 3   // High-quality links needed for high confidence
	mediumConfidenceLinks      = 2   // High-quality links needed for medium confidence
	mediumConfidenceTotalLinks = 3   // Alternatively, total links needed for medium confidence
)

// Finalize resolves the bottleneck, verdict and confidence for a set of links.
// The link with the smallest MaxValue is marked in place; on ties the first
// link in emission order wins. The returned chain owns links.
func Finalize(claim model.Claim, links []model.ChainLink) model.ConstraintChain {
	unit := claim.Unit
	if unit == "" {
		unit = claim.Category.CanonicalUnit()
	}

	if len(links) == 0 {
		return model.ConstraintChain{
			Claim:       claim,
			Links:       []model.ChainLink{},
			Bottleneck:  nil,
			MaxPossible: 0,
			Unit:        unit,
			Verdict:     model.VerdictUncertain,
			Confidence:  model.ConfidenceLow,
		}
	}

	idx := 0
	for i := 1; i < len(links); i++ {
		if links[i].MaxValue < links[idx].MaxValue {
			idx = i
		}
	}
	links[idx].IsBottleneck = true
	bottleneck := &links[idx]

	verdict := model.VerdictImpossible
	if bottleneck.MaxValue >= claim.Value {
		verdict = model.VerdictPlausible
	}

	return model.ConstraintChain{
		Claim:       claim,
		Links:       links,
		Bottleneck:  bottleneck,
		MaxPossible: bottleneck.MaxValue,
		Unit:        unit,
		Verdict:     verdict,
		Confidence:  confidence(links),
	}
}

// confidence grades the chain by how many links rest on confidently matched datasheets
func confidence(links []model.ChainLink) model.Confidence {
	highQuality := 0
	for _, l := range links {
		if isHighQuality(l.Component) {
			highQuality++
		}
	}

	switch {
	case highQuality >= highConfidenceLinks:
		return model.ConfidenceHigh
	case highQuality >= mediumConfidenceLinks || len(links) >= mediumConfidenceTotalLinks:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

func isHighQuality(c model.ComponentWithSpecs) bool {
	return c.HasSpecs() &&
		c.Match.Status == model.MatchConfident &&
		c.Match.Confidence >= highQualityMatchConfidence
}
