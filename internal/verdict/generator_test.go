package verdict

import (
	"strings"
	"testing"
	"time"

	"github.com/kase1111-hash/speccheck/internal/chain"
	"github.com/kase1111-hash/speccheck/internal/model"
)

var fixedTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func fixedGenerator() *Generator {
	return NewGeneratorWithClock(func() time.Time { return fixedTime })
}

func component(category model.ComponentCategory, partNumber string, confidence float64, specs map[string]model.SpecValue) model.ComponentWithSpecs {
	return model.ComponentWithSpecs{
		Match: model.MatchedComponent{
			Status:     model.MatchConfident,
			PartNumber: partNumber,
			Category:   category,
			Confidence: confidence,
		},
		Specs: &model.ComponentSpecs{PartNumber: partNumber, Category: category, Specs: specs},
	}
}

func ledAndDriverChain(claimed float64) model.ConstraintChain {
	maxFlux := 1052.0
	led := component(model.ComponentLED, "XHP50.2", 0.95, map[string]model.SpecValue{
		model.SpecLuminousFlux: {Value: 1000, Unit: "lm", Max: &maxFlux},
		model.SpecMaxCurrent:   {Value: 3000, Unit: "mA"},
	})
	driver := component(model.ComponentLEDDriver, "LM3409", 0.95, map[string]model.SpecValue{
		model.SpecMaxOutputCurrent: {Value: 1500, Unit: "mA"},
	})

	b := chain.NewBuilder(model.ProductProfile{OverallEfficiency: 0.85, CellTopology: model.TopologySeries}, nil)
	return b.Build(model.Claim{Category: model.CategoryLumens, Value: claimed, Unit: "lm"}, []model.ComponentWithSpecs{led, driver})
}

func TestGenerator_EmptyChain(t *testing.T) {
	empty := chain.Finalize(model.Claim{Category: model.CategoryLumens, Value: 1000, Unit: "lm"}, nil)

	v := fixedGenerator().Generate(empty)

	if v.Result != model.VerdictUncertain {
		t.Errorf("Expected uncertain, got %s", v.Result)
	}
	if !strings.Contains(v.Explanation, "Cannot verify") {
		t.Errorf("Expected explanation to contain 'Cannot verify', got %q", v.Explanation)
	}
	if len(v.Details) != 2 || v.Details[0] != detailNoComponents || v.Details[1] != detailManualCheck {
		t.Errorf("Expected the two guidance details, got %v", v.Details)
	}
	if v.Bottleneck != nil {
		t.Errorf("Expected nil bottleneck, got %q", *v.Bottleneck)
	}
	if !v.AnalyzedAt.Equal(fixedTime) {
		t.Errorf("Expected injected clock, got %v", v.AnalyzedAt)
	}
}

func TestGenerator_Impossible(t *testing.T) {
	v := fixedGenerator().Generate(ledAndDriverChain(2000))

	if v.Result != model.VerdictImpossible {
		t.Fatalf("Expected impossible, got %s", v.Result)
	}
	if v.Bottleneck == nil || *v.Bottleneck != "LM3409" {
		t.Errorf("Expected bottleneck LM3409, got %v", v.Bottleneck)
	}
	if !strings.Contains(v.Explanation, "LM3409") {
		t.Errorf("Expected explanation to name the bottleneck, got %q", v.Explanation)
	}
	if v.Claimed != 2000 || v.MaxPossible != 526 || v.Unit != "lm" {
		t.Errorf("Unexpected values: claimed=%v max=%v unit=%s", v.Claimed, v.MaxPossible, v.Unit)
	}

	// 526 / 2000 = 26%
	if v.Details[0] != "Maximum possible output is 26% of the claimed value." {
		t.Errorf("Expected percentage line first, got %q", v.Details[0])
	}

	// One line per link, bottleneck flagged
	if !strings.HasPrefix(v.Details[1], "•") {
		t.Errorf("Expected LED link with bullet, got %q", v.Details[1])
	}
	if !strings.HasPrefix(v.Details[2], "⚠️") {
		t.Errorf("Expected driver link with warning, got %q", v.Details[2])
	}

	// Two high-quality links: medium confidence caveat
	if v.Confidence != model.ConfidenceMedium {
		t.Errorf("Expected medium confidence, got %s", v.Confidence)
	}
	if last := v.Details[len(v.Details)-1]; last != caveatMedium {
		t.Errorf("Expected medium caveat last, got %q", last)
	}
	if len(v.Details) != 4 {
		t.Errorf("Expected 4 detail lines, got %d: %v", len(v.Details), v.Details)
	}
}

func TestGenerator_Plausible(t *testing.T) {
	v := fixedGenerator().Generate(ledAndDriverChain(500))

	if v.Result != model.VerdictPlausible {
		t.Fatalf("Expected plausible, got %s", v.Result)
	}
	if !strings.Contains(v.Explanation, "physically plausible") {
		t.Errorf("Expected plausible explanation, got %q", v.Explanation)
	}
	if !strings.Contains(v.Explanation, "526 lm") {
		t.Errorf("Expected explanation to include the maximum, got %q", v.Explanation)
	}
	for _, d := range v.Details {
		if strings.Contains(d, "% of the claimed") {
			t.Errorf("Plausible verdict must not carry a percentage line: %q", d)
		}
	}
}

func TestGenerator_ImpossibleWithoutPartNumber(t *testing.T) {
	c := model.Claim{Category: model.CategoryAmps, Value: 10, Unit: "A"}
	links := []model.ChainLink{{
		Component:   model.ComponentWithSpecs{Specs: &model.ComponentSpecs{Category: model.ComponentDCDCConverter}},
		MaxValue:    3,
		Unit:        "A",
		Explanation: "converter is rated for 3 A",
	}}

	v := fixedGenerator().Generate(chain.Finalize(c, links))

	if v.Bottleneck != nil {
		t.Errorf("Expected nil bottleneck without a part number, got %q", *v.Bottleneck)
	}
	if !strings.Contains(v.Explanation, "Maximum possible: 3 A") {
		t.Errorf("Expected generic explanation, got %q", v.Explanation)
	}
}

func TestGenerator_ConfidenceCaveats(t *testing.T) {
	c := model.Claim{Category: model.CategoryAmps, Value: 1, Unit: "A"}
	good := func() model.ChainLink {
		return model.ChainLink{
			Component: component(model.ComponentDCDCConverter, "TPS", 0.99, nil),
			MaxValue:  5,
			Unit:      "A",
		}
	}

	high := fixedGenerator().Generate(chain.Finalize(c, []model.ChainLink{good(), good(), good()}))
	low := fixedGenerator().Generate(chain.Finalize(c, []model.ChainLink{good()}))

	for _, d := range high.Details {
		if d == caveatLow || d == caveatMedium {
			t.Errorf("High confidence must not carry a caveat, got %q", d)
		}
	}
	if last := low.Details[len(low.Details)-1]; last != caveatLow {
		t.Errorf("Expected low caveat, got %q", last)
	}
	if caveatLow == caveatMedium {
		t.Error("Caveats must differ per confidence level")
	}
}

func TestExplain_UnknownVerdictIsUncertain(t *testing.T) {
	got := Explain(model.ConstraintChain{Verdict: "bogus", Unit: "W"})
	if !strings.Contains(got, "Cannot verify") {
		t.Errorf("Expected fallback explanation, got %q", got)
	}
}
