package claim

import (
	"math"
	"testing"

	"github.com/kase1111-hash/speccheck/internal/model"
)

func TestParser_Parse_Lumens(t *testing.T) {
	parser := NewParser()

	c := parser.Parse("10000 lumens", model.SourceUserInput)
	if c == nil {
		t.Fatal("Expected claim, got nil")
	}

	if c.Value != 10000 {
		t.Errorf("Expected value 10000, got %v", c.Value)
	}
	if c.Unit != "lm" {
		t.Errorf("Expected unit lm, got %s", c.Unit)
	}
	if c.Category != model.CategoryLumens {
		t.Errorf("Expected category lumens, got %s", c.Category)
	}
	if c.Source != model.SourceUserInput {
		t.Errorf("Expected source to be carried through, got %s", c.Source)
	}
	if c.OriginalText != "10000 lumens" {
		t.Errorf("Expected original text preserved, got %q", c.OriginalText)
	}
}

func TestParser_Parse_Multiplier(t *testing.T) {
	parser := NewParser()

	c := parser.Parse("10k lm", model.SourceUserInput)
	if c == nil {
		t.Fatal("Expected claim, got nil")
	}
	if c.Value != 10000 || c.Unit != "lm" {
		t.Errorf("Expected 10000 lm, got %v %s", c.Value, c.Unit)
	}

	c = parser.Parse("1.2m lumens", model.SourceUserInput)
	if c == nil {
		t.Fatal("Expected claim for mega multiplier, got nil")
	}
	if c.Value != 1_200_000 {
		t.Errorf("Expected 1200000, got %v", c.Value)
	}
}

func TestParser_Parse_AmpHoursConvertToMilliampHours(t *testing.T) {
	parser := NewParser()

	c := parser.Parse("2ah", model.SourceUserInput)
	if c == nil {
		t.Fatal("Expected claim, got nil")
	}
	if c.Value != 2000 || c.Unit != "mAh" || c.Category != model.CategoryMAh {
		t.Errorf("Expected 2000 mAh, got %v %s (%s)", c.Value, c.Unit, c.Category)
	}
}

func TestParser_Parse_MilliUnitsAreNotMultipliers(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		input    string
		value    float64
		unit     string
		category model.ClaimCategory
	}{
		{"5000mah", 5000, "mAh", model.CategoryMAh},
		{"20,000 mAh power bank", 20000, "mAh", model.CategoryMAh},
		{"500ma", 0.5, "A", model.CategoryAmps},
		{"2 kw", 2000, "W", model.CategoryWatts},
		{"1.5 kWh", 1500, "Wh", model.CategoryWh},
		{"500 mw", 0.5, "W", model.CategoryWatts},
		{"250mW", 0.25, "W", model.CategoryWatts},
		{"500 mWh", 0.5, "Wh", model.CategoryWh},
	}

	for _, tt := range tests {
		c := parser.Parse(tt.input, model.SourceListing)
		if c == nil {
			t.Errorf("Parse(%q): expected claim, got nil", tt.input)
			continue
		}
		if math.Abs(c.Value-tt.value) > 1e-9 || c.Unit != tt.unit || c.Category != tt.category {
			t.Errorf("Parse(%q) = %v %s (%s), want %v %s (%s)",
				tt.input, c.Value, c.Unit, c.Category, tt.value, tt.unit, tt.category)
		}
	}
}

func TestParser_Parse_AllCategories(t *testing.T) {
	parser := NewParser()

	tests := map[string]model.ClaimCategory{
		"65W fast charging":    model.CategoryWatts,
		"3.7 volts":            model.CategoryVolts,
		"99.9 Wh":              model.CategoryWh,
		"3 amps":               model.CategoryAmps,
		"Up to 1,000 LUMENS!":  model.CategoryLumens,
		"26800 mAh":            model.CategoryMAh,
		"model 3 outputs 100w": model.CategoryWatts,
	}

	for input, want := range tests {
		c := parser.Parse(input, model.SourceUserInput)
		if c == nil {
			t.Errorf("Parse(%q): expected claim, got nil", input)
			continue
		}
		if c.Category != want {
			t.Errorf("Parse(%q): expected category %s, got %s", input, want, c.Category)
		}
		if c.Unit != want.CanonicalUnit() {
			t.Errorf("Parse(%q): expected canonical unit %s, got %s", input, want.CanonicalUnit(), c.Unit)
		}
	}
}

func TestParser_Parse_Failures(t *testing.T) {
	parser := NewParser()

	for _, input := range []string{"", "   ", "hello world", "10000", "fast charging", "0 lumens", "12 parsecs"} {
		if c := parser.Parse(input, model.SourceUserInput); c != nil {
			t.Errorf("Parse(%q): expected nil, got %+v", input, *c)
		}
	}
}

func TestParser_ParseMultiple(t *testing.T) {
	parser := NewParser()

	claims := parser.ParseMultiple("10,000 lumens and 5000mAh; 65W / nonsense", model.SourceListing)

	if len(claims) != 3 {
		t.Fatalf("Expected 3 claims, got %d: %+v", len(claims), claims)
	}

	want := []model.ClaimCategory{model.CategoryLumens, model.CategoryMAh, model.CategoryWatts}
	for i, c := range claims {
		if c.Category != want[i] {
			t.Errorf("Claim %d: expected %s, got %s", i, want[i], c.Category)
		}
	}

	if claims[0].Value != 10000 {
		t.Errorf("Expected grouped number to survive splitting, got %v", claims[0].Value)
	}
}

func TestParser_ParseMultiple_CaseInsensitiveAnd(t *testing.T) {
	parser := NewParser()

	claims := parser.ParseMultiple("20V AND 3A", model.SourceUserInput)
	if len(claims) != 2 {
		t.Fatalf("Expected 2 claims, got %d", len(claims))
	}
	if claims[0].Category != model.CategoryVolts || claims[1].Category != model.CategoryAmps {
		t.Errorf("Unexpected order: %s, %s", claims[0].Category, claims[1].Category)
	}
}

func TestParser_ParseMultiple_NothingParses(t *testing.T) {
	parser := NewParser()

	claims := parser.ParseMultiple("great product, ships fast", model.SourceUserInput)
	if claims == nil {
		t.Fatal("Expected empty slice, got nil")
	}
	if len(claims) != 0 {
		t.Errorf("Expected 0 claims, got %d", len(claims))
	}
}

func TestJoinGroupedDigits(t *testing.T) {
	parser := NewParser()

	if got := parser.joinGroupedDigits("1,000,000 lm, 5 W"); got != "1000000 lm, 5 W" {
		t.Errorf("Unexpected result: %q", got)
	}
}
