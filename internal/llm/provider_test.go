package llm

import (
	"errors"
	"strings"
	"testing"

	"github.com/kase1111-hash/speccheck/internal/model"
)

func TestParseAnalysis(t *testing.T) {
	analysis, err := ParseAnalysis(validAnswer)
	if err != nil {
		t.Fatalf("ParseAnalysis failed: %v", err)
	}
	if !analysis.Chain[0].IsBottleneck {
		t.Error("Expected bottleneck flag to survive decoding")
	}
}

func TestParseAnalysis_CodeFence(t *testing.T) {
	fenced := "```json\n" + validAnswer + "\n```"

	if _, err := ParseAnalysis(fenced); err != nil {
		t.Fatalf("Expected fenced JSON to parse, got %v", err)
	}
}

func TestParseAnalysis_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "The claim looks plausible."},
		{"unknown verdict", `{"verdict": "maybe", "maxPossible": 1, "unit": "W", "reasoning": "long enough text"}`},
		{"negative max", `{"verdict": "plausible", "maxPossible": -1, "unit": "W", "reasoning": "long enough text"}`},
		{"missing unit", `{"verdict": "plausible", "maxPossible": 1, "reasoning": "long enough text"}`},
		{"short reasoning", `{"verdict": "plausible", "maxPossible": 1, "unit": "W", "reasoning": "ok"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAnalysis(tt.content)
			if !errors.Is(err, ErrInvalidResponse) {
				t.Errorf("Expected ErrInvalidResponse, got %v", err)
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	maxV := 20.0
	req := AnalyzeRequest{
		Claim: model.Claim{Category: model.CategoryVolts, Value: 12, Unit: "V", OriginalText: "12V output"},
		Components: []model.ComponentWithSpecs{
			{
				Match: model.MatchedComponent{PartNumber: "IP2368", Category: model.ComponentUSBPDController},
				Specs: &model.ComponentSpecs{Specs: map[string]model.SpecValue{
					model.SpecSupportedVoltages: {Value: 5, Unit: "V", Max: &maxV, Conditions: "PD 3.0"},
					model.SpecMaxPower:          {Value: 100, Unit: "W"},
				}},
			},
			{
				Match: model.MatchedComponent{Category: model.ComponentBatteryCell},
				Error: "not found",
			},
		},
	}

	prompt := BuildPrompt(req)

	for _, want := range []string{
		"Claim: 12 V (volts)",
		`Original text: "12V output"`,
		"- IP2368 (usb_pd_controller)",
		"supported_voltages: 5 V (max 20) [PD 3.0]",
		"- battery_cell (battery_cell): no datasheet available",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected prompt to contain %q, got:\n%s", want, prompt)
		}
	}

	// Specs are listed in a stable order
	if strings.Index(prompt, "max_power") > strings.Index(prompt, "supported_voltages") {
		t.Error("Expected spec names in sorted order")
	}
}

func TestBuildPrompt_NoComponents(t *testing.T) {
	prompt := BuildPrompt(AnalyzeRequest{Claim: model.Claim{Category: model.CategoryWatts, Value: 65, Unit: "W"}})

	if !strings.Contains(prompt, "(none identified)") {
		t.Errorf("Expected empty component marker, got:\n%s", prompt)
	}
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(Config{Provider: ""}, nil)
	if err != nil || p != nil {
		t.Errorf("Expected disabled provider, got %v, %v", p, err)
	}

	p, err = NewProvider(Config{Provider: "OpenAI", APIKey: "k"}, nil)
	if err != nil {
		t.Fatalf("Expected openai provider, got %v", err)
	}
	if p.Name() != "openai" {
		t.Errorf("Expected name openai, got %s", p.Name())
	}

	p, err = NewProvider(Config{Provider: "ollama"}, nil)
	if err != nil {
		t.Fatalf("Expected ollama to work without a key, got %v", err)
	}
	if p.Name() != "ollama" {
		t.Errorf("Expected name ollama, got %s", p.Name())
	}

	if _, err := NewProvider(Config{Provider: "openai"}, nil); err == nil {
		t.Error("Expected openai without a key to fail")
	}
	if _, err := NewProvider(Config{Provider: "anthropic", APIKey: "k"}, nil); err == nil {
		t.Error("Expected unknown provider to fail")
	}
}

func TestConfigFromModel(t *testing.T) {
	cfg := ConfigFromModel(model.LLMConfig{
		Provider:   "ollama",
		Model:      "llama3.1",
		BaseURL:    "http://gpu:11434/v1",
		Timeout:    60,
		MaxTokens:  500,
		HTTPSProxy: "http://proxy:3128",
	})

	if cfg.Provider != "ollama" || cfg.Model != "llama3.1" || cfg.BaseURL != "http://gpu:11434/v1" {
		t.Errorf("Unexpected config: %+v", cfg)
	}
	if cfg.Timeout != 60 || cfg.MaxTokens != 500 || cfg.HTTPSProxy != "http://proxy:3128" {
		t.Errorf("Unexpected limits: %+v", cfg)
	}
}
