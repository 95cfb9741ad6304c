package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kase1111-hash/speccheck/internal/model"
)

// ErrInvalidResponse is returned when the model's answer does not fit the analysis contract
var ErrInvalidResponse = errors.New("invalid analysis response")

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Analyze judges a claim against the components and returns the shared analysis shape
	Analyze(ctx context.Context, req AnalyzeRequest) (*model.Analysis, error)
}

// Limiter throttles outgoing calls per key
type Limiter interface {
	Wait(ctx context.Context, key string) error
}

// AnalyzeRequest contains the input for a fallback analysis
type AnalyzeRequest struct {
	// Claim is the parsed capability claim
	Claim model.Claim

	// Components are the identified parts; entries without specs are listed by name only
	Components []model.ComponentWithSpecs

	// Model overrides the configured model
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI; Ollama ignores it
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama's /v1)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Model:     "",
		Timeout:   30,
		MaxTokens: 1000,
	}
}

const systemPrompt = `You check product capability claims against the electrical limits of their components.
Answer with a single JSON object and nothing else:
{"verdict": "plausible"|"impossible"|"uncertain", "maxPossible": number, "unit": string, "reasoning": string,
 "chain": [{"constraintType": string, "maxValue": number, "unit": string, "isBottleneck": bool, "explanation": string,
            "component": {"match": {"partNumber": string, "category": string}}}]}
Use "uncertain" when the components do not bound the claim. Never invent components that are not listed.`

// BuildPrompt constructs the user prompt describing the claim and components
func BuildPrompt(req AnalyzeRequest) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Claim: %g %s (%s)\n", req.Claim.Value, req.Claim.Unit, req.Claim.Category))
	if req.Claim.OriginalText != "" {
		sb.WriteString(fmt.Sprintf("Original text: %q\n", req.Claim.OriginalText))
	}

	sb.WriteString("\nComponents:\n")
	if len(req.Components) == 0 {
		sb.WriteString("(none identified)\n")
	}
	for _, c := range req.Components {
		sb.WriteString(fmt.Sprintf("- %s (%s)", c.DisplayName(), c.Category()))
		if !c.HasSpecs() {
			sb.WriteString(": no datasheet available\n")
			continue
		}
		sb.WriteString("\n")
		for _, name := range sortedKeys(c.Specs.Specs) {
			v := c.Specs.Specs[name]
			sb.WriteString(fmt.Sprintf("    %s: %g %s", name, v.Value, v.Unit))
			if v.Max != nil {
				sb.WriteString(fmt.Sprintf(" (max %g)", *v.Max))
			}
			if v.Conditions != "" {
				sb.WriteString(fmt.Sprintf(" [%s]", v.Conditions))
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\nIs the claim physically achievable with these components?")
	return sb.String()
}

var validate = validator.New()

// ParseAnalysis decodes and validates a model answer.
// Markdown code fences around the JSON are tolerated.
func ParseAnalysis(content string) (*model.Analysis, error) {
	body := strings.TrimSpace(content)
	body = strings.TrimPrefix(body, "```json")
	body = strings.TrimPrefix(body, "```")
	body = strings.TrimSuffix(body, "```")
	body = strings.TrimSpace(body)

	var analysis model.Analysis
	if err := json.Unmarshal([]byte(body), &analysis); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if err := validate.Struct(analysis); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return &analysis, nil
}

func sortedKeys(m map[string]model.SpecValue) []string {
	return slices.Sorted(maps.Keys(m))
}
