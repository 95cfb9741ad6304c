package llm

import (
	"fmt"
	"strings"

	"github.com/kase1111-hash/speccheck/internal/model"
)

// OllamaBaseURL is Ollama's OpenAI-compatible endpoint
const OllamaBaseURL = "http://localhost:11434/v1"

// NewProvider creates a new LLM provider based on configuration.
// limiter may be nil.
func NewProvider(config Config, limiter Limiter) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "openai":
		return newOpenAI(config, limiter)

	case "ollama":
		// Ollama speaks the OpenAI wire protocol and ignores the key
		if config.BaseURL == "" {
			config.BaseURL = OllamaBaseURL
		}
		if config.APIKey == "" {
			config.APIKey = "ollama"
		}
		return newOpenAI(config, limiter)

	case "":
		// No provider configured - return nil (LLM disabled)
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, ollama)", config.Provider)
	}
}

func newOpenAI(config Config, limiter Limiter) (Provider, error) {
	p, err := NewOpenAIProvider(config, limiter)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:   modelConfig.Provider,
		Model:      modelConfig.Model,
		APIKey:     modelConfig.APIKey,
		BaseURL:    modelConfig.BaseURL,
		Timeout:    modelConfig.Timeout,
		MaxTokens:  modelConfig.MaxTokens,
		HTTPProxy:  modelConfig.HTTPProxy,
		HTTPSProxy: modelConfig.HTTPSProxy,
	}
}
