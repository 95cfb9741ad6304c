package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrUnknownProfile is returned when a product profile name is not configured
var ErrUnknownProfile = errors.New("unknown product profile")

// Config is the full speccheck configuration.
// Field names double as viper keys (mapstructure) and config.yaml keys.
type Config struct {
	Analysis     AnalysisConfig    `yaml:"analysis" mapstructure:"analysis"`
	Cache        CacheConfig       `yaml:"cache" mapstructure:"cache"`
	LLM          LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Server       ServerConfig      `yaml:"server" mapstructure:"server"`
	Fetch        FetchConfig       `yaml:"fetch" mapstructure:"fetch"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig      `yaml:"output" mapstructure:"output"`
}

// AnalysisConfig holds the physical-model policy knobs
type AnalysisConfig struct {
	// Product selects the profile used when none is given explicitly
	Product  string                    `yaml:"product" mapstructure:"product" validate:"required"`
	Profiles map[string]ProductProfile `yaml:"profiles" mapstructure:"profiles" validate:"required,min=1,dive"`
	LED      DroopConfig               `yaml:"led" mapstructure:"led"`
}

// ProductProfile captures simplifying assumptions for one kind of product.
// These are policy, not measurements: topology is never detected.
type ProductProfile struct {
	// OverallEfficiency derates summed cell capacity (conversion + cable losses)
	OverallEfficiency float64 `yaml:"overall_efficiency" mapstructure:"overall_efficiency" validate:"gt=0,lte=1"`

	// CellTopology is how battery cells are assumed to be wired: series or parallel
	CellTopology string `yaml:"cell_topology" mapstructure:"cell_topology" validate:"oneof=series parallel"`
}

// Cell topologies
const (
	TopologySeries   = "series"
	TopologyParallel = "parallel"
)

// DroopConfig parameterizes the LED flux droop heuristic
type DroopConfig struct {
	LinearBoundary float64 `yaml:"linear_boundary" mapstructure:"linear_boundary" validate:"gt=0,lt=1"`  // Drive ratio where droop begins
	PeakEfficiency float64 `yaml:"peak_efficiency" mapstructure:"peak_efficiency" validate:"gt=0,lte=1"` // Efficiency retained at max current
	DroopExponent  float64 `yaml:"droop_exponent" mapstructure:"droop_exponent" validate:"gt=0"`
}

// CacheConfig controls report caching
type CacheConfig struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	Backend  string        `yaml:"backend" mapstructure:"backend" validate:"oneof=memory disk layered redis"`
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"`
	Dir      string        `yaml:"dir" mapstructure:"dir"`
	RedisURL string        `yaml:"redis_url" mapstructure:"redis_url" validate:"required_if=Backend redis"`
}

// LLMConfig configures the optional fallback analysis
type LLMConfig struct {
	Provider   string `yaml:"provider" mapstructure:"provider" validate:"omitempty,oneof=openai ollama"` // Empty disables the fallback
	Model      string `yaml:"model" mapstructure:"model"`
	APIKey     string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	Timeout    int    `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"` // seconds
	MaxTokens  int    `yaml:"max_tokens" mapstructure:"max_tokens" validate:"gte=0"`
	HTTPProxy  string `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy" mapstructure:"https_proxy"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr         string        `yaml:"addr" mapstructure:"addr" validate:"required"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`

	// CORSOrigins lists browser origins allowed to call the API; empty disables CORS
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`

	// Per-client throttling; zero RequestsPerSecond disables it
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second" validate:"gte=0"`
	Burst             int     `yaml:"burst" mapstructure:"burst" validate:"gte=0"`
}

// FetchConfig controls datasheet downloads
type FetchConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent" validate:"required"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes" validate:"gt=0"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy" mapstructure:"https_proxy"`
}

// ConcurrencyConfig bounds parallel work
type ConcurrencyConfig struct {
	Workers     int `yaml:"workers" mapstructure:"workers" validate:"gte=1"`             // Batch workers
	ClaimFanOut int `yaml:"claim_fan_out" mapstructure:"claim_fan_out" validate:"gte=1"` // Claims analyzed at once per text
}

// RateLimitConfig throttles fallback calls
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second" validate:"gt=0"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size" validate:"gte=1"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Product: "power_bank",
			Profiles: map[string]ProductProfile{
				"power_bank": {OverallEfficiency: 0.85, CellTopology: TopologySeries},
				"flashlight": {OverallEfficiency: 0.90, CellTopology: TopologySeries},
				"charger":    {OverallEfficiency: 0.90, CellTopology: TopologySeries},
				"tool_pack":  {OverallEfficiency: 0.88, CellTopology: TopologySeries},
			},
			LED: DefaultDroop(),
		},
		Cache: CacheConfig{
			Enabled: true,
			Backend: "memory",
			TTL:     24 * time.Hour,
			Dir:     "",
		},
		LLM: LLMConfig{
			Provider:  "",
			Model:     "gpt-4o-mini",
			Timeout:   30,
			MaxTokens: 1000,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,

			RequestsPerSecond: 5,
			Burst:             10,
		},
		Fetch: FetchConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "SpecCheck/0.3 (+https://github.com/kase1111-hash/speccheck)",
			MaxBodyBytes:  5_000_000,
			RespectRobots: true,
		},
		Concurrency: ConcurrencyConfig{
			Workers:     4,
			ClaimFanOut: 4,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 1,
			BurstSize:         2,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}

// DefaultDroop returns the stock LED droop parameters
func DefaultDroop() DroopConfig {
	return DroopConfig{
		LinearBoundary: 0.5,
		PeakEfficiency: 0.75,
		DroopExponent:  1.5,
	}
}

// Profile returns the named product profile, falling back to the default product
func (c *Config) Profile(name string) (ProductProfile, error) {
	if name == "" {
		name = c.Analysis.Product
	}
	p, ok := c.Analysis.Profiles[name]
	if !ok {
		return ProductProfile{}, fmt.Errorf("%w: %s", ErrUnknownProfile, name)
	}
	return p, nil
}

// Validate checks field constraints and cross-references
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, ok := c.Analysis.Profiles[c.Analysis.Product]; !ok {
		return fmt.Errorf("invalid config: product %q has no profile", c.Analysis.Product)
	}
	return nil
}
