package model

import "time"

// Verdict is the user-facing judgement on a claim
type Verdict struct {
	Result      VerdictResult `json:"result"`
	Confidence  Confidence    `json:"confidence"`
	Claimed     float64       `json:"claimed"`
	MaxPossible float64       `json:"maxPossible"`
	Unit        string        `json:"unit"`
	Bottleneck  *string       `json:"bottleneck"` // Part number of the limiting component, if known
	Explanation string        `json:"explanation"`
	Details     []string      `json:"details"`
	AnalyzedAt  time.Time     `json:"analyzedAt"`
}

// Analysis is the response shape shared with the LLM fallback.
// Either engine can fill it, so consumers never need to know which one ran.
type Analysis struct {
	Verdict     VerdictResult `json:"verdict" validate:"required,oneof=plausible impossible uncertain"`
	MaxPossible float64       `json:"maxPossible" validate:"min=0"`
	Unit        string        `json:"unit" validate:"required"`
	Reasoning   string        `json:"reasoning" validate:"required,min=10"`
	Chain       []ChainLink   `json:"chain"`
}

// Engine names which analysis path produced a report
type Engine string

const (
	EngineRules Engine = "rules" // Constraint chain
	EngineLLM   Engine = "llm"   // Fallback model
)

// Report is the complete result of checking one claim
type Report struct {
	ID          string          `json:"id"`
	Input       string          `json:"input"`  // Claim text as submitted
	Engine      Engine          `json:"engine"` // Which path produced the verdict
	Claim       Claim           `json:"claim"`
	Validation  ClaimValidation `json:"validation"` // Advisory range check
	Chain       ConstraintChain `json:"chain"`      // Always the rule-based chain
	Verdict     Verdict         `json:"verdict"`
	Reasoning   string          `json:"reasoning,omitempty"` // Set when the LLM produced the verdict
	LLMChain    []ChainLink     `json:"llmChain,omitempty"`  // Links returned by the LLM, if any
	Warnings    []string        `json:"warnings,omitempty"`  // Degraded paths taken while analyzing
	Components  int             `json:"components"`          // Components supplied
	Skipped     int             `json:"skipped"`             // Components without specs
	GeneratedAt time.Time       `json:"generatedAt"`
}
