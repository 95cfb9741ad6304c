package model

// ConstraintType names the kind of limit a chain link imposes
type ConstraintType string

const (
	ConstraintMaxOutput    ConstraintType = "max_output"
	ConstraintMaxCurrent   ConstraintType = "max_current"
	ConstraintMaxDischarge ConstraintType = "max_discharge"
	ConstraintEfficiency   ConstraintType = "efficiency"
	ConstraintVoltageLimit ConstraintType = "voltage_limit"
)

// ChainLink is one component-imposed ceiling on the claimed quantity
type ChainLink struct {
	Component      ComponentWithSpecs `json:"component"`
	ConstraintType ConstraintType     `json:"constraintType"`
	MaxValue       float64            `json:"maxValue"`
	Unit           string             `json:"unit"`
	IsBottleneck   bool               `json:"isBottleneck"`
	Explanation    string             `json:"explanation"`
	SourceSpec     string             `json:"sourceSpec"` // Spec key that produced the limit
}

// ConstraintChain is the resolved set of limits for one claim.
// Bottleneck points into Links; it is nil exactly when Links is empty.
type ConstraintChain struct {
	Claim       Claim         `json:"claim"`
	Links       []ChainLink   `json:"links"`
	Bottleneck  *ChainLink    `json:"bottleneck"`
	MaxPossible float64       `json:"maxPossible"`
	Unit        string        `json:"unit"`
	Verdict     VerdictResult `json:"verdict"`
	Confidence  Confidence    `json:"confidence"`
}

// VerdictResult is the plausibility judgement
type VerdictResult string

const (
	VerdictPlausible  VerdictResult = "plausible"
	VerdictImpossible VerdictResult = "impossible"
	VerdictUncertain  VerdictResult = "uncertain"
)

// Confidence grades how much of the chain rests on verified datasheets
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)
