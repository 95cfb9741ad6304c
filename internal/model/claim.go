package model

// Claim is a parsed assertion about a physical quantity
type Claim struct {
	Category     ClaimCategory `json:"category" yaml:"category"`          // Which closed category the value belongs to
	Value        float64       `json:"value" yaml:"value"`                // Always positive, already in Unit
	Unit         string        `json:"unit" yaml:"unit"`                  // Canonical unit for Category
	Source       ClaimSource   `json:"source" yaml:"source"`              // Caller-supplied, never interpreted
	OriginalText string        `json:"originalText" yaml:"original_text"` // Input as received
}

// ClaimCategory is the closed set of quantities a claim can be about
type ClaimCategory string

const (
	CategoryLumens ClaimCategory = "lumens" // Luminous flux
	CategoryMAh    ClaimCategory = "mah"    // Battery capacity
	CategoryWh     ClaimCategory = "wh"     // Stored energy
	CategoryWatts  ClaimCategory = "watts"  // Output power
	CategoryAmps   ClaimCategory = "amps"   // Output current
	CategoryVolts  ClaimCategory = "volts"  // Output voltage
)

// Categories lists every claim category in display order
var Categories = []ClaimCategory{
	CategoryLumens, CategoryMAh, CategoryWh, CategoryWatts, CategoryAmps, CategoryVolts,
}

// CanonicalUnit returns the unit a category is always reported in
func (c ClaimCategory) CanonicalUnit() string {
	switch c {
	case CategoryLumens:
		return "lm"
	case CategoryMAh:
		return "mAh"
	case CategoryWh:
		return "Wh"
	case CategoryWatts:
		return "W"
	case CategoryAmps:
		return "A"
	case CategoryVolts:
		return "V"
	default:
		return ""
	}
}

// Valid reports whether c is one of the known categories
func (c ClaimCategory) Valid() bool {
	return c.CanonicalUnit() != ""
}

// ClaimSource records where the claim text came from
type ClaimSource string

const (
	SourceUserInput ClaimSource = "user_input" // Typed by the user
	SourceListing   ClaimSource = "listing"    // Extracted from a product listing
	SourceOCR       ClaimSource = "ocr"        // Read off packaging
)

// ClaimValidation is the advisory plausibility check on a parsed claim
type ClaimValidation struct {
	Valid   bool   `json:"valid"`
	Warning string `json:"warning,omitempty"`
}
