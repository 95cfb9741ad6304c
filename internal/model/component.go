package model

// ComponentWithSpecs pairs a matched component with its datasheet specs.
// Specs is nil when retrieval failed, in which case Error says why.
type ComponentWithSpecs struct {
	Match MatchedComponent `json:"match" yaml:"match"`
	Specs *ComponentSpecs  `json:"specs" yaml:"specs"`
	Error string           `json:"error,omitempty" yaml:"error,omitempty"`
}

// HasSpecs reports whether datasheet specs are attached
func (c ComponentWithSpecs) HasSpecs() bool {
	return c.Specs != nil
}

// Category returns the component category, preferring the datasheet's
func (c ComponentWithSpecs) Category() ComponentCategory {
	if c.Specs != nil && c.Specs.Category != "" {
		return c.Specs.Category
	}
	return c.Match.Category
}

// PartNumber returns the best known part number, or "" if none
func (c ComponentWithSpecs) PartNumber() string {
	if c.Specs != nil && c.Specs.PartNumber != "" {
		return c.Specs.PartNumber
	}
	return c.Match.PartNumber
}

// Spec looks up a named spec value
func (c ComponentWithSpecs) Spec(name string) (SpecValue, bool) {
	if c.Specs == nil {
		return SpecValue{}, false
	}
	v, ok := c.Specs.Specs[name]
	return v, ok
}

// DisplayName is the part number, or the category when no part is known
func (c ComponentWithSpecs) DisplayName() string {
	if pn := c.PartNumber(); pn != "" {
		return pn
	}
	return string(c.Category())
}

// MatchedComponent is the identification of one detected region
type MatchedComponent struct {
	RegionID     string            `json:"regionId" yaml:"region_id"`
	Status       MatchStatus       `json:"status" yaml:"status"`
	PartNumber   string            `json:"partNumber,omitempty" yaml:"part_number,omitempty"`
	Manufacturer string            `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`
	Category     ComponentCategory `json:"category" yaml:"category"`
	Confidence   float64           `json:"confidence" yaml:"confidence"` // 0..1
	DatasheetID  string            `json:"datasheetId,omitempty" yaml:"datasheet_id,omitempty"`
	Alternatives []string          `json:"alternatives,omitempty" yaml:"alternatives,omitempty"`
}

// MatchStatus is how sure the matcher is about a part number
type MatchStatus string

const (
	MatchConfident MatchStatus = "confident"
	MatchPartial   MatchStatus = "partial"
	MatchUnknown   MatchStatus = "unknown"
)

// ComponentCategory classifies a physical part
type ComponentCategory string

const (
	ComponentLED             ComponentCategory = "led"
	ComponentLEDDriver       ComponentCategory = "led_driver"
	ComponentBatteryCell     ComponentCategory = "battery_cell"
	ComponentUSBPDController ComponentCategory = "usb_pd_controller"
	ComponentDCDCConverter   ComponentCategory = "dc_dc_converter"
	ComponentChargerIC       ComponentCategory = "charger_ic"
	ComponentOther           ComponentCategory = "other"
)

// ComponentSpecs holds datasheet values keyed by spec name (e.g. "max_current")
type ComponentSpecs struct {
	PartNumber   string               `json:"partNumber" yaml:"part_number"`
	Manufacturer string               `json:"manufacturer" yaml:"manufacturer"`
	Category     ComponentCategory    `json:"category" yaml:"category"`
	Specs        map[string]SpecValue `json:"specs" yaml:"specs"`
}

// SpecValue is a single datasheet parameter
type SpecValue struct {
	Value      float64  `json:"value" yaml:"value"`
	Unit       string   `json:"unit" yaml:"unit"`
	Conditions string   `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	Min        *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max        *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Typical    *float64 `json:"typical,omitempty" yaml:"typical,omitempty"`
}

// Limit returns the maximum rating when present, otherwise the nominal value
func (s SpecValue) Limit() float64 {
	if s.Max != nil {
		return *s.Max
	}
	return s.Value
}

// Well-known spec keys read by the chain builders
const (
	SpecLuminousFlux           = "luminous_flux"
	SpecMaxCurrent             = "max_current"
	SpecForwardVoltage         = "forward_voltage"
	SpecMaxOutputCurrent       = "max_output_current"
	SpecMaxOutputVoltage       = "max_output_voltage"
	SpecMaxContinuousDischarge = "max_continuous_discharge"
	SpecNominalCapacity        = "nominal_capacity"
	SpecNominalVoltage         = "nominal_voltage"
	SpecMaxPower               = "max_power"
	SpecSupportedVoltages      = "supported_voltages"
	SpecOutputVoltage          = "output_voltage"
)
