package chain

import (
	"strings"

	"github.com/kase1111-hash/speccheck/internal/model"
)

// toBase converts value from unit to base using the unit's SI prefix,
// e.g. toBase(1500, "mA", "A") = 1.5. Unknown prefixes (and an empty
// unit) are taken at face value. Sub-unit prefixes divide so that
// decimal inputs stay exact.
func toBase(value float64, unit, base string) float64 {
	u := strings.TrimSpace(unit)
	if u == "" || strings.EqualFold(u, base) {
		return value
	}

	lower, lowerBase := strings.ToLower(u), strings.ToLower(base)
	if !strings.HasSuffix(lower, lowerBase) {
		return value
	}

	switch prefix := u[:len(u)-len(base)]; prefix {
	case "k", "K":
		return value * 1e3
	case "M":
		return value * 1e6
	case "m":
		return value / 1e3
	case "u", "µ", "μ":
		return value / 1e6
	default:
		return value
	}
}

// amps normalizes a current spec to amperes
func amps(v model.SpecValue) float64 {
	return toBase(v.Limit(), v.Unit, "A")
}

// volts normalizes a voltage spec to volts
func volts(v model.SpecValue) float64 {
	return toBase(v.Limit(), v.Unit, "V")
}

// nominalVolts reads a nominal voltage spec; the rated maximum is ignored
func nominalVolts(v model.SpecValue) float64 {
	return toBase(v.Value, v.Unit, "V")
}

// watts normalizes a power spec to watts
func watts(v model.SpecValue) float64 {
	return toBase(v.Limit(), v.Unit, "W")
}

// milliampHours normalizes a capacity spec to mAh; a bare number is taken as mAh
func milliampHours(v model.SpecValue) float64 {
	if strings.TrimSpace(v.Unit) == "" {
		return v.Value
	}
	return toBase(v.Value, v.Unit, "Ah") * 1e3
}

// lumens reads a flux spec; flux is always given in lm
func lumens(v model.SpecValue) float64 {
	return v.Limit()
}
