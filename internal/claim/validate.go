package claim

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/kase1111-hash/speccheck/internal/model"
)

// bounds is the plausible range for one category plus the warning shown outside it
type bounds struct {
	min, max float64
	warning  string
}

var categoryBounds = map[model.ClaimCategory]bounds{
	model.CategoryLumens: {1, 200_000, "Lumen claims above 200,000 exceed any known portable light source."},
	model.CategoryMAh:    {1, 100_000, "Capacity claims above 100,000 mAh are beyond portable battery packs."},
	model.CategoryWh:     {0.1, 10_000, "Energy claims above 10,000 Wh are beyond portable battery products."},
	model.CategoryWatts:  {0.1, 20_000, "Power claims above 20,000 W are beyond consumer electronics."},
	model.CategoryAmps:   {0.001, 1_000, "Current claims above 1,000 A are beyond consumer electronics."},
	model.CategoryVolts:  {0.1, 1_000, "Voltage claims above 1,000 V are beyond consumer electronics."},
}

// Validate checks a claim against per-category plausibility bounds.
// The result is advisory; an out-of-range claim is still analyzed.
func Validate(c model.Claim) model.ClaimValidation {
	b, ok := categoryBounds[c.Category]
	if !ok {
		return model.ClaimValidation{
			Valid:   false,
			Warning: fmt.Sprintf("Unrecognized claim category: %s", c.Category),
		}
	}

	if c.Value < b.min || c.Value > b.max {
		return model.ClaimValidation{Valid: false, Warning: b.warning}
	}

	return model.ClaimValidation{Valid: true}
}

// FormatPrecise is FormatValue without rounding fractional values between
// 1 and 1,000 to whole numbers: "3.7 V", "12.25 W". Verdict text uses it so
// that claim and limit never print identically when they differ.
func FormatPrecise(value float64, unit string) string {
	if value >= 1 && value < 1_000 && value != math.Trunc(value) {
		return fmt.Sprintf("%s %s", humanize.CommafWithDigits(value, 2), unit)
	}
	return FormatValue(value, unit)
}

// FormatValue renders a value with its unit for display:
// "2.0M lm", "10.0k lm", "0.50 A", "500 W"
func FormatValue(value float64, unit string) string {
	switch {
	case value >= 1_000_000:
		return fmt.Sprintf("%.1fM %s", value/1_000_000, unit)
	case value >= 1_000:
		return fmt.Sprintf("%.1fk %s", value/1_000, unit)
	case value < 1:
		return fmt.Sprintf("%.2f %s", value, unit)
	default:
		return fmt.Sprintf("%s %s", humanize.Comma(int64(math.Round(value))), unit)
	}
}
