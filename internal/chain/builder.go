package chain

import (
	"fmt"
	"math"
	"strconv"

	"github.com/kase1111-hash/speccheck/internal/model"
)

// Builder assembles constraint chains for claims.
// It keeps no state between calls: every Build allocates its own links.
type Builder struct {
	profile    model.ProductProfile
	efficiency EfficiencyModel
}

// NewBuilder creates a builder for one product profile.
// A nil efficiency model selects the stock droop model.
func NewBuilder(profile model.ProductProfile, efficiency EfficiencyModel) *Builder {
	if efficiency == nil {
		efficiency = NewDroopModel(model.DefaultDroop())
	}
	return &Builder{
		profile:    profile,
		efficiency: efficiency,
	}
}

// Build collects the limits relevant to the claim's category and resolves
// the bottleneck. Components without specs or of unrelated categories are
// skipped; an unknown category yields an uncertain chain.
func (b *Builder) Build(claim model.Claim, components []model.ComponentWithSpecs) model.ConstraintChain {
	var links []model.ChainLink

	switch claim.Category {
	case model.CategoryLumens:
		links = b.buildLumens(components)
	case model.CategoryMAh:
		links = b.buildCapacity(components)
	case model.CategoryWh:
		links = b.buildEnergy(components)
	case model.CategoryWatts:
		links = b.buildPower(components)
	case model.CategoryAmps:
		links = b.buildCurrent(components)
	case model.CategoryVolts:
		links = b.buildVoltage(components)
	default:
		// Not an error: an unrecognized category simply has no known limits.
		links = b.buildGeneric(components)
	}

	return Finalize(claim, links)
}

// buildLumens: LED flux rating, driver-limited flux, battery-limited flux
func (b *Builder) buildLumens(components []model.ComponentWithSpecs) []model.ChainLink {
	var links []model.ChainLink

	led, ledFound := primaryLED(components)

	for _, c := range components {
		if !c.HasSpecs() {
			continue
		}

		switch c.Category() {
		case model.ComponentLED:
			flux, ok := c.Spec(model.SpecLuminousFlux)
			if !ok {
				continue
			}
			rated := lumens(flux)
			links = append(links, newLink(c, model.ConstraintMaxOutput, rated, "lm", model.SpecLuminousFlux,
				fmt.Sprintf("%s LED is rated for %s maximum", c.DisplayName(), format(rated, "lm"))))

		case model.ComponentLEDDriver:
			if !ledFound {
				continue
			}
			out, ok := c.Spec(model.SpecMaxOutputCurrent)
			if !ok {
				continue
			}
			current := math.Min(amps(out), led.maxCurrent)
			lm := b.efficiency.LumensAtCurrent(current, led.maxCurrent, led.maxLumens)
			links = append(links, newLink(c, model.ConstraintMaxCurrent, lm, "lm", model.SpecMaxOutputCurrent,
				fmt.Sprintf("%s driver supplies at most %s to the LED, which yields %s after droop",
					c.DisplayName(), format(current, "A"), format(lm, "lm"))))

		case model.ComponentBatteryCell:
			if !ledFound {
				continue
			}
			discharge, ok := c.Spec(model.SpecMaxContinuousDischarge)
			if !ok {
				continue
			}
			current := amps(discharge)
			if v, ok := c.Spec(model.SpecNominalVoltage); ok && led.forwardVoltage > 0 && nominalVolts(v) > 0 {
				// Power delivered by the cell, re-expressed as current at the LED's forward voltage
				current = current * nominalVolts(v) / led.forwardVoltage
			}
			lm := b.efficiency.LumensAtCurrent(current, led.maxCurrent, led.maxLumens)
			links = append(links, newLink(c, model.ConstraintMaxDischarge, lm, "lm", model.SpecMaxContinuousDischarge,
				fmt.Sprintf("%s cell can drive the LED at %s, which yields %s after droop",
					c.DisplayName(), format(math.Min(current, led.maxCurrent), "A"), format(lm, "lm"))))
		}
	}

	return links
}

// buildCapacity: one link per cell plus the derated total
func (b *Builder) buildCapacity(components []model.ComponentWithSpecs) []model.ChainLink {
	var links []model.ChainLink
	var total float64
	var first *model.ComponentWithSpecs

	for i, c := range components {
		if !c.HasSpecs() || c.Category() != model.ComponentBatteryCell {
			continue
		}
		capacity, ok := c.Spec(model.SpecNominalCapacity)
		if !ok {
			continue
		}
		if first == nil {
			first = &components[i]
		}

		mah := milliampHours(capacity)
		total += mah
		links = append(links, newLink(c, model.ConstraintMaxOutput, mah, "mAh", model.SpecNominalCapacity,
			fmt.Sprintf("%s cell capacity is %s", c.DisplayName(), format(mah, "mAh"))))
	}

	if first == nil {
		return links
	}

	usable := math.Round(total * b.profile.OverallEfficiency)
	links = append(links, newLink(*first, model.ConstraintEfficiency, usable, "mAh", model.SpecNominalCapacity,
		fmt.Sprintf("%s total at %.0f%% conversion efficiency leaves %s usable",
			format(total, "mAh"), b.profile.OverallEfficiency*100, format(usable, "mAh"))))

	return links
}

// buildEnergy: Wh = mAh × V / 1000 per cell, no efficiency link
func (b *Builder) buildEnergy(components []model.ComponentWithSpecs) []model.ChainLink {
	var links []model.ChainLink

	for _, c := range components {
		if !c.HasSpecs() || c.Category() != model.ComponentBatteryCell {
			continue
		}
		capacity, ok := c.Spec(model.SpecNominalCapacity)
		if !ok {
			continue
		}
		voltage, ok := c.Spec(model.SpecNominalVoltage)
		if !ok {
			continue
		}

		mah, v := milliampHours(capacity), nominalVolts(voltage)
		wh := roundTo(mah*v/1000, 2)
		links = append(links, newLink(c, model.ConstraintMaxOutput, wh, "Wh", model.SpecNominalCapacity,
			fmt.Sprintf("%s cell stores %s × %s = %s",
				c.DisplayName(), format(mah, "mAh"), format(v, "V"), format(wh, "Wh"))))
	}

	return links
}

// buildPower: USB-PD contract limit and DC-DC converter output
func (b *Builder) buildPower(components []model.ComponentWithSpecs) []model.ChainLink {
	var links []model.ChainLink

	for _, c := range components {
		if !c.HasSpecs() {
			continue
		}

		switch c.Category() {
		case model.ComponentUSBPDController:
			power, ok := c.Spec(model.SpecMaxPower)
			if !ok {
				continue
			}
			w := watts(power)
			links = append(links, newLink(c, model.ConstraintMaxOutput, w, "W", model.SpecMaxPower,
				fmt.Sprintf("%s USB-PD controller negotiates at most %s", c.DisplayName(), format(w, "W"))))

		case model.ComponentDCDCConverter:
			current, ok := c.Spec(model.SpecMaxOutputCurrent)
			if !ok {
				continue
			}
			voltage, ok := c.Spec(model.SpecMaxOutputVoltage)
			if !ok {
				continue
			}
			i, v := amps(current), volts(voltage)
			w := roundTo(i*v, 2)
			links = append(links, newLink(c, model.ConstraintMaxOutput, w, "W", model.SpecMaxOutputCurrent,
				fmt.Sprintf("%s converter delivers %s × %s = %s",
					c.DisplayName(), format(i, "A"), format(v, "V"), format(w, "W"))))
		}
	}

	return links
}

// currentSpecs is the lookup order for a component's current rating
var currentSpecs = []struct {
	key        string
	constraint model.ConstraintType
}{
	{model.SpecMaxOutputCurrent, model.ConstraintMaxCurrent},
	{model.SpecMaxCurrent, model.ConstraintMaxCurrent},
	{model.SpecMaxContinuousDischarge, model.ConstraintMaxDischarge},
}

// buildCurrent: the first current rating found on each component
func (b *Builder) buildCurrent(components []model.ComponentWithSpecs) []model.ChainLink {
	var links []model.ChainLink

	for _, c := range components {
		if !c.HasSpecs() {
			continue
		}
		for _, s := range currentSpecs {
			spec, ok := c.Spec(s.key)
			if !ok {
				continue
			}
			a := amps(spec)
			links = append(links, newLink(c, s.constraint, a, "A", s.key,
				fmt.Sprintf("%s is rated for %s (%s)", c.DisplayName(), format(a, "A"), s.key)))
			break
		}
	}

	return links
}

// buildVoltage: converter and PD ceilings, the assumed battery stack, fixed outputs
func (b *Builder) buildVoltage(components []model.ComponentWithSpecs) []model.ChainLink {
	var links []model.ChainLink

	var cellVoltage, maxCell float64
	var cells int
	var firstCell *model.ComponentWithSpecs

	for i, c := range components {
		if !c.HasSpecs() {
			continue
		}

		switch c.Category() {
		case model.ComponentDCDCConverter:
			if spec, ok := c.Spec(model.SpecMaxOutputVoltage); ok {
				v := volts(spec)
				links = append(links, newLink(c, model.ConstraintVoltageLimit, v, "V", model.SpecMaxOutputVoltage,
					fmt.Sprintf("%s converter output tops out at %s", c.DisplayName(), format(v, "V"))))
			}

		case model.ComponentUSBPDController:
			if spec, ok := c.Spec(model.SpecSupportedVoltages); ok {
				v := volts(spec)
				links = append(links, newLink(c, model.ConstraintVoltageLimit, v, "V", model.SpecSupportedVoltages,
					fmt.Sprintf("%s USB-PD controller supports up to %s", c.DisplayName(), format(v, "V"))))
			}

		case model.ComponentBatteryCell:
			if spec, ok := c.Spec(model.SpecNominalVoltage); ok {
				v := nominalVolts(spec)
				cellVoltage += v
				maxCell = math.Max(maxCell, v)
				cells++
				if firstCell == nil {
					firstCell = &components[i]
				}
			}
		}

		if spec, ok := c.Spec(model.SpecOutputVoltage); ok {
			v := volts(spec)
			links = append(links, newLink(c, model.ConstraintVoltageLimit, v, "V", model.SpecOutputVoltage,
				fmt.Sprintf("%s outputs %s", c.DisplayName(), format(v, "V"))))
		}
	}

	if firstCell != nil {
		// Cell wiring is never detected; the profile decides.
		stack := roundTo(cellVoltage, 2)
		explanation := fmt.Sprintf("%d cell(s) assumed in series give %s (topology not detected)", cells, format(stack, "V"))
		if b.profile.CellTopology == model.TopologyParallel {
			stack = maxCell
			explanation = fmt.Sprintf("%d cell(s) assumed in parallel give %s (topology not detected)", cells, format(stack, "V"))
		}
		links = append(links, newLink(*firstCell, model.ConstraintVoltageLimit, stack, "V", model.SpecNominalVoltage, explanation))
	}

	return links
}

// buildGeneric is the fallback for categories without a builder: no links
func (b *Builder) buildGeneric(_ []model.ComponentWithSpecs) []model.ChainLink {
	return nil
}

// ledRating is the primary LED's ratings in base units
type ledRating struct {
	maxLumens      float64
	maxCurrent     float64 // A
	forwardVoltage float64 // V, 0 when unknown
}

// primaryLED returns the first LED with both a flux and a current rating
func primaryLED(components []model.ComponentWithSpecs) (ledRating, bool) {
	for _, c := range components {
		if !c.HasSpecs() || c.Category() != model.ComponentLED {
			continue
		}
		flux, ok := c.Spec(model.SpecLuminousFlux)
		if !ok {
			continue
		}
		current, ok := c.Spec(model.SpecMaxCurrent)
		if !ok || amps(current) <= 0 {
			continue
		}

		rating := ledRating{maxLumens: lumens(flux), maxCurrent: amps(current)}
		if vf, ok := c.Spec(model.SpecForwardVoltage); ok {
			rating.forwardVoltage = volts(vf)
		}
		return rating, true
	}
	return ledRating{}, false
}

func newLink(c model.ComponentWithSpecs, constraint model.ConstraintType, limit float64, unit, source, explanation string) model.ChainLink {
	return model.ChainLink{
		Component:      c,
		ConstraintType: constraint,
		MaxValue:       limit,
		Unit:           unit,
		SourceSpec:     source,
		Explanation:    explanation,
	}
}

// format renders a value with at most two decimals: "3.7 V", "1052 lm"
func format(v float64, unit string) string {
	return strconv.FormatFloat(roundTo(v, 2), 'f', -1, 64) + " " + unit
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
