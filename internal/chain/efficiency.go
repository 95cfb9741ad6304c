package chain

import (
	"math"

	"github.com/kase1111-hash/speccheck/internal/model"
)

// EfficiencyModel converts a drive current into derated LED output
type EfficiencyModel interface {
	LumensAtCurrent(targetCurrent, maxCurrent, maxLumens float64) float64
}

// DroopModel is a heuristic for luminous-flux droop at high drive current.
// Output is proportional to current up to LinearBoundary of the rated
// current; above it, the gain shrinks by (1-PeakEfficiency)*remaining^DroopExponent.
// The parameters are tuning knobs, not datasheet constants.
type DroopModel struct {
	params model.DroopConfig
}

// NewDroopModel creates a droop model from configuration
func NewDroopModel(params model.DroopConfig) *DroopModel {
	return &DroopModel{params: params}
}

// LumensAtCurrent returns the flux reachable at targetCurrent for an LED
// rated maxLumens at maxCurrent. Currents above the rating are clamped.
func (m *DroopModel) LumensAtCurrent(targetCurrent, maxCurrent, maxLumens float64) float64 {
	if maxCurrent <= 0 || targetCurrent <= 0 || maxLumens <= 0 {
		return 0
	}

	ratio := math.Min(targetCurrent/maxCurrent, 1)
	boundary := m.params.LinearBoundary

	linearOutput := boundary * maxLumens
	if ratio <= boundary {
		return (ratio / boundary) * linearOutput
	}

	remaining := (ratio - boundary) / (1 - boundary)
	droop := 1 - (1-m.params.PeakEfficiency)*math.Pow(remaining, m.params.DroopExponent)
	additional := (maxLumens - linearOutput) * remaining * droop

	return math.Round(linearOutput + additional)
}

// CalculateLedLumensAtCurrent evaluates the stock droop model
func CalculateLedLumensAtCurrent(targetCurrent, maxCurrent, maxLumens float64) float64 {
	return NewDroopModel(model.DefaultDroop()).LumensAtCurrent(targetCurrent, maxCurrent, maxLumens)
}
