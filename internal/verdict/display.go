package verdict

import "github.com/kase1111-hash/speccheck/internal/model"

// Fallbacks for values outside the closed enums
const (
	defaultColor       = "#6B7280"
	defaultIcon        = "?"
	defaultLabel       = "Unknown"
	defaultDescription = "Confidence could not be determined."
)

var colors = map[model.VerdictResult]string{
	model.VerdictPlausible:  "#16A34A",
	model.VerdictImpossible: "#DC2626",
	model.VerdictUncertain:  "#D97706",
}

var icons = map[model.VerdictResult]string{
	model.VerdictPlausible:  "✅",
	model.VerdictImpossible: "❌",
	model.VerdictUncertain:  "❓",
}

var labels = map[model.VerdictResult]string{
	model.VerdictPlausible:  "Plausible",
	model.VerdictImpossible: "Impossible",
	model.VerdictUncertain:  "Uncertain",
}

var confidenceDescriptions = map[model.Confidence]string{
	model.ConfidenceHigh:   "Most limits come from confidently matched datasheets.",
	model.ConfidenceMedium: "Some limits come from partially matched components.",
	model.ConfidenceLow:    "Few components could be verified; treat this as an estimate.",
}

// Color returns a hex display color for a verdict
func Color(r model.VerdictResult) string {
	if c, ok := colors[r]; ok {
		return c
	}
	return defaultColor
}

// Icon returns the display icon for a verdict
func Icon(r model.VerdictResult) string {
	if i, ok := icons[r]; ok {
		return i
	}
	return defaultIcon
}

// Label returns the display label for a verdict
func Label(r model.VerdictResult) string {
	if l, ok := labels[r]; ok {
		return l
	}
	return defaultLabel
}

// ConfidenceDescription explains a confidence level to the user
func ConfidenceDescription(c model.Confidence) string {
	if d, ok := confidenceDescriptions[c]; ok {
		return d
	}
	return defaultDescription
}
