package claim

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kase1111-hash/speccheck/internal/model"
)

// unitInfo maps a unit token onto a claim category
type unitInfo struct {
	unit     string
	category model.ClaimCategory
	factor   float64 // Applied after the k/m multiplier
}

// Parser turns free-form text into structured claims.
// It holds only compiled patterns and lookup tables, so one Parser may be shared across goroutines.
type Parser struct {
	patterns []*regexp.Regexp
	units    map[string]unitInfo
	splitter *regexp.Regexp
	grouping *regexp.Regexp
	spaces   *regexp.Regexp
}

// NewParser creates a new claim parser
func NewParser() *Parser {
	return &Parser{
		patterns: []*regexp.Regexp{
			// number, optional k/m multiplier, unit: "10k lm", "2.5 m lumens"
			regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([km])?\s*([a-z][a-z-]*)`),
			// number, space, unit: "3.7 volts"
			regexp.MustCompile(`(\d+(?:\.\d+)?)\s+([a-z][a-z-]*)`),
			// number glued to unit: "65w"
			regexp.MustCompile(`(\d+(?:\.\d+)?)([a-z][a-z-]*)`),
		},
		units:    defaultUnits(),
		splitter: regexp.MustCompile(`(?i)\s*(?:,|;|/|\band\b)\s*`),
		grouping: regexp.MustCompile(`(\d),(\d{3})`),
		spaces:   regexp.MustCompile(`\s+`),
	}
}

func defaultUnits() map[string]unitInfo {
	units := make(map[string]unitInfo)
	add := func(category model.ClaimCategory, factor float64, tokens ...string) {
		for _, t := range tokens {
			units[t] = unitInfo{unit: category.CanonicalUnit(), category: category, factor: factor}
		}
	}

	add(model.CategoryLumens, 1, "lm", "lumen", "lumens")
	add(model.CategoryMAh, 1, "mah")
	add(model.CategoryMAh, 1000, "ah")
	add(model.CategoryWh, 1, "wh", "watt-hour", "watt-hours", "watthour", "watthours")
	add(model.CategoryWh, 1000, "kwh")
	add(model.CategoryWh, 0.001, "mwh")
	add(model.CategoryWatts, 1, "w", "watt", "watts")
	add(model.CategoryWatts, 1000, "kw")
	add(model.CategoryWatts, 0.001, "mw")
	add(model.CategoryAmps, 1, "a", "amp", "amps", "ampere", "amperes")
	add(model.CategoryAmps, 0.001, "ma")
	add(model.CategoryVolts, 1, "v", "volt", "volts")
	add(model.CategoryVolts, 0.001, "mv")

	return units
}

// Parse extracts the first recognizable claim from input.
// It returns nil when no pattern yields a known unit, including for blank input.
func (p *Parser) Parse(input string, source model.ClaimSource) *model.Claim {
	text := p.normalize(input)
	if text == "" {
		return nil
	}

	for i, pattern := range p.patterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			value, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}

			multiplier, token := "", m[2]
			if i == 0 {
				multiplier, token = m[2], m[3]
			}

			info, scale, ok := p.resolve(multiplier, token)
			if !ok {
				continue
			}

			value = value * scale * info.factor
			if value <= 0 {
				continue
			}

			return &model.Claim{
				Category:     info.category,
				Value:        value,
				Unit:         info.unit,
				Source:       source,
				OriginalText: input,
			}
		}
	}

	return nil
}

// resolve looks up a unit token. A multiplier letter that forms a known unit
// together with the token ("m"+"ah") is read as part of the unit.
func (p *Parser) resolve(multiplier, token string) (unitInfo, float64, bool) {
	if multiplier != "" {
		if info, ok := p.units[multiplier+token]; ok {
			return info, 1, true
		}
	}

	info, ok := p.units[token]
	if !ok {
		return unitInfo{}, 0, false
	}

	switch multiplier {
	case "k":
		return info, 1_000, true
	case "m":
		return info, 1_000_000, true
	default:
		return info, 1, true
	}
}

// ParseMultiple splits input on commas, semicolons, slashes and the word "and",
// parsing each segment on its own. Segments that fail are dropped; order is kept.
func (p *Parser) ParseMultiple(input string, source model.ClaimSource) []model.Claim {
	claims := []model.Claim{}

	for _, segment := range p.splitter.Split(p.joinGroupedDigits(input), -1) {
		if c := p.Parse(segment, source); c != nil {
			claims = append(claims, *c)
		}
	}

	return claims
}

// normalize trims, lowercases, strips commas and collapses whitespace
func (p *Parser) normalize(input string) string {
	text := strings.ToLower(strings.TrimSpace(input))
	text = strings.ReplaceAll(text, ",", "")
	return p.spaces.ReplaceAllString(text, " ")
}

// joinGroupedDigits removes thousands separators so "10,000" survives splitting on commas
func (p *Parser) joinGroupedDigits(input string) string {
	for {
		joined := p.grouping.ReplaceAllString(input, "$1$2")
		if joined == input {
			return joined
		}
		input = joined
	}
}
