package inventory

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/kase1111-hash/speccheck/internal/model"
)

// ErrNoSpecTable is returned when a datasheet has no recognizable parameter table
var ErrNoSpecTable = errors.New("no parameter table found")

var numberRe = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// parameterAliases maps datasheet parameter wording to spec keys
var parameterAliases = map[string]string{
	"luminous_flux":                    model.SpecLuminousFlux,
	"flux":                             model.SpecLuminousFlux,
	"forward_current":                  model.SpecMaxCurrent,
	"max_current":                      model.SpecMaxCurrent,
	"maximum_current":                  model.SpecMaxCurrent,
	"max_drive_current":                model.SpecMaxCurrent,
	"forward_voltage":                  model.SpecForwardVoltage,
	"output_current":                   model.SpecMaxOutputCurrent,
	"max_output_current":               model.SpecMaxOutputCurrent,
	"maximum_output_current":           model.SpecMaxOutputCurrent,
	"max_output_voltage":               model.SpecMaxOutputVoltage,
	"maximum_output_voltage":           model.SpecMaxOutputVoltage,
	"output_voltage":                   model.SpecOutputVoltage,
	"continuous_discharge_current":     model.SpecMaxContinuousDischarge,
	"max_continuous_discharge":         model.SpecMaxContinuousDischarge,
	"max_continuous_discharge_current": model.SpecMaxContinuousDischarge,
	"capacity":                         model.SpecNominalCapacity,
	"nominal_capacity":                 model.SpecNominalCapacity,
	"rated_capacity":                   model.SpecNominalCapacity,
	"nominal_voltage":                  model.SpecNominalVoltage,
	"output_power":                     model.SpecMaxPower,
	"max_power":                        model.SpecMaxPower,
	"maximum_power":                    model.SpecMaxPower,
	"supported_voltages":               model.SpecSupportedVoltages,
	"pd_voltages":                      model.SpecSupportedVoltages,
}

// columns holds the header positions of a parameter table, -1 when absent
type columns struct {
	parameter, min, typ, max, unit, conditions int
}

// ParseDatasheet extracts specs from the parameter tables of an HTML datasheet.
// A table qualifies when its header row names a Parameter column and at least
// one of Min/Typ/Max. The first row for a spec key wins.
func ParseDatasheet(r io.Reader, partNumber, manufacturer string, category model.ComponentCategory) (*model.ComponentSpecs, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse datasheet: %w", err)
	}

	specs := &model.ComponentSpecs{
		PartNumber:   partNumber,
		Manufacturer: manufacturer,
		Category:     category,
		Specs:        make(map[string]model.SpecValue),
	}

	tables := 0
	var walk func(*html.Node)

	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "table" {
			if readTable(n, specs.Specs) {
				tables++
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)

	if tables == 0 {
		return nil, ErrNoSpecTable
	}
	return specs, nil
}

// readTable adds the table's rows to specs and reports whether it was a parameter table
func readTable(table *html.Node, specs map[string]model.SpecValue) bool {
	rows := tableRows(table)
	if len(rows) < 2 {
		return false
	}

	cols, ok := headerColumns(rows[0])
	if !ok {
		return false
	}

	for _, row := range rows[1:] {
		name := cell(row, cols.parameter)
		if name == "" {
			continue
		}
		key := SpecKey(name)
		if _, seen := specs[key]; seen {
			continue
		}

		v, ok := rowValue(row, cols)
		if !ok {
			continue
		}
		specs[key] = v
	}

	return true
}

func rowValue(row []string, cols columns) (model.SpecValue, bool) {
	lo, hasMin := number(cell(row, cols.min))
	typ, hasTyp := number(cell(row, cols.typ))
	hi, hasMax := number(cell(row, cols.max))

	v := model.SpecValue{
		Unit:       cell(row, cols.unit),
		Conditions: cell(row, cols.conditions),
	}

	switch {
	case hasTyp:
		v.Value = typ
	case hasMax:
		v.Value = hi
	case hasMin:
		v.Value = lo
	default:
		return v, false
	}

	if hasMin {
		v.Min = &lo
	}
	if hasTyp {
		v.Typical = &typ
	}
	if hasMax {
		v.Max = &hi
	}
	return v, true
}

func headerColumns(header []string) (columns, bool) {
	cols := columns{parameter: -1, min: -1, typ: -1, max: -1, unit: -1, conditions: -1}

	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "parameter", "characteristic", "item":
			cols.parameter = i
		case "min", "min.", "minimum":
			cols.min = i
		case "typ", "typ.", "typical", "nom", "nominal":
			cols.typ = i
		case "max", "max.", "maximum":
			cols.max = i
		case "unit", "units":
			cols.unit = i
		case "conditions", "condition", "test conditions":
			cols.conditions = i
		}
	}

	ok := cols.parameter >= 0 && (cols.min >= 0 || cols.typ >= 0 || cols.max >= 0)
	return cols, ok
}

// SpecKey converts a datasheet parameter name to a spec key,
// e.g. "Max. Output Current" -> "max_output_current"
func SpecKey(name string) string {
	slug := strings.Trim(slugRe.ReplaceAllString(strings.ToLower(name), "_"), "_")
	if key, ok := parameterAliases[slug]; ok {
		return key
	}
	return slug
}

// tableRows collects the text of each row's cells, skipping nested tables
func tableRows(table *html.Node) [][]string {
	var rows [][]string
	var walk func(*html.Node)

	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "table":
				if n != table {
					return
				}
			case "tr":
				var cells []string
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
						cells = append(cells, strings.Join(strings.Fields(text(c)), " "))
					}
				}
				rows = append(rows, cells)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(table)
	return rows
}

func text(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(text(c))
		sb.WriteString(" ")
	}
	return sb.String()
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// number reads the first decimal in s; thousands separators are ignored
func number(s string) (float64, bool) {
	m := numberRe.FindString(strings.ReplaceAll(s, ",", ""))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
