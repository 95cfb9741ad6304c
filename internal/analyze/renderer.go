package analyze

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kase1111-hash/speccheck/internal/claim"
	"github.com/kase1111-hash/speccheck/internal/model"
	"github.com/kase1111-hash/speccheck/internal/verdict"
)

const footer = "_Generated by speccheck. Verdicts are derived from datasheet limits and simplifying assumptions; they are not measurements._"

// Renderer writes reports as JSON, Markdown and terminal summaries
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the reports to path as indented JSON.
// A single report is written as an object, several as an array.
func (r *Renderer) RenderJSON(path string, reports ...*model.Report) error {
	var payload any = reports
	if len(reports) == 1 {
		payload = reports[0]
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderMarkdown writes the reports to path as Markdown
func (r *Renderer) RenderMarkdown(path string, reports ...*model.Report) error {
	var sb strings.Builder
	for i, report := range reports {
		if i > 0 {
			sb.WriteString("\n---\n\n")
		}
		sb.WriteString(r.Markdown(report))
	}
	if r.includeFooter {
		sb.WriteString("\n" + footer + "\n")
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Markdown renders one report without the footer
func (r *Renderer) Markdown(report *model.Report) string {
	var sb strings.Builder
	v := report.Verdict

	fmt.Fprintf(&sb, "# %s %s: %s\n\n", verdict.Icon(v.Result), verdict.Label(v.Result), report.Input)

	sb.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Claimed | %s |\n", claim.FormatPrecise(v.Claimed, v.Unit))
	fmt.Fprintf(&sb, "| Maximum possible | %s |\n", claim.FormatPrecise(v.MaxPossible, v.Unit))
	fmt.Fprintf(&sb, "| Confidence | %s |\n", v.Confidence)
	if v.Bottleneck != nil {
		fmt.Fprintf(&sb, "| Bottleneck | %s |\n", *v.Bottleneck)
	}
	fmt.Fprintf(&sb, "| Engine | %s |\n\n", report.Engine)

	sb.WriteString(v.Explanation + "\n\n")
	sb.WriteString("_" + verdict.ConfidenceDescription(v.Confidence) + "_\n")

	if len(report.Chain.Links) > 0 {
		sb.WriteString("\n## Constraint Chain\n\n")
		sb.WriteString("| Component | Constraint | Limit | Source |\n|---|---|---|---|\n")
		for _, l := range report.Chain.Links {
			name := l.Component.DisplayName()
			if l.IsBottleneck {
				name = "**" + name + "** (bottleneck)"
			}
			fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n",
				name, l.ConstraintType, claim.FormatPrecise(l.MaxValue, l.Unit), l.SourceSpec)
		}
	}

	if len(v.Details) > 0 {
		sb.WriteString("\n## Details\n\n")
		for _, d := range v.Details {
			sb.WriteString("- " + strings.TrimPrefix(strings.TrimPrefix(d, "• "), "- ") + "\n")
		}
	}

	if len(report.Warnings) > 0 {
		sb.WriteString("\n## Warnings\n\n")
		for _, w := range report.Warnings {
			sb.WriteString("- " + w + "\n")
		}
	}

	return sb.String()
}

// RenderSummary prints a short human-readable summary to w
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report, verbose bool) {
	v := report.Verdict

	fmt.Fprintf(w, "\n%s %s  %s\n", verdict.Icon(v.Result), verdict.Label(v.Result), report.Input)
	fmt.Fprintf(w, "   Claimed:          %s\n", claim.FormatPrecise(v.Claimed, v.Unit))
	fmt.Fprintf(w, "   Maximum possible: %s\n", claim.FormatPrecise(v.MaxPossible, v.Unit))
	fmt.Fprintf(w, "   Confidence:       %s\n", v.Confidence)
	if v.Bottleneck != nil {
		fmt.Fprintf(w, "   Bottleneck:       %s\n", *v.Bottleneck)
	}
	fmt.Fprintf(w, "\n   %s\n", v.Explanation)

	if verbose {
		for _, d := range v.Details {
			fmt.Fprintf(w, "   %s\n", d)
		}
	}

	for _, warning := range report.Warnings {
		fmt.Fprintf(w, "   Warning: %s\n", warning)
	}
}
