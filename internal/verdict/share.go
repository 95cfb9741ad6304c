package verdict

import (
	"fmt"
	"strings"
	"time"

	"github.com/kase1111-hash/speccheck/internal/claim"
	"github.com/kase1111-hash/speccheck/internal/model"
)

const shareHeader = "SpecCheck Verdict"

// FormatForShare renders a verdict as plain text suitable for pasting
func FormatForShare(v model.Verdict) string {
	var sb strings.Builder

	sb.WriteString(shareHeader + "\n")
	sb.WriteString(fmt.Sprintf("Claimed: %s\n", claim.FormatPrecise(v.Claimed, v.Unit)))
	sb.WriteString(fmt.Sprintf("Maximum Possible: %s\n", claim.FormatPrecise(v.MaxPossible, v.Unit)))
	sb.WriteString(fmt.Sprintf("Verdict: %s %s\n", Icon(v.Result), Label(v.Result)))
	sb.WriteString("\n")
	sb.WriteString(v.Explanation + "\n")

	if len(v.Details) > 0 {
		sb.WriteString("\nDetails:\n")
		for _, d := range v.Details {
			sb.WriteString(d + "\n")
		}
	}

	sb.WriteString(fmt.Sprintf("\nAnalyzed: %s\n", v.AnalyzedAt.UTC().Format(time.RFC3339)))

	return sb.String()
}
