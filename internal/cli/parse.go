package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kase1111-hash/speccheck/internal/analyze"
	"github.com/kase1111-hash/speccheck/internal/claim"
	"github.com/kase1111-hash/speccheck/internal/model"
)

var parseJSON bool

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <text>",
	Short: "Extract claims from text without checking them",
	Long: `Parse reads every quantity claim in a piece of listing text and prints
its category, canonical value and unit, plus a range warning when the value
is outside anything a portable product could reach.

Example:
  speccheck parse "20,000mAh power bank with 65W PD output"
  speccheck parse "3000 lumens / 5000mAh" --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "print claims as JSON")
	parseCmd.Flags().StringVar(&claimSource, "source", string(model.SourceUserInput), "claim source (user_input, listing, ocr)")
}

func runParse(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	claims := claim.NewParser().ParseMultiple(text, model.ClaimSource(claimSource))
	if len(claims) == 0 {
		return fmt.Errorf("parse %q: %w", text, analyze.ErrUnparsableClaim)
	}

	out := cmd.OutOrStdout()

	if parseJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(claims)
	}

	for _, c := range claims {
		fmt.Fprintf(out, "%-8s %s\n", c.Category, claim.FormatValue(c.Value, c.Unit))
		if v := claim.Validate(c); !v.Valid {
			fmt.Fprintf(out, "         Warning: %s\n", v.Warning)
		}
	}
	return nil
}
