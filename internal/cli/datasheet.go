package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kase1111-hash/speccheck/internal/inventory"
	"github.com/kase1111-hash/speccheck/internal/model"
)

var (
	dsPartNumber   string
	dsManufacturer string
	dsCategory     string
)

// datasheetCmd represents the datasheet command
var datasheetCmd = &cobra.Command{
	Use:   "datasheet <file.html|url>",
	Short: "Extract specs from an HTML datasheet",
	Long: `Datasheet reads the electrical characteristics tables of an HTML datasheet
and prints an inventory entry that can be pasted into a components file.

Rows are read from tables whose header names a Parameter column and at
least one of Min/Typ/Max. The typical value is preferred, then max, then min.

Datasheets given as http(s) URLs are downloaded with retries, honouring
robots.txt unless fetch.respect_robots is disabled.

Example:
  speccheck datasheet lm3409.html --part LM3409 --manufacturer TI --category led_driver >> components.yaml
  speccheck datasheet https://example.com/ds/lm3409.html --part LM3409 --category led_driver`,
	Args: cobra.ExactArgs(1),
	RunE: runDatasheet,
}

func init() {
	rootCmd.AddCommand(datasheetCmd)

	datasheetCmd.Flags().StringVar(&dsPartNumber, "part", "", "part number")
	datasheetCmd.Flags().StringVar(&dsManufacturer, "manufacturer", "", "manufacturer name")
	datasheetCmd.Flags().StringVar(&dsCategory, "category", string(model.ComponentOther), "component category (led, led_driver, battery_cell, ...)")
	_ = datasheetCmd.MarkFlagRequired("part")
}

func runDatasheet(cmd *cobra.Command, args []string) error {
	src, err := openDatasheet(cmd, args[0])
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	category := model.ComponentCategory(dsCategory)
	specs, err := inventory.ParseDatasheet(src, dsPartNumber, dsManufacturer, category)
	if err != nil {
		return fmt.Errorf("datasheet %s: %w", args[0], err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Extracted %d specs for %s\n", len(specs.Specs), dsPartNumber)
	}

	entry := []model.ComponentWithSpecs{{
		Match: model.MatchedComponent{
			Status:       model.MatchConfident,
			PartNumber:   dsPartNumber,
			Manufacturer: dsManufacturer,
			Category:     category,
			Confidence:   1,
		},
		Specs: specs,
	}}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(entry); err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}
	return enc.Close()
}

// openDatasheet opens a local file or downloads an http(s) URL
func openDatasheet(cmd *cobra.Command, location string) (io.ReadCloser, error) {
	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		f, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("open datasheet: %w", err)
		}
		return f, nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Fetching %s\n", location)
	}

	body, err := inventory.NewFetcher(cfg.Fetch).FetchWithRetry(cmd.Context(), location)
	if err != nil {
		return nil, fmt.Errorf("download datasheet: %w", err)
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}
