package inventory

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kase1111-hash/speccheck/internal/model"
)

// Format is an inventory file encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ErrEmptyInventory is returned for documents without any content
var ErrEmptyInventory = errors.New("inventory is empty")

// document is the top-level inventory shape: {components: [...]}
type document struct {
	Components []model.ComponentWithSpecs `json:"components" yaml:"components"`
}

// Load reads a component inventory from a YAML or JSON file.
// The format follows the file extension; anything but .json is read as YAML.
func Load(path string) ([]model.ComponentWithSpecs, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory: %w", err)
	}
	defer f.Close()

	components, err := Decode(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return components, nil
}

// FormatFromPath picks the encoding for a file name
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Decode reads an inventory document, either {components: [...]} or a bare list
func Decode(r io.Reader, format Format) ([]model.ComponentWithSpecs, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyInventory
	}

	var components []model.ComponentWithSpecs
	switch format {
	case FormatJSON:
		components, err = decodeJSON(data)
	default:
		components, err = decodeYAML(data)
	}
	if err != nil {
		return nil, err
	}

	for i := range components {
		normalize(&components[i])
	}
	return components, nil
}

func decodeJSON(data []byte) ([]model.ComponentWithSpecs, error) {
	var components []model.ComponentWithSpecs

	if bytes.TrimSpace(data)[0] == '[' {
		if err := json.Unmarshal(data, &components); err != nil {
			return nil, fmt.Errorf("failed to parse JSON inventory: %w", err)
		}
		return components, nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON inventory: %w", err)
	}
	return doc.Components, nil
}

func decodeYAML(data []byte) ([]model.ComponentWithSpecs, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse YAML inventory: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, ErrEmptyInventory
	}

	var components []model.ComponentWithSpecs

	switch node := root.Content[0]; node.Kind {
	case yaml.SequenceNode:
		if err := node.Decode(&components); err != nil {
			return nil, fmt.Errorf("failed to decode component list: %w", err)
		}
	case yaml.MappingNode:
		var doc document
		if err := node.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode inventory document: %w", err)
		}
		components = doc.Components
	default:
		return nil, fmt.Errorf("unexpected inventory root (line %d)", node.Line)
	}

	return components, nil
}

// normalize fills defaults a hand-written inventory usually leaves out
func normalize(c *model.ComponentWithSpecs) {
	if c.Match.Status == "" {
		if c.Match.PartNumber != "" {
			c.Match.Status = model.MatchConfident
		} else {
			c.Match.Status = model.MatchUnknown
		}
	}
	if c.Specs != nil {
		if c.Specs.PartNumber == "" {
			c.Specs.PartNumber = c.Match.PartNumber
		}
		if c.Specs.Category == "" {
			c.Specs.Category = c.Match.Category
		}
	}
}
