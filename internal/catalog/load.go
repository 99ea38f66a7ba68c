package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	sferrors "github.com/Aman-CERP/storefront/internal/errors"
)

// Format is a catalog file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

//go:embed sample.json
var sampleCatalog []byte

// document is the wrapped file shape: {"items": [...]}.
type document struct {
	Items []Item `json:"items" yaml:"items"`
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", sferrors.New(sferrors.ErrCodeCatalogRead,
			fmt.Sprintf("unsupported catalog format %q", filepath.Ext(path)), nil).
			WithSuggestion("use a .json, .yaml or .yml catalog file")
	}
}

// LoadFile reads, parses and validates a catalog file.
func LoadFile(path string) ([]Item, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, sferrors.New(sferrors.ErrCodeCatalogRead, "failed to read catalog file", err).
			WithDetail("path", path)
	}

	items, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	if err := Validate(items); err != nil {
		return nil, err
	}
	return items, nil
}

// LoadSample returns the catalog bundled with the binary.
func LoadSample() ([]Item, error) {
	items, err := Parse(sampleCatalog, FormatJSON)
	if err != nil {
		return nil, err
	}
	if err := Validate(items); err != nil {
		return nil, err
	}
	return items, nil
}

// Parse decodes a catalog. Both a bare list of items and a document with
// an "items" key are accepted.
func Parse(data []byte, format Format) ([]Item, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, sferrors.New(sferrors.ErrCodeCatalogRead, "catalog is empty", nil)
	}

	var (
		items []Item
		err   error
	)
	switch format {
	case FormatJSON:
		items, err = parseJSON(trimmed)
	case FormatYAML:
		items, err = parseYAML(trimmed)
	default:
		return nil, sferrors.New(sferrors.ErrCodeCatalogRead, fmt.Sprintf("unknown catalog format %q", format), nil)
	}
	if err != nil {
		return nil, sferrors.New(sferrors.ErrCodeCatalogRead, "failed to parse catalog", err).
			WithDetail("format", string(format))
	}
	return items, nil
}

func parseJSON(data []byte) ([]Item, error) {
	if data[0] == '[' {
		var items []Item
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Items, nil
}

func parseYAML(data []byte) ([]Item, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, errors.New("empty yaml document")
	}

	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		var items []Item
		if err := root.Decode(&items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var doc document
	if err := root.Decode(&doc); err != nil {
		return nil, err
	}
	return doc.Items, nil
}

// Validate checks the catalog invariants: unique non-empty ids, at least
// one variant and one color per item, an image for every color key and a
// known availability. All problems are reported together.
func Validate(items []Item) error {
	var problems []error
	seen := make(map[string]struct{}, len(items))

	for i, it := range items {
		label := it.ID
		if label == "" {
			label = fmt.Sprintf("#%d", i)
			problems = append(problems, fmt.Errorf("item %s: missing id", label))
		} else if _, dup := seen[it.ID]; dup {
			problems = append(problems, fmt.Errorf("item %s: duplicate id", label))
		}
		seen[it.ID] = struct{}{}

		if len(it.Variants) == 0 {
			problems = append(problems, fmt.Errorf("item %s: no variants", label))
		}
		if len(it.Colors) == 0 {
			problems = append(problems, fmt.Errorf("item %s: no colors", label))
		}
		for _, c := range it.Colors {
			if _, ok := it.Images[c.Key]; !ok {
				problems = append(problems, fmt.Errorf("item %s: no image for color %q", label, c.Key))
			}
		}
		if !it.Availability.Valid() {
			problems = append(problems, fmt.Errorf("item %s: unknown availability %q", label, it.Availability))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return sferrors.New(sferrors.ErrCodeCatalogInvalid,
		fmt.Sprintf("catalog failed validation (%d problems)", len(problems)), errors.Join(problems...))
}
