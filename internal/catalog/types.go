package catalog

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Availability is the stock state of a catalog item.
type Availability string

const (
	InStock    Availability = "in_stock"
	OutOfStock Availability = "out_of_stock"
)

// Valid reports whether a is one of the known availability values.
func (a Availability) Valid() bool {
	return a == InStock || a == OutOfStock
}

// Variant is a RAM/storage/price combination of an item.
type Variant struct {
	ID      string  `json:"id,omitempty" yaml:"id,omitempty"`
	RAM     string  `json:"ram" yaml:"ram"`
	Storage string  `json:"storage" yaml:"storage"`
	Price   float64 `json:"price" yaml:"price"`
}

// Label returns "8GB / 256GB" style text for the variant.
func (v Variant) Label() string {
	return v.RAM + " / " + v.Storage
}

// Color is one color option of an item. Code is the display hex color.
type Color struct {
	Key   string `json:"key" yaml:"key"`
	Code  string `json:"code" yaml:"code"`
	Label string `json:"label" yaml:"label"`
}

// Specs maps named technical attributes to display values.
// Source files may carry numbers or lists; they are flattened to strings.
type Specs map[string]string

// UnmarshalJSON flattens any JSON scalar or list value into a string.
func (s *Specs) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = flattenSpecs(raw)
	return nil
}

// UnmarshalYAML flattens any YAML scalar or sequence value into a string.
func (s *Specs) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*s = flattenSpecs(raw)
	return nil
}

// Keys returns the spec names in sorted order.
func (s Specs) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func flattenSpecs(raw map[string]any) Specs {
	out := make(Specs, len(raw))
	for k, v := range raw {
		out[k] = specValue(v)
	}
	return out
}

func specValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			parts = append(parts, specValue(e))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(t)
	}
}

// Item is one sellable phone listing. Items are loaded once and never
// mutated afterwards.
type Item struct {
	ID           string            `json:"id" yaml:"id"`
	Name         string            `json:"name" yaml:"name"`
	Brand        string            `json:"brand" yaml:"brand"`
	Variants     []Variant         `json:"variants" yaml:"variants"`
	Colors       []Color           `json:"colors" yaml:"colors"`
	Images       map[string]string `json:"images" yaml:"images"`
	Specs        Specs             `json:"specs,omitempty" yaml:"specs,omitempty"`
	Pros         []string          `json:"pros,omitempty" yaml:"pros,omitempty"`
	Cons         []string          `json:"cons,omitempty" yaml:"cons,omitempty"`
	Availability Availability      `json:"availability" yaml:"availability"`
	Keywords     []string          `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// itemFields is the on-disk shape of an Item. Older catalogs carry a
// boolean "available" instead of the availability enum.
type itemFields struct {
	ID           string            `json:"id" yaml:"id"`
	Name         string            `json:"name" yaml:"name"`
	Brand        string            `json:"brand" yaml:"brand"`
	Variants     []Variant         `json:"variants" yaml:"variants"`
	Colors       []Color           `json:"colors" yaml:"colors"`
	Images       map[string]string `json:"images" yaml:"images"`
	Specs        Specs             `json:"specs" yaml:"specs"`
	Pros         []string          `json:"pros" yaml:"pros"`
	Cons         []string          `json:"cons" yaml:"cons"`
	Availability Availability      `json:"availability" yaml:"availability"`
	Available    *bool             `json:"available" yaml:"available"`
	Keywords     []string          `json:"keywords" yaml:"keywords"`
}

func (f itemFields) item() Item {
	avail := f.Availability
	if avail == "" {
		switch {
		case f.Available == nil, *f.Available:
			avail = InStock
		default:
			avail = OutOfStock
		}
	}
	return Item{
		ID:           f.ID,
		Name:         f.Name,
		Brand:        f.Brand,
		Variants:     f.Variants,
		Colors:       f.Colors,
		Images:       f.Images,
		Specs:        f.Specs,
		Pros:         f.Pros,
		Cons:         f.Cons,
		Availability: avail,
		Keywords:     f.Keywords,
	}
}

// UnmarshalJSON accepts both the availability enum and the boolean form.
func (it *Item) UnmarshalJSON(data []byte) error {
	var f itemFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*it = f.item()
	return nil
}

// UnmarshalYAML accepts both the availability enum and the boolean form.
func (it *Item) UnmarshalYAML(node *yaml.Node) error {
	var f itemFields
	if err := node.Decode(&f); err != nil {
		return err
	}
	*it = f.item()
	return nil
}

// InStock reports whether the item can currently be ordered.
func (it Item) InStock() bool {
	return it.Availability == InStock
}

// MinPrice returns the lowest variant price, or 0 without variants.
func (it Item) MinPrice() float64 {
	if len(it.Variants) == 0 {
		return 0
	}
	lowest := it.Variants[0].Price
	for _, v := range it.Variants[1:] {
		if v.Price < lowest {
			lowest = v.Price
		}
	}
	return lowest
}

// Variant finds a variant by id, falling back to a "ram/storage" label match.
func (it Item) Variant(id string) (Variant, bool) {
	for _, v := range it.Variants {
		if v.ID != "" && v.ID == id {
			return v, true
		}
	}
	for _, v := range it.Variants {
		if strings.EqualFold(v.RAM+"/"+v.Storage, id) {
			return v, true
		}
	}
	return Variant{}, false
}

// Color finds a color option by key.
func (it Item) Color(key string) (Color, bool) {
	for _, c := range it.Colors {
		if c.Key == key {
			return c, true
		}
	}
	return Color{}, false
}

// ImageFor returns the image reference for a color key.
func (it Item) ImageFor(colorKey string) (string, bool) {
	img, ok := it.Images[colorKey]
	return img, ok
}
