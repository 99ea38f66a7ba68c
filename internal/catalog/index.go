// Package catalog holds the read-only phone catalog and the lookup and
// filter primitives the storefront builds on.
package catalog

import "strings"

// Filter narrows a list of items the way the catalog page does: by brand
// (case-insensitive) and to in-stock items. The zero Filter keeps everything.
type Filter struct {
	Brand         string
	AvailableOnly bool
}

// IsZero reports whether the filter keeps every item.
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Brand) == "" && !f.AvailableOnly
}

// Match reports whether it passes the filter.
func (f Filter) Match(it Item) bool {
	if brand := strings.TrimSpace(f.Brand); brand != "" && !strings.EqualFold(it.Brand, brand) {
		return false
	}
	if f.AvailableOnly && !it.InStock() {
		return false
	}
	return true
}

// Apply returns the items passing the filter, preserving order.
func (f Filter) Apply(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	return out
}

// Index is an immutable in-memory view over the catalog.
// It is safe for concurrent use since nothing mutates it after NewIndex.
type Index struct {
	items  []Item
	byID   map[string]int
	brands []string
}

// NewIndex builds an index over a copy of items. When ids repeat, the
// first occurrence wins for ByID.
func NewIndex(items []Item) *Index {
	idx := &Index{
		items: make([]Item, len(items)),
		byID:  make(map[string]int, len(items)),
	}
	copy(idx.items, items)

	seenBrand := make(map[string]struct{})
	for i, it := range idx.items {
		if _, ok := idx.byID[it.ID]; !ok {
			idx.byID[it.ID] = i
		}
		if _, ok := seenBrand[it.Brand]; !ok {
			seenBrand[it.Brand] = struct{}{}
			idx.brands = append(idx.brands, it.Brand)
		}
	}
	return idx
}

// Len returns the number of items.
func (x *Index) Len() int {
	return len(x.items)
}

// All returns every item in catalog order.
func (x *Index) All() []Item {
	out := make([]Item, len(x.items))
	copy(out, x.items)
	return out
}

// ByID looks an item up by id. The boolean is false for unknown ids.
func (x *Index) ByID(id string) (Item, bool) {
	i, ok := x.byID[id]
	if !ok {
		return Item{}, false
	}
	return x.items[i], true
}

// ByBrand returns items whose brand equals brand, ignoring case.
func (x *Index) ByBrand(brand string) []Item {
	out := make([]Item, 0)
	for _, it := range x.items {
		if strings.EqualFold(it.Brand, brand) {
			out = append(out, it)
		}
	}
	return out
}

// Available returns the in-stock items.
func (x *Index) Available() []Item {
	return Filter{AvailableOnly: true}.Apply(x.items)
}

// Brands returns each distinct brand once, in first-seen catalog order.
func (x *Index) Brands() []string {
	out := make([]string, len(x.brands))
	copy(out, x.brands)
	return out
}

// Filter applies f to the whole catalog.
func (x *Index) Filter(f Filter) []Item {
	return f.Apply(x.items)
}
