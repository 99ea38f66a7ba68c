package mcp

import (
	"fmt"
	"strings"

	"github.com/Aman-CERP/storefront/internal/catalog"
	"github.com/Aman-CERP/storefront/internal/search"
	"github.com/Aman-CERP/storefront/internal/ui"
)

// FormatSearchResults formats matching listings as markdown.
func FormatSearchResults(query string, out SearchCatalogOutput) string {
	if len(out.Results) == 0 {
		if strings.TrimSpace(query) == "" {
			return "No listings match the filters."
		}
		return fmt.Sprintf("No listings found for \"%s\"", query)
	}

	var sb strings.Builder
	if strings.TrimSpace(query) == "" {
		sb.WriteString("## Catalog\n\n")
	} else {
		sb.WriteString(fmt.Sprintf("## Listings matching \"%s\"\n\n", query))
	}
	sb.WriteString(fmt.Sprintf("Showing %d of %d result", len(out.Results), out.Total))
	if out.Total != 1 {
		sb.WriteString("s")
	}
	sb.WriteString("\n\n")

	for i, r := range out.Results {
		name := search.HighlightFunc(r.Name, query, func(s string) string { return "**" + s + "**" })
		sb.WriteString(fmt.Sprintf("%d. %s (%s), from %s", i+1, name, r.Brand, ui.FormatPrice(r.FromPrice)))
		if !r.InStock {
			sb.WriteString(", out of stock")
		}
		if r.Favorite {
			sb.WriteString(" ♥")
		}
		sb.WriteString(fmt.Sprintf(" `%s`\n", r.ID))
	}
	return sb.String()
}

// FormatItem formats a full listing as markdown.
func FormatItem(d ItemDetail) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s\n\n", d.Name))
	sb.WriteString(fmt.Sprintf("**Brand:** %s  \n**ID:** `%s`  \n", d.Brand, d.ID))
	if d.InStock {
		sb.WriteString("**Availability:** in stock\n\n")
	} else {
		sb.WriteString("**Availability:** out of stock\n\n")
	}

	sb.WriteString("### Variants\n\n")
	for _, v := range d.Variants {
		sb.WriteString(fmt.Sprintf("- %s/%s: %s\n", v.RAM, v.Storage, ui.FormatPrice(v.Price)))
	}
	sb.WriteString("\n### Colors\n\n")
	for _, c := range d.Colors {
		sb.WriteString(fmt.Sprintf("- %s (`%s`)\n", c.Label, c.Key))
	}
	return sb.String()
}

func toSummary(it catalog.Item, query string, fav bool) ItemSummary {
	s := ItemSummary{
		ID:        it.ID,
		Name:      it.Name,
		Brand:     it.Brand,
		FromPrice: it.MinPrice(),
		InStock:   it.InStock(),
		Favorite:  fav,
	}
	if strings.TrimSpace(query) != "" {
		s.Highlighted = search.Highlight(it.Name, query)
	}
	return s
}

func toDetail(it catalog.Item, fav bool) ItemDetail {
	d := ItemDetail{
		ItemSummary: toSummary(it, "", fav),
		Variants:    make([]VariantOutput, 0, len(it.Variants)),
		Colors:      make([]ColorOutput, 0, len(it.Colors)),
		Specs:       it.Specs,
		Pros:        it.Pros,
		Cons:        it.Cons,
	}
	for _, v := range it.Variants {
		d.Variants = append(d.Variants, VariantOutput{ID: v.ID, RAM: v.RAM, Storage: v.Storage, Price: v.Price})
	}
	for _, c := range it.Colors {
		img, _ := it.ImageFor(c.Key)
		d.Colors = append(d.Colors, ColorOutput{Key: c.Key, Label: c.Label, Code: c.Code, Image: img})
	}
	return d
}

func clampLimit(limit, defaultVal, min, max int) int {
	if limit <= 0 {
		return defaultVal
	}
	if limit < min {
		return min
	}
	if limit > max {
		return max
	}
	return limit
}
