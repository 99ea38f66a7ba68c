package ui

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Aman-CERP/storefront/internal/catalog"
	"github.com/Aman-CERP/storefront/internal/search"
)

// Currency is appended to rendered prices.
const Currency = "EGP"

var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders a price with thousands separators, e.g. "54,999 EGP".
func FormatPrice(p float64) string {
	return pricePrinter.Sprintf("%d", int64(math.Round(p))) + " " + Currency
}

// ItemRenderer formats catalog items for the terminal.
type ItemRenderer struct {
	styles Styles
}

// NewItemRenderer creates an item renderer.
func NewItemRenderer(noColor bool) *ItemRenderer {
	return &ItemRenderer{styles: GetStyles(noColor)}
}

// Row renders one item on a single line. query terms in the name are
// highlighted; fav marks the item as a favorite.
func (r *ItemRenderer) Row(it catalog.Item, query string, fav bool) string {
	heart := "  "
	if fav {
		heart = r.styles.Favorite.Render("♥") + " "
	}
	name := search.HighlightFunc(it.Name, query, func(s string) string { return r.styles.Mark.Render(s) })

	row := fmt.Sprintf("%s%s %s  %s",
		heart,
		name,
		r.styles.Label.Render("("+it.Brand+")"),
		r.styles.Price.Render("from "+FormatPrice(it.MinPrice())))
	if !it.InStock() {
		row += "  " + r.styles.Warning.Render("out of stock")
	}
	return row
}

// List renders items one per row. isFav may be nil.
func (r *ItemRenderer) List(items []catalog.Item, query string, isFav func(string) bool) string {
	var b strings.Builder
	for _, it := range items {
		fav := isFav != nil && isFav(it.ID)
		b.WriteString(r.Row(it, query, fav))
		b.WriteByte('\n')
	}
	return b.String()
}

// Detail renders every field of an item.
func (r *ItemRenderer) Detail(it catalog.Item, fav bool) string {
	var b strings.Builder

	title := it.Name
	if fav {
		title += " " + r.styles.Favorite.Render("♥")
	}
	fmt.Fprintf(&b, "%s\n", r.styles.Header.Render(title))
	fmt.Fprintf(&b, "%s %s  %s %s\n",
		r.styles.Label.Render("Brand:"), it.Brand,
		r.styles.Label.Render("ID:"), it.ID)

	status := r.styles.Success.Render("in stock")
	if !it.InStock() {
		status = r.styles.Warning.Render("out of stock")
	}
	fmt.Fprintf(&b, "%s %s\n\n", r.styles.Label.Render("Availability:"), status)

	b.WriteString(r.styles.Label.Render("Variants:") + "\n")
	for _, v := range it.Variants {
		fmt.Fprintf(&b, "  %-18s %s\n", v.Label(), r.styles.Price.Render(FormatPrice(v.Price)))
	}

	b.WriteString(r.styles.Label.Render("Colors:") + "\n")
	for _, c := range it.Colors {
		fmt.Fprintf(&b, "  %-10s %s\n", c.Key, c.Label)
	}

	if keys := it.Specs.Keys(); len(keys) > 0 {
		b.WriteString(r.styles.Label.Render("Specs:") + "\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "  %-14s %s\n", k, it.Specs[k])
		}
	}
	for _, p := range it.Pros {
		fmt.Fprintf(&b, "  %s %s\n", r.styles.Success.Render("+"), p)
	}
	for _, c := range it.Cons {
		fmt.Fprintf(&b, "  %s %s\n", r.styles.Error.Render("-"), c)
	}
	return b.String()
}
