// Package checkout validates what a shopper picked and hands the resulting
// order to an external channel. How the order is rendered or delivered is
// up to the Handoff implementation.
package checkout

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Aman-CERP/storefront/internal/catalog"
	sferrors "github.com/Aman-CERP/storefront/internal/errors"
)

// mobilePattern matches an 11-digit Egyptian mobile number.
var mobilePattern = regexp.MustCompile(`^01[0125][0-9]{8}$`)

// Selection is a shopper's choice on an item page. Empty VariantID or
// ColorKey selects the item's first variant or color.
type Selection struct {
	ItemID    string `json:"item_id"`
	VariantID string `json:"variant_id,omitempty"`
	ColorKey  string `json:"color_key,omitempty"`
}

// Customer is who the order is for.
type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Validate checks the customer fields.
func (c Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return sferrors.ValidationError("customer name is required", nil).
			WithDetail("field", "name")
	}
	phone := strings.TrimSpace(c.Phone)
	if phone == "" {
		return sferrors.ValidationError("customer phone is required", nil).
			WithDetail("field", "phone")
	}
	if !mobilePattern.MatchString(phone) {
		return sferrors.ValidationError(fmt.Sprintf("invalid phone number %q", phone), nil).
			WithDetail("field", "phone").
			WithSuggestion("Use an 11-digit mobile number starting with 010, 011, 012 or 015")
	}
	return nil
}

// Order is a validated selection ready for hand-off.
type Order struct {
	Item     catalog.Item    `json:"-"`
	ItemID   string          `json:"item_id"`
	Name     string          `json:"name"`
	Variant  catalog.Variant `json:"variant"`
	Color    catalog.Color   `json:"color"`
	Customer Customer        `json:"customer"`
}

// Price is the selected variant's price.
func (o Order) Price() float64 {
	return o.Variant.Price
}

// Lookup finds catalog items by id.
type Lookup interface {
	ByID(id string) (catalog.Item, bool)
}

// Build resolves sel against the catalog and validates it with c.
func Build(items Lookup, sel Selection, c Customer) (Order, error) {
	item, ok := items.ByID(sel.ItemID)
	if !ok {
		return Order{}, sferrors.NotFound(sel.ItemID)
	}
	if !item.InStock() {
		return Order{}, sferrors.New(sferrors.ErrCodeInvalidSelection, fmt.Sprintf("%s is out of stock", item.Name), nil).
			WithDetail("id", item.ID)
	}

	variant, ok := pickVariant(item, sel.VariantID)
	if !ok {
		return Order{}, sferrors.New(sferrors.ErrCodeInvalidSelection, fmt.Sprintf("unknown variant %q for %s", sel.VariantID, item.ID), nil).
			WithDetail("id", item.ID)
	}
	color, ok := pickColor(item, sel.ColorKey)
	if !ok {
		return Order{}, sferrors.New(sferrors.ErrCodeInvalidSelection, fmt.Sprintf("unknown color %q for %s", sel.ColorKey, item.ID), nil).
			WithDetail("id", item.ID)
	}

	if err := c.Validate(); err != nil {
		return Order{}, err
	}

	return Order{
		Item:     item,
		ItemID:   item.ID,
		Name:     item.Name,
		Variant:  variant,
		Color:    color,
		Customer: Customer{Name: strings.TrimSpace(c.Name), Phone: strings.TrimSpace(c.Phone)},
	}, nil
}

func pickVariant(item catalog.Item, id string) (catalog.Variant, bool) {
	if id == "" {
		if len(item.Variants) == 0 {
			return catalog.Variant{}, false
		}
		return item.Variants[0], true
	}
	return item.Variant(id)
}

func pickColor(item catalog.Item, key string) (catalog.Color, bool) {
	if key == "" {
		if len(item.Colors) == 0 {
			return catalog.Color{}, false
		}
		return item.Colors[0], true
	}
	return item.Color(key)
}

// Handoff delivers an order to an external channel.
type Handoff interface {
	Open(ctx context.Context, order Order) error
}

// HandoffFunc adapts a function to Handoff.
type HandoffFunc func(ctx context.Context, order Order) error

// Open implements Handoff.
func (f HandoffFunc) Open(ctx context.Context, order Order) error {
	return f(ctx, order)
}

// Submit passes order to h, wrapping failures.
func Submit(ctx context.Context, h Handoff, order Order) error {
	if err := h.Open(ctx, order); err != nil {
		return sferrors.New(sferrors.ErrCodeInternal, "order hand-off failed", err).
			WithDetail("id", order.ItemID)
	}
	return nil
}
