// Package cart implements the session-local shopping cart. A cart is
// owned by exactly one cashier session, is never persisted and is never
// shared, so it needs no synchronization.
package cart

import (
	"context"

	"pos-service/internal/apperr"
	"pos-service/internal/models"

	"github.com/shopspring/decimal"
)

// PriceLookup resolves a SKU to its current catalog price. Implemented
// by the catalog service; prices are not frozen until checkout.
type PriceLookup interface {
	UnitPrice(ctx context.Context, sku string) (decimal.Decimal, error)
}

// Line is one requested (SKU, quantity) pair
type Line struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// Cart holds the lines of one session in insertion order
type Cart struct {
	lines []Line
}

// New returns an empty cart
func New() *Cart {
	return &Cart{}
}

// Add merges qty into an existing line for sku, or appends a new line.
// The SKU must exist in the catalog and qty must be positive.
func (c *Cart) Add(ctx context.Context, prices PriceLookup, sku string, qty int) error {
	if qty <= 0 {
		return apperr.Validation("quantity must be greater than 0, got %d", qty)
	}

	if _, err := prices.UnitPrice(ctx, sku); err != nil {
		return err
	}

	for i := range c.lines {
		if c.lines[i].SKU == sku {
			c.lines[i].Quantity += qty
			return nil
		}
	}

	c.lines = append(c.lines, Line{SKU: sku, Quantity: qty})
	return nil
}

// Remove deletes the line for sku
func (c *Cart) Remove(sku string) error {
	for i := range c.lines {
		if c.lines[i].SKU == sku {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("sku %q not in cart", sku)
}

// SetQuantity replaces the quantity of an existing line
func (c *Cart) SetQuantity(sku string, qty int) error {
	if qty <= 0 {
		return apperr.Validation("quantity must be greater than 0, got %d", qty)
	}
	for i := range c.lines {
		if c.lines[i].SKU == sku {
			c.lines[i].Quantity = qty
			return nil
		}
	}
	return apperr.NotFound("sku %q not in cart", sku)
}

// Items returns a copy of the cart lines in insertion order
func (c *Cart) Items() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Clear discards all lines
func (c *Cart) Clear() {
	c.lines = nil
}

// Totals recomputes subtotal, tax and total against the current catalog
// prices. This is an estimate: prices are only frozen when checkout
// commits.
func (c *Cart) Totals(ctx context.Context, prices PriceLookup) (models.Totals, error) {
	priced := make([]models.PricedLine, 0, len(c.lines))
	for _, line := range c.lines {
		price, err := prices.UnitPrice(ctx, line.SKU)
		if err != nil {
			return models.Totals{}, err
		}
		priced = append(priced, models.PricedLine{
			SKU:       line.SKU,
			Quantity:  line.Quantity,
			UnitPrice: price,
		})
	}
	return models.TotalsFor(priced), nil
}
