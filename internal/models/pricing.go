package models

import "github.com/shopspring/decimal"

// TaxRate is the flat sales tax applied to every transaction.
var TaxRate = decimal.NewFromFloat(0.10)

// PricedLine is a quantity at a known unit price
type PricedLine struct {
	SKU       string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Totals holds the computed amounts for a set of priced lines
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// TotalsFor computes subtotal, tax and total for the given lines.
// Both the cart estimate and the checkout commit go through this function
// so the two agree exactly for unchanged prices.
func TotalsFor(lines []PricedLine) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(TaxRate).Round(2)
	total := subtotal.Add(tax).Round(2)

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    total,
	}
}
