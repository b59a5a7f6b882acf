package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTotalsFor(t *testing.T) {
	lines := []PricedLine{
		{SKU: "A1", Quantity: 3, UnitPrice: decimal.RequireFromString("5.00")},
	}

	totals := TotalsFor(lines)

	assert.True(t, decimal.RequireFromString("15.00").Equal(totals.Subtotal))
	assert.True(t, decimal.RequireFromString("1.50").Equal(totals.Tax))
	assert.True(t, decimal.RequireFromString("16.50").Equal(totals.Total))
}

func TestTotalsForMultipleLines(t *testing.T) {
	lines := []PricedLine{
		{SKU: "A1", Quantity: 2, UnitPrice: decimal.RequireFromString("19.99")},
		{SKU: "B2", Quantity: 1, UnitPrice: decimal.RequireFromString("0.45")},
	}

	totals := TotalsFor(lines)

	// 2*19.99 + 0.45 = 40.43, tax 4.043 rounds to 4.04
	assert.True(t, decimal.RequireFromString("40.43").Equal(totals.Subtotal))
	assert.True(t, decimal.RequireFromString("4.04").Equal(totals.Tax))
	assert.True(t, decimal.RequireFromString("44.47").Equal(totals.Total))
}

func TestTotalsForEmpty(t *testing.T) {
	totals := TotalsFor(nil)

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestTotalsForDeterministic(t *testing.T) {
	lines := []PricedLine{
		{SKU: "A1", Quantity: 7, UnitPrice: decimal.RequireFromString("3.33")},
		{SKU: "B2", Quantity: 13, UnitPrice: decimal.RequireFromString("12.01")},
	}

	first := TotalsFor(lines)
	second := TotalsFor(lines)

	assert.True(t, first.Total.Equal(second.Total))
	assert.True(t, first.Subtotal.Add(first.Tax).Equal(first.Total))
}
