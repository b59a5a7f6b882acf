package service

import (
	"context"
	"testing"

	"pos-service/internal/apperr"
	"pos-service/internal/cart"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiptForCommittedSale(t *testing.T) {
	ledger, _, processor := newCheckoutFixture(t)
	ledger.addProduct("A1", "Widget", "5.00", 10, 5)

	c := cart.New()
	require.NoError(t, c.Add(context.Background(), NewCatalogService(ledger, nil), "A1", 3))

	saleID, err := processor.Checkout(context.Background(), c, 1, 1)
	require.NoError(t, err)

	receipts := NewReceiptService(ledger)
	receipt, err := receipts.ReceiptFor(context.Background(), saleID)
	require.NoError(t, err)

	require.Len(t, receipt.Lines, 1)
	line := receipt.Lines[0]
	assert.Equal(t, "A1", line.SKU)
	assert.Equal(t, "Widget", line.Name)
	assert.Equal(t, 3, line.Quantity)
	assert.True(t, decimal.RequireFromString("5.00").Equal(line.UnitPrice))
	assert.True(t, decimal.RequireFromString("15.00").Equal(line.LineTotal))
	assert.True(t, decimal.RequireFromString("16.50").Equal(receipt.Sale.Total))
}

func TestReceiptForIsIdempotent(t *testing.T) {
	ledger, _, processor := newCheckoutFixture(t)
	ledger.addProduct("A1", "Widget", "5.00", 10, 5)
	ledger.addProduct("B2", "Gadget", "2.25", 10, 5)

	c := cart.New()
	catalog := NewCatalogService(ledger, nil)
	require.NoError(t, c.Add(context.Background(), catalog, "A1", 2))
	require.NoError(t, c.Add(context.Background(), catalog, "B2", 4))

	saleID, err := processor.Checkout(context.Background(), c, 1, 1)
	require.NoError(t, err)

	receipts := NewReceiptService(ledger)
	first, err := receipts.ReceiptFor(context.Background(), saleID)
	require.NoError(t, err)
	second, err := receipts.ReceiptFor(context.Background(), saleID)
	require.NoError(t, err)

	assert.Equal(t, first, second, "resending a receipt must produce identical output")
}

func TestReceiptPriceFrozenAtCommit(t *testing.T) {
	ledger, _, processor := newCheckoutFixture(t)
	ledger.addProduct("A1", "Widget", "5.00", 10, 5)

	c := cart.New()
	require.NoError(t, c.Add(context.Background(), NewCatalogService(ledger, nil), "A1", 1))

	saleID, err := processor.Checkout(context.Background(), c, 1, 1)
	require.NoError(t, err)

	// The catalog price changes after the sale; the receipt keeps the
	// snapshotted price.
	ledger.products["A1"].Price = decimal.RequireFromString("9.99")

	receipts := NewReceiptService(ledger)
	receipt, err := receipts.ReceiptFor(context.Background(), saleID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("5.00").Equal(receipt.Lines[0].UnitPrice))
}

func TestReceiptForUnknownSale(t *testing.T) {
	ledger := newFakeLedger()
	receipts := NewReceiptService(ledger)

	_, err := receipts.ReceiptFor(context.Background(), 404)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
