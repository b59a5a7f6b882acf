package service

import (
	"context"
	"testing"
	"time"

	"pos-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateStockAtThreshold(t *testing.T) {
	notifier := &fakeNotifier{}
	evaluator := NewAlertEvaluator(notifier, decimal.NewFromInt(10000))

	product := &models.Product{SKU: "A1", Name: "Widget", Stock: 5, LowStockThreshold: 5}
	evaluator.EvaluateStock(context.Background(), product)

	require.Len(t, notifier.lowStock, 1, "stock equal to threshold must alert")
	assert.Equal(t, 5, notifier.lowStock[0].Stock)
}

func TestEvaluateStockAboveThreshold(t *testing.T) {
	notifier := &fakeNotifier{}
	evaluator := NewAlertEvaluator(notifier, decimal.NewFromInt(10000))

	product := &models.Product{SKU: "A1", Stock: 6, LowStockThreshold: 5}
	evaluator.EvaluateStock(context.Background(), product)

	assert.Empty(t, notifier.lowStock)
}

func TestEvaluateStockFiresOnEveryQualifyingTransition(t *testing.T) {
	notifier := &fakeNotifier{}
	evaluator := NewAlertEvaluator(notifier, decimal.NewFromInt(10000))

	product := &models.Product{SKU: "A1", Stock: 4, LowStockThreshold: 5}
	evaluator.EvaluateStock(context.Background(), product)

	// Already below threshold and adjusted further down: fires again.
	product.Stock = 2
	evaluator.EvaluateStock(context.Background(), product)

	assert.Len(t, notifier.lowStock, 2)
}

func TestEvaluateSaleThresholdIsStrict(t *testing.T) {
	notifier := &fakeNotifier{}
	evaluator := NewAlertEvaluator(notifier, decimal.NewFromInt(10000))

	sale := &models.Sale{ID: 1, SaleTime: time.Now(), Total: decimal.NewFromInt(10000)}
	evaluator.EvaluateSale(context.Background(), sale, "Erin", "Casey")
	assert.Empty(t, notifier.largeTx, "total equal to threshold must not alert")

	sale.Total = decimal.RequireFromString("10000.01")
	evaluator.EvaluateSale(context.Background(), sale, "Erin", "Casey")
	require.Len(t, notifier.largeTx, 1)
	assert.Equal(t, "Erin", notifier.largeTx[0].EmployeeName)
}

func TestNotifierFailureIsSwallowed(t *testing.T) {
	notifier := &fakeNotifier{failLowStock: assert.AnError, failLargeTx: assert.AnError}
	evaluator := NewAlertEvaluator(notifier, decimal.NewFromInt(10000))

	// Neither call may panic or propagate the notifier error.
	evaluator.EvaluateStock(context.Background(),
		&models.Product{SKU: "A1", Stock: 0, LowStockThreshold: 5})
	evaluator.EvaluateSale(context.Background(),
		&models.Sale{ID: 1, Total: decimal.NewFromInt(20000)}, "Erin", "Casey")

	assert.Empty(t, notifier.lowStock)
	assert.Empty(t, notifier.largeTx)
}
