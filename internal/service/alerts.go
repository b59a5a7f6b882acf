package service

import (
	"context"

	"pos-service/internal/models"
	"pos-service/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Notifier delivers alert payloads to the outside world (email, SMS,
// log, message bus). Implementations live outside the sales core.
type Notifier interface {
	NotifyLowStock(ctx context.Context, alert models.LowStockAlert) error
	NotifyLargeTransaction(ctx context.Context, alert models.LargeTransactionAlert) error
}

// AlertEvaluator derives alerts from committed ledger transitions and
// hands them to the notifier. It runs strictly after commit; a notifier
// failure is logged and never unwinds the transaction that triggered it.
type AlertEvaluator struct {
	notifier                  Notifier
	largeTransactionThreshold decimal.Decimal
	logger                    *zap.Logger
}

// NewAlertEvaluator creates a new alert evaluator
func NewAlertEvaluator(notifier Notifier, largeTransactionThreshold decimal.Decimal) *AlertEvaluator {
	return &AlertEvaluator{
		notifier:                  notifier,
		largeTransactionThreshold: largeTransactionThreshold,
		logger:                    util.GetLogger(),
	}
}

// EvaluateStock fires a low stock alert when the post-adjustment stock
// is at or below the product's threshold. Every qualifying adjustment
// fires, not just the first crossing.
func (ae *AlertEvaluator) EvaluateStock(ctx context.Context, product *models.Product) {
	if product.Stock > product.LowStockThreshold {
		return
	}

	alert := models.LowStockAlert{
		SKU:       product.SKU,
		Name:      product.Name,
		Stock:     product.Stock,
		Threshold: product.LowStockThreshold,
	}

	if err := ae.notifier.NotifyLowStock(ctx, alert); err != nil {
		util.AlertDispatchFailedTotal.Inc()
		ae.logger.Error("Failed to dispatch low stock alert",
			zap.String("sku", product.SKU),
			zap.Int("stock", product.Stock),
			zap.Error(err))
		return
	}

	util.LowStockAlertsTotal.Inc()
	ae.logger.Info("Low stock alert dispatched",
		zap.String("sku", product.SKU),
		zap.Int("stock", product.Stock),
		zap.Int("threshold", product.LowStockThreshold))
}

// EvaluateSale fires a large transaction alert when the sale total
// exceeds the configured threshold
func (ae *AlertEvaluator) EvaluateSale(ctx context.Context, sale *models.Sale, employeeName, customerName string) {
	if sale.Total.LessThanOrEqual(ae.largeTransactionThreshold) {
		return
	}

	alert := models.LargeTransactionAlert{
		SaleID:       sale.ID,
		Total:        sale.Total,
		EmployeeName: employeeName,
		CustomerName: customerName,
	}

	if err := ae.notifier.NotifyLargeTransaction(ctx, alert); err != nil {
		util.AlertDispatchFailedTotal.Inc()
		ae.logger.Error("Failed to dispatch large transaction alert",
			zap.Int64("sale_id", sale.ID),
			zap.String("total", sale.Total.String()),
			zap.Error(err))
		return
	}

	util.LargeTransactionAlertsTotal.Inc()
	ae.logger.Info("Large transaction alert dispatched",
		zap.Int64("sale_id", sale.ID),
		zap.String("total", sale.Total.String()))
}

// LogNotifier writes alerts to the log. Used when no delivery channel
// is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier that only logs
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{logger: util.GetLogger()}
}

func (n *LogNotifier) NotifyLowStock(_ context.Context, alert models.LowStockAlert) error {
	n.logger.Warn("LOW STOCK",
		zap.String("sku", alert.SKU),
		zap.String("name", alert.Name),
		zap.Int("stock", alert.Stock),
		zap.Int("threshold", alert.Threshold))
	return nil
}

func (n *LogNotifier) NotifyLargeTransaction(_ context.Context, alert models.LargeTransactionAlert) error {
	n.logger.Warn("LARGE TRANSACTION",
		zap.Int64("sale_id", alert.SaleID),
		zap.String("total", alert.Total.String()),
		zap.String("employee", alert.EmployeeName),
		zap.String("customer", alert.CustomerName))
	return nil
}
