package service

import (
	"context"
	"time"

	"pos-service/internal/apperr"
	"pos-service/internal/broker"
	"pos-service/internal/models"
	"pos-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type stockLedger interface {
	GetEmployee(ctx context.Context, id int64) (*models.Employee, error)
	AdjustStockTx(ctx context.Context, sku string, delta int, reason string, employeeID int64) (*models.Product, error)
	GetAdjustmentsBySKU(ctx context.Context, sku string) ([]models.StockAdjustment, error)
}

// StockService exposes manual stock adjustments. Sale-driven decrements
// go through the same store primitive from the checkout transaction, so
// the non-negative stock invariant has one enforcement point.
type StockService struct {
	ledger  stockLedger
	catalog *CatalogService
	events  *broker.EventPublisher
	alerts  *AlertEvaluator
	logger  *zap.Logger
}

// NewStockService creates a new stock service. catalog and events may
// be nil.
func NewStockService(
	ledger stockLedger,
	catalog *CatalogService,
	events *broker.EventPublisher,
	alerts *AlertEvaluator,
) *StockService {
	return &StockService{
		ledger:  ledger,
		catalog: catalog,
		events:  events,
		alerts:  alerts,
		logger:  util.GetLogger(),
	}
}

// AdjustStock applies a signed stock delta with an audit reason and
// returns the post-adjustment product. Rejected outright if the change
// would drive stock negative.
func (ss *StockService) AdjustStock(ctx context.Context, sku string, delta int, reason string, employeeID int64) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "StockService.AdjustStock")
	defer span.End()

	if delta == 0 {
		return nil, apperr.Validation("adjustment delta must not be 0")
	}
	if reason == "" {
		return nil, apperr.Validation("adjustment reason is required")
	}

	if _, err := ss.ledger.GetEmployee(ctx, employeeID); err != nil {
		return nil, err
	}

	product, err := ss.ledger.AdjustStockTx(ctx, sku, delta, reason, employeeID)
	if err != nil {
		util.StockAdjustmentsFailedTotal.WithLabelValues(apperr.KindOf(err).String()).Inc()
		return nil, err
	}

	util.StockAdjustmentsTotal.WithLabelValues(reason).Inc()
	ss.logger.Info("Stock adjusted",
		zap.String("sku", sku),
		zap.Int("delta", delta),
		zap.String("reason", reason),
		zap.Int("stock_after", product.Stock))

	if ss.catalog != nil {
		ss.catalog.Invalidate(ctx, sku)
	}

	if ss.events != nil {
		event := &models.StockAdjustedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeStockAdjusted,
				Timestamp: time.Now(),
			},
			SKU:            sku,
			QuantityChange: delta,
			Reason:         reason,
			StockAfter:     product.Stock,
			EmployeeID:     employeeID,
		}
		if err := ss.events.PublishStockAdjusted(ctx, event); err != nil {
			ss.logger.Error("Failed to publish StockAdjusted event",
				zap.String("sku", sku), zap.Error(err))
		}
	}

	ss.alerts.EvaluateStock(ctx, product)

	return product, nil
}

// Adjustments returns the append-only audit trail for a SKU, newest
// first
func (ss *StockService) Adjustments(ctx context.Context, sku string) ([]models.StockAdjustment, error) {
	return ss.ledger.GetAdjustmentsBySKU(ctx, sku)
}
