package service

import (
	"context"
	"time"

	"pos-service/internal/apperr"
	"pos-service/internal/broker"
	"pos-service/internal/cart"
	"pos-service/internal/models"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// checkoutLedger is the slice of the store the checkout processor needs
type checkoutLedger interface {
	GetProductsBySKUs(ctx context.Context, skus []string) ([]models.Product, error)
	GetEmployee(ctx context.Context, id int64) (*models.Employee, error)
	GetCustomer(ctx context.Context, id int64) (*models.Customer, error)
	CheckoutTx(ctx context.Context, items []store.CheckoutItem, employeeID, customerID int64) (*store.CheckoutResult, error)
}

// CheckoutProcessor turns a session cart into a committed sale. The
// commit itself is a single store transaction; everything after commit
// (cache invalidation, events, alerts) is best-effort and cannot undo
// the sale.
type CheckoutProcessor struct {
	ledger  checkoutLedger
	catalog *CatalogService
	events  *broker.EventPublisher
	alerts  *AlertEvaluator
	logger  *zap.Logger
}

// NewCheckoutProcessor creates a new checkout processor. catalog and
// events may be nil.
func NewCheckoutProcessor(
	ledger checkoutLedger,
	catalog *CatalogService,
	events *broker.EventPublisher,
	alerts *AlertEvaluator,
) *CheckoutProcessor {
	return &CheckoutProcessor{
		ledger:  ledger,
		catalog: catalog,
		events:  events,
		alerts:  alerts,
		logger:  util.GetLogger(),
	}
}

// Checkout validates the cart against live stock and commits the sale
// atomically. On success the cart is cleared and the sale id returned;
// on any failure the cart is left unchanged so the caller can correct
// and retry.
func (cp *CheckoutProcessor) Checkout(ctx context.Context, c *cart.Cart, employeeID, customerID int64) (int64, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutProcessor.Checkout")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CheckoutLatency.Observe(time.Since(start).Seconds())
	}()

	employee, customer, err := cp.validate(ctx, c, employeeID, customerID)
	if err != nil {
		util.CheckoutsFailedTotal.WithLabelValues(apperr.KindOf(err).String()).Inc()
		return 0, err
	}

	items := make([]store.CheckoutItem, 0, len(c.Items()))
	for _, line := range c.Items() {
		items = append(items, store.CheckoutItem{SKU: line.SKU, Quantity: line.Quantity})
	}

	result, err := cp.ledger.CheckoutTx(ctx, items, employeeID, customerID)
	if err != nil {
		util.CheckoutsFailedTotal.WithLabelValues(apperr.KindOf(err).String()).Inc()
		return 0, err
	}

	c.Clear()
	util.SalesCommittedTotal.Inc()
	cp.logger.Info("Sale committed",
		zap.Int64("sale_id", result.Sale.ID),
		zap.String("total", result.Sale.Total.String()),
		zap.Int("lines", len(result.Items)))

	cp.afterCommit(ctx, result, employee, customer)

	return result.Sale.ID, nil
}

// validate enforces the pre-commit checks: non-empty cart, selected and
// existing customer, existing employee, and live stock covering every
// line. No state changes here.
func (cp *CheckoutProcessor) validate(ctx context.Context, c *cart.Cart, employeeID, customerID int64) (*models.Employee, *models.Customer, error) {
	if c.IsEmpty() {
		return nil, nil, apperr.Validation("cart is empty")
	}
	if customerID == 0 {
		return nil, nil, apperr.Validation("no customer selected")
	}

	employee, err := cp.ledger.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, nil, err
	}
	customer, err := cp.ledger.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}

	lines := c.Items()
	skus := make([]string, 0, len(lines))
	for _, line := range lines {
		skus = append(skus, line.SKU)
	}

	products, err := cp.ledger.GetProductsBySKUs(ctx, skus)
	if err != nil {
		return nil, nil, err
	}

	stock := make(map[string]int, len(products))
	for _, product := range products {
		stock[product.SKU] = product.Stock
	}

	for _, line := range lines {
		available, ok := stock[line.SKU]
		if !ok {
			return nil, nil, apperr.NotFound("product with sku %q not found", line.SKU)
		}
		if available < line.Quantity {
			return nil, nil, apperr.InsufficientStock(
				"sku %q: available %d, requested %d", line.SKU, available, line.Quantity)
		}
	}

	return employee, customer, nil
}

// afterCommit performs the best-effort post-commit work: cache
// invalidation, domain events and alert evaluation. Failures are logged
// and never surfaced to the checkout caller.
func (cp *CheckoutProcessor) afterCommit(ctx context.Context, result *store.CheckoutResult, employee *models.Employee, customer *models.Customer) {
	skus := make([]string, 0, len(result.Products))
	for _, product := range result.Products {
		skus = append(skus, product.SKU)
	}
	if cp.catalog != nil {
		cp.catalog.Invalidate(ctx, skus...)
	}

	if cp.events != nil {
		cp.publishEvents(ctx, result)
	}

	for i := range result.Products {
		cp.alerts.EvaluateStock(ctx, &result.Products[i])
	}
	cp.alerts.EvaluateSale(ctx, &result.Sale, employee.Name, customer.Name)
}

func (cp *CheckoutProcessor) publishEvents(ctx context.Context, result *store.CheckoutResult) {
	itemData := make([]models.SaleLineData, 0, len(result.Items))
	for _, item := range result.Items {
		itemData = append(itemData, models.SaleLineData{
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	event := &models.SaleCommittedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeSaleCommitted,
			Timestamp: time.Now(),
		},
		SaleID:     result.Sale.ID,
		Total:      result.Sale.Total,
		EmployeeID: result.Sale.EmployeeID,
		CustomerID: result.Sale.CustomerID,
		Items:      itemData,
	}

	if err := cp.events.PublishSaleCommitted(ctx, event); err != nil {
		cp.logger.Error("Failed to publish SaleCommitted event",
			zap.Int64("sale_id", result.Sale.ID), zap.Error(err))
	}

	quantities := make(map[string]int, len(result.Items))
	for _, item := range result.Items {
		quantities[item.SKU] += item.Quantity
	}

	for _, product := range result.Products {
		stockEvent := &models.StockAdjustedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeStockAdjusted,
				Timestamp: time.Now(),
			},
			SKU:            product.SKU,
			QuantityChange: -quantities[product.SKU],
			Reason:         models.AdjustmentReasonSale,
			StockAfter:     product.Stock,
			EmployeeID:     result.Sale.EmployeeID,
		}
		if err := cp.events.PublishStockAdjusted(ctx, stockEvent); err != nil {
			cp.logger.Error("Failed to publish StockAdjusted event",
				zap.String("sku", product.SKU), zap.Error(err))
		}
	}
}
