package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeSaleCommitted    = "sale.committed"
	EventTypeStockAdjusted    = "stock.adjusted"
	EventTypeLowStock         = "alert.low_stock"
	EventTypeLargeTransaction = "alert.large_transaction"
)

// BaseEvent contains common event fields
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// SaleLineData is the item payload embedded in sale events
type SaleLineData struct {
	SKU       string          `json:"sku"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// SaleCommittedEvent is published after a checkout commits
type SaleCommittedEvent struct {
	BaseEvent
	SaleID     int64           `json:"sale_id"`
	Total      decimal.Decimal `json:"total"`
	EmployeeID int64           `json:"employee_id"`
	CustomerID int64           `json:"customer_id"`
	Items      []SaleLineData  `json:"items"`
}

// StockAdjustedEvent is published after any stock mutation commits,
// manual or sale-driven
type StockAdjustedEvent struct {
	BaseEvent
	SKU            string `json:"sku"`
	QuantityChange int    `json:"quantity_change"`
	Reason         string `json:"reason"`
	StockAfter     int    `json:"stock_after"`
	EmployeeID     int64  `json:"employee_id"`
}

// LowStockAlertEvent carries a low stock alert to the delivery worker
type LowStockAlertEvent struct {
	BaseEvent
	Alert LowStockAlert `json:"alert"`
}

// LargeTransactionAlertEvent carries a large transaction alert to the
// delivery worker
type LargeTransactionAlertEvent struct {
	BaseEvent
	Alert LargeTransactionAlert `json:"alert"`
}
