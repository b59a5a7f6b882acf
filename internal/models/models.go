package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog product with its live stock level
type Product struct {
	SKU               string          `db:"sku" json:"sku"`
	Name              string          `db:"name" json:"name"`
	Price             decimal.Decimal `db:"price" json:"price"`
	Cost              decimal.Decimal `db:"cost" json:"cost"`
	Stock             int             `db:"stock" json:"stock"`
	LowStockThreshold int             `db:"low_stock_threshold" json:"low_stock_threshold"`
	CategoryID        int64           `db:"category_id" json:"category_id"`
	SupplierID        sql.NullInt64   `db:"supplier_id" json:"supplier_id,omitempty"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
}

// Sale represents a committed transaction. Immutable after insert.
type Sale struct {
	ID         int64           `db:"id" json:"id"`
	SaleTime   time.Time       `db:"sale_time" json:"sale_time"`
	Total      decimal.Decimal `db:"total" json:"total"`
	EmployeeID int64           `db:"employee_id" json:"employee_id"`
	CustomerID int64           `db:"customer_id" json:"customer_id"`
}

// SaleItem represents one line of a sale, with the unit price frozen
// at commit time
type SaleItem struct {
	ID        int64           `db:"id" json:"id"`
	SaleID    int64           `db:"sale_id" json:"sale_id"`
	SKU       string          `db:"sku" json:"sku"`
	Quantity  int             `db:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
}

// StockAdjustment is an append-only audit record of a stock change.
// Corrections are made by appending a compensating row, never by editing.
type StockAdjustment struct {
	ID             int64     `db:"id" json:"id"`
	SKU            string    `db:"sku" json:"sku"`
	AdjustedAt     time.Time `db:"adjusted_at" json:"adjusted_at"`
	QuantityChange int       `db:"quantity_change" json:"quantity_change"`
	Reason         string    `db:"reason" json:"reason"`
	EmployeeID     int64     `db:"employee_id" json:"employee_id"`
}

// Adjustment reasons
const (
	AdjustmentReasonSale = "sale"
)

// Employee is read for existence checks and alert display names only
type Employee struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Customer is read for existence checks and alert display names only
type Customer struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// ReceiptLine is one display-ready line of a receipt
type ReceiptLine struct {
	SKU       string          `db:"sku" json:"sku"`
	Name      string          `db:"name" json:"name"`
	Quantity  int             `db:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
	LineTotal decimal.Decimal `db:"line_total" json:"line_total"`
}

// LowStockAlert is constructed after a stock mutation leaves a product
// at or below its threshold. Not persisted.
type LowStockAlert struct {
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	Threshold int    `json:"threshold"`
}

// LargeTransactionAlert is constructed after a sale commit whose total
// exceeds the configured threshold. Not persisted.
type LargeTransactionAlert struct {
	SaleID       int64           `json:"sale_id"`
	Total        decimal.Decimal `json:"total"`
	EmployeeName string          `json:"employee_name"`
	CustomerName string          `json:"customer_name"`
}
