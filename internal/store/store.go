package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pos-service/internal/apperr"
	"pos-service/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// storeErr maps a driver error into the closed taxonomy. Postgres class
// 40 (serialization_failure, deadlock_detected) means a racing
// transaction won; everything else is a persistence failure.
func storeErr(msg string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "40" {
		return apperr.ConcurrencyConflict(msg, err)
	}
	return apperr.Persistence(msg, err)
}

// GetProductBySKU retrieves a product by SKU
func (s *Store) GetProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE sku = $1", sku)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("product with sku %q not found", sku)
	}
	if err != nil {
		return nil, storeErr("get product", err)
	}
	return &product, nil
}

// GetProducts retrieves all products
func (s *Store) GetProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products, "SELECT * FROM products ORDER BY sku")
	if err != nil {
		return nil, storeErr("list products", err)
	}
	return products, nil
}

// GetProductsBySKUs retrieves multiple products by SKU
func (s *Store) GetProductsBySKUs(ctx context.Context, skus []string) ([]models.Product, error) {
	if len(skus) == 0 {
		return []models.Product{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM products WHERE sku IN (?)", skus)
	if err != nil {
		return nil, apperr.Persistence("build product query", err)
	}
	query = s.db.Rebind(query)

	var products []models.Product
	if err := s.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, storeErr("list products by sku", err)
	}
	return products, nil
}

// GetEmployee retrieves an employee by ID
func (s *Store) GetEmployee(ctx context.Context, id int64) (*models.Employee, error) {
	var employee models.Employee
	err := s.db.GetContext(ctx, &employee, "SELECT * FROM employees WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("employee %d not found", id)
	}
	if err != nil {
		return nil, storeErr("get employee", err)
	}
	return &employee, nil
}

// GetCustomer retrieves a customer by ID
func (s *Store) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.GetContext(ctx, &customer, "SELECT * FROM customers WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("customer %d not found", id)
	}
	if err != nil {
		return nil, storeErr("get customer", err)
	}
	return &customer, nil
}

// GetSaleByID retrieves a committed sale
func (s *Store) GetSaleByID(ctx context.Context, id int64) (*models.Sale, error) {
	var sale models.Sale
	err := s.db.GetContext(ctx, &sale, "SELECT * FROM sales WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("sale %d not found", id)
	}
	if err != nil {
		return nil, storeErr("get sale", err)
	}
	return &sale, nil
}

// GetSaleItems retrieves all items of a sale in insertion order
func (s *Store) GetSaleItems(ctx context.Context, saleID int64) ([]models.SaleItem, error) {
	var items []models.SaleItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM sale_items WHERE sale_id = $1 ORDER BY id", saleID)
	if err != nil {
		return nil, storeErr("list sale items", err)
	}
	return items, nil
}

// GetReceiptLines joins a sale's items with catalog names, in the order
// the items were inserted. The result is stable across calls.
func (s *Store) GetReceiptLines(ctx context.Context, saleID int64) ([]models.ReceiptLine, error) {
	query := `
		SELECT si.sku, p.name, si.quantity, si.unit_price,
		       si.unit_price * si.quantity AS line_total
		FROM sale_items si
		JOIN products p ON p.sku = si.sku
		WHERE si.sale_id = $1
		ORDER BY si.id`

	var lines []models.ReceiptLine
	if err := s.db.SelectContext(ctx, &lines, query, saleID); err != nil {
		return nil, storeErr("list receipt lines", err)
	}
	return lines, nil
}

// GetAdjustmentsBySKU retrieves the audit trail for one SKU, newest first
func (s *Store) GetAdjustmentsBySKU(ctx context.Context, sku string) ([]models.StockAdjustment, error) {
	var adjustments []models.StockAdjustment
	err := s.db.SelectContext(ctx, &adjustments,
		"SELECT * FROM stock_adjustments WHERE sku = $1 ORDER BY adjusted_at DESC, id DESC", sku)
	if err != nil {
		return nil, storeErr("list stock adjustments", err)
	}
	return adjustments, nil
}
