package store

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"pos-service/internal/apperr"
	"pos-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// CheckoutItem is one requested (SKU, quantity) pair of a checkout
type CheckoutItem struct {
	SKU      string
	Quantity int
}

// CheckoutResult is everything a commit produced, for post-commit
// alerting and eventing
type CheckoutResult struct {
	Sale     models.Sale
	Items    []models.SaleItem
	Products []models.Product // post-decrement state, one per distinct SKU
}

// CheckoutTx commits a sale as one transaction: it locks every product
// row in sorted SKU order, re-checks stock under the lock, snapshots
// prices, then writes the sale, its items, the stock decrements and one
// stock_adjustments row per line. Any failure rolls back the whole unit.
func (s *Store) CheckoutTx(ctx context.Context, items []CheckoutItem, employeeID, customerID int64) (*CheckoutResult, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storeErr("begin checkout transaction", err)
	}
	defer tx.Rollback()

	// Locking in sorted SKU order keeps concurrent checkouts that share
	// products from deadlocking each other.
	skus := make([]string, 0, len(items))
	for _, item := range items {
		skus = append(skus, item.SKU)
	}
	sort.Strings(skus)

	products := make(map[string]*models.Product, len(skus))
	for _, sku := range skus {
		product, err := lockProduct(ctx, tx, sku)
		if err != nil {
			return nil, err
		}
		products[sku] = product
	}

	priced := make([]models.PricedLine, 0, len(items))
	for _, item := range items {
		product := products[item.SKU]
		if product.Stock < item.Quantity {
			return nil, apperr.InsufficientStock(
				"sku %q: available %d, requested %d", item.SKU, product.Stock, item.Quantity)
		}
		priced = append(priced, models.PricedLine{
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
		})
	}

	totals := models.TotalsFor(priced)

	var sale models.Sale
	err = tx.GetContext(ctx, &sale, `
		INSERT INTO sales (sale_time, total, employee_id, customer_id)
		VALUES (NOW(), $1, $2, $3)
		RETURNING *`,
		totals.Total, employeeID, customerID)
	if err != nil {
		return nil, storeErr("insert sale", err)
	}

	saleItems := make([]models.SaleItem, 0, len(items))
	for _, line := range priced {
		var item models.SaleItem
		err = tx.GetContext(ctx, &item, `
			INSERT INTO sale_items (sale_id, sku, quantity, unit_price)
			VALUES ($1, $2, $3, $4)
			RETURNING *`,
			sale.ID, line.SKU, line.Quantity, line.UnitPrice)
		if err != nil {
			return nil, storeErr("insert sale item", err)
		}
		saleItems = append(saleItems, item)

		if err := applyAdjustment(ctx, tx, products[line.SKU], -line.Quantity,
			models.AdjustmentReasonSale, employeeID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, storeErr("commit checkout transaction", err)
	}

	result := &CheckoutResult{Sale: sale, Items: saleItems}
	for _, sku := range skus {
		result.Products = append(result.Products, *products[sku])
	}
	return result, nil
}

// AdjustStockTx applies a signed stock delta as one transaction: lock
// the row, reject if the result would be negative, update the quantity
// and append the audit row. This is the only path that changes stock.
func (s *Store) AdjustStockTx(ctx context.Context, sku string, delta int, reason string, employeeID int64) (*models.Product, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storeErr("begin adjustment transaction", err)
	}
	defer tx.Rollback()

	product, err := lockProduct(ctx, tx, sku)
	if err != nil {
		return nil, err
	}

	if err := applyAdjustment(ctx, tx, product, delta, reason, employeeID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, storeErr("commit adjustment transaction", err)
	}

	return product, nil
}

// lockProduct reads a product row with FOR UPDATE, holding the row lock
// until the transaction ends
func lockProduct(ctx context.Context, tx *sqlx.Tx, sku string) (*models.Product, error) {
	var product models.Product
	err := tx.GetContext(ctx, &product,
		"SELECT * FROM products WHERE sku = $1 FOR UPDATE", sku)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("product with sku %q not found", sku)
	}
	if err != nil {
		return nil, storeErr("lock product row", err)
	}
	return &product, nil
}

// applyAdjustment decrements or increments a locked product row and
// appends the matching stock_adjustments record. The conditional UPDATE
// is a second guard on top of the row lock so stock can never go
// negative even if a caller skipped the lock.
func applyAdjustment(ctx context.Context, tx *sqlx.Tx, product *models.Product, delta int, reason string, employeeID int64) error {
	if product.Stock+delta < 0 {
		return apperr.InsufficientStock(
			"sku %q: stock %d cannot change by %d", product.SKU, product.Stock, delta)
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE products SET stock = stock + $1 WHERE sku = $2 AND stock + $1 >= 0",
		delta, product.SKU)
	if err != nil {
		return storeErr("update stock", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storeErr("update stock", err)
	}
	if affected != 1 {
		return apperr.InsufficientStock(
			"sku %q: stock changed concurrently, cannot change by %d", product.SKU, delta)
	}
	product.Stock += delta

	_, err = tx.ExecContext(ctx, `
		INSERT INTO stock_adjustments (sku, adjusted_at, quantity_change, reason, employee_id)
		VALUES ($1, NOW(), $2, $3, $4)`,
		product.SKU, delta, reason, employeeID)
	if err != nil {
		return storeErr("insert stock adjustment", err)
	}

	return nil
}
