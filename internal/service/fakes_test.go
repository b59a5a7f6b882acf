package service

import (
	"context"
	"time"

	"pos-service/internal/apperr"
	"pos-service/internal/models"
	"pos-service/internal/store"

	"github.com/shopspring/decimal"
)

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustDecimalInt(i int) decimal.Decimal {
	return decimal.NewFromInt(int64(i))
}

// fakeLedger is an in-memory stand-in for the store used across the
// service tests. It mirrors the store's atomicity: a failed checkout
// leaves nothing behind.
type fakeLedger struct {
	products    map[string]*models.Product
	employees   map[int64]models.Employee
	customers   map[int64]models.Customer
	sales       map[int64]models.Sale
	saleItems   map[int64][]models.SaleItem
	adjustments []models.StockAdjustment
	nextSaleID  int64

	checkoutErr error // forces CheckoutTx to fail when set
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		products:  map[string]*models.Product{},
		employees: map[int64]models.Employee{1: {ID: 1, Name: "Erin"}},
		customers: map[int64]models.Customer{1: {ID: 1, Name: "Casey"}},
		sales:     map[int64]models.Sale{},
		saleItems: map[int64][]models.SaleItem{},
	}
}

func (f *fakeLedger) addProduct(sku, name, price string, stock, threshold int) {
	f.products[sku] = &models.Product{
		SKU:               sku,
		Name:              name,
		Price:             mustDecimal(price),
		Stock:             stock,
		LowStockThreshold: threshold,
	}
}

func (f *fakeLedger) GetProductBySKU(_ context.Context, sku string) (*models.Product, error) {
	product, ok := f.products[sku]
	if !ok {
		return nil, apperr.NotFound("product with sku %q not found", sku)
	}
	copied := *product
	return &copied, nil
}

func (f *fakeLedger) GetProductsBySKUs(_ context.Context, skus []string) ([]models.Product, error) {
	var out []models.Product
	for _, sku := range skus {
		if product, ok := f.products[sku]; ok {
			out = append(out, *product)
		}
	}
	return out, nil
}

func (f *fakeLedger) GetEmployee(_ context.Context, id int64) (*models.Employee, error) {
	employee, ok := f.employees[id]
	if !ok {
		return nil, apperr.NotFound("employee %d not found", id)
	}
	return &employee, nil
}

func (f *fakeLedger) GetCustomer(_ context.Context, id int64) (*models.Customer, error) {
	customer, ok := f.customers[id]
	if !ok {
		return nil, apperr.NotFound("customer %d not found", id)
	}
	return &customer, nil
}

func (f *fakeLedger) CheckoutTx(_ context.Context, items []store.CheckoutItem, employeeID, customerID int64) (*store.CheckoutResult, error) {
	if f.checkoutErr != nil {
		return nil, f.checkoutErr
	}

	priced := make([]models.PricedLine, 0, len(items))
	for _, item := range items {
		product, ok := f.products[item.SKU]
		if !ok {
			return nil, apperr.NotFound("product with sku %q not found", item.SKU)
		}
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

	f.nextSaleID++
	sale := models.Sale{
		ID:         f.nextSaleID,
		SaleTime:   time.Now(),
		Total:      totals.Total,
		EmployeeID: employeeID,
		CustomerID: customerID,
	}
	f.sales[sale.ID] = sale

	result := &store.CheckoutResult{Sale: sale}
	for _, line := range priced {
		product := f.products[line.SKU]
		product.Stock -= line.Quantity

		item := models.SaleItem{
			ID:        int64(len(f.saleItems[sale.ID]) + 1),
			SaleID:    sale.ID,
			SKU:       line.SKU,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
		f.saleItems[sale.ID] = append(f.saleItems[sale.ID], item)
		result.Items = append(result.Items, item)
		result.Products = append(result.Products, *product)

		f.adjustments = append(f.adjustments, models.StockAdjustment{
			SKU:            line.SKU,
			AdjustedAt:     time.Now(),
			QuantityChange: -line.Quantity,
			Reason:         models.AdjustmentReasonSale,
			EmployeeID:     employeeID,
		})
	}

	return result, nil
}

func (f *fakeLedger) AdjustStockTx(_ context.Context, sku string, delta int, reason string, employeeID int64) (*models.Product, error) {
	product, ok := f.products[sku]
	if !ok {
		return nil, apperr.NotFound("product with sku %q not found", sku)
	}
	if product.Stock+delta < 0 {
		return nil, apperr.InsufficientStock(
			"sku %q: stock %d cannot change by %d", sku, product.Stock, delta)
	}

	product.Stock += delta
	f.adjustments = append(f.adjustments, models.StockAdjustment{
		SKU:            sku,
		AdjustedAt:     time.Now(),
		QuantityChange: delta,
		Reason:         reason,
		EmployeeID:     employeeID,
	})

	copied := *product
	return &copied, nil
}

func (f *fakeLedger) GetAdjustmentsBySKU(_ context.Context, sku string) ([]models.StockAdjustment, error) {
	var out []models.StockAdjustment
	for i := len(f.adjustments) - 1; i >= 0; i-- {
		if f.adjustments[i].SKU == sku {
			out = append(out, f.adjustments[i])
		}
	}
	return out, nil
}

func (f *fakeLedger) GetSaleByID(_ context.Context, id int64) (*models.Sale, error) {
	sale, ok := f.sales[id]
	if !ok {
		return nil, apperr.NotFound("sale %d not found", id)
	}
	return &sale, nil
}

func (f *fakeLedger) GetReceiptLines(_ context.Context, saleID int64) ([]models.ReceiptLine, error) {
	var lines []models.ReceiptLine
	for _, item := range f.saleItems[saleID] {
		name := item.SKU
		if product, ok := f.products[item.SKU]; ok {
			name = product.Name
		}
		lines = append(lines, models.ReceiptLine{
			SKU:       item.SKU,
			Name:      name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.UnitPrice.Mul(mustDecimalInt(item.Quantity)),
		})
	}
	return lines, nil
}

// fakeNotifier records every alert it receives
type fakeNotifier struct {
	lowStock     []models.LowStockAlert
	largeTx      []models.LargeTransactionAlert
	failLowStock error
	failLargeTx  error
}

func (n *fakeNotifier) NotifyLowStock(_ context.Context, alert models.LowStockAlert) error {
	if n.failLowStock != nil {
		return n.failLowStock
	}
	n.lowStock = append(n.lowStock, alert)
	return nil
}

func (n *fakeNotifier) NotifyLargeTransaction(_ context.Context, alert models.LargeTransactionAlert) error {
	if n.failLargeTx != nil {
		return n.failLargeTx
	}
	n.largeTx = append(n.largeTx, alert)
	return nil
}
