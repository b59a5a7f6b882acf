package service

import (
	"context"

	"pos-service/internal/models"
	"pos-service/internal/redisclient"
	"pos-service/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type catalogStore interface {
	GetProductBySKU(ctx context.Context, sku string) (*models.Product, error)
}

// CatalogService serves product reads through a cache-aside Redis layer.
// The database stays authoritative; cache entries are dropped after
// every committed stock mutation.
type CatalogService struct {
	store  catalogStore
	cache  *redisclient.Client
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service. cache may be nil, in
// which case every read goes to the store.
func NewCatalogService(store catalogStore, cache *redisclient.Client) *CatalogService {
	return &CatalogService{
		store:  store,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// GetProduct retrieves a product by SKU, preferring the cache
func (cs *CatalogService) GetProduct(ctx context.Context, sku string) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.GetProduct")
	defer span.End()

	if cs.cache != nil {
		cached, err := cs.cache.GetProduct(ctx, sku)
		if err != nil {
			cs.logger.Warn("Product cache read failed, falling back to store",
				zap.String("sku", sku), zap.Error(err))
		} else if cached != nil {
			util.ProductCacheHitsTotal.WithLabelValues("hit").Inc()
			return cached, nil
		}
		util.ProductCacheHitsTotal.WithLabelValues("miss").Inc()
	}

	product, err := cs.store.GetProductBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}

	if cs.cache != nil {
		if err := cs.cache.SetProduct(ctx, product); err != nil {
			cs.logger.Warn("Product cache write failed",
				zap.String("sku", sku), zap.Error(err))
		}
	}

	return product, nil
}

// UnitPrice resolves a SKU to its current price. Satisfies cart.PriceLookup.
func (cs *CatalogService) UnitPrice(ctx context.Context, sku string) (decimal.Decimal, error) {
	product, err := cs.GetProduct(ctx, sku)
	if err != nil {
		return decimal.Zero, err
	}
	return product.Price, nil
}

// Invalidate drops cache entries for the given SKUs
func (cs *CatalogService) Invalidate(ctx context.Context, skus ...string) {
	if cs.cache == nil {
		return
	}
	if err := cs.cache.InvalidateProducts(ctx, skus...); err != nil {
		cs.logger.Warn("Product cache invalidation failed",
			zap.Strings("skus", skus), zap.Error(err))
	}
}
