package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pos-service/internal/models"

	"github.com/go-redis/redis/v8"
)

const productTTL = 10 * time.Minute

// Client is a cache-aside product cache in front of the catalog store.
// The database stays authoritative for stock; entries are invalidated
// after every committed stock mutation.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func productKey(sku string) string {
	return fmt.Sprintf("product:%s", sku)
}

// GetProduct returns the cached product for sku, or (nil, nil) on a miss
func (c *Client) GetProduct(ctx context.Context, sku string) (*models.Product, error) {
	data, err := c.rdb.Get(ctx, productKey(sku)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get product: %w", err)
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("unmarshal cached product: %w", err)
	}
	return &product, nil
}

// SetProduct caches a product with a TTL
func (c *Client) SetProduct(ctx context.Context, product *models.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	return c.rdb.Set(ctx, productKey(product.SKU), data, productTTL).Err()
}

// InvalidateProducts drops the cache entries for the given SKUs. Called
// after every committed stock mutation.
func (c *Client) InvalidateProducts(ctx context.Context, skus ...string) error {
	if len(skus) == 0 {
		return nil
	}
	keys := make([]string, len(skus))
	for i, sku := range skus {
		keys[i] = productKey(sku)
	}
	return c.rdb.Del(ctx, keys...).Err()
}
