package redis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

const (
	DefaultProductTTL = 5 * time.Minute
	// tombstoneTTL bounds how long reads bypass the cache after a write.
	tombstoneTTL = 30 * time.Second
)

var tombstone = []byte("-")

// ProductCache is a read-through cache for single products.
// Key format: product:<id>. Writes leave a tombstone ("-") under the key that
// fills cannot overwrite.
type ProductCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewProductCache wraps client. A non-positive ttl falls back to DefaultProductTTL.
func NewProductCache(client redis.Cmdable, ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = DefaultProductTTL
	}
	return &ProductCache{client: client, ttl: ttl}
}

// Get reports a miss or a tombstone as (nil, false, nil).
func (c *ProductCache) Get(ctx context.Context, id int64) (*domain.Product, bool, error) {
	raw, err := c.client.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("product cache get: %w: %w", domain.ErrDependency, err)
	}
	if bytes.Equal(raw, tombstone) {
		return nil, false, nil
	}

	var p domain.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false, fmt.Errorf("product cache decode: %w", err)
	}
	return &p, true, nil
}

// Set fills the key with SETNX, so it never replaces a tombstone or a newer value.
func (c *ProductCache) Set(ctx context.Context, p *domain.Product) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("product cache encode: %w", err)
	}
	if err := c.client.SetNX(ctx, productKey(p.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("product cache set: %w: %w", domain.ErrDependency, err)
	}
	return nil
}

func (c *ProductCache) Invalidate(ctx context.Context, id int64) error {
	if err := c.client.Set(ctx, productKey(id), tombstone, tombstoneTTL).Err(); err != nil {
		return fmt.Errorf("product cache invalidate: %w: %w", domain.ErrDependency, err)
	}
	return nil
}

func (c *ProductCache) TTL() time.Duration {
	return c.ttl
}

func productKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}
