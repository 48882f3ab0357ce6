package ports

import (
	"context"
	"time"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	// List returns up to limit products ordered by id, skipping offset rows,
	// together with the total number of stored products.
	List(ctx context.Context, offset, limit int) ([]domain.Product, int64, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	// Create assigns the ID and stores p.
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	// Update replaces name and price of an existing product.
	// Returns domain.ErrProductNotFound when the id is absent.
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// ProductCache is an optional read-through cache in front of ProductRepository.
type ProductCache interface {
	// Get reports a miss, or a tombstoned key, as (nil, false, nil).
	Get(ctx context.Context, id int64) (*domain.Product, bool, error)
	// Set stores p only when the key holds neither a value nor a tombstone.
	Set(ctx context.Context, p *domain.Product) error
	// Invalidate replaces the entry with a short-lived tombstone, so a fill
	// racing with a write cannot restore the old value.
	Invalidate(ctx context.Context, id int64) error
	// TTL is the lifetime of a cached value.
	TTL() time.Duration
}
