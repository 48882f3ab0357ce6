package ports

import (
	"context"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

// ProductService defines use-case operations for the product catalog.
type ProductService interface {
	List(ctx context.Context, pageNumber, pageSize int) (*domain.Page[domain.Product], error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) error
	Delete(ctx context.Context, id int64) error
}
