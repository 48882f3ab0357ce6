package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/catalog-api/internal/core/domain"
	"github.com/99minutos/catalog-api/internal/core/metrics"
	"github.com/99minutos/catalog-api/internal/core/ports"
)

// DefaultMaxPageSize bounds the page size of list requests.
const DefaultMaxPageSize = 100

type ProductService struct {
	repo        ports.ProductRepository
	cache       ports.ProductCache
	maxPageSize int
	logger      zerolog.Logger
	now         func() time.Time

	// stale holds ids whose invalidation failed; reads skip the cache for
	// them until the cached value would have expired.
	mu    sync.Mutex
	stale map[int64]time.Time
}

// NewProductService builds the catalog service. cache may be nil, in which
// case every read goes to repo.
func NewProductService(repo ports.ProductRepository, cache ports.ProductCache, maxPageSize int, logger zerolog.Logger) *ProductService {
	if maxPageSize <= 0 {
		maxPageSize = DefaultMaxPageSize
	}
	return &ProductService{
		repo:        repo,
		cache:       cache,
		maxPageSize: maxPageSize,
		logger:      logger,
		now:         time.Now,
		stale:       make(map[int64]time.Time),
	}
}

// List returns one page of products ordered by id together with the total
// number of stored products. Page sizes above the configured maximum are clamped.
func (s *ProductService) List(ctx context.Context, pageNumber, pageSize int) (*domain.Page[domain.Product], error) {
	ve := &domain.ValidationError{}
	if pageNumber < 1 {
		ve.Add("pageNumber", "must be at least 1")
	}
	if pageSize < 1 {
		ve.Add("pageSize", "must be at least 1")
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}
	if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}

	// A page whose offset does not fit in an int lies past any stored row.
	if pageNumber-1 > (math.MaxInt-pageSize)/pageSize {
		total, err := s.repo.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("list products: %w", err)
		}
		return &domain.Page[domain.Product]{
			Items:      []domain.Product{},
			TotalCount: total,
			PageNumber: pageNumber,
			PageSize:   pageSize,
		}, nil
	}

	items, total, err := s.repo.List(ctx, (pageNumber-1)*pageSize, pageSize)
	if err != nil {
		s.logger.Error().Err(err).Int("page_number", pageNumber).Int("page_size", pageSize).Msg("failed to list products")
		return nil, fmt.Errorf("list products: %w", err)
	}
	if items == nil {
		items = []domain.Product{}
	}
	metrics.ProductListPageSize.Observe(float64(pageSize))

	return &domain.Page[domain.Product]{
		Items:      items,
		TotalCount: total,
		PageNumber: pageNumber,
		PageSize:   pageSize,
	}, nil
}

// Get returns a product by id, consulting the cache first when one is configured.
func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	useCache := s.cache != nil && !s.isStale(id)
	if useCache {
		p, ok, err := s.cache.Get(ctx, id)
		switch {
		case err != nil:
			metrics.ProductCacheTotal.WithLabelValues("error").Inc()
			s.logger.Warn().Err(err).Int64("product_id", id).Msg("product cache read failed, falling back to store")
		case ok:
			metrics.ProductCacheTotal.WithLabelValues("hit").Inc()
			return p, nil
		default:
			metrics.ProductCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	if useCache {
		if err := s.cache.Set(ctx, p); err != nil {
			s.logger.Warn().Err(err).Int64("product_id", id).Msg("failed to populate product cache")
		}
	}
	return p, nil
}

// Create stores a new product. Any client supplied id is ignored; the creation
// timestamp is set when absent.
func (s *ProductService) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.ID = 0
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	p.CreatedAt = p.CreatedAt.UTC()

	created, err := s.repo.Create(ctx, &p)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create product")
		return nil, fmt.Errorf("create product: %w", err)
	}

	metrics.ProductMutationsTotal.WithLabelValues("create").Inc()
	s.logger.Info().Int64("product_id", created.ID).Str("name", created.Name).Msg("product created")
	return created, nil
}

// Update fully replaces the mutable fields of an existing product. CreatedAt is
// never changed. Concurrent updates to the same id are last-writer-wins.
func (s *ProductService) Update(ctx context.Context, p domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, &p); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return err
		}
		s.logger.Error().Err(err).Int64("product_id", p.ID).Msg("failed to update product")
		return fmt.Errorf("update product: %w", err)
	}
	s.invalidate(ctx, p.ID)

	metrics.ProductMutationsTotal.WithLabelValues("update").Inc()
	s.logger.Info().Int64("product_id", p.ID).Msg("product updated")
	return nil
}

// Delete removes a product. Deleting an absent id returns domain.ErrProductNotFound.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return err
		}
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("delete product: %w", err)
	}
	s.invalidate(ctx, id)

	metrics.ProductMutationsTotal.WithLabelValues("delete").Inc()
	s.logger.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}

func (s *ProductService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.markStale(id)
		s.logger.Warn().Err(err).Int64("product_id", id).Msg("failed to invalidate product cache, bypassing it for this product")
	}
}

func (s *ProductService) markStale(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stale[id] = s.now().Add(s.cache.TTL())
}

func (s *ProductService) isStale(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.stale[id]
	if !ok {
		return false
	}
	if !s.now().Before(until) {
		delete(s.stale, id)
		return false
	}
	return true
}
