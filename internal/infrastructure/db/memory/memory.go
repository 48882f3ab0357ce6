// Package memory provides mutex-guarded in-process repositories. It backs
// STORE_DRIVER=memory for local runs and end-to-end tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

type UserRepository struct {
	mu     sync.RWMutex
	users  map[string]domain.User
	nextID int64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]domain.User)}
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	u := *user
	u.ID = r.nextID
	r.users[u.Username] = u
	return &u, nil
}

type ProductRepository struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
	nextID   int64
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[int64]domain.Product)}
}

// List returns products ordered by id, together with the total count.
func (r *ProductRepository) List(_ context.Context, offset, limit int) ([]domain.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.products))
	for id := range r.products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	total := int64(len(ids))
	items := []domain.Product{}
	if offset < 0 || limit < 1 || offset >= len(ids) {
		return items, total, nil
	}
	end := len(ids)
	if limit < end-offset {
		end = offset + limit
	}
	for _, id := range ids[offset:end] {
		items = append(items, r.products[id])
	}
	return items, total, nil
}

func (r *ProductRepository) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func (r *ProductRepository) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := *p
	stored.ID = r.nextID
	r.products[stored.ID] = stored
	return &stored, nil
}

// Update replaces name and price. CreatedAt is kept.
func (r *ProductRepository) Update(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[p.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	existing.Name = p.Name
	existing.Price = p.Price
	r.products[p.ID] = existing
	return nil
}

func (r *ProductRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *ProductRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.products)), nil
}
