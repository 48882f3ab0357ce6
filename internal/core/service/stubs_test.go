package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users     map[string]*domain.User
	nextID    int64
	findErr   error
	createErr error
	creates   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.creates++
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	clone := *user
	clone.ID = r.nextID
	r.users[clone.Username] = &clone
	out := clone
	return &out, nil
}

type stubProductRepo struct {
	products map[int64]domain.Product
	nextID   int64
	err      error // if set, every call returns this error
	updates  int
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[int64]domain.Product)}
}

func (r *stubProductRepo) ids() []int64 {
	ids := make([]int64, 0, len(r.products))
	for id := range r.products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r *stubProductRepo) List(_ context.Context, offset, limit int) ([]domain.Product, int64, error) {
	if r.err != nil {
		return nil, 0, r.err
	}
	if offset < 0 || offset > math.MaxInt-limit {
		return nil, 0, fmt.Errorf("offset %d with limit %d overflows", offset, limit)
	}
	ids := r.ids()
	total := int64(len(ids))
	if offset >= len(ids) {
		return []domain.Product{}, total, nil
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}
	out := make([]domain.Product, 0, end-offset)
	for _, id := range ids[offset:end] {
		out = append(out, r.products[id])
	}
	return out, total, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.nextID++
	stored := *p
	stored.ID = r.nextID
	r.products[stored.ID] = stored
	return &stored, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *domain.Product) error {
	if r.err != nil {
		return r.err
	}
	existing, ok := r.products[p.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	r.updates++
	existing.Name = p.Name
	existing.Price = p.Price
	r.products[p.ID] = existing
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id int64) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) Count(_ context.Context) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	return int64(len(r.products)), nil
}

type stubCache struct {
	mu            sync.Mutex
	items         map[int64]domain.Product
	tombstones    map[int64]bool
	getErr        error
	invalidateErr error
	invalidated   []int64
	// beforeSet runs before a fill is stored, outside the lock.
	beforeSet func()
}

func newStubCache() *stubCache {
	return &stubCache{
		items:      make(map[int64]domain.Product),
		tombstones: make(map[int64]bool),
	}
}

func (c *stubCache) Get(_ context.Context, id int64) (*domain.Product, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	p, ok := c.items[id]
	if !ok {
		return nil, false, nil
	}
	return &p, true, nil
}

func (c *stubCache) Set(_ context.Context, p *domain.Product) error {
	if hook := c.beforeSet; hook != nil {
		c.beforeSet = nil
		hook()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[p.ID]; ok || c.tombstones[p.ID] {
		return nil
	}
	c.items[p.ID] = *p
	return nil
}

func (c *stubCache) Invalidate(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, id)
	if c.invalidateErr != nil {
		return c.invalidateErr
	}
	delete(c.items, id)
	c.tombstones[id] = true
	return nil
}

func (c *stubCache) TTL() time.Duration { return time.Minute }

// expire drops every tombstone, as their short TTL would.
func (c *stubCache) expire() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tombstones = make(map[int64]bool)
}

// fakeHasher avoids bcrypt cost in tests that do not care about hashing.
type fakeHasher struct {
	verifies int
}

func (h *fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (h *fakeHasher) Verify(password, hash string) bool {
	h.verifies++
	return strings.TrimPrefix(hash, "hashed:") == password && strings.HasPrefix(hash, "hashed:")
}

type stubIssuer struct {
	err error
}

func (i *stubIssuer) Issue(userID int64, username, role string) (string, error) {
	if i.err != nil {
		return "", i.err
	}
	return "token-for-" + username, nil
}
