package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/99minutos/catalog-api/internal/core/domain"
	"github.com/99minutos/catalog-api/internal/core/ports"
)

// SeedConfig names the bootstrap administrator.
type SeedConfig struct {
	AdminUsername string
	AdminPassword string
}

// sampleProducts are inserted into an empty catalog.
var sampleProducts = []struct {
	name  string
	price string
}{
	{"Laptop Pro", "1200.00"},
	{"Wireless Mouse", "25.50"},
	{"Mechanical Keyboard", "75.00"},
	{"4K Monitor", "450.00"},
	{"Webcam HD", "60.00"},
}

// Seeder provisions the bootstrap admin and the sample catalog on first start.
type Seeder struct {
	users    ports.UserRepository
	products ports.ProductRepository
	hasher   ports.PasswordHasher
	cfg      SeedConfig
	log      zerolog.Logger
}

func NewSeeder(users ports.UserRepository, products ports.ProductRepository, hasher ports.PasswordHasher, cfg SeedConfig, log zerolog.Logger) *Seeder {
	return &Seeder{users: users, products: products, hasher: hasher, cfg: cfg, log: log}
}

// Seed is idempotent: existing admin and non-empty catalogs are left alone.
func (s *Seeder) Seed(ctx context.Context) error {
	if err := s.seedAdmin(ctx); err != nil {
		return err
	}
	return s.seedProducts(ctx)
}

func (s *Seeder) seedAdmin(ctx context.Context) error {
	if s.cfg.AdminUsername == "" {
		return nil
	}

	_, err := s.users.FindByUsername(ctx, s.cfg.AdminUsername)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return fmt.Errorf("seed admin: %w", err)
	}

	hash, err := s.hasher.Hash(s.cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	created, err := s.users.Create(ctx, &domain.User{
		Username:     s.cfg.AdminUsername,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil
		}
		return fmt.Errorf("seed admin: %w", err)
	}

	s.log.Info().Int64("user_id", created.ID).Str("username", created.Username).Msg("bootstrap admin created")
	return nil
}

func (s *Seeder) seedProducts(ctx context.Context) error {
	n, err := s.products.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	if n > 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, sp := range sampleProducts {
		p := &domain.Product{
			Name:      sp.name,
			Price:     decimal.RequireFromString(sp.price),
			CreatedAt: now,
		}
		if _, err := s.products.Create(ctx, p); err != nil {
			return fmt.Errorf("seed product %q: %w", sp.name, err)
		}
	}

	s.log.Info().Int("count", len(sampleProducts)).Msg("sample products created")
	return nil
}
