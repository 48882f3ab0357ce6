package ports

import (
	"context"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// FindByUsername performs an exact, case-sensitive lookup.
	// Returns domain.ErrUserNotFound when no user matches.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// Create inserts the user and returns it with its assigned ID.
	// Returns domain.ErrUserExists on a username unique violation.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
