package ports

import (
	"context"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

// PasswordHasher produces and checks one-way password digests.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches hash. A malformed hash is a mismatch.
	Verify(password, hash string) bool
}

// TokenIssuer signs bearer tokens.
type TokenIssuer interface {
	Issue(userID int64, username, role string) (string, error)
}

// TokenVerifier validates bearer tokens and extracts their claims.
type TokenVerifier interface {
	Verify(token string) (*domain.Claims, error)
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, username, password, role string) (*domain.User, error)
}
