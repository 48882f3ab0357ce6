// Package auth provides the password hashing and bearer token implementations
// behind ports.PasswordHasher, ports.TokenIssuer and ports.TokenVerifier.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

// DefaultBcryptCost matches the cost of the seeded admin hash.
const DefaultBcryptCost = 11

// BcryptHasher implements ports.PasswordHasher with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using cost. Out-of-range costs are rejected
// so a bad BCRYPT_COST fails at startup instead of on the first registration.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: bcrypt cost %d out of range [%d, %d]",
			domain.ErrConfiguration, cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &BcryptHasher{cost: cost}, nil
}

// Hash generates a salted bcrypt digest of password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Verify compares password against a stored bcrypt hash. Cost and salt are
// read from the hash itself; any malformed hash is reported as a mismatch.
func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
