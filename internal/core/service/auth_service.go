package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/99minutos/catalog-api/internal/core/domain"
	"github.com/99minutos/catalog-api/internal/core/metrics"
	"github.com/99minutos/catalog-api/internal/core/ports"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 50
	passwordMinLen = 8
	// bcrypt only accepts the first 72 bytes of a password.
	passwordMaxBytes = 72
)

// AuthService implements login and registration.
type AuthService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	log    zerolog.Logger

	// dummyHash is compared against when the username is unknown so both
	// failure paths spend a bcrypt comparison.
	dummyHash string
}

func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenIssuer, log zerolog.Logger) *AuthService {
	s := &AuthService{repo: repo, hasher: hasher, tokens: tokens, log: log}
	if h, err := hasher.Hash("timing-equaliser"); err == nil {
		s.dummyHash = h
	}
	return s
}

// Login verifies credentials and returns a signed token. Unknown usernames and
// wrong passwords both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		metrics.AuthLoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return "", domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			metrics.AuthLoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return "", domain.ErrInvalidCredentials
		}
		metrics.AuthLoginsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		metrics.AuthLoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		metrics.AuthLoginsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("login: %w", err)
	}

	metrics.AuthLoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Int64("user_id", user.ID).Str("role", user.Role).Msg("user logged in")
	return token, nil
}

// Register creates a user with a hashed password. The returned user never
// carries the password hash.
func (s *AuthService) Register(ctx context.Context, username, password, role string) (*domain.User, error) {
	if err := validateRegistration(username, password, role); err != nil {
		return nil, err
	}

	_, err := s.repo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.UsersRegisteredTotal.WithLabelValues(created.Role).Inc()
	s.log.Info().Int64("user_id", created.ID).Str("username", created.Username).Str("role", created.Role).Msg("user registered")

	out := *created
	out.PasswordHash = ""
	return &out, nil
}

func validateRegistration(username, password, role string) error {
	ve := &domain.ValidationError{}
	switch n := utf8.RuneCountInString(username); {
	case n == 0:
		ve.Add("username", "is required")
	case n < usernameMinLen || n > usernameMaxLen:
		ve.Add("username", fmt.Sprintf("must be between %d and %d characters", usernameMinLen, usernameMaxLen))
	}
	switch {
	case password == "":
		ve.Add("password", "is required")
	case utf8.RuneCountInString(password) < passwordMinLen:
		ve.Add("password", fmt.Sprintf("must be at least %d characters", passwordMinLen))
	case len(password) > passwordMaxBytes:
		ve.Add("password", fmt.Sprintf("must be at most %d bytes", passwordMaxBytes))
	}
	if role == "" {
		ve.Add("role", "is required")
	} else if !domain.ValidRole(role) {
		ve.Add("role", "must be one of: Admin User")
	}
	return ve.OrNil()
}
