package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/catalog-api/internal/core/domain"
	"github.com/99minutos/catalog-api/internal/infrastructure/auth"
)

func newIssuer(t *testing.T, opts ...auth.Option) *auth.JWTIssuer {
	t.Helper()
	iss, err := auth.NewJWTIssuer(auth.JWTConfig{Secret: "secret", Issuer: "catalog-api", Audience: "catalog-api-clients"}, opts...)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}
	return iss
}

func runAuth(t *testing.T, issuer *auth.JWTIssuer, header string) (bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	err := Auth(issuer)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return called, err
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	issuer := newIssuer(t)
	token, err := issuer.Issue(7, "alice", domain.RoleUser)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(issuer)(func(c echo.Context) error {
		called = true
		claims, ok := ClaimsFrom(c)
		if !ok {
			t.Fatalf("claims not set")
		}
		if claims.UserID != 7 || claims.Username != "alice" || claims.Role != domain.RoleUser {
			t.Fatalf("unexpected claims: %+v", claims)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_LowercaseScheme(t *testing.T) {
	issuer := newIssuer(t)
	token, _ := issuer.Issue(1, "admin", domain.RoleAdmin)

	if called, err := runAuth(t, issuer, "bearer "+token); err != nil || !called {
		t.Fatalf("expected pass-through, got err=%v called=%v", err, called)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	called, err := runAuth(t, newIssuer(t), "")
	if called {
		t.Fatalf("should not reach next")
	}
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	for _, header := range []string{"Token abc", "Bearer", "Bearer    "} {
		called, err := runAuth(t, newIssuer(t), header)
		if called {
			t.Fatalf("%q: should not reach next", header)
		}
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("%q: expected ErrUnauthorized, got %v", header, err)
		}
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	called, err := runAuth(t, newIssuer(t), "Bearer not-a-token")
	if called {
		t.Fatalf("should not reach next")
	}
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	past := newIssuer(t, auth.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }))
	token, _ := past.Issue(1, "admin", domain.RoleAdmin)

	called, err := runAuth(t, newIssuer(t), "Bearer "+token)
	if called {
		t.Fatalf("expired token must not reach next")
	}
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
