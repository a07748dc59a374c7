package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/core/domain"
)

type stubAuthenticator struct {
	user  *domain.User
	err   error
	calls int
	token string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*domain.User, error) {
	s.calls++
	s.token = token
	return s.user, s.err
}

func runAuth(t *testing.T, authn *stubAuthenticator, header string, next echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if next == nil {
		next = func(c echo.Context) error {
			t.Fatalf("should not reach next")
			return nil
		}
	}
	return rec, Auth(authn, zerolog.Nop())(next)(c)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	authn := &stubAuthenticator{user: &domain.User{ID: "u-1", Email: "a@x.com"}}

	called := false
	rec, err := runAuth(t, authn, "Bearer good-token", func(c echo.Context) error {
		called = true
		user, ok := c.Get(UserKey).(*domain.User)
		if !ok || user.ID != "u-1" {
			t.Fatalf("user not set on echo context")
		}
		if u, ok := UserFromContext(c.Request().Context()); !ok || u.ID != "u-1" {
			t.Fatalf("user not set on request context")
		}
		return c.NoContent(http.StatusOK)
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if authn.token != "good-token" {
		t.Fatalf("expected raw token to be passed, got %q", authn.token)
	}
}

func TestAuthMiddleware_MissingOrMalformedHeader(t *testing.T) {
	cases := []string{
		"",
		"Bearer ",
		"Bearer    ",
		"bearer abc",
		"Token abc",
		"Bearerabc",
		"abc",
	}
	for _, header := range cases {
		t.Run(fmt.Sprintf("%q", header), func(t *testing.T) {
			authn := &stubAuthenticator{user: &domain.User{ID: "u-1"}}

			_, err := runAuth(t, authn, header, nil)
			if !errors.Is(err, domain.ErrUnauthorized) {
				t.Fatalf("expected ErrUnauthorized, got %v", err)
			}
			if authn.calls != 0 {
				t.Fatalf("authenticator must not be called, got %d calls", authn.calls)
			}
		})
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	authn := &stubAuthenticator{err: fmt.Errorf("%w: signature is invalid", domain.ErrInvalidToken)}

	_, err := runAuth(t, authn, "Bearer not-a-token", nil)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("the rejection reason must not reach the client")
	}
}

func TestAuthMiddleware_UnknownUser(t *testing.T) {
	authn := &stubAuthenticator{err: fmt.Errorf("%w: %w", domain.ErrUnauthorized, domain.ErrUserNotFound)}

	_, err := runAuth(t, authn, "Bearer orphan", nil)
	if err != domain.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthMiddleware_StoreFailurePassesThrough(t *testing.T) {
	storeErr := errors.New("db down")
	authn := &stubAuthenticator{err: storeErr}

	_, err := runAuth(t, authn, "Bearer token", nil)
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}
