package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/staffdesk/identity-service/internal/core/domain"
	"github.com/staffdesk/identity-service/internal/core/ports"
)

type stubAuthService struct {
	currentUserFn func(ctx context.Context, token string) (*domain.Account, error)
}

func (s *stubAuthService) Register(context.Context, ports.RegisterInput) (*domain.Account, error) {
	panic("not used")
}

func (s *stubAuthService) Login(context.Context, string, string) (string, *domain.Account, error) {
	panic("not used")
}

func (s *stubAuthService) CurrentUser(ctx context.Context, token string) (*domain.Account, error) {
	return s.currentUserFn(ctx, token)
}

func TestAuth_ValidToken(t *testing.T) {
	e := echo.New()
	alice := &domain.Account{Username: "alice", Active: true}
	stub := &stubAuthService{
		currentUserFn: func(_ context.Context, token string) (*domain.Account, error) {
			if token != "good-token" {
				t.Fatalf("unexpected token %q", token)
			}
			return alice, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(stub)(func(c echo.Context) error {
		called = true
		if got, _ := c.Get(AccountContextKey).(*domain.Account); got != alice {
			t.Fatalf("account not injected into context")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		currentUserFn: func(context.Context, string) (*domain.Account, error) {
			t.Fatalf("resolver must not run without a header")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(stub)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuth_WrongScheme(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		currentUserFn: func(context.Context, string) (*domain.Account, error) {
			t.Fatalf("resolver must not run for a non-bearer header")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwdw==")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(stub)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuth_ResolverErrorsPropagate(t *testing.T) {
	e := echo.New()

	// The middleware must forward the resolver's error untouched so the
	// central error handler can keep InactiveAccount distinct from
	// Unauthorized.
	for _, want := range []error{domain.ErrUnauthorized, domain.ErrInactiveAccount} {
		stub := &stubAuthService{
			currentUserFn: func(context.Context, string) (*domain.Account, error) {
				return nil, want
			},
		}

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := Auth(stub)(func(c echo.Context) error {
			t.Fatalf("should not reach next")
			return nil
		})

		if err := handler(c); !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}

func TestRequireSuperuser(t *testing.T) {
	e := echo.New()

	run := func(account *domain.Account) (*httptest.ResponseRecorder, bool) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if account != nil {
			c.Set(AccountContextKey, account)
		}

		called := false
		handler := RequireSuperuser()(func(c echo.Context) error {
			called = true
			return c.NoContent(http.StatusOK)
		})
		_ = handler(c)
		return rec, called
	}

	if rec, called := run(&domain.Account{Username: "root", Superuser: true}); !called || rec.Code != http.StatusOK {
		t.Fatalf("superuser should pass, got %d", rec.Code)
	}
	if rec, called := run(&domain.Account{Username: "alice"}); called || rec.Code != http.StatusForbidden {
		t.Fatalf("non-superuser should get 403, got %d", rec.Code)
	}
	if rec, called := run(nil); called || rec.Code != http.StatusForbidden {
		t.Fatalf("missing account should get 403, got %d", rec.Code)
	}
}
