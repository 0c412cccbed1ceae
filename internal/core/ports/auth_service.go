package ports

import (
	"context"

	"github.com/staffdesk/identity-service/internal/core/domain"
)

// RegisterInput carries the fields accepted at registration time.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, username, password string) (string, *domain.Account, error)
	// CurrentUser resolves a bearer token to the account it names,
	// enforcing the active-account policy.
	CurrentUser(ctx context.Context, token string) (*domain.Account, error)
}

// TokenService issues and verifies signed bearer tokens.
type TokenService interface {
	Issue(subject string, extra map[string]any) (string, error)
	Verify(token string) (*domain.AccessClaims, error)
}
