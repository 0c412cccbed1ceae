package ports

import (
	"context"

	"github.com/staffdesk/identity-service/internal/core/domain"
)

// AccountRepository defines the persistence surface the auth service
// consumes. Implementations return domain.ErrAccountNotFound when a lookup
// misses and the duplicate sentinels on uniqueness violations.
type AccountRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	SetActive(ctx context.Context, username string, active bool) error
}
