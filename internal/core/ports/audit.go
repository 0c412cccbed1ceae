package ports

import (
	"context"

	"github.com/staffdesk/identity-service/internal/core/domain"
)

// AuditRepository persists authentication events.
type AuditRepository interface {
	Insert(ctx context.Context, event domain.AuthEvent) error
}

// AuditService records one authentication outcome. Implementations are
// best-effort: recording must never fail a request.
type AuditService interface {
	Record(ctx context.Context, event domain.AuthEvent) error
}

// AuditSink accepts events for asynchronous recording.
type AuditSink interface {
	Enqueue(event domain.AuthEvent)
}

// LoginThrottle limits password attempts per username over a rolling window.
type LoginThrottle interface {
	// Allow reports whether another attempt is permitted right now.
	Allow(ctx context.Context, username string) (bool, error)
	// RecordFailure counts a failed attempt against the window.
	RecordFailure(ctx context.Context, username string) error
	// Reset clears the counter after a successful login.
	Reset(ctx context.Context, username string) error
}
