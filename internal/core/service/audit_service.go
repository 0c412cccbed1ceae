package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/staffdesk/identity-service/internal/core/domain"
	"github.com/staffdesk/identity-service/internal/core/ports"
)

// AuditTrail persists authentication events through an AuditRepository.
type AuditTrail struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

func NewAuditTrail(repo ports.AuditRepository, log zerolog.Logger) *AuditTrail {
	return &AuditTrail{repo: repo, log: log}
}

// Record writes one event. A persistence failure is logged and returned but
// never propagates into the request that produced the event; the dispatcher
// calling this runs outside the request path.
func (a *AuditTrail) Record(ctx context.Context, event domain.AuthEvent) error {
	if event.Username == "" || event.Action == "" {
		return fmt.Errorf("audit event missing username or action")
	}
	if err := a.repo.Insert(ctx, event); err != nil {
		a.log.Error().Err(err).
			Str("username", event.Username).
			Str("action", event.Action).
			Msg("audit insert failed")
		return err
	}
	return nil
}
