package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/staffdesk/identity-service/internal/api/metrics"
	"github.com/staffdesk/identity-service/internal/core/domain"
	"github.com/staffdesk/identity-service/internal/core/ports"
)

// AuthService implements registration, login and bearer-token resolution.
type AuthService struct {
	repo     ports.AccountRepository
	hasher   *PasswordHasher
	tokens   ports.TokenService
	throttle ports.LoginThrottle
	audit    ports.AuditSink
	log      zerolog.Logger
}

func NewAuthService(repo ports.AccountRepository, hasher *PasswordHasher, tokens ports.TokenService, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, tokens: tokens, log: log}
}

// WithThrottle enables per-username login throttling.
func (s *AuthService) WithThrottle(t ports.LoginThrottle) *AuthService {
	s.throttle = t
	return s
}

// WithAudit enables asynchronous audit recording.
func (s *AuthService) WithAudit(sink ports.AuditSink) *AuthService {
	s.audit = sink
	return s
}

// Register creates a new active account. Username uniqueness is probed
// first, then email; the unique indexes on the collection backstop the
// probe-then-insert race.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	if in.Username == "" || in.Password == "" || in.Email == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if _, err := s.repo.FindByUsername(ctx, in.Username); err == nil {
		s.record(domain.AuthEvent{Username: in.Username, Action: domain.ActionRegister, Outcome: domain.OutcomeRejected})
		return nil, domain.ErrDuplicateUsername
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		s.record(domain.AuthEvent{Username: in.Username, Action: domain.ActionRegister, Outcome: domain.OutcomeRejected})
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	start := time.Now()
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	metrics.PasswordHashDuration.Observe(time.Since(start).Seconds())

	now := time.Now().UTC()
	account := &domain.Account{
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: hash,
		Active:       true,
		Superuser:    false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.Inc()
	s.record(domain.AuthEvent{Username: created.Username, Action: domain.ActionRegister, Outcome: domain.OutcomeSuccess})
	return created, nil
}

// Login verifies the credentials and mints a bearer token. An unknown
// username and a wrong password produce the same error, and the debug log
// below deliberately does not say which check failed.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.Account, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if ok := s.allowAttempt(ctx, username); !ok {
		metrics.LoginsTotal.WithLabelValues(domain.OutcomeThrottled).Inc()
		s.record(domain.AuthEvent{Username: username, Action: domain.ActionLogin, Outcome: domain.OutcomeThrottled})
		return "", nil, domain.ErrTooManyAttempts
	}

	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.loginRejected(ctx, username)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		s.loginRejected(ctx, username)
		return "", nil, domain.ErrInvalidCredentials
	}

	if !account.Active {
		metrics.LoginsTotal.WithLabelValues(domain.OutcomeInactive).Inc()
		s.record(domain.AuthEvent{Username: username, Action: domain.ActionLogin, Outcome: domain.OutcomeInactive})
		return "", nil, domain.ErrInactiveAccount
	}

	token, err := s.tokens.Issue(account.Username, nil)
	if err != nil {
		return "", nil, err
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, username); err != nil {
			s.log.Warn().Err(err).Msg("throttle reset failed")
		}
	}
	metrics.LoginsTotal.WithLabelValues(domain.OutcomeSuccess).Inc()
	s.record(domain.AuthEvent{Username: username, Action: domain.ActionLogin, Outcome: domain.OutcomeSuccess})
	return token, account, nil
}

// CurrentUser resolves a bearer token to its account: verify signature and
// expiry, extract the subject, load the account, then gate on the active
// flag. Runs on every protected request; nothing is cached.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.Account, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrUnauthorized
	}
	if claims.Subject == "" {
		metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrUnauthorized
	}

	account, err := s.repo.FindByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			metrics.TokenVerificationsTotal.WithLabelValues("unknown_subject").Inc()
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	if !account.Active {
		metrics.TokenVerificationsTotal.WithLabelValues("inactive").Inc()
		return nil, domain.ErrInactiveAccount
	}

	metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()
	return account, nil
}

// allowAttempt consults the throttle. The throttle is advisory: on error the
// attempt proceeds and the credential check still decides the outcome.
func (s *AuthService) allowAttempt(ctx context.Context, username string) bool {
	if s.throttle == nil {
		return true
	}
	ok, err := s.throttle.Allow(ctx, username)
	if err != nil {
		s.log.Warn().Err(err).Msg("login throttle unavailable")
		return true
	}
	return ok
}

func (s *AuthService) loginRejected(ctx context.Context, username string) {
	s.log.Debug().Str("username", username).Msg("login rejected")
	if s.throttle != nil {
		if err := s.throttle.RecordFailure(ctx, username); err != nil {
			s.log.Warn().Err(err).Msg("throttle record failed")
		}
	}
	metrics.LoginsTotal.WithLabelValues(domain.OutcomeRejected).Inc()
	s.record(domain.AuthEvent{Username: username, Action: domain.ActionLogin, Outcome: domain.OutcomeRejected})
}

func (s *AuthService) record(event domain.AuthEvent) {
	if s.audit == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	s.audit.Enqueue(event)
}
