package domain

import (
	"errors"
	"time"
)

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password at login, so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized covers a missing, malformed, expired or
	// signature-invalid bearer token, or a token naming no known account.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInactiveAccount means the token was valid but the account is
	// administratively disabled. Kept distinct from ErrUnauthorized.
	ErrInactiveAccount = errors.New("account is inactive")
	ErrDuplicateUsername = errors.New("username already registered")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrAccountNotFound   = errors.New("account not found")
	ErrTooManyAttempts   = errors.New("too many login attempts")
)

// Account models a registered identity.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name,omitempty"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"is_active"`
	Superuser    bool      `json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
