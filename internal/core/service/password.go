package service

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt only reads the first 72 bytes of its input.
const bcryptMaxInputBytes = 72

// PasswordHasher produces and verifies bcrypt password hashes. Inputs longer
// than bcrypt's 72-byte limit are pre-compressed with SHA-256 so every byte
// of the password still influences the stored hash.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher with the given bcrypt cost. Costs
// outside bcrypt's supported range fall back to the default cost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// prepare substitutes passwords beyond 72 bytes with the lowercase hex
// SHA-256 digest of their bytes (64 ASCII chars, safely under the limit).
// Shorter passwords pass through unchanged.
func prepare(password string) string {
	if len(password) <= bcryptMaxInputBytes {
		return password
	}
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Hash returns the salted bcrypt hash of password. Each call generates a
// fresh salt, so two hashes of the same password differ yet both verify.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(prepare(password)), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches the stored bcrypt hash. The
// comparison is constant-time inside bcrypt. A malformed stored hash is a
// definite false, never an error surfaced to the caller.
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(prepare(password))) == nil
}
