package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/staffdesk/identity-service/internal/core/domain"
)

// DefaultTokenTTL applies when the configured TTL is zero or negative.
const DefaultTokenTTL = 30 * time.Minute

// TokenIssuer mints and verifies HMAC-signed bearer tokens. The secret,
// signing algorithm and default TTL are fixed at construction and never
// mutated, so a single issuer is safe for concurrent use.
type TokenIssuer struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer builds a TokenIssuer. algorithm names an HMAC method
// ("HS256", "HS384", "HS512"); anything unrecognised falls back to HS256.
func NewTokenIssuer(secret, algorithm string, ttl time.Duration) *TokenIssuer {
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		method = jwt.SigningMethodHS256
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for subject expiring after the issuer's default TTL.
func (t *TokenIssuer) Issue(subject string, extra map[string]any) (string, error) {
	return t.IssueWithTTL(subject, extra, t.ttl)
}

// IssueWithTTL signs a token with an explicit lifetime. iat and exp are set
// here and win over any matching keys in extra.
func (t *TokenIssuer) IssueWithTTL(subject string, extra map[string]any, ttl time.Duration) (string, error) {
	now := t.now().UTC()
	claims := jwt.MapClaims{}
	for k, v := range extra {
		claims[k] = v
	}
	claims["sub"] = subject
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(ttl).Unix()

	signed, err := jwt.NewWithClaims(t.method, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify validates signature, algorithm and expiry, and decodes the claims.
// Any failure collapses to domain.ErrUnauthorized; the caller learns nothing
// about which check rejected the token.
func (t *TokenIssuer) Verify(token string) (*domain.AccessClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (any, error) {
		if tok.Method.Alg() != t.method.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !parsed.Valid {
		return nil, domain.ErrUnauthorized
	}

	out := &domain.AccessClaims{Extra: make(map[string]any, len(claims))}
	for k, v := range claims {
		switch k {
		case "sub":
			out.Subject, _ = v.(string)
		case "iat":
			out.IssuedAt = numericTime(v)
		case "exp":
			out.ExpiresAt = numericTime(v)
		default:
			out.Extra[k] = v
		}
	}
	return out, nil
}

// numericTime converts a decoded JSON claim value to a time. JSON numbers
// arrive as float64.
func numericTime(v any) time.Time {
	switch n := v.(type) {
	case float64:
		return time.Unix(int64(n), 0).UTC()
	case int64:
		return time.Unix(n, 0).UTC()
	}
	return time.Time{}
}
