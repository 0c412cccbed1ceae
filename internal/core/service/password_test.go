package service

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPrepare_ShortPasswordPassesThrough(t *testing.T) {
	for _, p := range []string{"", "secret123", strings.Repeat("a", 72)} {
		if got := prepare(p); got != p {
			t.Fatalf("prepare(%q) = %q, want unchanged", p, got)
		}
	}
}

func TestPrepare_LongPasswordCompressed(t *testing.T) {
	long := strings.Repeat("a", 73)
	got := prepare(long)

	if len(got) != 64 {
		t.Fatalf("expected 64-char hex digest, got %d chars", len(got))
	}
	if got != strings.ToLower(got) {
		t.Fatalf("digest not lowercase: %q", got)
	}
	if prepare(long) != got {
		t.Fatalf("prepare not stable for equal input")
	}
	if prepare(strings.Repeat("b", 73)) == got {
		t.Fatalf("distinct long passwords produced equal digests")
	}
}

func TestPrepare_MultibyteLengthCountsBytes(t *testing.T) {
	// 25 three-byte runes: 75 bytes, over the limit despite only 25 chars.
	long := strings.Repeat("€", 25)
	if got := prepare(long); len(got) != 64 {
		t.Fatalf("expected digest for %d-byte password, got %q", len(long), got)
	}

	// 24 three-byte runes: 72 bytes, exactly at the limit.
	atLimit := strings.Repeat("€", 24)
	if got := prepare(atLimit); got != atLimit {
		t.Fatalf("72-byte password should pass through, got %q", got)
	}
}

func TestPasswordHasher_RoundTrip(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("secret123")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "secret123" {
		t.Fatalf("hash equals the plaintext")
	}
	if !hasher.Verify("secret123", hash) {
		t.Fatalf("Verify rejected the password that produced the hash")
	}
	if hasher.Verify("secret124", hash) {
		t.Fatalf("Verify accepted a different password")
	}
}

func TestPasswordHasher_FreshSaltPerCall(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	h1, err := hasher.Hash("secret123")
	if err != nil {
		t.Fatalf("first hash: %v", err)
	}
	h2, err := hasher.Hash("secret123")
	if err != nil {
		t.Fatalf("second hash: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("two hashes of the same password are identical")
	}
	if !hasher.Verify("secret123", h1) || !hasher.Verify("secret123", h2) {
		t.Fatalf("both hashes should verify against the same password")
	}
}

func TestPasswordHasher_LongPasswordRoundTrip(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)
	long := strings.Repeat("correct horse battery staple ", 10)

	hash, err := hasher.Hash(long)
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if !hasher.Verify(long, hash) {
		t.Fatalf("long password did not verify against its own hash")
	}
	// A password differing only beyond byte 72 must still be rejected.
	if hasher.Verify(long+"x", hash) {
		t.Fatalf("suffix change beyond 72 bytes was not detected")
	}
}

func TestPasswordHasher_MalformedHashIsFalse(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	for _, garbage := range []string{"", "not-a-bcrypt-hash", "$2a$zz$short"} {
		if hasher.Verify("secret123", garbage) {
			t.Fatalf("Verify accepted malformed hash %q", garbage)
		}
	}
}

func TestNewPasswordHasher_CostOutOfRange(t *testing.T) {
	hasher := NewPasswordHasher(999)
	if hasher.cost != bcrypt.DefaultCost {
		t.Fatalf("expected fallback to default cost, got %d", hasher.cost)
	}
}
