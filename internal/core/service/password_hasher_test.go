package service

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	a, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	b, _ := h.Hash("secret1")
	if a == b {
		t.Fatalf("expected distinct salts for the same password")
	}
	if !h.Verify("secret1", a) || !h.Verify("secret1", b) {
		t.Fatalf("expected both digests to verify")
	}
	if h.Verify("secret2", a) {
		t.Fatalf("wrong password verified")
	}
	if h.Verify("secret1", "not-a-digest") {
		t.Fatalf("malformed digest verified")
	}
}

func TestBcryptHasher_LongPassword(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	long := strings.Repeat("p", 128)

	digest, err := h.Hash(long)
	if err != nil {
		t.Fatalf("hash of a 128-character password failed: %v", err)
	}
	if !h.Verify(long, digest) {
		t.Fatalf("expected long password to verify")
	}
}

func TestBcryptHasher_CostFallback(t *testing.T) {
	if got := NewBcryptHasher(0).cost; got != DefaultBcryptCost {
		t.Fatalf("expected default cost, got %d", got)
	}
	if got := NewBcryptHasher(bcrypt.MinCost).cost; got != bcrypt.MinCost {
		t.Fatalf("expected min cost, got %d", got)
	}
}
