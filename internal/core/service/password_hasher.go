package service

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used when none is configured.
const DefaultBcryptCost = 12

// bcrypt only reads the first 72 bytes of a password.
const bcryptMaxBytes = 72

// BcryptHasher hashes passwords with a per-digest random salt.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(passwordBytes(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify never errors; a malformed digest simply does not match.
func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), passwordBytes(plaintext)) == nil
}

// passwordBytes truncates to the bcrypt input limit. Newer x/crypto releases
// reject longer input instead of ignoring the tail, while passwords up to 128
// characters are accepted at registration.
func passwordBytes(plaintext string) []byte {
	b := []byte(plaintext)
	if len(b) > bcryptMaxBytes {
		b = b[:bcryptMaxBytes]
	}
	return b
}
