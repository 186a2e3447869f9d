package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is bcrypt's input limit
const MaxPasswordBytes = 72

// ErrPasswordTooLong is returned when a password exceeds MaxPasswordBytes
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// Hasher turns a plaintext secret into a storable one-way digest
type Hasher interface {
	// Hash returns a salted digest of plaintext
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext matches digest
	Verify(plaintext, digest string) bool
}

// BcryptHasher implements Hasher using bcrypt
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a bcrypt hasher. A cost outside bcrypt's accepted
// range falls back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash hashes a password using bcrypt
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Verify compares a password with its hash
func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
