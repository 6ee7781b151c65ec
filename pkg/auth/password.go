package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidDigest is returned when a stored digest is not a valid bcrypt
// hash. Verification never turns a malformed digest into a false positive.
var ErrInvalidDigest = errors.New("invalid password digest format")

// Hasher produces and verifies salted bcrypt password digests. The cost is
// process-wide configuration, fixed at construction.
type Hasher struct {
	cost int
}

// NewHasher creates a password hasher with the given bcrypt cost. Costs
// outside bcrypt's supported range fall back to the library default.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash produces a salted one-way digest of the plaintext. bcrypt salts
// per call, so hashing the same plaintext twice yields different digests.
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Verify recomputes the digest using the salt embedded in it and compares in
// constant time. A mismatch is (false, nil); a digest bcrypt cannot parse is
// (false, ErrInvalidDigest).
func (h *Hasher) Verify(plaintext, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %v", ErrInvalidDigest, err)
}
