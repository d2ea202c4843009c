package account

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher wraps bcrypt with a tunable work factor. Hashing is salted and
// non-deterministic; comparison is constant-time inside bcrypt.
type Hasher struct {
	cost int
}

// NewHasher builds a Hasher. Costs outside the bcrypt range fall back to
// the library default.
func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return Hasher{cost: cost}
}

// Hash produces a one-way hash of plaintext. Length and charset policy is
// the caller's responsibility; an empty string is permitted here.
func (h Hasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("account: hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext produced hash. A mismatch is an ordinary
// false return; an error means the stored hash is structurally invalid.
func (h Hasher) Verify(plaintext, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("account: malformed password hash: %w", err)
	}
}
