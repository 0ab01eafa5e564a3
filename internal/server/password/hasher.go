// Package password wraps the one-way password hashing capability. Plaintext
// passwords never leave this package once hashed.
package password

import "golang.org/x/crypto/bcrypt"

// Hasher turns a secret into a digest and verifies a candidate against a
// stored digest.
type Hasher interface {
	Hash(secret string) (string, error)
	Verify(secret, digest string) bool
}

type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a bcrypt-backed Hasher. A cost outside bcrypt's
// valid range falls back to the library default.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (h *BcryptHasher) Verify(secret, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)) == nil
}
