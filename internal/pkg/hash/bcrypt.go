package hash

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// BcryptOptions configures the bcrypt driver.
type BcryptOptions struct {
	// Cost is the work factor. Values outside bcrypt's range fall back to bcrypt.DefaultCost.
	Cost int
	// Pepper is appended to the plaintext before hashing and verifying.
	Pepper string
}

// Bcrypt implements Hash using bcrypt.
//
// Pepper is appended to the plaintext before hashing/verifying. Keep the pepper
// secret and store it in configuration, never next to the digests.
type Bcrypt struct {
	cost   int
	pepper string
}

// NewBcrypt returns a bcrypt-based hasher.
func NewBcrypt(cost int, pepper string) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &Bcrypt{cost: cost, pepper: pepper}
}

// Hash hashes plaintext using bcrypt.
func (h *Bcrypt) Hash(plaintext string) ([]byte, error) {
	return bcrypt.GenerateFromPassword(h.prehash(plaintext), h.cost)
}

// prehash folds plaintext and pepper into 44 base64 bytes. bcrypt rejects
// input above 72 bytes, which multi segment passwords reach easily.
func (h *Bcrypt) prehash(plaintext string) []byte {
	sum := sha256.Sum256([]byte(plaintext + h.pepper))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

// Verify returns true when plaintext matches the hashed value.
func (h *Bcrypt) Verify(hashed, plaintext string) bool {
	if hashed == "" {
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(hashed), h.prehash(plaintext)) == nil
}
