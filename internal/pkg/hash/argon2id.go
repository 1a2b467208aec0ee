package hash

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2idOptions configures the argon2id driver. Zero values use the defaults of NewArgon2id.
type Argon2idOptions struct {
	// Memory is the memory cost in KiB.
	Memory uint32
	// Iterations is the time cost.
	Iterations uint32
	// Parallelism is the number of threads.
	Parallelism uint8
	// Pepper is appended to the plaintext before hashing and verifying.
	Pepper string
}

// Argon2id implements Hash using Argon2id in the PHC string format.
type Argon2id struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	saltLength  uint32
	keyLength   uint32
	pepper      string
}

// NewArgon2id returns an Argon2id hasher with recommended defaults.
func NewArgon2id(pepper string) *Argon2id {
	return NewArgon2idWithOptions(Argon2idOptions{Pepper: pepper})
}

// NewArgon2idWithOptions returns an Argon2id hasher, filling zero options with defaults.
func NewArgon2idWithOptions(opts Argon2idOptions) *Argon2id {
	a := &Argon2id{
		memory:      32 * 1024, // 32MB
		iterations:  3,
		parallelism: 2,
		saltLength:  16,
		keyLength:   32,
		pepper:      opts.Pepper,
	}
	if opts.Memory > 0 {
		a.memory = opts.Memory
	}
	if opts.Iterations > 0 {
		a.iterations = opts.Iterations
	}
	if opts.Parallelism > 0 {
		a.parallelism = opts.Parallelism
	}

	return a
}

// Hash takes a plaintext string and returns its encoded digest.
func (a *Argon2id) Hash(plaintext string) ([]byte, error) {
	salt := make([]byte, a.saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(plaintext+a.pepper), salt, a.iterations, a.memory, a.parallelism, a.keyLength)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		a.memory,
		a.iterations,
		a.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	return []byte(encoded), nil
}

// Verify checks if plaintext matches the encoded digest.
func (a *Argon2id) Verify(hashed, plaintext string) bool {
	p, ok := parseArgon2id(hashed)
	if !ok {
		return false
	}

	computed := argon2.IDKey([]byte(plaintext+a.pepper), p.salt, p.iterations, p.memory, p.parallelism, uint32(len(p.key)))

	return subtle.ConstantTimeCompare(p.key, computed) == 1
}

type argon2idParams struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

// parseArgon2id decodes "$argon2id$v=19$m=..,t=..,p=..$salt$key".
func parseArgon2id(encoded string) (argon2idParams, bool) {
	var p argon2idParams

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return p, false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, false
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.iterations, &p.parallelism); err != nil {
		return p, false
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return p, false
	}
	if p.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(p.key) == 0 {
		return p, false
	}

	return p, true
}
