package hash

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DriverBcrypt selects the bcrypt hasher.
	DriverBcrypt = "bcrypt"
	// DriverArgon2id selects the argon2id hasher.
	DriverArgon2id = "argon2id"
)

// ErrUnknownDriver indicates an unsupported hash driver.
var ErrUnknownDriver = errors.New("hash: unknown driver")

// Hash hashes secrets and verifies plaintext against stored digests.
type Hash interface {
	// Hash returns a salted digest of plaintext.
	Hash(plaintext string) ([]byte, error)
	// Verify reports whether plaintext matches the hashed digest.
	Verify(hashed, plaintext string) bool
}

// FactoryOptions groups configuration for hash drivers.
type FactoryOptions struct {
	Bcrypt   BcryptOptions
	Argon2id Argon2idOptions
}

// NewFromDriver constructs a Hash implementation by driver name.
func NewFromDriver(driver string, opts FactoryOptions) (Hash, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverBcrypt, "":
		return NewBcrypt(opts.Bcrypt.Cost, opts.Bcrypt.Pepper), nil
	case DriverArgon2id:
		return NewArgon2idWithOptions(opts.Argon2id), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}
