// Package hash provides the one-way hashers used to store one-time passwords.
//
// Only the digest is ever persisted. Verification recomputes the digest from
// the submitted plaintext and compares in constant time. Every driver salts
// its output, so hashing the same plaintext twice yields different digests.
package hash
