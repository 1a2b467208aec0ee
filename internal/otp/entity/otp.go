package entity

import (
	"encoding/json"
	"errors"
)

// ErrInvalidArgument is returned when neither an identifier nor a password
// can be resolved.
var ErrInvalidArgument = errors.New("otp: identifier and password are required")

// ErrorCode tells why a password was rejected.
type ErrorCode string

const (
	ErrorCodeInvalid    ErrorCode = "invalid"
	ErrorCodeExpired    ErrorCode = "expired"
	ErrorCodeMaxAttempt ErrorCode = "max_attempt"
)

func (c ErrorCode) String() string {
	return string(c)
}

// Record is what the engine stores for an issued password.
type Record struct {
	// ExpiresAt is a unix timestamp in seconds.
	ExpiresAt    int64
	Data         json.RawMessage
	PasswordHash string
}

// HasData reports whether the record carries a payload worth returning.
func (r Record) HasData() bool {
	return len(r.Data) > 0 && string(r.Data) != "null"
}

// Result is the outcome of a validation. Rejections are values, not errors.
type Result struct {
	Status bool
	Error  ErrorCode
	Data   json.RawMessage
	Demo   bool
}

// Rejected builds a failed Result.
func Rejected(code ErrorCode) *Result {
	return &Result{Status: false, Error: code}
}
