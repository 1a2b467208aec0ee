// Package goerror defines the structured errors returned by use cases and
// rendered by the HTTP router.
package goerror

import (
	"errors"
	"log/slog"
	"net/http"
)

// ErrNotFound is returned by every store driver for a missing or expired key.
var ErrNotFound = errors.New("resource not found")

// Type buckets an error by who is at fault.
type Type int

const (
	// TypeServer is a failing collaborator: store, hasher, lock backend.
	TypeServer Type = iota
	// TypeBusiness is a request that is well formed but cannot be served now.
	TypeBusiness
	// TypeValidation is a request the caller must fix.
	TypeValidation
)

var typeNames = map[Type]string{
	TypeServer:     "server",
	TypeBusiness:   "business",
	TypeValidation: "validation",
}

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "unknown"
}

// Code selects the HTTP status an Error is rendered with.
type Code int

const (
	// CodeInternal renders as 500.
	CodeInternal Code = iota
	// CodeInvalidFormat renders as 400: the body could not be decoded.
	CodeInvalidFormat
	// CodeInvalidInput renders as 422: decoded but semantically invalid.
	CodeInvalidInput
	// CodeTooManyRequest renders as 429: another validation for the same
	// identifier is in flight.
	CodeTooManyRequest
)

var codeStatus = map[Code]int{
	CodeInternal:       http.StatusInternalServerError,
	CodeInvalidFormat:  http.StatusBadRequest,
	CodeInvalidInput:   http.StatusUnprocessableEntity,
	CodeTooManyRequest: http.StatusTooManyRequests,
}

func (c Code) String() string {
	return http.StatusText(c.status())
}

func (c Code) status() int {
	if s, ok := codeStatus[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error carries a caller facing message next to an optional wrapped cause.
// The cause is never rendered to clients; only Msg and Fields are.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
	fields  map[string]string
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

// LogValue groups the error attributes when an *Error is logged with slog.
func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("type", e.errType.String()),
		slog.String("code", e.code.String()),
		slog.String("msg", e.msg),
	}
	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}
	return slog.GroupValue(attrs...)
}

// Msg returns the caller facing message.
func (e *Error) Msg() string { return e.msg }

// Type returns the fault bucket.
func (e *Error) Type() Type { return e.errType }

// Code returns the status selector.
func (e *Error) Code() Code { return e.code }

// Fields returns per field messages, keyed by JSON field name.
func (e *Error) Fields() map[string]string { return e.fields }

func (e *Error) Unwrap() error { return e.err }

// StatusCode maps the error code to an HTTP status code.
func (e *Error) StatusCode() int { return e.code.status() }

// NewServer wraps a collaborator failure. Clients only see a generic message.
func NewServer(err error) error {
	return &Error{err: err, msg: "Internal server error", errType: TypeServer, code: CodeInternal}
}

// NewBusiness creates an error with a caller facing message and no cause.
func NewBusiness(msg string, code Code) error {
	return &Error{msg: msg, errType: TypeBusiness, code: code}
}

// NewInvalidInput creates a 422 error.
//
// With a non-nil err the error wraps it. Otherwise kv is read as
// field/message pairs exposed through Fields; an odd kv degrades to
// NewInvalidFormat.
func NewInvalidInput(err error, kv ...string) error {
	if err != nil {
		return &Error{err: err, msg: "Validation error", errType: TypeValidation, code: CodeInvalidInput}
	}
	if len(kv)%2 != 0 {
		return NewInvalidFormat()
	}

	fields := make(map[string]string, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		fields[kv[i]] = kv[i+1]
	}

	return &Error{msg: "Validation error", errType: TypeValidation, code: CodeInvalidInput, fields: fields}
}

// NewInvalidFormat creates a 400 error; msgs[0] overrides the default message.
func NewInvalidFormat(msgs ...string) error {
	msg := "Invalid request body"
	if len(msgs) > 0 {
		msg = msgs[0]
	}
	return &Error{msg: msg, errType: TypeValidation, code: CodeInvalidFormat}
}
