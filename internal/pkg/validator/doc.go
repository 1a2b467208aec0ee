// Package validator provides a small validation abstraction for request and
// settings structs, plus the translated messages shown when a submitted
// one-time password is rejected.
//
// Business code should depend on the Validator interface so validation can be
// shared and tested consistently. The concrete implementation wraps
// go-playground/validator v10 with English translations.
package validator
