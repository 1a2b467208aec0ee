// Package config exposes typed read access to the service configuration.
package config

import (
	"io"
	"time"
)

// TimeConfig defines helpers for retrieving time-based configuration values.
type TimeConfig interface {
	// GetSecond retrieves the value associated with key as seconds.
	GetSecond(key string) time.Duration

	// GetMinute retrieves the value associated with key as minutes.
	GetMinute(key string) time.Duration
}

// Config defines a set of methods for retrieving configuration values of various types.
// Missing keys yield the zero value of the requested type; use IsSet to tell
// an absent key from an explicit zero.
type Config interface {
	io.Closer
	TimeConfig

	// IsSet reports whether key has a value in the configuration.
	IsSet(key string) bool

	// GetBool retrieves the value associated with key as a bool.
	GetBool(key string) bool

	// GetString retrieves the value associated with key as a string.
	GetString(key string) string

	// GetInt retrieves the value associated with key as an int.
	GetInt(key string) int

	// GetUint32 retrieves the value associated with key as a uint32.
	GetUint32(key string) uint32

	// GetFloat64 retrieves the value associated with key as a float64.
	GetFloat64(key string) float64

	// GetArray retrieves the value associated with key as a slice of strings.
	// Configuration value is stored with format <element1>,<element2>,...
	// Elements are trimmed and empty elements are dropped.
	GetArray(key string) []string
}
