package config

import (
	"io"
	"time"
)

// TimeConfig defines helpers for retrieving time-based configuration values.
type TimeConfig interface {
	// GetSecond retrieves the value associated with the given key as seconds.
	GetSecond(key string) time.Duration

	// GetMinute retrieves the value associated with the given key as minutes.
	GetMinute(key string) time.Duration

	// GetHour retrieves the value associated with the given key as hours.
	GetHour(key string) time.Duration

	// GetDay retrieves the value associated with the given key as days (24h).
	GetDay(key string) time.Duration
}

// Config defines a set of methods for retrieving configuration values of
// various types. Implementations should handle missing keys and type
// conversion failures by returning the type's zero value.
type Config interface {
	io.Closer
	TimeConfig

	// GetBool retrieves the value associated with the given key as a bool.
	GetBool(key string) bool

	// GetInt retrieves the value associated with the given key as an int.
	GetInt(key string) int

	// GetInt32 retrieves the value associated with the given key as an int32.
	GetInt32(key string) int32

	// GetInt64 retrieves the value associated with the given key as an int64.
	GetInt64(key string) int64

	// GetUint retrieves the value associated with the given key as a uint.
	GetUint(key string) uint

	// GetString retrieves the value associated with the given key as a string.
	GetString(key string) string

	// GetArray retrieves the value associated with the given key as a slice of
	// strings. Configuration value is stored with format <element1>,<element2>,...
	GetArray(key string) []string
}
