// Package config holds the relayx client configuration, the closed set of
// options the operator may change with `set`, and the on-disk store.
package config

import (
	"errors"
	"time"
)

// Errors returned by option lookup and assignment.
var (
	ErrUnknownOption = errors.New("unknown option")
	ErrInvalidValue  = errors.New("invalid value")
)

// Default values used when no configuration file exists or it is broken.
const (
	DefaultWaitForResponse   = true
	DefaultReadTimeout       = 10000
	DefaultConnectionTimeout = 10000
)

// Config is the full client configuration. Timeouts are in milliseconds;
// zero disables the corresponding deadline.
type Config struct {
	WaitForResponse   bool   `yaml:"wait_for_response" toml:"wait_for_response"`
	ReadTimeout       uint64 `yaml:"read_timeout" toml:"read_timeout"`
	ConnectionTimeout uint64 `yaml:"connection_timeout" toml:"connection_timeout"`
	RecentConnection  string `yaml:"recent_connection" toml:"recent_connection"`
}

// Default returns the configuration used absent a saved file.
func Default() Config {
	return Config{
		WaitForResponse:   DefaultWaitForResponse,
		ReadTimeout:       DefaultReadTimeout,
		ConnectionTimeout: DefaultConnectionTimeout,
	}
}

// ReadDeadline returns ReadTimeout as a duration.
func (c Config) ReadDeadline() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Millisecond
}

// DialDeadline returns ConnectionTimeout as a duration.
func (c Config) DialDeadline() time.Duration {
	return time.Duration(c.ConnectionTimeout) * time.Millisecond
}
