package config

import (
	"fmt"
	"strconv"
)

// Option is one settable configuration field.
type Option struct {
	Name string

	describe func(cfg *Config) string
	assign   func(cfg *Config, value string) error
}

// options is the closed set of fields reachable through `set`.
// recent_connection is deliberately absent; only `open` writes it.
var options = []Option{
	{
		Name: "wait_for_response",
		describe: func(cfg *Config) string {
			return fmt.Sprintf("Current: %t. Possible: true, false", cfg.WaitForResponse)
		},
		assign: func(cfg *Config, value string) error {
			switch value {
			case "true":
				cfg.WaitForResponse = true
			case "false":
				cfg.WaitForResponse = false
			default:
				return fmt.Errorf("%w for wait_for_response: %q", ErrInvalidValue, value)
			}
			return nil
		},
	},
	{
		Name: "read_timeout",
		describe: func(cfg *Config) string {
			return fmt.Sprintf("Current: %d milliseconds.", cfg.ReadTimeout)
		},
		assign: func(cfg *Config, value string) error {
			n, err := parseMillis(value)
			if err != nil {
				return fmt.Errorf("%w for read_timeout: %q", ErrInvalidValue, value)
			}
			cfg.ReadTimeout = n
			return nil
		},
	},
	{
		Name: "connection_timeout",
		describe: func(cfg *Config) string {
			return fmt.Sprintf("Current: %d milliseconds.", cfg.ConnectionTimeout)
		},
		assign: func(cfg *Config, value string) error {
			n, err := parseMillis(value)
			if err != nil {
				return fmt.Errorf("%w for connection_timeout: %q", ErrInvalidValue, value)
			}
			cfg.ConnectionTimeout = n
			return nil
		},
	},
}

// parseMillis accepts plain non-negative decimal integers only.
func parseMillis(value string) (uint64, error) {
	return strconv.ParseUint(value, 10, 64)
}

// LookupOption finds an option by its exact name.
func LookupOption(name string) (Option, error) {
	for _, opt := range options {
		if opt.Name == name {
			return opt, nil
		}
	}
	return Option{}, fmt.Errorf("%w: %s", ErrUnknownOption, name)
}

// OptionNames returns the names of all settable options, in display order.
func OptionNames() []string {
	names := make([]string, 0, len(options))
	for _, opt := range options {
		names = append(names, opt.Name)
	}
	return names
}

// Describe renders the option's current value and accepted values.
func (o Option) Describe(cfg *Config) string {
	return o.describe(cfg)
}

// Assign parses value and writes it into cfg. On error cfg is untouched.
func (o Option) Assign(cfg *Config, value string) error {
	return o.assign(cfg, value)
}
