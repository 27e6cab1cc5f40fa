package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	fileName       = "relayx-client.yaml"
	legacyFileName = "relayx-client.toml"
)

// Store reads and writes the configuration file.
type Store struct {
	path   string
	legacy string // TOML file of older releases; empty when unknown
}

// NewStore returns a store backed by the given file path. A TOML file left
// by older releases is looked up at LegacyPath().
func NewStore(path string) *Store {
	return &Store{path: path, legacy: LegacyPath()}
}

// WithLegacyPath overrides where the TOML file of older releases is read from.
func (s *Store) WithLegacyPath(path string) *Store {
	s.legacy = path
	return s
}

// LegacyPath returns where older releases kept relayx-client.toml:
// %LOCALAPPDATA% on Windows, $HOME/.config everywhere else (macOS included).
// Empty when the variable is unset.
func LegacyPath() string {
	if runtime.GOOS == "windows" {
		dir := os.Getenv("LOCALAPPDATA")
		if dir == "" {
			return ""
		}
		return filepath.Join(dir, legacyFileName)
	}

	home := os.Getenv("HOME")
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".config", legacyFileName)
}

// DefaultPath returns the per-user configuration file path,
// e.g. ~/.config/relayx-client.yaml on Linux.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Path returns the file the store is backed by.
func (s *Store) Path() string {
	return s.path
}

// Load reads the configuration file.
// A missing file yields the defaults and no error. An unreadable or broken
// file yields the defaults together with an error the caller should report.
// Fields absent from the file keep their default values.
func (s *Store) Load() (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			// First run, or a config left behind by a TOML-era release
			return s.loadLegacy()
		}
		return Default(), fmt.Errorf("failed to read configuration file content: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("configuration file is broken: %w", err)
	}

	return cfg, nil
}

// loadLegacy decodes the legacy relayx-client.toml if present.
func (s *Store) loadLegacy() (Config, error) {
	cfg := Default()
	if s.legacy == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(s.legacy)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Default(), fmt.Errorf("failed to read legacy configuration: %w", err)
	}

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Default(), fmt.Errorf("legacy configuration file is broken: %w", err)
	}

	return cfg, nil
}

// Save writes the whole configuration, replacing the file.
func (s *Store) Save(cfg Config) error {
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	return nil
}

// EnsureExists writes the default configuration when no file exists yet.
func (s *Store) EnsureExists() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	// Keep a legacy TOML config's values rather than masking them with defaults
	cfg, err := s.loadLegacy()
	if err != nil {
		cfg = Default()
	}
	return s.Save(cfg)
}
