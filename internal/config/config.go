// Package config provides reading and writing of noterev configuration.
// Supports both global (~/.noterev/config.yaml) and local (.noterev/config.yaml).
// Reading: uses local if it exists, otherwise global.
// Writing: defaults to global, use --local for local.
// Environment variables (optionally from a .env file) override both.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/uttaparsa/notes-api/internal/duration"
	"github.com/uttaparsa/notes-api/internal/revision"
)

var (
	// ErrNoConfigPath is returned when the config path cannot be determined.
	ErrNoConfigPath = errors.New("cannot determine config path")
	// ErrUnknownKey is returned when getting/setting an unknown config key.
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidValue is returned when a config value is invalid.
	ErrInvalidValue = errors.New("invalid config value")
)

// Dir is the name of the configuration and data directory.
const Dir = ".noterev"

// Scope represents the configuration scope (global or local).
type Scope int

const (
	// ScopeGlobal is user-wide config in ~/.noterev/config.yaml (default)
	ScopeGlobal Scope = iota
	// ScopeLocal is repository-specific config in .noterev/config.yaml
	ScopeLocal
)

// Author identifies who recorded edits in the audit log.
type Author struct {
	Name  string `yaml:"name,omitempty"`
	Email string `yaml:"email,omitempty"`
}

// Revisions holds the coalescing and retention settings.
type Revisions struct {
	MinInterval  *string `yaml:"min_interval,omitempty"` // e.g. "15m" or "1d"
	MaxRevisions *int    `yaml:"max_revisions,omitempty"`
}

// Store selects the revision backend.
type Store struct {
	Backend *string `yaml:"backend,omitempty"`
}

// Limits holds size limit configuration options.
type Limits struct {
	MaxContent    *int64 `yaml:"max_content,omitempty"`
	MaxDocumentID *int   `yaml:"max_document_id,omitempty"`
}

// Log holds operational logging options.
type Log struct {
	Level *string `yaml:"level,omitempty"`
}

// Backends supported by store.backend.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// Defaults applied when not configured.
const (
	DefaultBackend       = BackendSQLite
	DefaultMaxContent    = revision.DefaultMaxContent
	DefaultMaxDocumentID = revision.DefaultMaxDocumentID
	DefaultLogLevel      = "warn"
)

// Validation bounds for configuration values.
const (
	MinMaxRevisions  = 2
	MaxMaxRevisions  = 10000
	MinMaxContent    = 1
	MaxMaxContent    = 10 * 1024 * 1024 * 1024 // 10 GB
	MinMaxDocumentID = 1
	MaxMaxDocumentID = 4096
	MaxMinInterval   = 30 * 24 * time.Hour
)

var (
	validBackends  = []string{BackendSQLite, BackendBadger}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

// Config contains configuration for noterev.
type Config struct {
	Author    Author    `yaml:"author,omitempty"`
	Revisions Revisions `yaml:"revisions,omitempty"`
	Store     Store     `yaml:"store,omitempty"`
	Limits    Limits    `yaml:"limits,omitempty"`
	Log       Log       `yaml:"log,omitempty"`

	// path is the file this config was loaded from (for Save)
	path  string
	scope Scope
}

// Validate checks that all configured values are within acceptable bounds.
// Returns nil if all values are valid or not set (defaults will be used).
func (c *Config) Validate() error {
	if c.Revisions.MinInterval != nil {
		if _, err := parseInterval(*c.Revisions.MinInterval); err != nil {
			return err
		}
	}
	if c.Revisions.MaxRevisions != nil {
		v := *c.Revisions.MaxRevisions
		if v < MinMaxRevisions || v > MaxMaxRevisions {
			return fmt.Errorf("%w: max_revisions must be between %d and %d, got %d",
				ErrInvalidValue, MinMaxRevisions, MaxMaxRevisions, v)
		}
	}
	if c.Store.Backend != nil && !slices.Contains(validBackends, *c.Store.Backend) {
		return fmt.Errorf("%w: backend must be one of %v, got %q", ErrInvalidValue, validBackends, *c.Store.Backend)
	}
	if c.Limits.MaxContent != nil {
		v := *c.Limits.MaxContent
		if v < MinMaxContent || v > MaxMaxContent {
			return fmt.Errorf("%w: max_content must be between %d and %d, got %d",
				ErrInvalidValue, MinMaxContent, MaxMaxContent, v)
		}
	}
	if c.Limits.MaxDocumentID != nil {
		v := *c.Limits.MaxDocumentID
		if v < MinMaxDocumentID || v > MaxMaxDocumentID {
			return fmt.Errorf("%w: max_document_id must be between %d and %d, got %d",
				ErrInvalidValue, MinMaxDocumentID, MaxMaxDocumentID, v)
		}
	}
	if c.Log.Level != nil && !slices.Contains(validLogLevels, strings.ToLower(*c.Log.Level)) {
		return fmt.Errorf("%w: log level must be one of %v, got %q", ErrInvalidValue, validLogLevels, *c.Log.Level)
	}
	return nil
}

func parseInterval(s string) (time.Duration, error) {
	d, err := duration.Parse(s)
	if err != nil || d < 0 || d > MaxMinInterval {
		return 0, fmt.Errorf("%w: min_interval must be a duration between 0s and %s, got %q",
			ErrInvalidValue, MaxMinInterval, s)
	}
	return d, nil
}

// MinInterval returns the coalescing window (defaults to 15 minutes).
func (c *Config) MinInterval() time.Duration {
	if c.Revisions.MinInterval == nil {
		return revision.DefaultMinInterval
	}
	d, err := parseInterval(*c.Revisions.MinInterval)
	if err != nil {
		return revision.DefaultMinInterval
	}
	return d
}

// MaxRevisions returns the per-document revision limit (defaults to 20).
func (c *Config) MaxRevisions() int {
	if c.Revisions.MaxRevisions == nil {
		return revision.DefaultMaxRevisions
	}
	return *c.Revisions.MaxRevisions
}

// Backend returns the revision store backend (defaults to sqlite).
func (c *Config) Backend() string {
	if c.Store.Backend == nil {
		return DefaultBackend
	}
	return *c.Store.Backend
}

// MaxContent returns the maximum revision text size in bytes (defaults to 100 MB).
func (c *Config) MaxContent() int64 {
	if c.Limits.MaxContent == nil {
		return DefaultMaxContent
	}
	return *c.Limits.MaxContent
}

// MaxDocumentID returns the maximum document ID length (defaults to 256).
func (c *Config) MaxDocumentID() int {
	if c.Limits.MaxDocumentID == nil {
		return DefaultMaxDocumentID
	}
	return *c.Limits.MaxDocumentID
}

// LogLevel returns the operational log level (defaults to warn).
func (c *Config) LogLevel() string {
	if c.Log.Level == nil {
		return DefaultLogLevel
	}
	return strings.ToLower(*c.Log.Level)
}

// RevisionOptions converts the configuration into engine options.
func (c *Config) RevisionOptions() revision.Options {
	return revision.Options{
		MinInterval:   c.MinInterval(),
		MaxRevisions:  c.MaxRevisions(),
		MaxContent:    c.MaxContent(),
		MaxDocumentID: c.MaxDocumentID(),
	}
}

// LocalPath returns the path to the local (repository) config file.
func LocalPath() string {
	return filepath.Join(Dir, "config.yaml")
}

// GlobalPath returns the path to the global (user) config file: ~/.noterev/config.yaml
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, Dir, "config.yaml")
}

// Load reads configuration: uses local if it exists, otherwise global.
// Environment overrides are applied on top.
func Load() (*Config, error) {
	scope := ScopeGlobal
	if _, err := os.Stat(LocalPath()); err == nil {
		scope = ScopeLocal
	}
	cfg, err := LoadScope(scope)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadScope reads configuration from a specific scope, without environment
// overrides. Use this when the config will be saved back.
func LoadScope(scope Scope) (*Config, error) {
	path := pathForScope(scope)
	if path == "" {
		return &Config{scope: scope}, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{path: path, scope: scope}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w\n\nTo fix: edit the file to correct the YAML syntax, or delete it to use defaults", path, err)
	}
	cfg.path = path
	cfg.scope = scope

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Scope returns which scope this config was loaded from.
func (c *Config) Scope() Scope {
	return c.scope
}

// Save writes the configuration to its original location.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = pathForScope(c.scope)
	}
	if c.path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(c.path)
}

// SaveScope writes the configuration to the specified scope.
func (c *Config) SaveScope(scope Scope) error {
	path := pathForScope(scope)
	if path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(path)
}

// saveToPath writes configuration to a specific filesystem path.
func (c *Config) saveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// pathForScope returns the filesystem path for a given scope.
func pathForScope(scope Scope) string {
	switch scope {
	case ScopeLocal:
		return LocalPath()
	case ScopeGlobal:
		return GlobalPath()
	default:
		return ""
	}
}
