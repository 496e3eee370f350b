package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rshade/artsel/internal/cli/pagination"
	"github.com/rshade/artsel/internal/collection"
)

// Configuration defaults. Table and API limits come from the packages that
// enforce them.
const (
	DefaultPageSize          = pagination.DefaultPageSize
	MaxPageSize              = pagination.MaxPageSize
	DefaultRequestsPerSecond = collection.DefaultRequestsPerSecond
	DefaultBaseURL           = collection.DefaultBaseURL
	DefaultUserAgent         = collection.DefaultUserAgent
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "console"

	configFileName = "config.yaml"
	logFileName    = "artsel.log"
)

// Environment variables consulted by Load.
const (
	EnvHome      = "ARTSEL_HOME"
	EnvAPIURL    = "ARTSEL_API_URL"
	EnvLogLevel  = "ARTSEL_LOG_LEVEL"
	EnvLogFormat = "ARTSEL_LOG_FORMAT"
	EnvDedupe    = "ARTSEL_DEDUPLICATE"
)

// Validation errors.
var (
	ErrInvalidPageSize = fmt.Errorf("table.page_size must be between 1 and %d", MaxPageSize)
	ErrInvalidRate     = errors.New("api.requests_per_second cannot be negative")
	ErrInvalidTimeout  = errors.New("api.timeout cannot be negative")
	ErrInvalidBaseURL  = errors.New("api.base_url must be an absolute http(s) URL")
)

// Config is the artsel configuration file.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Table     TableConfig     `yaml:"table"`
	Selection SelectionConfig `yaml:"selection"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// APIConfig controls the collection endpoint client.
type APIConfig struct {
	BaseURL           string  `yaml:"base_url"`
	UserAgent         string  `yaml:"user_agent"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Timeout applies per request. Zero means fetches may wait indefinitely.
	Timeout time.Duration `yaml:"timeout"`
}

// TableConfig controls the paged table.
type TableConfig struct {
	PageSize int `yaml:"page_size"`
}

// SelectionConfig controls bulk selection.
type SelectionConfig struct {
	Deduplicate bool `yaml:"deduplicate"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           DefaultBaseURL,
			UserAgent:         DefaultUserAgent,
			RequestsPerSecond: DefaultRequestsPerSecond,
		},
		Table: TableConfig{
			PageSize: DefaultPageSize,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path and
// the environment, in that order. An empty path means the default location,
// which is allowed to be missing; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := New()

	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultConfigPath(); err != nil {
			return nil, err
		}
	}

	if _, err := os.Stat(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	} else if mergeErr := ShallowMergeYAML(cfg, path); mergeErr != nil {
		return nil, mergeErr
	}

	cfg.applyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto cfg.
func (c *Config) applyEnv(lookupEnv func(string) (string, bool)) {
	if v, ok := lookupEnv(EnvAPIURL); ok && v != "" {
		c.API.BaseURL = v
	}
	if v, ok := lookupEnv(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookupEnv(EnvLogFormat); ok && v != "" {
		c.Logging.Format = v
	}
	if v, ok := lookupEnv(EnvDedupe); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Selection.Deduplicate = b
		}
	}
}

// Validate checks the configuration for values the client or table cannot use.
func (c *Config) Validate() error {
	if c.Table.PageSize < 1 || c.Table.PageSize > MaxPageSize {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, c.Table.PageSize)
	}
	if c.API.RequestsPerSecond < 0 {
		return ErrInvalidRate
	}
	if c.API.Timeout < 0 {
		return ErrInvalidTimeout
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.API.BaseURL)
	}
	return nil
}

// DefaultConfigPath returns the config file consulted when --config is not given.
func DefaultConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Save writes the configuration to path as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err = os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}

// DefaultLogFile returns the log file used when the TUI owns the terminal.
func DefaultLogFile() string {
	dir, err := GetConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), logFileName)
	}
	return filepath.Join(dir, "logs", logFileName)
}
