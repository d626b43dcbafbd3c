package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultAPIBaseURL  = "https://www.swapi.tech/api"
	DefaultHTTPTimeout = 30 * time.Second
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "console"

	configFileName   = "config.yaml"
	databaseFileName = "holocron.db"
	outputTypeFile   = "file"
)

// Environment variables recognised by Load.
const (
	EnvHome        = "HOLOCRON_HOME"
	EnvAPIURL      = "HOLOCRON_API_URL"
	EnvHTTPTimeout = "HOLOCRON_HTTP_TIMEOUT"
	EnvDatabase    = "HOLOCRON_DB"
	EnvLogLevel    = "HOLOCRON_LOG_LEVEL"
	EnvLogFormat   = "HOLOCRON_LOG_FORMAT"
	EnvLogFile     = "HOLOCRON_LOG_FILE"
)

// Config errors.
var (
	ErrEmptyAPIURL     = errors.New("api.base_url cannot be empty")
	ErrInvalidTimeout  = errors.New("api.timeout must be positive")
	ErrEmptyDatabase   = errors.New("cache.database cannot be empty")
	ErrInvalidLogLevel = errors.New("logging.level is not a valid level")
)

// Config is the full holocron configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the remote lookup client.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// CacheConfig configures the search cache database.
type CacheConfig struct {
	Database string `yaml:"database"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// New returns a Config populated with defaults. The database lives under the
// configuration directory; if that cannot be resolved it falls back to the
// working directory.
func New() *Config {
	dbPath := databaseFileName
	if dir, err := GetConfigDir(); err == nil {
		dbPath = filepath.Join(dir, databaseFileName)
	}

	return &Config{
		API: APIConfig{
			BaseURL: DefaultAPIBaseURL,
			Timeout: DefaultHTTPTimeout,
		},
		Cache: CacheConfig{
			Database: dbPath,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (or the default
// config file when path is empty), a .env file in the working directory and
// environment variables, in that order of increasing precedence.
//
// A missing config file or .env file is not an error. An explicitly given path
// that does not exist is.
func Load(path string) (*Config, error) {
	cfg := New()

	explicit := path != ""
	if !explicit {
		if p, err := DefaultConfigPath(); err == nil {
			path = p
		}
	}

	if path != "" {
		if err := cfg.mergeFile(path, explicit); err != nil {
			return nil, err
		}
	}

	// .env only fills variables that are not already set in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvHTTPTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvHTTPTimeout, err)
		}
		c.API.Timeout = d
	}
	if v := os.Getenv(EnvDatabase); v != "" {
		c.Cache.Database = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.Logging.File = v
	}
	return nil
}

// Validate checks the configuration for values that would make every command fail.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return ErrEmptyAPIURL
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidTimeout, c.API.Timeout)
	}
	if c.Cache.Database == "" {
		return ErrEmptyDatabase
	}
	switch c.Logging.Level {
	case "", "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}
	return nil
}

// DefaultConfigPath returns the path of the config file Load reads when no
// path is given.
func DefaultConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Save writes c as YAML to path, creating parent directories as needed.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}
