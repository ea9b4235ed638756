// Package config loads client settings from defaults, an optional YAML file,
// a .env file and environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables recognised by Load.
const (
	EnvAPIURL      = "KAAS_API_URL"
	EnvTimeout     = "KAAS_TIMEOUT"
	EnvResultLimit = "KAAS_RESULT_LIMIT"
	EnvLogLevel    = "KAAS_LOG_LEVEL"
	EnvLogFormat   = "KAAS_LOG_FORMAT"
	EnvLogFile     = "KAAS_LOG_FILE"
)

type Config struct {
	API    APIConfig    `yaml:"api"`
	Query  QueryConfig  `yaml:"query"`
	Upload UploadConfig `yaml:"upload"`
	Log    LogConfig    `yaml:"log"`
}

// APIConfig points the client at the backend.
type APIConfig struct {
	// BaseURL includes the /api prefix, e.g. http://localhost:8000/api.
	BaseURL string `yaml:"base_url"`
	// Timeout bounds a single request. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout"`
}

type QueryConfig struct {
	ResultLimit int `yaml:"result_limit"`
}

type UploadConfig struct {
	MaxFileBytes      int64    `yaml:"max_file_bytes"`
	AllowedExtensions []string `yaml:"allowed_extensions"`
}

// LogConfig controls the rotating log file. The terminal belongs to the UI,
// so logs never go to stdout.
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000/api",
		},
		Query: QueryConfig{
			ResultLimit: 7,
		},
		Upload: UploadConfig{
			MaxFileBytes:      50 << 20,
			AllowedExtensions: []string{".pdf", ".txt"},
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			File:       filepath.Join(configDir(), "kaas.log"),
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// DefaultPath returns ~/.kaas/config.yaml.
func DefaultPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

func configDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".kaas"
	}
	return filepath.Join(homeDir, ".kaas")
}

// Load builds the configuration. A missing file at path is not an error;
// an unreadable or malformed one is. Environment variables override the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse YAML config: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads variables from a .env file if it exists. Variables that
// are already set in the environment win.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("error loading %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		c.API.Timeout = d
	}
	if v := os.Getenv(EnvResultLimit); v != "" {
		k, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvResultLimit, err)
		}
		c.Query.ResultLimit = k
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.Log.File = v
	}
	return nil
}

// Validate checks the values that would otherwise fail on first use.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("api.base_url must start with http:// or https://, got %q", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	if c.Query.ResultLimit <= 0 {
		return fmt.Errorf("query.result_limit must be positive, got %d", c.Query.ResultLimit)
	}
	if c.Upload.MaxFileBytes <= 0 {
		return fmt.Errorf("upload.max_file_bytes must be positive")
	}
	if len(c.Upload.AllowedExtensions) == 0 {
		return fmt.Errorf("upload.allowed_extensions must not be empty")
	}
	return nil
}
