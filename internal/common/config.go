// Package common provides configuration, logging and build metadata shared by
// the rfcguide commands.
package common

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for rfcguide.
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Catalog     CatalogConfig `toml:"catalog"`
	Storage     StorageConfig `toml:"storage"`
	API         APIConfig     `toml:"api"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration. Port 0 binds an ephemeral
// port; the bound port is published through the port file either way.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// CatalogConfig selects the glossary source.
type CatalogConfig struct {
	Dir     string `toml:"dir"`     // directory of *.json catalog files; empty uses the embedded catalog
	Version string `toml:"version"` // embedded catalog directory
	Watch   bool   `toml:"watch"`   // hot reload Dir on change (ignored for the embedded catalog)
}

// StorageConfig holds the state directory (usage db, port file, logs).
type StorageConfig struct {
	Dir string `toml:"dir"`
}

// APIConfig tunes the HTTP API middleware.
type APIConfig struct {
	RateLimit float64 `toml:"rate_limit"` // requests per second; 0 disables limiting
	Burst     int     `toml:"burst"`
	Gzip      bool    `toml:"gzip"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string `toml:"level"`
	Format   string `toml:"format"` // console or json
	FilePath string `toml:"file_path"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8417,
		},
		Catalog: CatalogConfig{
			Version: "v1",
			Watch:   true,
		},
		Storage: StorageConfig{
			Dir: ".rfcguide",
		},
		API: APIConfig{
			RateLimit: 50,
			Burst:     100,
			Gzip:      true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnvOverrides applies RFCGUIDE_* environment variable overrides to config.
// Unparseable numeric or boolean values are ignored.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("RFCGUIDE_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("RFCGUIDE_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("RFCGUIDE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if dir := os.Getenv("RFCGUIDE_CATALOG_DIR"); dir != "" {
		config.Catalog.Dir = dir
	}
	if watch := os.Getenv("RFCGUIDE_CATALOG_WATCH"); watch != "" {
		if b, err := strconv.ParseBool(watch); err == nil {
			config.Catalog.Watch = b
		}
	}

	if dir := os.Getenv("RFCGUIDE_STORAGE_DIR"); dir != "" {
		config.Storage.Dir = dir
	}

	if rl := os.Getenv("RFCGUIDE_RATE_LIMIT"); rl != "" {
		if f, err := strconv.ParseFloat(rl, 64); err == nil {
			config.API.RateLimit = f
		}
	}

	if level := os.Getenv("RFCGUIDE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("RFCGUIDE_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
}

// Validate rejects values that would only fail later at startup.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("api.rate_limit must not be negative")
	}
	if c.API.RateLimit > 0 && c.API.Burst < 1 {
		return fmt.Errorf("api.burst must be at least 1 when rate limiting is on")
	}
	if _, ok := parseLevel(c.Logging.Level); !ok {
		return fmt.Errorf("logging.level %q: want debug, info, warn or error", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q: want console or json", c.Logging.Format)
	}
	return nil
}

// ListenAddr is the host:port the HTTP server binds.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// IsProduction reports whether the environment is "production" or "prod".
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Environment)
	return env == "production" || env == "prod"
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}
