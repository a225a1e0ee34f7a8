package config

import (
	"fmt"
	"time"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config holds runtime settings for the chatdesk console.
//
// Fields:
//   - APIBaseURL: base URL of the chatbot-management REST API.
//   - APITimeout: timeout applied to every API call.
//   - StoreBackend: where the session and the chat roster live (sqlite, file,
//     redis or memory).
//   - StorePath: database or JSON file path for the sqlite and file backends.
//   - RedisAddr: host:port of Redis for the redis backend.
//   - LogLevel, LogFormat: see logging.New.
type Config struct {
	APIBaseURL   string
	APITimeout   time.Duration
	StoreBackend string
	StorePath    string
	RedisAddr    string
	LogLevel     string
	LogFormat    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000"
	c.APITimeout = 30 * time.Second
	c.StoreBackend = StoreSQLite
	c.StorePath = "chatdesk.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Validate reports settings the console cannot start with.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreSQLite, StoreFile:
		if c.StorePath == "" {
			return fmt.Errorf("store %q needs a path", c.StoreBackend)
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("store %q needs a redis address", c.StoreBackend)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("api base url is empty")
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("api timeout must be positive, got %s", c.APITimeout)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
