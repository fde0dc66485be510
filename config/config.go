package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Shell     ShellConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP and websocket configuration.
type ServerConfig struct {
	Host string `envconfig:"JSH_HOST" default:"0.0.0.0"`
	Port int    `envconfig:"JSH_PORT" default:"1234"`
	// ConnectionTimeout is the idle websocket timeout in minutes.
	ConnectionTimeout int      `envconfig:"JSH_CONNECTION_TIMEOUT" default:"1"`
	CORSOrigins       []string `envconfig:"JSH_CORS_ORIGINS" default:"*"`
}

// ShellConfig holds the virtual shell configuration.
type ShellConfig struct {
	Profile string `envconfig:"JSH_PROFILE" default:"jack"`
	// Snapshot is a YAML or JSON tree file. Empty means the embedded default.
	Snapshot         string `envconfig:"JSH_SNAPSHOT"`
	StrictSeparators bool   `envconfig:"JSH_STRICT_SEPARATORS" default:"false"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig bounds the messages a single websocket connection may send.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"JSH_RATE_LIMIT_RPS" default:"20"`
	Burst             int  `envconfig:"JSH_RATE_LIMIT_BURST" default:"40"`
	Enabled           bool `envconfig:"JSH_RATE_LIMIT_ENABLED" default:"true"`
}

// Addr is the listen address.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c ServerConfig) IdleTimeout() time.Duration {
	return time.Duration(c.ConnectionTimeout) * time.Minute
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Server.ConnectionTimeout <= 0 {
		return nil, fmt.Errorf("failed to load config: JSH_CONNECTION_TIMEOUT must be positive, got %d", cfg.Server.ConnectionTimeout)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              1234,
			ConnectionTimeout: 1,
			CORSOrigins:       []string{"*"},
		},
		Shell: ShellConfig{
			Profile: "jack",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 20,
			Burst:             40,
			Enabled:           true,
		},
	}
}
