// Package config loads the service configuration from built-in defaults, an
// optional YAML file and environment variables.
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/viant/vecnode/engine"
	"github.com/viant/vecnode/replica"
)

// Config holds the complete application configuration
type Config struct {
	Node    NodeConfig    `yaml:"node" json:"node"`
	Storage StorageConfig `yaml:"storage" json:"storage"`
	Server  ServerConfig  `yaml:"server" json:"server"`
	Log     LogConfig     `yaml:"log" json:"log"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// NodeConfig describes the advertised chain position
type NodeConfig struct {
	ID    string `yaml:"id" json:"id"`
	Role  string `yaml:"role" json:"role"`     // primary|warm|cold
	LagMS int64  `yaml:"lag_ms" json:"lag_ms"` // static, reported by /health
}

// StorageConfig locates the embedded database
type StorageConfig struct {
	Path        string        `yaml:"path" json:"path"`                 // data directory
	File        string        `yaml:"file" json:"file"`                 // database file inside Path
	BusyTimeout time.Duration `yaml:"busy_timeout" json:"busy_timeout"` // wait on locked database
	WAL         bool          `yaml:"wal" json:"wal"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Host            string        `yaml:"host" json:"host"`
	Port            int           `yaml:"port" json:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// LogConfig configures structured logging
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`   // debug|info|warn|error
	Format string `yaml:"format" json:"format"` // json|text
}

// MetricsConfig toggles the /metrics endpoint
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	node := replica.DefaultNode()
	opts := engine.DefaultOptions()
	return &Config{
		Node: NodeConfig{
			ID:    node.ID,
			Role:  string(node.Role),
			LagMS: node.LagMillis(),
		},
		Storage: StorageConfig{
			Path:        "/data/vecdb",
			File:        "vectors.db",
			BusyTimeout: opts.BusyTimeout,
			WAL:         opts.WAL,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if err := c.Replica().Validate(); err != nil {
		return err
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path must be set")
	}
	if c.Storage.File == "" {
		return fmt.Errorf("storage.file must be set")
	}
	if c.Storage.BusyTimeout < 0 {
		return fmt.Errorf("storage.busy_timeout must be non-negative")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s (must be one of: json, text)", c.Log.Format)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.Log.Level)
	}
	return nil
}

// Replica returns the advertised node description.
func (c *Config) Replica() replica.Node {
	return replica.Node{
		ID:   c.Node.ID,
		Role: replica.Role(c.Node.Role),
		Lag:  time.Duration(c.Node.LagMS) * time.Millisecond,
	}
}

// EngineOptions returns the SQLite connection options.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{BusyTimeout: c.Storage.BusyTimeout, WAL: c.Storage.WAL}
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
