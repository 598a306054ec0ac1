package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./vecnode.yaml",           // Working directory (highest priority)
	"/etc/vecnode/config.yaml", // System config (lowest priority)
}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	getenv      func(string) string
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		getenv:      os.Getenv,
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. customPath, or the first existing file of ConfigPaths
// 4. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	path := customPath
	if path == "" {
		path = l.findConfigFile()
	} else if err := validateConfigPath(path); err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}
	if path != "" {
		if err := loadFromFile(config, path); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// loadFromFile decodes a YAML file over config. Keys absent from the file keep
// their current values.
func loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated or comes from the fixed search list
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	config.Log.Level = strings.ToLower(strings.TrimSpace(config.Log.Level))
	config.Log.Format = strings.ToLower(strings.TrimSpace(config.Log.Format))
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	// LANCE_DB_PATH is the historical name of the data directory variable;
	// it is applied first so VECNODE_DB_PATH wins when both are set.
	envMappings := []struct {
		name   string
		setter func(string) error
	}{
		{"LANCE_DB_PATH", func(v string) error { config.Storage.Path = v; return nil }},
		{"VECNODE_DB_PATH", func(v string) error { config.Storage.Path = v; return nil }},
		{"VECNODE_DB_FILE", func(v string) error { config.Storage.File = v; return nil }},
		{"VECNODE_BUSY_TIMEOUT", func(v string) error { return parseDuration(v, &config.Storage.BusyTimeout) }},
		{"PORT", func(v string) error { return parseInt(v, &config.Server.Port) }},
		{"VECNODE_HOST", func(v string) error { config.Server.Host = v; return nil }},
		{"VECNODE_SHUTDOWN_TIMEOUT", func(v string) error { return parseDuration(v, &config.Server.ShutdownTimeout) }},
		{"VECNODE_NODE_ID", func(v string) error { config.Node.ID = v; return nil }},
		{"VECNODE_LOG_LEVEL", func(v string) error { config.Log.Level = strings.ToLower(v); return nil }},
		{"VECNODE_LOG_FORMAT", func(v string) error { config.Log.Format = strings.ToLower(v); return nil }},
		{"VECNODE_METRICS_ENABLED", func(v string) error { return parseBool(v, &config.Metrics.Enabled) }},
	}

	for _, m := range envMappings {
		if value := l.getenv(m.name); value != "" {
			if err := m.setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", m.name, err)
			}
		}
	}
	return nil
}

// findConfigFile returns the first existing config file in the search paths
func (l *Loader) findConfigFile() string {
	for _, path := range l.configPaths {
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func parseInt(s string, dst *int) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func parseBool(s string, dst *bool) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
