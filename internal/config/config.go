package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// Database
	DBPath string

	// Autosave recovery file
	AutosavePath string

	// Text export
	ExportDecimals int

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		DBPath:         getEnv("NAKIT_DB_PATH", "./data/nakit.db"),
		AutosavePath:   getEnv("NAKIT_AUTOSAVE_PATH", "./data/autosave.csv"),
		ExportDecimals: getEnvInt("NAKIT_EXPORT_DECIMALS", 2),
		LogLevel:       getEnv("NAKIT_LOG_LEVEL", "info"),
	}
}

// Validate checks the configuration and returns a combined error listing
// everything that is wrong.
func (c *Config) Validate() error {
	var errors []string

	if c.DBPath == "" {
		errors = append(errors, "database path cannot be empty")
	}
	if c.AutosavePath == "" {
		errors = append(errors, "autosave path cannot be empty")
	}
	if c.ExportDecimals < 0 || c.ExportDecimals > 6 {
		errors = append(errors, fmt.Sprintf("invalid export decimals %d: must be between 0 and 6", c.ExportDecimals))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of [debug info warn error]", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// SlogLevel maps the configured level name to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
