// Package cli provides common startup utilities shared by the entry point:
// env-file loading, logging, configuration and store initialization.
package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dominosyicem-blip/nakitakisi/internal/config"
	applog "github.com/dominosyicem-blip/nakitakisi/internal/log"
	"github.com/dominosyicem-blip/nakitakisi/internal/storage"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// SetupLogger initializes structured logging at the given level and sets it
// as the process default.
func SetupLogger(cfg *config.Config) *applog.Logger {
	logger := applog.New(applog.Config{
		Level:     cfg.SlogLevel(),
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)
	return logger
}

// InitStore opens the SQLite store at the given path.
// Returns the store or exits the process on failure.
func InitStore(logger *applog.Logger, dbPath string) *storage.SQLiteStore {
	store, err := storage.Open(dbPath)
	if err != nil {
		logger.Error("Failed to open store", applog.FieldError, err, applog.FieldPath, dbPath)
		os.Exit(1)
	}
	return store
}

// OnInterrupt runs cleanup once when SIGINT or SIGTERM arrives, then exits.
func OnInterrupt(cleanup func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cleanup()
		os.Exit(0)
	}()
}
