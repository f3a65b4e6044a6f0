// Package cli provides the shared initialization steps of the application
// entrypoint: environment loading, logging, configuration and storage setup,
// and graceful shutdown wiring.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"expensetracker/internal/config"
	applog "expensetracker/internal/log"
	"expensetracker/internal/storage"
)

// LoadEnvFile loads a .env file for local development. A missing file is not
// an error; production deployments configure through real environment
// variables.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the application logger at the given level and installs
// it as the process default.
func SetupLogger(level string) *applog.Logger {
	parsed, err := config.ParseLevel(level)
	if err != nil {
		parsed = 0 // info
	}
	logger := applog.New(applog.Config{Level: parsed})
	applog.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration from the environment and exits
// the process when it is invalid.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitStorage opens the SQLite repository and runs migrations, exiting the
// process on failure.
func InitStorage(logger *applog.Logger, dbPath string) *storage.Repository {
	repo, err := storage.New(dbPath)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return repo
}

// GracefulShutdown installs SIGINT/SIGTERM handling. The returned context is
// cancelled when a signal arrives; cleanup then runs with the given timeout
// and done is closed once it finished.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func(ctx context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("shutdown signal received", "signal", sig.String())
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()
		cleanup(shutdownCtx)
		close(done)
	}()

	return ctx, done
}
