// Command migrate applies the embedded schema migrations to DATABASE_URL.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"layer-backend/config"
	"layer-backend/logging"
	"layer-backend/migrate"

	"go.uber.org/zap"
)

func main() {
	statusOnly := flag.Bool("status", false, "print the current schema version and exit")
	flag.Parse()

	if err := run(context.Background(), *statusOnly); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, statusOnly bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if !statusOnly {
		if err := migrate.Up(ctx, cfg.DatabaseURL); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
	}

	version, err := migrate.Status(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("migrate status: %w", err)
	}
	logger.Info("schema version", zap.Int64("version", version))
	return nil
}
