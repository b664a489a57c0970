package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/logging"
)

// One-shot SQLite backup with retention, meant for cron or a Kubernetes
// CronJob next to the server.
func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}
	logger := baseLogger.With().Str("component", "backup-main").Logger()

	db, err := database.NewDB(cfg.Database, &logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	backup := cfg.Database.Backup
	now := time.Now()
	if _, err := db.Backup(ctx, backup.StoragePath, now); err != nil {
		return err
	}

	retention := time.Duration(backup.RetentionDays) * 24 * time.Hour
	removed, err := database.PruneBackups(backup.StoragePath, retention, now)
	if err != nil {
		logger.Error().Err(err).Msg("failed to prune old backups")
		return err
	}
	logger.Info().Int("removed", removed).Int("retention_days", backup.RetentionDays).Msg("old backups pruned")
	return nil
}
