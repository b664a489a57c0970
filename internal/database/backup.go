package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"shareit/internal/config"
)

const backupPrefix = "shareit_"

// Backup writes a consistent copy of the SQLite database into dir using
// VACUUM INTO and returns the file path. Other drivers have their own
// dump tooling and are rejected.
func (db *DB) Backup(ctx context.Context, dir string, now time.Time) (string, error) {
	if db.driver != config.DriverSQLite {
		return "", fmt.Errorf("backup is only supported for %s, driver is %s", config.DriverSQLite, db.driver)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s%s.db", backupPrefix, now.UTC().Format("20060102_150405")))
	stmt := fmt.Sprintf("VACUUM INTO '%s'", strings.ReplaceAll(path, "'", "''"))
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return "", fmt.Errorf("failed to back up database: %w", err)
	}

	if db.logger != nil {
		db.logger.Info().Str("path", path).Msg("database backup written")
	}
	return path, nil
}

// PruneBackups deletes backups in dir modified before now minus retention
// and returns how many were removed. Unrelated files are left alone.
func PruneBackups(dir string, retention time.Duration, now time.Time) (int, error) {
	if retention <= 0 {
		return 0, nil
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read backup directory: %w", err)
	}

	cutoff := now.Add(-retention)
	removed := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasPrefix(file.Name(), backupPrefix) || filepath.Ext(file.Name()) != ".db" {
			continue
		}
		info, err := file.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(dir, file.Name())); err != nil {
				return removed, fmt.Errorf("failed to delete %s: %w", file.Name(), err)
			}
			removed++
		}
	}
	return removed, nil
}
