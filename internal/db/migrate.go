package db

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"sizewise/pkg/models"
)

// Migrate applies migrations and optional seed files found in the repository.
// It creates a `schema_migrations` table to track applied migrations and applies
// any SQL files in `db/migrations/` that have not yet been recorded. Seed files
// in seedFS are applied idempotently.
func Migrate(ctx context.Context, d *DB, migrationFS embed.FS, seedFS embed.FS) error {
	// ensure migrations table exists
	if _, err := d.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}
	// embedded migrations are provided under "migrations/..." in the top-level db package
	migDir := "migrations"

	entries, err := fs.ReadDir(migrationFS, migDir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	// collect .sql files and sort
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(strings.ToLower(name), ".sql") {
			files = append(files, name)
		}
	}
	sort.Strings(files)

	for _, fname := range files {
		// use filename (without extension) as migration version key
		version := strings.TrimSuffix(fname, path.Ext(fname))

		var count int
		row := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations WHERE version = ?`, version)
		if err := row.Scan(&count); err != nil {
			return fmt.Errorf("scan migration applied count: %w", err)
		}
		if count > 0 {
			// already applied
			continue
		}

		// read and execute migration from embedded FS (use posix path.Join)
		p := path.Join(migDir, fname)
		b, err := fs.ReadFile(migrationFS, p)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", fname, err)
		}
		if _, err := d.Exec(ctx, string(b)); err != nil {
			return fmt.Errorf("exec migration %s: %w", fname, err)
		}

		// record migration
		if _, err := d.Exec(ctx, `INSERT INTO schema_migrations (version, applied) VALUES (?, strftime('%s','now'))`, version); err != nil {
			return fmt.Errorf("record migration %s: %w", fname, err)
		}
	}

	// seed the default shirt size thresholds only when the table is
	// empty, so a user-edited scale survives restarts untouched
	var thresholdCount int
	if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM shirt_size_thresholds`).Scan(&thresholdCount); err != nil {
		return fmt.Errorf("count thresholds: %w", err)
	}
	if thresholdCount == 0 {
		thresholdsPath := path.Join("seed", "thresholds.json")
		if b, err := fs.ReadFile(seedFS, thresholdsPath); err == nil {
			var defaults []models.ShirtSizeThreshold
			if err := json.Unmarshal(b, &defaults); err != nil {
				return fmt.Errorf("decode threshold seed: %w", err)
			}
			for _, t := range defaults {
				if _, err := d.Exec(ctx, `INSERT INTO shirt_size_thresholds (size, threshold_hours) VALUES (?, ?)`, t.Size, t.ThresholdHours); err != nil {
					return fmt.Errorf("seed threshold %s: %w", t.Size, err)
				}
			}
		}
	}

	return nil
}
