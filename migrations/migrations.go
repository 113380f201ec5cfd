// Package migrations embeds the schema for each supported datastore and
// applies it incrementally, tracking applied files in schema_migrations.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Supported drivers. They double as the embedded directory names.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// UpFiles returns the .up.sql file names for driver in apply order.
func UpFiles(driver string) ([]string, error) {
	entries, err := fs.ReadDir(files, driver)
	if err != nil {
		return nil, fmt.Errorf("unknown driver %q: %w", driver, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Apply runs every migration for driver that is not yet recorded and
// returns how many were applied.
func Apply(ctx context.Context, db *sql.DB, driver string) (int, error) {
	upFiles, err := UpFiles(driver)
	if err != nil {
		return 0, err
	}
	if err := ensureSchemaMigrations(ctx, db, driver); err != nil {
		return 0, err
	}

	ph := placeholder(driver)
	applied := 0
	for _, filename := range upFiles {
		name := strings.TrimSuffix(filename, ".up.sql")

		var exists bool
		if err := db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE name = "+ph+")", name,
		).Scan(&exists); err != nil {
			return applied, fmt.Errorf("check migration %s: %w", name, err)
		}
		if exists {
			continue
		}

		body, err := files.ReadFile(path.Join(driver, filename))
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(body)); err != nil {
			return applied, fmt.Errorf("migration %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, "INSERT INTO schema_migrations (name) VALUES ("+ph+")", name); err != nil {
			return applied, fmt.Errorf("record migration %s: %w", name, err)
		}
		applied++
		slog.Info("migration completed", "migration", name, "driver", driver)
	}
	return applied, nil
}

// DropAll removes every table owned by this service.
func DropAll(ctx context.Context, db *sql.DB, driver string) error {
	body, err := files.ReadFile(path.Join(driver, "000_drop_all.sql"))
	if err != nil {
		return fmt.Errorf("read 000_drop_all.sql: %w", err)
	}
	if _, err := db.ExecContext(ctx, string(body)); err != nil {
		return fmt.Errorf("drop all: %w", err)
	}
	return nil
}

func ensureSchemaMigrations(ctx context.Context, db *sql.DB, driver string) error {
	stmt := `CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`
	if driver == DriverSQLite {
		stmt = `CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`
	}
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	return nil
}

func placeholder(driver string) string {
	if driver == DriverPostgres {
		return "$1"
	}
	return "?"
}
