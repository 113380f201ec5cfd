package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/banddevs/backend/internal/config"
	"github.com/banddevs/backend/internal/logging"
	"github.com/banddevs/backend/internal/repository"
	"github.com/banddevs/backend/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [command]

Commands:
  (default)   apply pending migrations
  fresh       drop all tables, then apply every migration`)
	os.Exit(1)
}

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	ctx := context.Background()
	db, driver := open(ctx, cfg)
	defer db.Close()

	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "":
	case "fresh":
		slog.Info("dropping all tables", "driver", driver)
		if err := migrations.DropAll(ctx, db, driver); err != nil {
			logging.Fatal("drop all failed", "error", err)
		}
	default:
		usage()
	}

	applied, err := migrations.Apply(ctx, db, driver)
	if err != nil {
		logging.Fatal("migration failed", "error", err)
	}
	if applied == 0 {
		slog.Info("all migrations already applied")
	} else {
		slog.Info("migrations completed", "count", applied)
	}
}

// open returns a database/sql handle for the configured driver and the
// matching migrations directory name.
func open(ctx context.Context, cfg config.Config) (*sql.DB, string) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logging.Fatal("connect failed", "error", err)
		}
		if err := db.PingContext(ctx); err != nil {
			logging.Fatal("connect failed", "error", err)
		}
		return db, migrations.DriverPostgres
	case config.DriverSQLite:
		db, err := repository.OpenSQLite(ctx, cfg.DatabaseURL)
		if err != nil {
			logging.Fatal("connect failed", "error", err)
		}
		return db, migrations.DriverSQLite
	default:
		logging.Fatal("unsupported DB_DRIVER", "driver", cfg.DBDriver)
		return nil, ""
	}
}
