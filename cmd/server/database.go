package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/task-manager-api/internal/config"
	"github.com/phrazzld/task-manager-api/internal/platform/database"
	"github.com/phrazzld/task-manager-api/internal/platform/postgres"
	"github.com/phrazzld/task-manager-api/internal/platform/sqlite"
	"github.com/phrazzld/task-manager-api/internal/redact"
)

// dbConn pairs an open pool with the SQL dialect of its driver.
type dbConn struct {
	db      *sql.DB
	dialect database.Dialect
}

// openDatabase opens and pings the configured database.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (dbConn, error) {
	log = log.With(
		slog.String("component", "database"),
		slog.String("driver", cfg.Driver),
		slog.String("url", redact.URL(cfg.URL)))

	var (
		conn dbConn
		err  error
	)
	switch cfg.Driver {
	case "postgres":
		conn.dialect = postgres.Dialect{}
		conn.db, err = postgres.Open(ctx, cfg)
	case "sqlite":
		conn.dialect = sqlite.Dialect{}
		conn.db, err = sqlite.Open(ctx, cfg)
	default:
		return dbConn{}, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		log.Error("failed to open database", slog.String("error", redact.Error(err)))
		return dbConn{}, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	log.Info("database connection established")
	return conn, nil
}
