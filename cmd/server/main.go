// Package main implements the entry point for the task manager API server,
// a REST backend for creating, listing, updating and deleting tasks.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/task-manager-api/internal/config"
	"github.com/phrazzld/task-manager-api/internal/platform/database"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
)

// options holds the parsed command-line flags.
type options struct {
	configDir  string
	migrateCmd string
}

// allowedMigrateCommands are the goose commands exposed through -migrate.
var allowedMigrateCommands = map[string]bool{
	"up":      true,
	"down":    true,
	"status":  true,
	"version": true,
	"redo":    true,
	"reset":   true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		slog.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run parses flags, loads configuration and either executes a migration
// command or serves HTTP until ctx is cancelled.
func run(ctx context.Context, args []string, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := config.LoadFrom(opts.configDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_driver", cfg.Database.Driver))

	conn, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}

	if opts.migrateCmd != "" {
		defer func() { _ = conn.db.Close() }()
		return database.Migrate(ctx, conn.db, conn.dialect, opts.migrateCmd)
	}

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, conn.db, conn.dialect, "up"); err != nil {
			_ = conn.db.Close()
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	app, err := newApplication(cfg, log, conn)
	if err != nil {
		_ = conn.db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configDir, "config", ".", "directory containing config.yaml")
	fs.StringVar(&opts.migrateCmd, "migrate", "",
		"run a migration command (up, down, status, version, redo, reset) and exit")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if opts.migrateCmd != "" && !allowedMigrateCommands[opts.migrateCmd] {
		return options{}, fmt.Errorf("unsupported migration command %q", opts.migrateCmd)
	}
	return opts, nil
}
