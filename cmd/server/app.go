package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/task-manager-api/internal/config"
	"github.com/phrazzld/task-manager-api/internal/platform/database"
	"github.com/phrazzld/task-manager-api/internal/platform/metrics"
	"github.com/phrazzld/task-manager-api/internal/service"
)

// application holds the shared dependencies of the running server and
// releases them on shutdown.
type application struct {
	config *config.Config

	logger  *slog.Logger
	db      *sql.DB
	metrics *metrics.Metrics

	taskService service.TaskService
}

// newApplication wires the store, service and metrics around an open
// database connection.
func newApplication(cfg *config.Config, logger *slog.Logger, conn dbConn) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		db:      conn.db,
		metrics: metrics.New(),
	}

	taskStore := database.NewTaskStore(conn.db, conn.dialect, logger)
	taskRepo := service.NewTaskRepositoryAdapter(taskStore, conn.db)

	var err error
	app.taskService, err = service.NewTaskService(taskRepo, app.metrics, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down and releases
// resources.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
