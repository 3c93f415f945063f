// Package app provides application initialization and dependency injection.
package app

import (
	"context"
	"time"

	"github.com/gan-shmuel/weight-service/config"
	"github.com/gan-shmuel/weight-service/internal/http"
	"github.com/gan-shmuel/weight-service/internal/middleware"
	"github.com/gin-gonic/gin"
)

// App holds the wired router and the resources it owns.
type App struct {
	Router   *gin.Engine
	database *DatabaseComponents
}

// InitializeApp creates and wires all application dependencies.
// This is the main orchestration function that initializes all components.
func InitializeApp(ctx context.Context, cfg config.Config) (*App, error) {
	// Initialize logger first (needed by other components)
	InitializeLogger(cfg.Log)

	// Postgres holds the ledger and the container registry
	db, err := InitializeDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	// Optional MongoDB sink for request and audit logs
	if InitializeLogsSink(ctx, db, cfg.Logs, cfg.Database) {
		middleware.InitAsyncLogger(db.LoggingService, middleware.DefaultAsyncLoggerConfig())
	}

	// Initialize business services
	services := InitializeServices(db, cfg.Batch)

	// Initialize router components (handlers and configuration)
	rc := InitializeRouter(services, db, cfg)

	return &App{
		Router:   http.NewRouter(rc.Handler, rc.HealthHandler, rc.Config),
		database: db,
	}, nil
}

// Close flushes queued log entries and releases the database pools.
func (a *App) Close() {
	middleware.StopAsyncLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.database.Close(ctx)
}
