package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taskpilot/taskpilot/internal/auth"
	"github.com/taskpilot/taskpilot/internal/config"
	"github.com/taskpilot/taskpilot/internal/events"
	"github.com/taskpilot/taskpilot/internal/project"
	"github.com/taskpilot/taskpilot/internal/storage/postgres"
	"github.com/taskpilot/taskpilot/internal/storage/sqlite"
	"github.com/taskpilot/taskpilot/internal/task"
)

// App holds all application dependencies.
type App struct {
	Config   *config.Config
	Auth     *auth.Service
	Projects *project.Service
	Tasks    *task.Service

	events   *events.Connection
	consumer *events.Consumer
	ping     func(context.Context) error
	closers  []func() error
}

// NewApp wires storage, services and the optional event broker. With
// DATABASE_URL set it runs against Postgres; otherwise it falls back to the
// embedded SQLite database.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	var (
		userRepo    auth.Repository
		projectRepo project.Repository
		taskRepo    task.Repository
	)

	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL, cfg.DatabaseName)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		userRepo = postgres.NewUserStore(db)
		projectRepo = postgres.NewProjectStore(db)
		taskRepo = postgres.NewTaskStore(db)
		app.ping = db.Pool.Ping
		app.closers = append(app.closers, func() error {
			db.Close()
			return nil
		})
		slog.Info("storage ready", "backend", "postgres")
	} else {
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		userRepo = sqlite.NewUserStore(db)
		projectRepo = sqlite.NewProjectStore(db)
		taskRepo = sqlite.NewTaskStore(db)
		app.ping = db.PingContext
		app.closers = append(app.closers, db.Close)
		slog.Info("storage ready", "backend", "sqlite", "path", cfg.SQLitePath)
	}

	var publisher *events.Publisher
	if cfg.AMQPURL != "" {
		conn, err := events.NewConnection(cfg.AMQPURL)
		if err != nil {
			// Events are fire-and-forget; a dead broker must not keep the
			// API from serving.
			slog.Warn("event broker unavailable, continuing without events", "error", err)
		} else {
			app.events = conn
			app.closers = append(app.closers, conn.Close)
			publisher = events.NewPublisher(conn)

			app.consumer = events.NewConsumer(conn, events.LogActivity, 2)
			if err := app.consumer.Start(ctx); err != nil {
				slog.Warn("activity consumer failed to start", "error", err)
				app.consumer = nil
			}
		}
	}

	maxAge := time.Duration(cfg.SessionMaxAge) * time.Second
	app.Auth = auth.NewService(userRepo, auth.NewMemoryStore(), publisher, maxAge)
	app.Projects = project.NewService(projectRepo, publisher, cfg.CascadeDelete)
	app.Tasks = task.NewService(taskRepo, projectRepo, publisher)

	return app, nil
}

// Ping reports storage health for readiness checks.
func (a *App) Ping(ctx context.Context) error {
	return a.ping(ctx)
}

// Close releases application resources in reverse construction order.
func (a *App) Close() error {
	if a.consumer != nil {
		a.consumer.Stop()
	}

	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
