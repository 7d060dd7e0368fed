package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/config"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/events"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/blob"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/geocoding"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/postgres"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/service"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/service/auth"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/task"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	services    *service.Set
	jwtService  auth.JWTService
	authService auth.Service

	taskRunner *task.TaskRunner

	// closers run on shutdown in reverse order
	closers []func() error
}

// newApplication creates a new application instance with all dependencies initialized.
// The database connection is owned by the application from here on and is
// closed by cleanup.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (_ *application, err error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}
	defer func() {
		if err != nil {
			app.closeResources()
		}
	}()

	backend, err := blob.NewBackend(ctx, cfg.Blob)
	if err != nil {
		return nil, err
	}
	if c, ok := backend.(interface{ Close() error }); ok {
		app.closers = append(app.closers, c.Close)
	}
	logger.Info("Blob storage initialized", slog.String("provider", cfg.Blob.Provider))

	taskStore := postgres.NewPostgresTaskStore(db)
	emitter := events.NewInMemoryEventEmitter(logger)
	users := postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)

	app.services, err = service.NewSet(service.SetDeps{
		Store:    postgres.NewStore(db, logger),
		Users:    users,
		Blobs:    blob.NewService(backend, logger),
		Geocoder: newGeocoder(cfg.Geocoding, logger),
		Emitter:  emitter,
		Tasks:    taskStore,
	}, logger)
	if err != nil {
		return nil, err
	}

	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.authService, err = auth.NewService(users, app.jwtService, auth.NewBcryptVerifier(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}

	app.taskRunner, err = setupTaskRunner(app, taskStore, emitter)
	if err != nil {
		return nil, fmt.Errorf("failed to setup task runner: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// newGeocoder returns nil when the client cannot be built; toponym imports
// then keep the coordinates found in the archive.
func newGeocoder(cfg config.GeocodingConfig, logger *slog.Logger) geocoding.Geocoder {
	client, err := geocoding.NewClient(geocoding.Config{
		BaseURL:           cfg.BaseURL,
		UserAgent:         cfg.UserAgent,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Timeout:           cfg.Timeout,
	}, logger)
	if err != nil {
		logger.Warn("geocoding disabled", slog.String("error", err.Error()))
		return nil
	}
	return client
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	return app.startHTTPServer(ctx, app.setupRouter())
}

// setupTaskRunner registers the toponym import task with the runner and
// the event emitter, then starts the runner. Starting recovers tasks left
// unfinished by a previous process.
func setupTaskRunner(app *application, store task.TaskStore, emitter *events.InMemoryEventEmitter) (*task.TaskRunner, error) {
	importFactory := task.NewToponymImportTaskFactory(app.services.Toponyms, app.logger)

	registry := task.NewRegistry()
	registry.Register(task.TaskTypeToponymImport, importFactory.Restore)

	runner := task.NewTaskRunner(store, registry, task.TaskRunnerConfig{
		QueueSize:    app.config.Task.QueueSize,
		WorkerCount:  app.config.Task.WorkerCount,
		StuckTaskAge: app.config.Task.StuckTaskAge(),
	}, app.logger)

	handler := task.NewTaskFactoryEventHandler(runner, app.logger)
	handler.Handle(task.TaskTypeToponymImport, importFactory)
	emitter.RegisterHandler(handler)

	if err := runner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}
	return runner, nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
		app.taskRunner = nil
	}

	app.closeResources()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
		app.db = nil
	}

	app.logger.Info("Application shutdown completed")
}

func (app *application) closeResources() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			app.logger.Error("Error closing resource", "error", err)
		}
	}
	app.closers = nil
}
