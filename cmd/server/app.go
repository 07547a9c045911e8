package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/cadell/conjugo-api/internal/catalog"
	"github.com/cadell/conjugo-api/internal/config"
	"github.com/cadell/conjugo-api/internal/domain/srs"
	"github.com/cadell/conjugo-api/internal/family"
	"github.com/cadell/conjugo-api/internal/platform/gemini"
	"github.com/cadell/conjugo-api/internal/platform/postgres"
	"github.com/cadell/conjugo-api/internal/selection"
	"github.com/cadell/conjugo-api/internal/service/practice"
	"github.com/cadell/conjugo-api/internal/store"
)

// application holds the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB // nil when no database is configured

	scheduleStore   store.ScheduleStore
	srsService      srs.Service
	familyEngine    *family.Engine
	selector        *selection.Selector
	practiceService practice.Service
}

// newApplication wires every dependency. A missing database URL degrades to
// a stateless server: drills still work, schedules do not persist. A missing
// Gemini key degrades the adaptive stage to the curriculum recommender.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	if cfg.Database.URL != "" {
		db, err := setupAppDatabase(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to set up database: %w", err)
		}
		app.db = db
		app.scheduleStore = postgres.NewPostgresScheduleStore(db, logger)
	} else {
		logger.Warn("no database configured, running stateless")
		app.scheduleStore = store.NewMemoryScheduleStore()
	}

	app.srsService = srs.NewDefaultService()
	app.familyEngine = family.NewEngine(app.scheduleStore, logger)

	var recommender selection.AdaptiveRecommender
	if cfg.Gemini.APIKey != "" {
		var err error
		recommender, err = gemini.NewRecommender(ctx, logger, cfg.Gemini)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini recommender: %w", err)
		}
		logger.Info("Gemini recommender initialized",
			slog.String("model", cfg.Gemini.ModelName))
	}

	app.selector = selection.NewSelector(selection.SelectorConfig{
		Schedule:    app.scheduleStore,
		Recommender: recommender,
		Logger:      logger,
	})

	generator := catalog.NewStaticCatalog(logger)
	resolver := selection.NewPoolResolver(generator, logger)

	app.practiceService = practice.NewService(
		resolver,
		app.selector,
		app.srsService,
		app.familyEngine,
		app.scheduleStore,
		app.db,
		logger,
	)

	logger.Info("application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}
	app.logger.Info("application shutdown completed")
}
