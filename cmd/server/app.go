package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexday/lexday-api/internal/config"
	"github.com/lexday/lexday-api/internal/domain/srs"
	"github.com/lexday/lexday-api/internal/generation"
	"github.com/lexday/lexday-api/internal/platform/gemini"
	"github.com/lexday/lexday-api/internal/platform/memstore"
	"github.com/lexday/lexday-api/internal/platform/postgres"
	"github.com/lexday/lexday-api/internal/platform/remote"
	"github.com/lexday/lexday-api/internal/service/auth"
	"github.com/lexday/lexday-api/internal/service/review"
	"github.com/lexday/lexday-api/internal/service/session"
	syncsvc "github.com/lexday/lexday-api/internal/service/sync"
	"github.com/lexday/lexday-api/internal/service/words"
	"github.com/lexday/lexday-api/internal/store"
)

// application holds all initialized components of the server: configuration,
// storage, and the services behind the HTTP API. It is assembled once at
// startup and torn down by cleanup.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil when running on the in-memory backend.
	db *sql.DB

	wordStore      store.WordStore
	scheduleStore  store.ScheduleStore
	cycleStore     store.CycleStateStore
	reviewLogStore store.ReviewLogStore
	transactor     store.Transactor

	jwtService     auth.JWTService
	wordService    words.WordService
	reviewService  review.ReviewService
	sessionService session.SessionService

	// syncService is nil when no remote URL is configured.
	syncService syncsvc.SyncService
}

// newApplication wires up stores and services for the configured storage
// backend. Postgres gets real SQL transactions; the memory backend serializes
// writes behind a single lock instead.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	app := &application{
		config: cfg,
		logger: logger,
	}

	switch cfg.Database.Backend {
	case config.BackendPostgres:
		db, err := initDatabase(cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		app.db = db
		app.wordStore = postgres.NewPostgresWordStore(db, logger)
		app.scheduleStore = postgres.NewPostgresScheduleStore(db, logger)
		app.cycleStore = postgres.NewPostgresCycleStateStore(db, logger)
		app.reviewLogStore = postgres.NewPostgresReviewLogStore(db, logger)
		app.transactor = store.NewSQLTransactor(db)
		logger.Info("using postgres storage backend")

	case config.BackendMemory:
		wordStore := memstore.NewWordStore()
		scheduleStore := memstore.NewScheduleStore(wordStore)
		cycleStore := memstore.NewCycleStateStore()
		reviewLogStore := memstore.NewReviewLogStore()
		app.wordStore = wordStore
		app.scheduleStore = scheduleStore
		app.cycleStore = cycleStore
		app.reviewLogStore = reviewLogStore
		app.transactor = memstore.NewTransactor(wordStore, scheduleStore, cycleStore, reviewLogStore)
		logger.Warn("using in-memory storage backend, all data is lost on shutdown")

	default:
		return nil, fmt.Errorf("unknown database backend %q", cfg.Database.Backend)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		app.closeDatabase()
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	app.jwtService = jwtService

	params := srs.NewParams(srs.ParamsConfig{
		MorningFailedChunk: cfg.Study.MorningFailedChunk,
		EveningQueueCap:    cfg.Study.EveningQueueCap,
		MaxNewPerStudyDay:  cfg.Study.MaxNewPerStudyDay,
	})

	var generator generation.Generator
	if cfg.LLM.GeminiAPIKey != "" {
		geminiGenerator, err := gemini.NewGeminiGenerator(ctx, logger, cfg.LLM)
		if err != nil {
			app.closeDatabase()
			return nil, fmt.Errorf("failed to create note generator: %w", err)
		}
		generator = geminiGenerator
		logger.Info("word note enrichment enabled", "model", cfg.LLM.ModelName)
	} else {
		logger.Info("word note enrichment disabled, no API key configured")
	}

	app.wordService = words.NewWordService(
		app.transactor, app.wordStore, app.scheduleStore, app.cycleStore,
		generator, params, logger)
	app.reviewService = review.NewReviewService(
		app.transactor, app.scheduleStore, app.cycleStore, app.reviewLogStore,
		params, logger)
	app.sessionService = session.NewSessionService(
		app.transactor, app.scheduleStore, app.cycleStore, params, logger)

	if cfg.Sync.RemoteURL != "" {
		remoteClient, err := remote.NewHTTPClient(
			cfg.Sync.RemoteURL,
			time.Duration(cfg.Sync.TimeoutSeconds)*time.Second,
			logger)
		if err != nil {
			app.closeDatabase()
			return nil, fmt.Errorf("failed to create sync remote client: %w", err)
		}
		app.syncService = syncsvc.NewSyncService(
			app.transactor, app.wordStore, app.scheduleStore, app.cycleStore,
			remoteClient, params, logger)
		logger.Info("sync enabled", "remote_url", cfg.Sync.RemoteURL)
	} else {
		logger.Info("sync disabled, no remote URL configured")
	}

	return app, nil
}

// Run starts the HTTP server and blocks until shutdown completes.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()
	return app.startServer(ctx, router)
}

// cleanup releases resources in reverse dependency order. It is called after
// the HTTP server has stopped accepting requests.
func (app *application) cleanup() {
	if app.syncService != nil {
		app.syncService.Stop()
	}
	app.closeDatabase()
}

func (app *application) closeDatabase() {
	if app.db == nil {
		return
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn("failed to close database connection", "error", err)
	}
	app.db = nil
}
