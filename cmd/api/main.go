package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"fraudlens/internal/api"
	"fraudlens/internal/api/handlers"
	"fraudlens/internal/config"
	"fraudlens/internal/domain/services"
	"fraudlens/internal/domain/services/ai"
	"fraudlens/internal/infrastructure/cache"
	"fraudlens/internal/infrastructure/database"
	"fraudlens/internal/infrastructure/database/repository"
	"fraudlens/internal/streaming"
	"fraudlens/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting FraudLens")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize infrastructure
	db, redisCache := initInfrastructure(ctx, cfg, log)
	defer func() {
		if db != nil {
			db.Close()
		}
		if redisCache != nil {
			redisCache.Close()
		}
	}()

	// Initialize repositories
	var repos *repository.Repositories
	if db != nil {
		if err := repository.EnsureSchema(ctx, db.Pool()); err != nil {
			log.Fatal().Err(err).Msg("failed to ensure database schema")
		}
		repos = repository.New(db.Pool())
		log.Info().Msg("repositories initialized with database")
	} else {
		log.Warn().Msg("running without database - state is memory-only")
	}

	// Initialize streaming infrastructure
	var natsPublisher *streaming.NATSPublisher
	if cfg.NATS.Enabled {
		var err error
		natsPublisher, err = streaming.NewNATSPublisher(ctx, cfg.NATS, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to NATS, continuing without distributed streaming")
		} else {
			log.Info().Str("url", cfg.NATS.URL).Msg("connected to NATS")
		}
	}

	eventBus := streaming.NewEventBus(natsPublisher, log)
	log.Info().Bool("nats_enabled", natsPublisher != nil).Msg("event bus initialized")

	wsHub := streaming.NewWebSocketHub(log)
	go wsHub.Run(ctx)

	// Bridge the bus into the hub: local events and events other
	// replicas publish over NATS both reach WebSocket clients this way
	busEvents, unsubscribe := eventBus.Subscribe(ctx, &streaming.Subscription{})
	go func() {
		defer unsubscribe()
		for event := range busEvents {
			wsHub.BroadcastEvent(event)
		}
	}()

	publisher := streaming.NewEventBusPublisher(eventBus)

	// Initialize the scoring pipeline
	extractor := services.NewSignalExtractor(log)
	patterns := services.NewPatternRegistry(log)
	model := services.NewRiskModel(nil, log)

	// Restore the latest weight snapshot, if any
	if repos != nil {
		if snap, err := repos.Weights.Latest(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to load weight snapshot, using defaults")
		} else if snap != nil {
			model.SetWeights(snap.Weights)
			log.Info().
				Int("adaptations", snap.Adaptations).
				Time("saved_at", snap.SavedAt).
				Msg("restored model weights from snapshot")
		}
	}

	// Load the trend catalog: persisted trends when present, seed otherwise
	catalog := buildCatalog(ctx, repos, log)
	matcher := services.NewTrendMatcher(catalog, log)

	var trainerRepo services.TrainingRepository
	if repos != nil {
		trainerRepo = repository.NewTrainerPersistenceAdapter(repos.Training, repos.Weights)
	}
	var adaptLocker services.AdaptLocker
	if redisCache != nil {
		adaptLocker = redisCache
	}
	trainer := services.NewTrainer(model, extractor, patterns, trainerRepo, adaptLocker, cfg.Training, log)

	// Rehydrate the replay window so accuracy and adaptation survive restarts
	if repos != nil {
		if recent, err := repos.Training.ListRecent(ctx, cfg.Training.WindowSize); err != nil {
			log.Warn().Err(err).Msg("failed to load recent training examples")
		} else if len(recent) > 0 {
			// ListRecent returns newest first; the window wants oldest first
			for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
				recent[i], recent[j] = recent[j], recent[i]
			}
			trainer.Restore(recent)
			log.Info().Int("examples", len(recent)).Msg("restored training window from database")
		}
	}

	var external services.ExternalClassifier
	if cfg.External.Enabled {
		external = ai.NewClassifier(cfg.External, log)
		log.Info().Str("base_url", cfg.External.BaseURL).Msg("external classifier enabled")
	}

	blender := services.NewBlender(extractor, patterns, model, matcher, trainer, external, cfg.Scoring, cfg.External, log)

	// Alert monitoring
	monitor := services.NewAlertMonitor(catalog, publisher, cfg.Alerts, log)
	go func() {
		if err := monitor.Run(ctx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("alert monitor stopped with error")
		}
	}()

	// Write-behind snapshots
	if repos != nil {
		snapshotter := services.NewSnapshotter(model, trainer, catalog, repos.Weights, repos.Trends, cfg.Snapshot, log)
		go func() {
			if err := snapshotter.Run(ctx); err != nil && err != context.Canceled {
				log.Error().Err(err).Msg("snapshotter stopped with error")
			}
		}()
	}

	// Initialize handlers
	deps := handlers.Dependencies{
		Blender:   blender,
		Trainer:   trainer,
		Catalog:   catalog,
		Monitor:   monitor,
		Publisher: publisher,
		Hub:       wsHub,
		Bus:       eventBus,
		Cache:     redisCache,
		DB:        db,
		Repos:     repos,
		Config:    *cfg,
		Logger:    log,
	}
	h := handlers.NewHandlers(deps)

	// Create router
	router := api.NewRouter(*cfg, h, redisCache, log)
	httpHandler := router.Setup()

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")

	// Cancel context to stop background services
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	eventBus.Close()

	log.Info().Msg("shutdown complete")
}

// initInfrastructure initializes database and cache connections. Both are
// optional; the service degrades to memory-only operation without them.
func initInfrastructure(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.PostgresDB, *cache.RedisCache) {
	var db *database.PostgresDB
	if cfg.Database.Enabled {
		var err error
		db, err = database.NewPostgres(ctx, cfg.Database, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to PostgreSQL, continuing without database")
			db = nil
		}
	}

	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		var err error
		redisCache, err = cache.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without cache")
			redisCache = nil
		}
	}

	return db, redisCache
}

// buildCatalog restores persisted trends when available and falls back
// to the seed set, persisting it for next time
func buildCatalog(ctx context.Context, repos *repository.Repositories, log *logger.Logger) *services.TrendCatalog {
	if repos != nil {
		persisted, err := repos.Trends.List(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("failed to load persisted trends, using seed catalog")
		} else if len(persisted) > 0 {
			log.Info().Int("trends", len(persisted)).Msg("restored trend catalog from database")
			return services.NewTrendCatalog(persisted, log)
		}
	}

	catalog := services.NewTrendCatalog(nil, log)
	if repos != nil {
		for _, trend := range catalog.List() {
			if err := repos.Trends.Upsert(ctx, trend); err != nil {
				log.Warn().Err(err).Str("trend_id", trend.ID).Msg("failed to persist seed trend")
			}
		}
	}
	log.Info().Int("trends", len(catalog.List())).Msg("trend catalog seeded")
	return catalog
}
