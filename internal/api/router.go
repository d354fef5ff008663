package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"fraudlens/internal/api/handlers"
	apimiddleware "fraudlens/internal/api/middleware"
	"fraudlens/internal/config"
	"fraudlens/internal/infrastructure/cache"
	"fraudlens/pkg/logger"
)

// Router holds dependencies for the API router
type Router struct {
	config   config.Config
	handlers *handlers.Handlers
	cache    *cache.RedisCache
	logger   *logger.Logger
}

// NewRouter creates a new Router instance
func NewRouter(cfg config.Config, h *handlers.Handlers, c *cache.RedisCache, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		handlers: h,
		cache:    c,
		logger:   log.WithComponent("router"),
	}
}

// Setup sets up the Chi router with all routes and middleware
func (r *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Core middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(apimiddleware.Logger(r.logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.config.CORS.AllowedOrigins,
		AllowedMethods:   r.config.CORS.AllowedMethods,
		AllowedHeaders:   r.config.CORS.AllowedHeaders,
		AllowCredentials: r.config.CORS.AllowCredentials,
		MaxAge:           r.config.CORS.MaxAge,
	}))

	// Rate limiting
	if r.config.RateLimit.Enabled && r.cache != nil {
		router.Use(apimiddleware.RateLimiter(r.cache, r.config.RateLimit))
	}

	// Health checks
	router.Get("/health", r.handlers.Health.Check)
	router.Get("/ready", r.handlers.Health.Ready)

	// API v1 routes
	router.Route("/api/v1", func(api chi.Router) {
		// Scoring
		api.Post("/score", r.handlers.Score.Score)
		api.Post("/feedback", r.handlers.Score.Feedback)

		// Trend catalog
		api.Route("/trends", func(trends chi.Router) {
			trends.Get("/", r.handlers.Trends.List)
			trends.Get("/search", r.handlers.Trends.Search)
			trends.Post("/events", r.handlers.Trends.ApplyEvent)
			trends.Get("/{id}", r.handlers.Trends.Get)
		})

		// Alerts
		api.Get("/alerts/active", r.handlers.Alerts.Active)

		// Stats
		api.Get("/stats", r.handlers.Stats.Get)
		api.Get("/streaming/stats", r.handlers.Streaming.GetStats)
	})

	// WebSocket streaming endpoint (real-time alert and scoring events)
	router.Get("/ws/events", r.handlers.Streaming.HandleWebSocket)

	return router
}
