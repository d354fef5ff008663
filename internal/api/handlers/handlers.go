package handlers

import (
	"encoding/json"
	"net/http"

	"fraudlens/internal/config"
	"fraudlens/internal/domain/services"
	"fraudlens/internal/infrastructure/cache"
	"fraudlens/internal/infrastructure/database"
	"fraudlens/internal/infrastructure/database/repository"
	"fraudlens/internal/streaming"
	"fraudlens/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health    *HealthHandler
	Score     *ScoreHandler
	Trends    *TrendsHandler
	Alerts    *AlertsHandler
	Stats     *StatsHandler
	Streaming *StreamingHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Blender   *services.Blender
	Trainer   *services.Trainer
	Catalog   *services.TrendCatalog
	Monitor   *services.AlertMonitor
	Publisher *streaming.EventBusPublisher
	Hub       *streaming.WebSocketHub
	Bus       *streaming.EventBus
	Cache     *cache.RedisCache
	DB        *database.PostgresDB
	Repos     *repository.Repositories
	Config    config.Config
	Logger    *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(deps.Cache, deps.DB, deps.Config, deps.Logger),
		Score:     NewScoreHandler(deps.Blender, deps.Trainer, deps.Cache, deps.Publisher, deps.Logger),
		Trends:    NewTrendsHandler(deps.Catalog, deps.Repos, deps.Publisher, deps.Logger),
		Alerts:    NewAlertsHandler(deps.Monitor, deps.Logger),
		Stats:     NewStatsHandler(deps.Blender, deps.Trainer, deps.Catalog, deps.Monitor, deps.Logger),
		Streaming: NewStreamingHandler(deps.Hub, deps.Bus, deps.Logger),
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
