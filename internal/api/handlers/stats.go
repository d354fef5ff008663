package handlers

import (
	"net/http"
	"time"

	"fraudlens/internal/domain/services"
	"fraudlens/pkg/logger"
)

// StatsHandler handles the public stats endpoint
type StatsHandler struct {
	blender *services.Blender
	trainer *services.Trainer
	catalog *services.TrendCatalog
	monitor *services.AlertMonitor
	logger  *logger.Logger
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(
	blender *services.Blender,
	trainer *services.Trainer,
	catalog *services.TrendCatalog,
	monitor *services.AlertMonitor,
	log *logger.Logger,
) *StatsHandler {
	return &StatsHandler{
		blender: blender,
		trainer: trainer,
		catalog: catalog,
		monitor: monitor,
		logger:  log.WithComponent("stats-handler"),
	}
}

// Get handles GET /api/v1/stats
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"scoring":       h.blender.Stats(),
		"training":      h.trainer.Stats(),
		"trends":        len(h.catalog.List()),
		"active_alerts": len(h.monitor.ActiveAlerts()),
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	})
}
