package handlers

import (
	"net/http"

	"fraudlens/internal/domain/services"
	"fraudlens/pkg/logger"
)

// AlertsHandler handles trend alert endpoints
type AlertsHandler struct {
	monitor *services.AlertMonitor
	logger  *logger.Logger
}

// NewAlertsHandler creates a new AlertsHandler
func NewAlertsHandler(monitor *services.AlertMonitor, log *logger.Logger) *AlertsHandler {
	return &AlertsHandler{
		monitor: monitor,
		logger:  log.WithComponent("alerts-handler"),
	}
}

// Active handles GET /api/v1/alerts/active
func (h *AlertsHandler) Active(w http.ResponseWriter, r *http.Request) {
	alerts := h.monitor.ActiveAlerts()
	respondJSON(w, http.StatusOK, map[string]any{
		"alerts": alerts,
		"total":  len(alerts),
	})
}
