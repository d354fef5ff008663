package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fraudlens/internal/domain/models"
	"fraudlens/internal/domain/services"
	"fraudlens/internal/infrastructure/database/repository"
	"fraudlens/internal/streaming"
	"fraudlens/pkg/logger"
)

// TrendsHandler handles trend catalog endpoints
type TrendsHandler struct {
	catalog   *services.TrendCatalog
	repos     *repository.Repositories
	publisher *streaming.EventBusPublisher
	logger    *logger.Logger
}

// NewTrendsHandler creates a new TrendsHandler
func NewTrendsHandler(catalog *services.TrendCatalog, repos *repository.Repositories, pub *streaming.EventBusPublisher, log *logger.Logger) *TrendsHandler {
	return &TrendsHandler{
		catalog:   catalog,
		repos:     repos,
		publisher: pub,
		logger:    log.WithComponent("trends-handler"),
	}
}

// List handles GET /api/v1/trends
func (h *TrendsHandler) List(w http.ResponseWriter, r *http.Request) {
	trends := h.catalog.List()
	respondJSON(w, http.StatusOK, map[string]any{
		"trends": trends,
		"total":  len(trends),
	})
}

// Search handles GET /api/v1/trends/search?q=...
func (h *TrendsHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	trends := h.catalog.Search(query)
	respondJSON(w, http.StatusOK, map[string]any{
		"trends": trends,
		"total":  len(trends),
		"query":  query,
	})
}

// Get handles GET /api/v1/trends/{id}
func (h *TrendsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	trend, ok := h.catalog.Get(id)
	if !ok {
		respondError(w, http.StatusNotFound, "trend not found")
		return
	}
	respondJSON(w, http.StatusOK, trend)
}

// ApplyEvent handles POST /api/v1/trends/events
func (h *TrendsHandler) ApplyEvent(w http.ResponseWriter, r *http.Request) {
	var event models.TrendUpdateEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if event.TrendID == "" {
		respondError(w, http.StatusBadRequest, "trend_id is required")
		return
	}

	if err := h.catalog.ApplyUpdate(&event); err != nil {
		if errors.Is(err, services.ErrTrendNotFound) {
			h.logger.Warn().Str("trend_id", event.TrendID).Msg("dropping update for unknown trend")
			respondError(w, http.StatusNotFound, "trend not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to apply update")
		return
	}

	trend, _ := h.catalog.Get(event.TrendID)
	delta, _ := h.catalog.LastDelta(event.TrendID)

	// Persistence and fan-out are best effort; the in-memory catalog is
	// the source of truth
	if h.repos != nil {
		if err := h.repos.Trends.Upsert(r.Context(), trend); err != nil {
			h.logger.Warn().Err(err).Str("trend_id", trend.ID).Msg("failed to persist trend")
		}
	}
	if h.publisher != nil {
		h.publisher.PublishTrendUpdate(r.Context(), trend, delta)
	}

	respondJSON(w, http.StatusOK, trend)
}
