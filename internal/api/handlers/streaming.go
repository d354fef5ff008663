package handlers

import (
	"net/http"

	"fraudlens/internal/streaming"
	"fraudlens/pkg/logger"
)

// StreamingHandler handles the live event feed endpoints
type StreamingHandler struct {
	hub    *streaming.WebSocketHub
	bus    *streaming.EventBus
	logger *logger.Logger
}

// NewStreamingHandler creates a new StreamingHandler
func NewStreamingHandler(hub *streaming.WebSocketHub, bus *streaming.EventBus, log *logger.Logger) *StreamingHandler {
	return &StreamingHandler{
		hub:    hub,
		bus:    bus,
		logger: log.WithComponent("streaming-handler"),
	}
}

// HandleWebSocket handles GET /ws/events
func (h *StreamingHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		respondError(w, http.StatusServiceUnavailable, "streaming not configured")
		return
	}
	h.hub.HandleWebSocket(w, r)
}

// GetStats handles GET /api/v1/streaming/stats
func (h *StreamingHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats := map[string]any{
		"websocket_clients": 0,
		"bus_subscribers":   0,
	}
	if h.hub != nil {
		stats["websocket_clients"] = h.hub.ClientCount()
	}
	if h.bus != nil {
		stats["bus_subscribers"] = h.bus.SubscriberCount()
	}
	respondJSON(w, http.StatusOK, stats)
}
