package handlers

import (
	"encoding/json"
	"net/http"

	"fraudlens/internal/domain/models"
	"fraudlens/internal/domain/services"
	"fraudlens/internal/infrastructure/cache"
	"fraudlens/internal/streaming"
	"fraudlens/pkg/logger"
)

// maximum accepted text length; longer input is truncated, not rejected
const maxTextLength = 10000

// ScoreHandler handles scoring and feedback endpoints
type ScoreHandler struct {
	blender   *services.Blender
	trainer   *services.Trainer
	cache     *cache.RedisCache
	publisher *streaming.EventBusPublisher
	logger    *logger.Logger
}

// NewScoreHandler creates a new ScoreHandler
func NewScoreHandler(blender *services.Blender, trainer *services.Trainer, c *cache.RedisCache, pub *streaming.EventBusPublisher, log *logger.Logger) *ScoreHandler {
	return &ScoreHandler{
		blender:   blender,
		trainer:   trainer,
		cache:     c,
		publisher: pub,
		logger:    log.WithComponent("score-handler"),
	}
}

// Score handles POST /api/v1/score
func (h *ScoreHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req models.ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Text) > maxTextLength {
		req.Text = req.Text[:maxTextLength]
	}
	if req.Priority == "" {
		req.Priority = models.PriorityNormal
	}

	// Channel and locale reach the external classifier, so the same text
	// can legitimately score differently per context; the generation rolls
	// the key whenever an adaptation pass changes the weights
	generation := 0
	if h.trainer != nil {
		generation = h.trainer.Adaptations()
	}
	cacheKey := cache.AssessmentKey(req.Text, string(req.Priority), req.Channel, req.Locale, generation)
	if h.cache != nil {
		var cached models.Assessment
		if err := h.cache.GetCachedAssessment(r.Context(), cacheKey, &cached); err == nil {
			respondJSON(w, http.StatusOK, &cached)
			return
		}
	}

	assessment := h.blender.Score(r.Context(), &req)

	if h.cache != nil {
		if err := h.cache.CacheAssessment(r.Context(), cacheKey, assessment); err != nil {
			h.logger.Debug().Err(err).Msg("failed to cache assessment")
		}
	}
	if h.publisher != nil && assessment.Label == models.LabelScam {
		h.publisher.PublishScore(r.Context(), assessment, req.Channel)
	}

	respondJSON(w, http.StatusOK, assessment)
}

// FeedbackRequest is the body for POST /api/v1/feedback
type FeedbackRequest struct {
	Text       string       `json:"text"`
	Label      models.Label `json:"label"`
	Confidence float64      `json:"confidence"`
}

// Feedback handles POST /api/v1/feedback
func (h *ScoreHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "text is required")
		return
	}
	if req.Label != models.LabelScam && req.Label != models.LabelLegitimate {
		respondError(w, http.StatusBadRequest, "label must be \"scam\" or \"legitimate\"")
		return
	}
	if req.Confidence <= 0 || req.Confidence > 1 {
		req.Confidence = 1.0
	}

	example := h.blender.SubmitFeedback(r.Context(), req.Text, req.Label, req.Confidence)

	respondJSON(w, http.StatusAccepted, map[string]any{
		"id":       example.ID,
		"label":    example.Label,
		"verified": example.Verified,
	})
}
