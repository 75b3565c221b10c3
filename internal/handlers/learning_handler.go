package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/services/feedback"
	"github.com/ternarybob/indago/internal/services/learning"
)

// LearningHandler handles learning engine requests
type LearningHandler struct {
	engine          *learning.Engine
	feedbackService *feedback.Service
	config          common.LearningConfig
	logger          arbor.ILogger
}

// NewLearningHandler creates a new LearningHandler
func NewLearningHandler(
	engine *learning.Engine,
	feedbackService *feedback.Service,
	config common.LearningConfig,
	logger arbor.ILogger,
) *LearningHandler {
	return &LearningHandler{
		engine:          engine,
		feedbackService: feedbackService,
		config:          config,
		logger:          logger,
	}
}

// MetricsHandler handles GET /api/learning/metrics
func (h *LearningHandler) MetricsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	metrics, err := h.engine.GetMetrics(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to compute learning metrics")
		WriteError(w, http.StatusInternalServerError, "Failed to compute learning metrics")
		return
	}

	WriteJSON(w, http.StatusOK, metrics)
}

// StateHandler handles GET /api/learning/state, returning the learned
// weights and role preferences
func (h *LearningHandler) StateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, h.engine.State())
}

// HistoryHandler handles GET /api/learning/history
func (h *LearningHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	history := h.engine.History()
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"actions": history,
		"count":   len(history),
	})
}

// AdaptHandler handles POST /api/learning/adapt, running an adaptation pass
// immediately and returning the applied actions
func (h *LearningHandler) AdaptHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	actions, err := h.engine.Adapt(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Adaptation pass failed")
		WriteError(w, http.StatusInternalServerError, "Adaptation pass failed")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"actions": actions,
		"count":   len(actions),
	})
}

// RecommendRequest is the body of POST /api/learning/recommend
type RecommendRequest struct {
	RoleID     string   `json:"role_id"`
	InsightIDs []string `json:"insight_ids"`
}

// RecommendHandler handles POST /api/learning/recommend, reordering insight
// ids by the role's learned preferences
func (h *LearningHandler) RecommendHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.RoleID == "" {
		WriteError(w, http.StatusBadRequest, "role_id is required")
		return
	}

	ordered := h.engine.RecommendForRole(req.RoleID, req.InsightIDs)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"role_id":     req.RoleID,
		"insight_ids": ordered,
	})
}

// SuggestionsHandler handles GET /api/learning/suggestions, deriving
// operator-facing improvement suggestions from the feedback picture
func (h *LearningHandler) SuggestionsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	ctx := r.Context()
	lowRated, err := h.feedbackService.GetLowRatedInsights(ctx, h.config.LowRatingThreshold)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to find low-rated insights")
		WriteError(w, http.StatusInternalServerError, "Failed to find low-rated insights")
		return
	}

	suggestions, err := h.engine.ImprovementSuggestions(ctx, lowRated)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to derive suggestions")
		WriteError(w, http.StatusInternalServerError, "Failed to derive suggestions")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"low_rated_insights": lowRated,
		"suggestions":        suggestions,
	})
}
