package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/indago/internal/models"
	"github.com/ternarybob/indago/internal/services/feedback"
)

// FeedbackHandler handles feedback collection requests
type FeedbackHandler struct {
	feedbackService *feedback.Service
	windowDays      int
	logger          arbor.ILogger
}

// NewFeedbackHandler creates a new FeedbackHandler. windowDays is the
// default trailing window for summaries.
func NewFeedbackHandler(feedbackService *feedback.Service, windowDays int, logger arbor.ILogger) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
		windowDays:      windowDays,
		logger:          logger,
	}
}

// RecordExplicitHandler handles POST /api/feedback/explicit
func (h *FeedbackHandler) RecordExplicitHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}
	h.record(w, r, h.feedbackService.RecordExplicit)
}

// RecordImplicitHandler handles POST /api/feedback/implicit
func (h *FeedbackHandler) RecordImplicitHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}
	h.record(w, r, h.feedbackService.RecordImplicit)
}

type recordFunc func(ctx context.Context, record *models.FeedbackRecord) (*models.FeedbackRecord, error)

func (h *FeedbackHandler) record(w http.ResponseWriter, r *http.Request, save recordFunc) {
	var record models.FeedbackRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	saved, err := save(r.Context(), &record)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusCreated, saved)
}

// ByInsightHandler handles GET /api/feedback/insight/{id}, returning all
// feedback for one insight together with its average explicit rating.
func (h *FeedbackHandler) ByInsightHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	insightID := PathSuffix(r, "/api/feedback/insight/")
	if insightID == "" {
		WriteError(w, http.StatusBadRequest, "Insight ID is required")
		return
	}

	ctx := r.Context()
	records, err := h.feedbackService.GetByInsight(ctx, insightID)
	if err != nil {
		h.logger.Error().Err(err).Str("insight_id", insightID).Msg("Failed to get feedback")
		WriteError(w, http.StatusInternalServerError, "Failed to get feedback")
		return
	}

	avg, rated, err := h.feedbackService.GetAverageRating(ctx, insightID)
	if err != nil {
		h.logger.Error().Err(err).Str("insight_id", insightID).Msg("Failed to compute average rating")
		WriteError(w, http.StatusInternalServerError, "Failed to compute average rating")
		return
	}

	response := map[string]interface{}{
		"insight_id": insightID,
		"feedback":   records,
		"count":      len(records),
	}
	if rated {
		response["average_rating"] = avg
	}
	WriteJSON(w, http.StatusOK, response)
}

// SummaryHandler handles GET /api/feedback/summary?days=30
func (h *FeedbackHandler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	days := GetQueryInt(r, "days", h.windowDays)
	summary, err := h.feedbackService.GetSummary(r.Context(), days)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to build feedback summary")
		WriteError(w, http.StatusInternalServerError, "Failed to build feedback summary")
		return
	}

	WriteJSON(w, http.StatusOK, summary)
}

// EngagementHandler handles GET /api/feedback/engagement, returning the
// insights with the highest implicit engagement.
func (h *FeedbackHandler) EngagementHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	ids, err := h.feedbackService.GetHighEngagementInsights(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to rank engagement")
		WriteError(w, http.StatusInternalServerError, "Failed to rank engagement")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"insight_ids": ids,
		"count":       len(ids),
	})
}
