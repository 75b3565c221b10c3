package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
	"github.com/ternarybob/indago/internal/services/events"
	"github.com/ternarybob/indago/internal/services/insights"
	"github.com/ternarybob/indago/internal/services/roles"
)

// InsightHandler handles insight generation requests
type InsightHandler struct {
	generator         *insights.Service
	roleService       *roles.Service
	collectionStorage interfaces.CollectionStorage
	eventService      interfaces.EventService
	logger            arbor.ILogger
}

// NewInsightHandler creates a new InsightHandler
func NewInsightHandler(
	generator *insights.Service,
	roleService *roles.Service,
	collectionStorage interfaces.CollectionStorage,
	eventService interfaces.EventService,
	logger arbor.ILogger,
) *InsightHandler {
	return &InsightHandler{
		generator:         generator,
		roleService:       roleService,
		collectionStorage: collectionStorage,
		eventService:      eventService,
		logger:            logger,
	}
}

// GenerateRequest is the body of POST /api/insights/generate
type GenerateRequest struct {
	Dataset models.Dataset `json:"dataset"`
	RoleID  string         `json:"role_id,omitempty"`
}

// GenerateHandler handles POST /api/insights/generate. A missing role_id
// generates an unfiltered collection with the default quota.
func (h *InsightHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ctx := r.Context()

	var requirement *models.RoleRequirement
	if req.RoleID != "" {
		var err error
		requirement, err = h.roleService.GetRequirement(ctx, req.RoleID)
		if err != nil {
			if errors.Is(err, roles.ErrRoleNotFound) {
				WriteError(w, http.StatusNotFound, "Role not found: "+req.RoleID)
				return
			}
			h.logger.Error().Err(err).Str("role", req.RoleID).Msg("Failed to load role requirement")
			WriteError(w, http.StatusInternalServerError, "Failed to load role requirement")
			return
		}
	}

	collection, err := h.generator.Generate(&req.Dataset, requirement)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.collectionStorage.SaveCollection(ctx, collection); err != nil {
		h.logger.Error().Err(err).Str("collection_id", collection.ID).Msg("Failed to save collection")
		WriteError(w, http.StatusInternalServerError, "Failed to save collection")
		return
	}

	h.publishGenerated(r, collection)

	WriteJSON(w, http.StatusOK, collection)
}

// publishGenerated uses a background context: the request context ends with
// the response while subscribers may still be running.
func (h *InsightHandler) publishGenerated(r *http.Request, collection *models.InsightCollection) {
	if h.eventService == nil {
		return
	}
	err := h.eventService.Publish(context.Background(), interfaces.Event{
		Type: interfaces.EventInsightsGenerated,
		Payload: events.InsightsGeneratedPayload{
			CollectionID: collection.ID,
			Dataset:      collection.Dataset,
			RoleID:       collection.RoleID,
			InsightCount: len(collection.Insights),
			GeneratedAt:  collection.GeneratedAt,
		},
	})
	if err != nil {
		h.logger.Warn().Err(err).Msg("Failed to publish insights generated event")
	}
}
