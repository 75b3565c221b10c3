package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/services/reports"
)

// CollectionHandler handles stored insight collection requests
type CollectionHandler struct {
	collectionStorage interfaces.CollectionStorage
	reportService     *reports.Service
	logger            arbor.ILogger
}

// NewCollectionHandler creates a new CollectionHandler
func NewCollectionHandler(
	collectionStorage interfaces.CollectionStorage,
	reportService *reports.Service,
	logger arbor.ILogger,
) *CollectionHandler {
	return &CollectionHandler{
		collectionStorage: collectionStorage,
		reportService:     reportService,
		logger:            logger,
	}
}

// ListHandler handles GET /api/collections. Accepts limit/offset pagination
// and an optional role filter.
func (h *CollectionHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	ctx := r.Context()

	if roleID := r.URL.Query().Get("role"); roleID != "" {
		collections, err := h.collectionStorage.GetCollectionsByRole(ctx, roleID)
		if err != nil {
			h.logger.Error().Err(err).Str("role", roleID).Msg("Failed to list collections by role")
			WriteError(w, http.StatusInternalServerError, "Failed to list collections")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"collections": collections,
			"count":       len(collections),
		})
		return
	}

	opts := GetListOptions(r)
	collections, err := h.collectionStorage.ListCollections(ctx, opts)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list collections")
		WriteError(w, http.StatusInternalServerError, "Failed to list collections")
		return
	}

	total, err := h.collectionStorage.CountCollections(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to count collections")
		WriteError(w, http.StatusInternalServerError, "Failed to count collections")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"collections": collections,
		"count":       len(collections),
		"total":       total,
		"limit":       opts.Limit,
		"offset":      opts.Offset,
	})
}

// GetHandler handles GET /api/collections/{id}
func (h *CollectionHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	id := PathSuffix(r, "/api/collections/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Collection ID is required")
		return
	}

	collection, err := h.collectionStorage.GetCollection(r.Context(), id)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Collection not found: "+id)
		return
	}

	WriteJSON(w, http.StatusOK, collection)
}

// DeleteHandler handles DELETE /api/collections/{id}
func (h *CollectionHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id := PathSuffix(r, "/api/collections/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Collection ID is required")
		return
	}

	if err := h.collectionStorage.DeleteCollection(r.Context(), id); err != nil {
		h.logger.Error().Err(err).Str("collection_id", id).Msg("Failed to delete collection")
		WriteError(w, http.StatusInternalServerError, "Failed to delete collection")
		return
	}

	WriteSuccess(w, "Collection deleted")
}

// SummaryHandler handles GET /api/collections/{id}/summary, returning the
// natural-language digest of a stored collection.
func (h *CollectionHandler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	id := strings.TrimSuffix(PathSuffix(r, "/api/collections/"), "/summary")
	collection, err := h.collectionStorage.GetCollection(r.Context(), id)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Collection not found: "+id)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"collection_id": collection.ID,
		"summary":       reports.Summary(collection),
	})
}

var reportContentTypes = map[reports.Format]string{
	reports.FormatMarkdown: "text/markdown; charset=utf-8",
	reports.FormatHTML:     "text/html; charset=utf-8",
	reports.FormatPDF:      "application/pdf",
}

// ReportHandler handles GET /api/collections/{id}/report?format=markdown.
// With save=true the report is also written to the output directory and the
// path returned instead of the document body.
func (h *CollectionHandler) ReportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	id := strings.TrimSuffix(PathSuffix(r, "/api/collections/"), "/report")
	collection, err := h.collectionStorage.GetCollection(r.Context(), id)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Collection not found: "+id)
		return
	}

	format := reports.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = reports.FormatMarkdown
	}

	contentType, ok := reportContentTypes[format]
	if !ok {
		WriteError(w, http.StatusBadRequest, "Unsupported report format: "+string(format))
		return
	}

	if r.URL.Query().Get("save") == "true" {
		path, err := h.reportService.Write(collection, format)
		if err != nil {
			h.logger.Error().Err(err).Str("collection_id", id).Msg("Failed to write report")
			WriteError(w, http.StatusInternalServerError, "Failed to write report")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{
			"collection_id": collection.ID,
			"format":        string(format),
			"path":          path,
		})
		return
	}

	content, err := h.reportService.Render(collection, format)
	if err != nil {
		h.logger.Error().Err(err).Str("collection_id", id).Msg("Failed to render report")
		WriteError(w, http.StatusInternalServerError, "Failed to render report")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}
