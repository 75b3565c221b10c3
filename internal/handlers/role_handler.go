package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/indago/internal/models"
	"github.com/ternarybob/indago/internal/services/roles"
)

// RoleHandler handles role requirement management requests
type RoleHandler struct {
	roleService *roles.Service
	logger      arbor.ILogger
}

// NewRoleHandler creates a new RoleHandler
func NewRoleHandler(roleService *roles.Service, logger arbor.ILogger) *RoleHandler {
	return &RoleHandler{
		roleService: roleService,
		logger:      logger,
	}
}

// ListHandler handles GET /api/roles with an optional level filter
func (h *RoleHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		list []*models.RoleRequirement
		err  error
	)
	if level := r.URL.Query().Get("level"); level != "" {
		if !models.IsValidRoleLevel(models.RoleLevel(level)) {
			WriteError(w, http.StatusBadRequest, "Invalid role level: "+level)
			return
		}
		list, err = h.roleService.ListByLevel(ctx, models.RoleLevel(level))
	} else {
		list, err = h.roleService.ListRequirements(ctx)
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list roles")
		WriteError(w, http.StatusInternalServerError, "Failed to list roles")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"roles": list,
		"count": len(list),
	})
}

// GetHandler handles GET /api/roles/{id}
func (h *RoleHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	roleID := PathSuffix(r, "/api/roles/")
	if roleID == "" {
		WriteError(w, http.StatusBadRequest, "Role ID is required")
		return
	}

	role, err := h.roleService.GetRequirement(r.Context(), roleID)
	if err != nil {
		if errors.Is(err, roles.ErrRoleNotFound) {
			WriteError(w, http.StatusNotFound, "Role not found: "+roleID)
			return
		}
		h.logger.Error().Err(err).Str("role", roleID).Msg("Failed to get role")
		WriteError(w, http.StatusInternalServerError, "Failed to get role")
		return
	}

	WriteJSON(w, http.StatusOK, role)
}

// SaveHandler handles POST /api/roles, creating or replacing a requirement
func (h *RoleHandler) SaveHandler(w http.ResponseWriter, r *http.Request) {
	var role models.RoleRequirement
	if err := json.NewDecoder(r.Body).Decode(&role); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := h.roleService.SaveRequirement(r.Context(), &role); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, role)
}

// DeleteHandler handles DELETE /api/roles/{id}
func (h *RoleHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	roleID := PathSuffix(r, "/api/roles/")
	if roleID == "" {
		WriteError(w, http.StatusBadRequest, "Role ID is required")
		return
	}

	if err := h.roleService.DeleteRequirement(r.Context(), roleID); err != nil {
		if errors.Is(err, roles.ErrRoleNotFound) {
			WriteError(w, http.StatusNotFound, "Role not found: "+roleID)
			return
		}
		h.logger.Error().Err(err).Str("role", roleID).Msg("Failed to delete role")
		WriteError(w, http.StatusInternalServerError, "Failed to delete role")
		return
	}

	WriteSuccess(w, "Role deleted")
}
