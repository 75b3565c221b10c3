package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/indago/internal/common"
)

// ConfigHandler exposes the resolved application configuration
type ConfigHandler struct {
	config *common.Config
	logger arbor.ILogger
}

// NewConfigHandler creates a new ConfigHandler
func NewConfigHandler(config *common.Config, logger arbor.ILogger) *ConfigHandler {
	return &ConfigHandler{
		config: config,
		logger: logger,
	}
}

// GetConfigHandler handles GET /api/config. The configuration carries no
// credentials, so it is returned as-is.
func (h *ConfigHandler) GetConfigHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":    h.config.Environment,
		"production":     h.config.IsProduction(),
		"server":         h.config.Server,
		"storage":        h.config.Storage,
		"logging":        h.config.Logging,
		"analysis":       h.config.Analysis,
		"learning":       h.config.Learning,
		"roles":          h.config.Roles,
		"reports":        h.config.Reports,
		"visualizations": common.GetDefaultVisualizations(),
	})
}
