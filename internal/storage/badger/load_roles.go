package badger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
)

// LoadRoleDefinitionsFromFiles loads role requirements from TOML files in
// the specified directory. Each file holds one RoleRequirement. Invalid
// files are logged and skipped.
func LoadRoleDefinitionsFromFiles(ctx context.Context, roleStorage interfaces.RoleStorage, definitionsDir string, logger arbor.ILogger) error {
	if _, err := os.Stat(definitionsDir); os.IsNotExist(err) {
		logger.Debug().Str("dir", definitionsDir).Msg("Role definitions directory does not exist, skipping")
		return nil
	}

	logger.Info().Str("dir", definitionsDir).Msg("Loading role definitions from files")

	entries, err := os.ReadDir(definitionsDir)
	if err != nil {
		return fmt.Errorf("failed to read role definitions directory: %w", err)
	}

	loadedCount := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".toml" {
			continue
		}

		filePath := filepath.Join(definitionsDir, entry.Name())

		tomlBytes, err := os.ReadFile(filePath)
		if err != nil {
			logger.Warn().Err(err).Str("file", entry.Name()).Msg("Failed to read role definition file")
			continue
		}

		var role models.RoleRequirement
		if err := toml.Unmarshal(tomlBytes, &role); err != nil {
			logger.Warn().Err(err).Str("file", entry.Name()).Msg("Failed to parse role definition TOML")
			continue
		}

		if err := role.Validate(); err != nil {
			logger.Warn().Err(err).Str("file", entry.Name()).Str("role_id", role.RoleID).Msg("Role definition validation failed, skipping")
			continue
		}

		if err := roleStorage.SaveRole(ctx, &role); err != nil {
			logger.Warn().Err(err).Str("file", entry.Name()).Str("role_id", role.RoleID).Msg("Failed to save role definition")
			continue
		}

		logger.Info().
			Str("file", entry.Name()).
			Str("role_id", role.RoleID).
			Str("level", string(role.Level)).
			Msg("Role definition loaded from file")
		loadedCount++
	}

	if loadedCount > 0 {
		logger.Info().Int("count", loadedCount).Msg("Role definitions loaded from files")
	} else {
		logger.Debug().Msg("No role definitions loaded from files")
	}

	return nil
}
