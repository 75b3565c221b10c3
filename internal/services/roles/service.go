// Package roles manages the catalog of role requirement profiles that drive
// insight filtering. Built-in roles are seeded at startup; additional roles
// come from TOML definition files or the API.
package roles

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
)

// ErrRoleNotFound is re-exported so callers do not need to import the
// storage interfaces to match it
var ErrRoleNotFound = interfaces.ErrRoleNotFound

// Service provides role requirement lookup and management
type Service struct {
	storage interfaces.RoleStorage
	logger  arbor.ILogger
}

// NewService creates a new role catalog service
func NewService(storage interfaces.RoleStorage, logger arbor.ILogger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// EnsureBuiltins stores any built-in role that is not already present.
// Existing roles are left untouched so file or API edits survive restarts.
func (s *Service) EnsureBuiltins(ctx context.Context) error {
	seeded := 0
	for _, role := range BuiltinRequirements() {
		_, err := s.storage.GetRole(ctx, role.RoleID)
		if err == nil {
			continue
		}
		if !errors.Is(err, interfaces.ErrRoleNotFound) {
			return fmt.Errorf("failed to check role %s: %w", role.RoleID, err)
		}
		if err := s.storage.SaveRole(ctx, role); err != nil {
			return fmt.Errorf("failed to seed role %s: %w", role.RoleID, err)
		}
		seeded++
	}

	if seeded > 0 {
		s.logger.Info().Int("count", seeded).Msg("Built-in roles seeded")
	}
	return nil
}

// GetRequirement returns the requirement profile for a role id. Returns
// ErrRoleNotFound when the role does not exist.
func (s *Service) GetRequirement(ctx context.Context, roleID string) (*models.RoleRequirement, error) {
	role, err := s.storage.GetRole(ctx, roleID)
	if err != nil {
		if errors.Is(err, interfaces.ErrRoleNotFound) {
			return nil, fmt.Errorf("role %s: %w", roleID, ErrRoleNotFound)
		}
		return nil, fmt.Errorf("failed to get role %s: %w", roleID, err)
	}
	return role, nil
}

// ListRequirements returns all known role requirements
func (s *Service) ListRequirements(ctx context.Context) ([]*models.RoleRequirement, error) {
	roles, err := s.storage.GetAllRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

// ListByLevel returns the requirements at one organizational level
func (s *Service) ListByLevel(ctx context.Context, level models.RoleLevel) ([]*models.RoleRequirement, error) {
	all, err := s.storage.GetAllRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	var matched []*models.RoleRequirement
	for _, role := range all {
		if role.Level == level {
			matched = append(matched, role)
		}
	}
	return matched, nil
}

// SaveRequirement validates and stores a role requirement, creating or
// replacing it
func (s *Service) SaveRequirement(ctx context.Context, role *models.RoleRequirement) error {
	if err := role.Validate(); err != nil {
		return fmt.Errorf("invalid role requirement: %w", err)
	}

	if role.CreatedAt.IsZero() {
		role.CreatedAt = time.Now()
	}
	role.UpdatedAt = time.Now()

	if err := s.storage.SaveRole(ctx, role); err != nil {
		return fmt.Errorf("failed to save role %s: %w", role.RoleID, err)
	}

	s.logger.Info().
		Str("role", role.RoleID).
		Str("level", string(role.Level)).
		Msg("Role requirement saved")
	return nil
}

// DeleteRequirement removes a role requirement
func (s *Service) DeleteRequirement(ctx context.Context, roleID string) error {
	if err := s.storage.DeleteRole(ctx, roleID); err != nil {
		if errors.Is(err, interfaces.ErrRoleNotFound) {
			return fmt.Errorf("role %s: %w", roleID, ErrRoleNotFound)
		}
		return fmt.Errorf("failed to delete role %s: %w", roleID, err)
	}

	s.logger.Info().Str("role", roleID).Msg("Role requirement deleted")
	return nil
}
