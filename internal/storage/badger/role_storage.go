package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// RoleStorage implements the RoleStorage interface for Badger
type RoleStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewRoleStorage creates a new RoleStorage instance
func NewRoleStorage(db *BadgerDB, logger arbor.ILogger) interfaces.RoleStorage {
	return &RoleStorage{
		db:     db,
		logger: logger,
	}
}

func (s *RoleStorage) SaveRole(ctx context.Context, role *models.RoleRequirement) error {
	if role.RoleID == "" {
		return fmt.Errorf("role ID is required")
	}

	if err := s.db.Store().Upsert(role.RoleID, role); err != nil {
		return fmt.Errorf("failed to save role: %w", err)
	}
	return nil
}

func (s *RoleStorage) GetRole(ctx context.Context, roleID string) (*models.RoleRequirement, error) {
	var role models.RoleRequirement
	if err := s.db.Store().Get(roleID, &role); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("role %s: %w", roleID, interfaces.ErrRoleNotFound)
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	return &role, nil
}

func (s *RoleStorage) GetAllRoles(ctx context.Context) ([]*models.RoleRequirement, error) {
	var roles []models.RoleRequirement
	query := badgerhold.Where("RoleID").Ne("").SortBy("RoleID")
	if err := s.db.Store().Find(&roles, query); err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	result := make([]*models.RoleRequirement, len(roles))
	for i := range roles {
		result[i] = &roles[i]
	}
	return result, nil
}

func (s *RoleStorage) DeleteRole(ctx context.Context, roleID string) error {
	if err := s.db.Store().Delete(roleID, &models.RoleRequirement{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return fmt.Errorf("role %s: %w", roleID, interfaces.ErrRoleNotFound)
		}
		return fmt.Errorf("failed to delete role: %w", err)
	}
	return nil
}

func (s *RoleStorage) CountRoles(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.RoleRequirement{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count roles: %w", err)
	}
	return int(count), nil
}
