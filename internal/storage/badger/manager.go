package badger

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db         *BadgerDB
	feedback   interfaces.FeedbackStorage
	collection interfaces.CollectionStorage
	role       interfaces.RoleStorage
	logger     arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:         db,
		feedback:   NewFeedbackStorage(db, logger),
		collection: NewCollectionStorage(db, logger),
		role:       NewRoleStorage(db, logger),
		logger:     logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// FeedbackStorage returns the feedback log storage interface
func (m *Manager) FeedbackStorage() interfaces.FeedbackStorage {
	return m.feedback
}

// CollectionStorage returns the insight collection storage interface
func (m *Manager) CollectionStorage() interfaces.CollectionStorage {
	return m.collection
}

// RoleStorage returns the role requirement storage interface
func (m *Manager) RoleStorage() interfaces.RoleStorage {
	return m.role
}

// LoadRoleDefinitionsFromFiles loads role requirements from TOML files
func (m *Manager) LoadRoleDefinitionsFromFiles(ctx context.Context, dirPath string) error {
	return LoadRoleDefinitionsFromFiles(ctx, m.role, dirPath, m.logger)
}

// DB returns the underlying database connection
func (m *Manager) DB() interface{} {
	if m.db != nil {
		return m.db.Store()
	}
	return nil
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
