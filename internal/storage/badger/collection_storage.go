package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// CollectionStorage implements the CollectionStorage interface for Badger
type CollectionStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewCollectionStorage creates a new CollectionStorage instance
func NewCollectionStorage(db *BadgerDB, logger arbor.ILogger) interfaces.CollectionStorage {
	return &CollectionStorage{
		db:     db,
		logger: logger,
	}
}

func (s *CollectionStorage) SaveCollection(ctx context.Context, collection *models.InsightCollection) error {
	if collection.ID == "" {
		return fmt.Errorf("collection ID is required")
	}

	if err := s.db.Store().Upsert(collection.ID, collection); err != nil {
		return fmt.Errorf("failed to save collection: %w", err)
	}
	return nil
}

func (s *CollectionStorage) GetCollection(ctx context.Context, id string) (*models.InsightCollection, error) {
	var collection models.InsightCollection
	if err := s.db.Store().Get(id, &collection); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("collection not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}
	return &collection, nil
}

func (s *CollectionStorage) GetCollectionsByRole(ctx context.Context, roleID string) ([]*models.InsightCollection, error) {
	var collections []models.InsightCollection
	query := badgerhold.Where("RoleID").Eq(roleID).SortBy("GeneratedAt").Reverse()
	if err := s.db.Store().Find(&collections, query); err != nil {
		return nil, fmt.Errorf("failed to get collections by role: %w", err)
	}
	return collectionPointers(collections), nil
}

func (s *CollectionStorage) ListCollections(ctx context.Context, opts *interfaces.ListOptions) ([]*models.InsightCollection, error) {
	query := badgerhold.Where("ID").Ne("").SortBy("GeneratedAt").Reverse()
	if opts != nil {
		if opts.Limit > 0 {
			query = query.Limit(opts.Limit)
		}
		if opts.Offset > 0 {
			query = query.Skip(opts.Offset)
		}
	}

	var collections []models.InsightCollection
	if err := s.db.Store().Find(&collections, query); err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return collectionPointers(collections), nil
}

func (s *CollectionStorage) DeleteCollection(ctx context.Context, id string) error {
	if err := s.db.Store().Delete(id, &models.InsightCollection{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil
		}
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	return nil
}

func (s *CollectionStorage) CountCollections(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.InsightCollection{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count collections: %w", err)
	}
	return int(count), nil
}

func collectionPointers(collections []models.InsightCollection) []*models.InsightCollection {
	result := make([]*models.InsightCollection, len(collections))
	for i := range collections {
		result[i] = &collections[i]
	}
	return result
}
