package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// FeedbackStorage implements the FeedbackStorage interface for Badger.
// The log is append-only: records are saved once and never updated.
type FeedbackStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewFeedbackStorage creates a new FeedbackStorage instance
func NewFeedbackStorage(db *BadgerDB, logger arbor.ILogger) interfaces.FeedbackStorage {
	return &FeedbackStorage{
		db:     db,
		logger: logger,
	}
}

func (s *FeedbackStorage) SaveFeedback(ctx context.Context, record *models.FeedbackRecord) error {
	if record.ID == "" {
		return fmt.Errorf("feedback ID is required")
	}

	if err := s.db.Store().Insert(record.ID, record); err != nil {
		if err == badgerhold.ErrKeyExists {
			return fmt.Errorf("feedback %s already recorded", record.ID)
		}
		return fmt.Errorf("failed to save feedback: %w", err)
	}
	return nil
}

func (s *FeedbackStorage) GetFeedback(ctx context.Context, id string) (*models.FeedbackRecord, error) {
	var record models.FeedbackRecord
	if err := s.db.Store().Get(id, &record); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("feedback not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}
	return &record, nil
}

func (s *FeedbackStorage) GetFeedbackByInsight(ctx context.Context, insightID string) ([]*models.FeedbackRecord, error) {
	var records []models.FeedbackRecord
	query := badgerhold.Where("InsightID").Eq(insightID).SortBy("CreatedAt")
	if err := s.db.Store().Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to get feedback by insight: %w", err)
	}
	return toPointers(records), nil
}

func (s *FeedbackStorage) GetFeedbackByRole(ctx context.Context, roleID string) ([]*models.FeedbackRecord, error) {
	var records []models.FeedbackRecord
	query := badgerhold.Where("RoleID").Eq(roleID).SortBy("CreatedAt")
	if err := s.db.Store().Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to get feedback by role: %w", err)
	}
	return toPointers(records), nil
}

func (s *FeedbackStorage) GetFeedbackSince(ctx context.Context, since time.Time) ([]*models.FeedbackRecord, error) {
	var records []models.FeedbackRecord
	query := badgerhold.Where("CreatedAt").Ge(since).SortBy("CreatedAt")
	if err := s.db.Store().Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to get recent feedback: %w", err)
	}
	return toPointers(records), nil
}

func (s *FeedbackStorage) GetAllFeedback(ctx context.Context) ([]*models.FeedbackRecord, error) {
	var records []models.FeedbackRecord
	query := badgerhold.Where("ID").Ne("").SortBy("CreatedAt")
	if err := s.db.Store().Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}
	return toPointers(records), nil
}

func (s *FeedbackStorage) CountFeedback(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.FeedbackRecord{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count feedback: %w", err)
	}
	return int(count), nil
}

func toPointers(records []models.FeedbackRecord) []*models.FeedbackRecord {
	result := make([]*models.FeedbackRecord, len(records))
	for i := range records {
		result[i] = &records[i]
	}
	return result
}
