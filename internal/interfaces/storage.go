package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/ternarybob/indago/internal/models"
)

// ErrRoleNotFound is returned by RoleStorage when no requirement exists for
// a role id. Callers match it with errors.Is.
var ErrRoleNotFound = errors.New("role not found")

// ListOptions controls pagination for list operations
type ListOptions struct {
	Limit  int
	Offset int
}

// FeedbackStorage - interface for the append-only feedback log.
// Records are never updated or deleted; corrections are new records.
type FeedbackStorage interface {
	// Append operations
	SaveFeedback(ctx context.Context, record *models.FeedbackRecord) error

	// Read operations
	GetFeedback(ctx context.Context, id string) (*models.FeedbackRecord, error)
	GetFeedbackByInsight(ctx context.Context, insightID string) ([]*models.FeedbackRecord, error)
	GetFeedbackByRole(ctx context.Context, roleID string) ([]*models.FeedbackRecord, error)
	GetFeedbackSince(ctx context.Context, since time.Time) ([]*models.FeedbackRecord, error)
	GetAllFeedback(ctx context.Context) ([]*models.FeedbackRecord, error)

	// Stats operations
	CountFeedback(ctx context.Context) (int, error)
}

// CollectionStorage - interface for generated insight collection persistence
type CollectionStorage interface {
	SaveCollection(ctx context.Context, collection *models.InsightCollection) error
	GetCollection(ctx context.Context, id string) (*models.InsightCollection, error)
	GetCollectionsByRole(ctx context.Context, roleID string) ([]*models.InsightCollection, error)
	ListCollections(ctx context.Context, opts *ListOptions) ([]*models.InsightCollection, error)
	DeleteCollection(ctx context.Context, id string) error
	CountCollections(ctx context.Context) (int, error)
}

// RoleStorage - interface for role requirement persistence
type RoleStorage interface {
	SaveRole(ctx context.Context, role *models.RoleRequirement) error
	GetRole(ctx context.Context, roleID string) (*models.RoleRequirement, error)
	GetAllRoles(ctx context.Context) ([]*models.RoleRequirement, error)
	DeleteRole(ctx context.Context, roleID string) error
	CountRoles(ctx context.Context) (int, error)
}

// StorageManager - composite interface for all storage operations
type StorageManager interface {
	FeedbackStorage() FeedbackStorage
	CollectionStorage() CollectionStorage
	RoleStorage() RoleStorage
	LoadRoleDefinitionsFromFiles(ctx context.Context, dirPath string) error
	DB() interface{}
	Close() error
}
