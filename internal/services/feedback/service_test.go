package feedback

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
)

// MockFeedbackStorage is a mock implementation of FeedbackStorage
type MockFeedbackStorage struct {
	mock.Mock
}

func (m *MockFeedbackStorage) SaveFeedback(ctx context.Context, record *models.FeedbackRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockFeedbackStorage) GetFeedback(ctx context.Context, id string) (*models.FeedbackRecord, error) {
	args := m.Called(ctx, id)
	if record, ok := args.Get(0).(*models.FeedbackRecord); ok {
		return record, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFeedbackStorage) GetFeedbackByInsight(ctx context.Context, insightID string) ([]*models.FeedbackRecord, error) {
	args := m.Called(ctx, insightID)
	if records, ok := args.Get(0).([]*models.FeedbackRecord); ok {
		return records, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFeedbackStorage) GetFeedbackByRole(ctx context.Context, roleID string) ([]*models.FeedbackRecord, error) {
	args := m.Called(ctx, roleID)
	if records, ok := args.Get(0).([]*models.FeedbackRecord); ok {
		return records, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFeedbackStorage) GetFeedbackSince(ctx context.Context, since time.Time) ([]*models.FeedbackRecord, error) {
	args := m.Called(ctx, since)
	if records, ok := args.Get(0).([]*models.FeedbackRecord); ok {
		return records, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFeedbackStorage) GetAllFeedback(ctx context.Context) ([]*models.FeedbackRecord, error) {
	args := m.Called(ctx)
	if records, ok := args.Get(0).([]*models.FeedbackRecord); ok {
		return records, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFeedbackStorage) CountFeedback(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockEventService is a mock implementation of EventService
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) Subscribe(eventType interfaces.EventType, handler interfaces.EventHandler) error {
	args := m.Called(eventType, handler)
	return args.Error(0)
}

func (m *MockEventService) Unsubscribe(eventType interfaces.EventType, handler interfaces.EventHandler) error {
	args := m.Called(eventType, handler)
	return args.Error(0)
}

func (m *MockEventService) Publish(ctx context.Context, event interfaces.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventService) PublishSync(ctx context.Context, event interfaces.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventService) Close() error {
	args := m.Called()
	return args.Error(0)
}

func explicitRecord(insightID string, rating int) *models.FeedbackRecord {
	return &models.FeedbackRecord{
		InsightID: insightID,
		Type:      models.FeedbackExplicit,
		Rating:    rating,
	}
}

func implicitRecord(insightID string, viewSeconds float64, clicked, drilled, shared bool) *models.FeedbackRecord {
	return &models.FeedbackRecord{
		InsightID:   insightID,
		Type:        models.FeedbackImplicit,
		ViewSeconds: viewSeconds,
		Clicked:     clicked,
		DrilledDown: drilled,
		Shared:      shared,
	}
}

func TestRecordExplicit(t *testing.T) {
	storage := new(MockFeedbackStorage)
	events := new(MockEventService)
	service := NewService(storage, events, arbor.NewLogger())

	storage.On("SaveFeedback", mock.Anything, mock.AnythingOfType("*models.FeedbackRecord")).Return(nil)
	events.On("Publish", mock.Anything, mock.MatchedBy(func(e interfaces.Event) bool {
		return e.Type == interfaces.EventFeedbackRecorded
	})).Return(nil)

	record, err := service.RecordExplicit(context.Background(), explicitRecord("trend_1a2b3c4d", 5))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(record.ID, "fb_"))
	assert.False(t, record.CreatedAt.IsZero())
	storage.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestRecordExplicitInvalidRating(t *testing.T) {
	storage := new(MockFeedbackStorage)
	service := NewService(storage, nil, arbor.NewLogger())

	_, err := service.RecordExplicit(context.Background(), explicitRecord("trend_1a2b3c4d", 9))
	assert.Error(t, err)
	storage.AssertNotCalled(t, "SaveFeedback", mock.Anything, mock.Anything)
}

func TestRecordExplicitEmptyPayload(t *testing.T) {
	storage := new(MockFeedbackStorage)
	service := NewService(storage, nil, arbor.NewLogger())

	_, err := service.RecordExplicit(context.Background(), &models.FeedbackRecord{InsightID: "trend_1a2b3c4d"})
	assert.Error(t, err, "explicit feedback without rating, flag or comment must be rejected")
}

func TestRecordImplicitNegativeViewTime(t *testing.T) {
	storage := new(MockFeedbackStorage)
	service := NewService(storage, nil, arbor.NewLogger())

	_, err := service.RecordImplicit(context.Background(), implicitRecord("trend_1a2b3c4d", -5, false, false, false))
	assert.Error(t, err)
}

func TestGetAverageRating(t *testing.T) {
	storage := new(MockFeedbackStorage)
	service := NewService(storage, nil, arbor.NewLogger())

	records := []*models.FeedbackRecord{
		explicitRecord("trend_1a2b3c4d", 5),
		explicitRecord("trend_1a2b3c4d", 3),
		// Implicit records carry no rating and must not dilute the mean
		implicitRecord("trend_1a2b3c4d", 30, true, false, false),
	}
	storage.On("GetFeedbackByInsight", mock.Anything, "trend_1a2b3c4d").Return(records, nil)

	avg, ok, err := service.GetAverageRating(context.Background(), "trend_1a2b3c4d")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 4.0, avg, 1e-9)
}

func TestGetAverageRatingNoRatings(t *testing.T) {
	storage := new(MockFeedbackStorage)
	service := NewService(storage, nil, arbor.NewLogger())

	storage.On("GetFeedbackByInsight", mock.Anything, "anomaly_9f8e7d6c").
		Return([]*models.FeedbackRecord{implicitRecord("anomaly_9f8e7d6c", 20, false, false, false)}, nil)

	_, ok, err := service.GetAverageRating(context.Background(), "anomaly_9f8e7d6c")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetSummary(t *testing.T) {
	storage := new(MockFeedbackStorage)
	service := NewService(storage, nil, arbor.NewLogger())

	records := []*models.FeedbackRecord{
		explicitRecord("a", 5),
		explicitRecord("b", 4),
		explicitRecord("c", 2),
		explicitRecord("d", 1),
		implicitRecord("e", 60, true, true, false),
	}
	records[0].Comment = "useful"
	storage.On("GetFeedbackSince", mock.Anything, mock.AnythingOfType("time.Time")).Return(records, nil)

	summary, err := service.GetSummary(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 5, summary.TotalFeedback)
	assert.InDelta(t, 3.0, summary.AverageRating, 1e-9)
	assert.InDelta(t, 0.5, summary.PositiveRate, 1e-9)
	assert.InDelta(t, 0.5, summary.NegativeRate, 1e-9)
	assert.Equal(t, []string{"useful"}, summary.Comments)
	assert.True(t, strings.HasPrefix(summary.ID, "sum_"))
}

func TestGetSummaryEmpty(t *testing.T) {
	storage := new(MockFeedbackStorage)
	service := NewService(storage, nil, arbor.NewLogger())

	storage.On("GetFeedbackSince", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]*models.FeedbackRecord{}, nil)

	summary, err := service.GetSummary(context.Background(), 30)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalFeedback)
	assert.Zero(t, summary.AverageRating)
}

func TestGetLowRatedInsights(t *testing.T) {
	storage := new(MockFeedbackStorage)
	service := NewService(storage, nil, arbor.NewLogger())

	records := []*models.FeedbackRecord{
		explicitRecord("good", 5),
		explicitRecord("good", 4),
		explicitRecord("bad", 2),
		explicitRecord("bad", 1),
		explicitRecord("borderline", 3),
	}
	storage.On("GetAllFeedback", mock.Anything).Return(records, nil)

	lowRated, err := service.GetLowRatedInsights(context.Background(), 3.0)
	require.NoError(t, err)
	assert.Equal(t, []string{"bad"}, lowRated)
}

func TestGetHighEngagementInsights(t *testing.T) {
	storage := new(MockFeedbackStorage)
	service := NewService(storage, nil, arbor.NewLogger())

	records := []*models.FeedbackRecord{
		// shared + drilled: 60/10 + 3 + 5 = 14
		implicitRecord("hot", 60, false, true, true),
		// clicked only: 10/10 + 2 = 3
		implicitRecord("warm", 10, true, false, false),
		// view only: 5/10 = 0.5
		implicitRecord("cold", 5, false, false, false),
		// explicit record must be ignored by engagement ranking
		explicitRecord("hot", 1),
	}
	storage.On("GetAllFeedback", mock.Anything).Return(records, nil)

	ranked, err := service.GetHighEngagementInsights(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"hot", "warm", "cold"}, ranked)
}

func TestGetHighEngagementInsightsCap(t *testing.T) {
	storage := new(MockFeedbackStorage)
	service := NewService(storage, nil, arbor.NewLogger())

	var records []*models.FeedbackRecord
	for i := 0; i < 15; i++ {
		records = append(records, implicitRecord(string(rune('a'+i)), float64(10*(15-i)), false, false, false))
	}
	storage.On("GetAllFeedback", mock.Anything).Return(records, nil)

	ranked, err := service.GetHighEngagementInsights(context.Background())
	require.NoError(t, err)
	assert.Len(t, ranked, 10)
	assert.Equal(t, "a", ranked[0])
}
