package learning

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/indago/internal/common"
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

func boolPtr(v bool) *bool { return &v }

func rated(insightID, roleID string, rating int) *models.FeedbackRecord {
	return &models.FeedbackRecord{
		InsightID: insightID,
		RoleID:    roleID,
		Type:      models.FeedbackExplicit,
		Rating:    rating,
	}
}

func newTestEngine(storage *MockFeedbackStorage) *Engine {
	return NewEngine(storage, nil, common.NewDefaultConfig().Learning, arbor.NewLogger())
}

func TestUpdateInsightWeights(t *testing.T) {
	storage := new(MockFeedbackStorage)
	engine := newTestEngine(storage)

	relevantHigh := rated("boosted", "", 5)
	relevantHigh.Relevant = boolPtr(true)
	unratedFlagged := &models.FeedbackRecord{
		InsightID: "unrated",
		Type:      models.FeedbackExplicit,
		Relevant:  boolPtr(false),
	}

	records := []*models.FeedbackRecord{
		rated("plain", "", 4),
		rated("plain", "", 2),
		relevantHigh,
		unratedFlagged,
		// Implicit records never contribute to weights
		{InsightID: "viewed", Type: models.FeedbackImplicit, ViewSeconds: 120},
	}
	storage.On("GetAllFeedback", mock.Anything).Return(records, nil)

	count, err := engine.UpdateInsightWeights(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// plain: (4+2)/2/5 = 0.6, no relevance boost
	w, ok := engine.InsightWeight("plain")
	require.True(t, ok)
	assert.InDelta(t, 0.6, w, 1e-9)

	// boosted: 5/5 * 1.2 clamped to 1.0
	w, ok = engine.InsightWeight("boosted")
	require.True(t, ok)
	assert.InDelta(t, 1.0, w, 1e-9)

	// unrated: default 0.5, relevance flag false so no boost
	w, ok = engine.InsightWeight("unrated")
	require.True(t, ok)
	assert.InDelta(t, 0.5, w, 1e-9)

	_, ok = engine.InsightWeight("viewed")
	assert.False(t, ok)
}

func TestUpdateInsightWeightsIdempotent(t *testing.T) {
	storage := new(MockFeedbackStorage)
	engine := newTestEngine(storage)

	records := []*models.FeedbackRecord{rated("a", "", 3), rated("b", "", 5)}
	storage.On("GetAllFeedback", mock.Anything).Return(records, nil)

	_, err := engine.UpdateInsightWeights(context.Background())
	require.NoError(t, err)
	first := engine.State().InsightWeights

	_, err = engine.UpdateInsightWeights(context.Background())
	require.NoError(t, err)
	second := engine.State().InsightWeights

	assert.Equal(t, first, second, "recomputation over an unchanged log must be stable")
}

func TestLearnRolePreferences(t *testing.T) {
	storage := new(MockFeedbackStorage)
	engine := newTestEngine(storage)

	// A rating below 4 or a missing role id registers no preference
	records := []*models.FeedbackRecord{
		rated("liked", "cfo", 5),
		rated("tolerated", "cfo", 3),
		rated("anonymous", "", 5),
		rated("other", "analyst", 4),
	}
	storage.On("GetAllFeedback", mock.Anything).Return(records, nil)

	count, err := engine.LearnRolePreferences(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	state := engine.State()
	require.Contains(t, state.RolePreferences, "cfo")
	assert.InDelta(t, 1.0, state.RolePreferences["cfo"]["liked"], 1e-9)
	assert.NotContains(t, state.RolePreferences["cfo"], "tolerated")
	assert.InDelta(t, 0.8, state.RolePreferences["analyst"]["other"], 1e-9)
}

func TestRecommendForRole(t *testing.T) {
	storage := new(MockFeedbackStorage)
	engine := newTestEngine(storage)

	records := []*models.FeedbackRecord{
		rated("favorite", "cfo", 5),
		rated("good", "cfo", 4),
	}
	storage.On("GetAllFeedback", mock.Anything).Return(records, nil)
	_, err := engine.LearnRolePreferences(context.Background())
	require.NoError(t, err)

	// Unknown insights take the neutral 0.5 and keep their input order
	ranked := engine.RecommendForRole("cfo", []string{"unknown_a", "good", "unknown_b", "favorite"})
	assert.Equal(t, []string{"favorite", "good", "unknown_a", "unknown_b"}, ranked)
}

func TestRecommendForRoleNoPreferences(t *testing.T) {
	storage := new(MockFeedbackStorage)
	engine := newTestEngine(storage)

	input := []string{"b", "a", "c"}
	assert.Equal(t, input, engine.RecommendForRole("ghost", input))
}

func TestAdapt(t *testing.T) {
	storage := new(MockFeedbackStorage)
	engine := newTestEngine(storage)

	records := []*models.FeedbackRecord{rated("a", "cfo", 5)}
	storage.On("GetAllFeedback", mock.Anything).Return(records, nil)

	actions, err := engine.Adapt(context.Background())
	require.NoError(t, err)
	require.Len(t, actions, 2)

	assert.Equal(t, models.ActionAdjustWeights, actions[0].Type)
	assert.Equal(t, models.ActionUpdateRules, actions[1].Type)
	assert.Len(t, engine.History(), 2)

	// Second run appends to history but leaves the learned state unchanged
	before := engine.State()
	_, err = engine.Adapt(context.Background())
	require.NoError(t, err)
	assert.Len(t, engine.History(), 4)
	assert.Equal(t, before.InsightWeights, engine.State().InsightWeights)
	assert.Equal(t, before.RolePreferences, engine.State().RolePreferences)
}

func TestGetMetrics(t *testing.T) {
	storage := new(MockFeedbackStorage)
	engine := newTestEngine(storage)

	records := []*models.FeedbackRecord{
		rated("a", "cfo", 5),
		rated("b", "cfo", 4),
		rated("c", "", 1),
	}
	storage.On("GetFeedbackSince", mock.Anything, mock.AnythingOfType("time.Time")).Return(records, nil)

	metrics, err := engine.GetMetrics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 30, metrics.WindowDays)
	assert.Equal(t, 3, metrics.TotalFeedback)
	assert.InDelta(t, 10.0/3.0, metrics.AverageRating, 1e-9)
	assert.InDelta(t, 2.0/3.0, metrics.PositiveRate, 1e-9)
	assert.InDelta(t, 2.0/3.0, metrics.UserSatisfaction, 1e-9)
	assert.True(t, metrics.LastAdaptation.IsZero())
}

func TestImprovementSuggestions(t *testing.T) {
	storage := new(MockFeedbackStorage)
	engine := newTestEngine(storage)

	records := []*models.FeedbackRecord{rated("a", "", 2)}
	storage.On("GetFeedbackSince", mock.Anything, mock.AnythingOfType("time.Time")).Return(records, nil)

	suggestions, err := engine.ImprovementSuggestions(context.Background(), []string{"a"})
	require.NoError(t, err)

	assert.Contains(t, suggestions, "Improve or filter 1 low-rated insights")
	assert.Contains(t, suggestions, "Encourage more user feedback")
	assert.Contains(t, suggestions, "Address user satisfaction concerns")
}
