package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/models"
	"github.com/ternarybob/indago/internal/services/analysis"
)

type staticWeights map[string]float64

func (w staticWeights) InsightWeight(insightID string) (float64, bool) {
	v, ok := w[insightID]
	return v, ok
}

func newTestGenerator(weights WeightProvider) *Service {
	cfg := common.NewDefaultConfig().Analysis
	logger := arbor.NewLogger()
	return NewService(analysis.NewService(cfg, logger), cfg, weights, logger)
}

func salesDataset() *models.Dataset {
	revenue := []float64{100, 110, 120, 130, 140, 150, 160, 170, 180, 190}
	cost := []float64{50, 55, 60, 65, 70, 75, 80, 85, 90, 95}
	regions := []string{"A", "B", "A", "B", "A", "B", "A", "B", "A", "B"}

	revCells := make([]models.Cell, len(revenue))
	costCells := make([]models.Cell, len(cost))
	regionCells := make([]models.Cell, len(regions))
	for i := range revenue {
		revCells[i] = models.NumberCell(revenue[i])
		costCells[i] = models.NumberCell(cost[i])
		regionCells[i] = models.LabelCell(regions[i])
	}

	return &models.Dataset{
		Name: "quarterly_sales",
		Columns: []models.Column{
			{Name: "revenue", Type: models.ColumnNumeric, Cells: revCells},
			{Name: "cost", Type: models.ColumnNumeric, Cells: costCells},
			{Name: "region", Type: models.ColumnCategorical, Cells: regionCells},
		},
	}
}

func analystRole() *models.RoleRequirement {
	return &models.RoleRequirement{
		RoleID:               "financial_analyst",
		Name:                 "Financial Analyst",
		Level:                models.LevelAnalyst,
		InsightTypes:         []string{"trend", "anomaly", "correlation", "comparison"},
		MinConfidence:        0.7,
		MaxInsightsPerReport: 15,
	}
}

func TestGenerateWithoutRole(t *testing.T) {
	gen := newTestGenerator(nil)

	collection, err := gen.Generate(salesDataset(), nil)
	require.NoError(t, err)
	require.NotNil(t, collection)

	assert.Equal(t, "general", collection.RoleID)
	assert.NotEmpty(t, collection.Insights)
	assert.LessOrEqual(t, len(collection.Insights), 10)

	// Every retained insight carries a ranking annotation
	for _, ins := range collection.Insights {
		_, ok := collection.Rankings[ins.ID]
		assert.True(t, ok, "missing ranking for %s", ins.ID)
	}
}

func TestGenerateInvalidDataset(t *testing.T) {
	gen := newTestGenerator(nil)

	_, err := gen.Generate(&models.Dataset{Name: ""}, nil)
	assert.Error(t, err)
}

func TestGenerateRankingDescending(t *testing.T) {
	gen := newTestGenerator(nil)

	collection, err := gen.Generate(salesDataset(), analystRole())
	require.NoError(t, err)
	require.NotEmpty(t, collection.Insights)

	for i := 1; i < len(collection.Insights); i++ {
		prev := collection.Priority(collection.Insights[i-1].ID)
		cur := collection.Priority(collection.Insights[i].ID)
		assert.GreaterOrEqual(t, prev, cur, "ranking not descending at %d", i)
	}
}

func TestGenerateIdempotent(t *testing.T) {
	gen := newTestGenerator(nil)
	dataset := salesDataset()
	role := analystRole()

	first, err := gen.Generate(dataset, role)
	require.NoError(t, err)
	second, err := gen.Generate(dataset, role)
	require.NoError(t, err)

	require.Equal(t, len(first.Insights), len(second.Insights))
	for i := range first.Insights {
		a := first.Insights[i]
		b := second.Insights[i]
		assert.Equal(t, a.Type, b.Type, "type differs at rank %d", i)
		assert.Equal(t, a.Title, b.Title, "title differs at rank %d", i)
		assert.InDelta(t, first.Priority(a.ID), second.Priority(b.ID), 1e-12, "priority differs at rank %d", i)
	}
}

func TestGenerateQuota(t *testing.T) {
	gen := newTestGenerator(nil)
	role := analystRole()
	role.MaxInsightsPerReport = 2

	collection, err := gen.Generate(salesDataset(), role)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(collection.Insights), 2)
}

func TestGenerateSafetyNet(t *testing.T) {
	gen := newTestGenerator(nil)

	// Noisy series keeps trend confidence well below the lenient floor,
	// and no other detector fires
	values := []float64{10, 52, 8, 47, 12, 55, 9, 40, 14, 51}
	cells := make([]models.Cell, len(values))
	for i, v := range values {
		cells[i] = models.NumberCell(v)
	}
	dataset := &models.Dataset{
		Name:    "noisy",
		Columns: []models.Column{{Name: "metric", Type: models.ColumnNumeric, Cells: cells}},
	}

	role := &models.RoleRequirement{
		RoleID:               "cfo",
		Name:                 "Chief Financial Officer",
		Level:                models.LevelExecutive,
		InsightTypes:         []string{"forecast"},
		MinConfidence:        0.99,
		MaxInsightsPerReport: 5,
	}

	collection, err := gen.Generate(dataset, role)
	require.NoError(t, err)

	assert.NotEmpty(t, collection.Insights, "non-empty detector output must never filter to empty")
	assert.LessOrEqual(t, len(collection.Insights), 3)
}

func TestGenerateHighConfidenceFallback(t *testing.T) {
	gen := newTestGenerator(nil)

	// Correlation insights carry confidence |r| ~1 here. The executive level
	// override does not admit correlations and the vocabulary lists only
	// forecasts, so acceptance must come from the high-confidence rule.
	a := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	b := []float64{2, 4, 6, 8, 10, 12, 14, 16, 18, 20}
	aCells := make([]models.Cell, len(a))
	bCells := make([]models.Cell, len(b))
	for i := range a {
		aCells[i] = models.NumberCell(a[i])
		bCells[i] = models.NumberCell(b[i])
	}
	dataset := &models.Dataset{
		Name: "paired",
		Columns: []models.Column{
			{Name: "a", Type: models.ColumnNumeric, Cells: aCells},
			{Name: "b", Type: models.ColumnNumeric, Cells: bCells},
		},
	}

	role := &models.RoleRequirement{
		RoleID:               "cfo",
		Name:                 "Chief Financial Officer",
		Level:                models.LevelExecutive,
		InsightTypes:         []string{"forecast"},
		MinConfidence:        0.95,
		MaxInsightsPerReport: 10,
	}

	collection, err := gen.Generate(dataset, role)
	require.NoError(t, err)

	found := false
	for _, ins := range collection.Insights {
		if ins.Type == models.InsightCorrelation {
			found = true
		}
	}
	assert.True(t, found, "high-confidence correlation must survive a forecast-only vocabulary")
}

func TestGenerateWeightReordering(t *testing.T) {
	// First run without weights to learn the generated ids, then regenerate
	// with a weight map built against a second run's ids is not possible
	// because ids are fresh per run. Exercise the weight path through the
	// rank step directly instead.
	gen := newTestGenerator(nil)

	insights := []models.Insight{
		{ID: "trend_aaaa", Type: models.InsightTrend, Severity: models.SeverityLow, Confidence: 0.8, Relevance: 0.8, Impact: 0.8},
		{ID: "comp_bbbb", Type: models.InsightComparison, Severity: models.SeverityLow, Confidence: 0.8, Relevance: 0.8, Impact: 0.8},
	}

	ranked, rankings := gen.rank(insights, nil)
	// Equal scores keep detection order
	require.Equal(t, "trend_aaaa", ranked[0].ID)
	assert.Zero(t, rankings["trend_aaaa"].Weight)

	weighted := newTestGenerator(staticWeights{"comp_bbbb": 1.0})
	ranked, rankings = weighted.rank(insights, nil)
	assert.Equal(t, "comp_bbbb", ranked[0].ID, "weighted insight must outrank its unweighted twin")
	assert.Equal(t, 1.0, rankings["comp_bbbb"].Weight)
	assert.InDelta(t, PriorityScore(&insights[1])*1.5, rankings["comp_bbbb"].Priority, 1e-12)
}

func TestGenerateAggregatesOverFinalList(t *testing.T) {
	gen := newTestGenerator(nil)
	role := analystRole()
	role.MaxInsightsPerReport = 3

	collection, err := gen.Generate(salesDataset(), role)
	require.NoError(t, err)
	require.NotEmpty(t, collection.Insights)

	var sumConfidence float64
	for _, ins := range collection.Insights {
		sumConfidence += ins.Confidence
	}
	assert.InDelta(t, sumConfidence/float64(len(collection.Insights)), collection.AverageConfidence, 1e-12)
}

func TestPriorityScoreBoosts(t *testing.T) {
	base := &models.Insight{Severity: models.SeverityLow, Confidence: 1, Relevance: 1, Impact: 1}
	assert.InDelta(t, 1.0, PriorityScore(base), 1e-12)

	critical := &models.Insight{Severity: models.SeverityCritical, Confidence: 1, Relevance: 1, Impact: 1}
	assert.InDelta(t, 1.5, PriorityScore(critical), 1e-12)

	high := &models.Insight{Severity: models.SeverityHigh, Confidence: 1, Relevance: 1, Impact: 1}
	assert.InDelta(t, 1.2, PriorityScore(high), 1e-12)
}
