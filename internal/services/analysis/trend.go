package analysis

import (
	"fmt"
	"math"
	"time"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/models"
)

// DetectTrends fits an ordinary least-squares regression of the column's
// values against row order and reports direction, strength and percentage
// change. Returns nothing when fewer than the configured minimum points
// are available.
func (s *Service) DetectTrends(dataset *models.Dataset, valueColumn string) []models.Insight {
	col, ok := dataset.ColumnByName(valueColumn)
	if !ok || col.Type != models.ColumnNumeric {
		s.logger.Warn().
			Str("column", valueColumn).
			Msg("Trend analysis skipped: column missing or not numeric")
		return nil
	}

	values := col.Numbers()
	if len(values) < s.config.TrendMinPoints {
		s.logger.Warn().
			Str("column", valueColumn).
			Int("points", len(values)).
			Int("required", s.config.TrendMinPoints).
			Msg("Insufficient data points for trend analysis")
		return nil
	}

	reg := LinearRegression(values)

	direction := "stable"
	if reg.Slope > 0 {
		direction = "increasing"
	} else if reg.Slope < 0 {
		direction = "decreasing"
	}
	strength := math.Abs(reg.R)

	first := values[0]
	last := values[len(values)-1]
	pctChange := PercentChange(first, last)

	severity := TrendSeverity.For(math.Abs(pctChange))
	confidence := math.Min(strength, 1.0)

	insight := models.Insight{
		ID:          common.NewInsightID("trend"),
		Type:        models.InsightTrend,
		Severity:    severity,
		Confidence:  confidence,
		Relevance:   math.Min(math.Abs(pctChange)/50, 1.0),
		Impact:      math.Min(math.Abs(pctChange)/100, 1.0),
		Title:       fmt.Sprintf("%s Trend in %s", capitalize(direction), valueColumn),
		Description: fmt.Sprintf("%s shows a %s trend", valueColumn, direction),
		Narrative:   trendNarrative(valueColumn, direction, pctChange, first, last, strength),
		Provenance: []models.DataProvenance{
			{
				Source:     valueColumn,
				RowsUsed:   len(values),
				Quality:    confidence,
				DatasetRef: dataset.Name,
			},
		},
		Explanations: []models.ExplanationComponent{
			{
				Content:    fmt.Sprintf("Linear regression analysis shows %s trend with R² = %.3f", direction, reg.R*reg.R),
				Confidence: confidence,
				Facts: map[string]float64{
					"slope":     reg.Slope,
					"r_squared": reg.R * reg.R,
				},
			},
		},
		Trend: &models.TrendDetails{
			Column:        valueColumn,
			Direction:     direction,
			Slope:         reg.Slope,
			Intercept:     reg.Intercept,
			Correlation:   reg.R,
			PercentChange: pctChange,
			Baseline:      first,
			Current:       last,
			Points:        len(values),
		},
		Visualizations: []string{common.VisualizationFor(string(models.InsightTrend)), "trend_line"},
		CreatedAt:      time.Now(),
	}

	s.logger.Info().
		Str("column", valueColumn).
		Str("direction", direction).
		Str("severity", string(severity)).
		Msg("Detected trend")

	return []models.Insight{insight}
}
