package analysis

import (
	"fmt"
	"math"
	"time"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/models"
)

// DetectAnomalies flags values whose z-score exceeds the configured
// threshold, one insight per flagged point, capped at the configured
// maximum and ordered by dataset row. Reported indices are dataset rows,
// so null cells do not shift provenance. Requires the configured minimum
// points and nonzero standard deviation.
func (s *Service) DetectAnomalies(dataset *models.Dataset, valueColumn string) []models.Insight {
	col, ok := dataset.ColumnByName(valueColumn)
	if !ok || col.Type != models.ColumnNumeric {
		s.logger.Warn().
			Str("column", valueColumn).
			Msg("Anomaly detection skipped: column missing or not numeric")
		return nil
	}

	values := col.Numbers()
	if len(values) < s.config.AnomalyMinPoints {
		s.logger.Warn().
			Str("column", valueColumn).
			Int("points", len(values)).
			Msg("Insufficient data for anomaly detection")
		return nil
	}

	mean := Mean(values)
	std := Stddev(values)
	if std == 0 {
		s.logger.Warn().
			Str("column", valueColumn).
			Msg("Zero standard deviation, cannot detect anomalies")
		return nil
	}

	var insights []models.Insight
	for row, cell := range col.Cells {
		if cell.Null {
			continue
		}
		if len(insights) >= s.config.AnomalyMaxReported {
			break
		}

		v := cell.Number
		zScore := math.Abs((v - mean) / std)
		if zScore <= s.config.AnomalyZThreshold {
			continue
		}

		deviation := v - mean
		deviationType := "negative"
		if deviation > 0 {
			deviationType = "positive"
		}

		severity := AnomalySeverity.For(zScore)
		confidence := math.Min(zScore/4, 1.0)

		insights = append(insights, models.Insight{
			ID:          common.NewInsightID("anomaly"),
			Type:        models.InsightAnomaly,
			Severity:    severity,
			Confidence:  confidence,
			Relevance:   0.8,
			Impact:      math.Min(zScore/5, 1.0),
			Title:       fmt.Sprintf("Anomaly Detected in %s", valueColumn),
			Description: fmt.Sprintf("Unusual value found: %.2f", v),
			Narrative:   anomalyNarrative(valueColumn, v, mean, deviation, zScore),
			Actions: []string{
				fmt.Sprintf("Investigate the cause of this %s deviation", deviationType),
				"Check for data quality issues or external factors",
			},
			Provenance: []models.DataProvenance{
				{
					Source:     valueColumn,
					RowsUsed:   len(values),
					Quality:    0.9,
					DatasetRef: dataset.Name,
				},
			},
			Explanations: []models.ExplanationComponent{
				{
					Content:    fmt.Sprintf("Value deviates %.2f standard deviations from mean", zScore),
					Confidence: confidence,
					Facts: map[string]float64{
						"z_score": zScore,
						"mean":    mean,
						"std":     std,
					},
				},
			},
			Anomaly: &models.AnomalyDetails{
				Column:        valueColumn,
				Index:         row,
				Expected:      mean,
				Actual:        v,
				Deviation:     deviation,
				ZScore:        zScore,
				StdDev:        std,
				Threshold:     s.config.AnomalyZThreshold,
				DeviationType: deviationType,
			},
			Visualizations: []string{common.VisualizationFor(string(models.InsightAnomaly)), "box_plot"},
			CreatedAt:      time.Now(),
		})
	}

	s.logger.Info().
		Str("column", valueColumn).
		Int("anomalies", len(insights)).
		Msg("Anomaly detection complete")

	return insights
}
