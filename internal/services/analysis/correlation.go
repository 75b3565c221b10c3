package analysis

import (
	"fmt"
	"math"
	"time"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/models"
)

// pairedValues returns both columns restricted to the rows where neither
// cell is null, keeping row alignment between the two series.
func pairedValues(colA, colB *models.Column) ([]float64, []float64) {
	n := len(colA.Cells)
	if len(colB.Cells) < n {
		n = len(colB.Cells)
	}
	a := make([]float64, 0, n)
	b := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if colA.Cells[i].Null || colB.Cells[i].Null {
			continue
		}
		a = append(a, colA.Cells[i].Number)
		b = append(b, colB.Cells[i].Number)
	}
	return a, b
}

// DetectCorrelations computes pairwise Pearson correlation over all numeric
// column pairs and reports every pair at or above the configured threshold.
// Each pair is correlated over the rows where both cells are present.
// Requires at least two numeric columns.
func (s *Service) DetectCorrelations(dataset *models.Dataset) []models.Insight {
	numericCols := dataset.NumericColumns()
	if len(numericCols) < 2 {
		s.logger.Warn().
			Int("numeric_columns", len(numericCols)).
			Msg("Insufficient numeric columns for correlation analysis")
		return nil
	}

	var insights []models.Insight
	for i := 0; i < len(numericCols); i++ {
		for j := i + 1; j < len(numericCols); j++ {
			colA := numericCols[i]
			colB := numericCols[j]

			seriesA, seriesB := pairedValues(&colA, &colB)
			r := Pearson(seriesA, seriesB)
			if math.Abs(r) < s.config.CorrelationThreshold {
				continue
			}

			relationshipType := "negative"
			if r > 0 {
				relationshipType = "positive"
			}

			severity := CorrelationSeverity.For(math.Abs(r))
			pairRef := fmt.Sprintf("%s_vs_%s", colA.Name, colB.Name)

			insights = append(insights, models.Insight{
				ID:          common.NewInsightID("corr"),
				Type:        models.InsightCorrelation,
				Severity:    severity,
				Confidence:  math.Abs(r),
				Relevance:   math.Abs(r),
				Impact:      math.Abs(r) * 0.8,
				Title:       fmt.Sprintf("%s Correlation: %s & %s", capitalize(relationshipType), colA.Name, colB.Name),
				Description: fmt.Sprintf("Strong %s relationship detected", relationshipType),
				Narrative:   correlationNarrative(colA.Name, colB.Name, r, relationshipType),
				Provenance: []models.DataProvenance{
					{
						Source:     pairRef,
						RowsUsed:   len(seriesA),
						Quality:    0.85,
						DatasetRef: dataset.Name,
					},
				},
				Explanations: []models.ExplanationComponent{
					{
						Content:    fmt.Sprintf("Pearson correlation coefficient: %.3f", r),
						Confidence: math.Abs(r),
						Facts: map[string]float64{
							"correlation": r,
							"sample_size": float64(len(seriesA)),
						},
					},
				},
				Correlation: &models.CorrelationDetails{
					ColumnA:          colA.Name,
					ColumnB:          colB.Name,
					Coefficient:      r,
					RelationshipType: relationshipType,
				},
				Visualizations: []string{common.VisualizationFor(string(models.InsightCorrelation)), "correlation_matrix"},
				CreatedAt:      time.Now(),
			})
		}
	}

	s.logger.Info().
		Int("correlations", len(insights)).
		Msg("Correlation detection complete")

	return insights
}
