package analysis

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/models"
)

type groupAggregate struct {
	name  string
	sum   float64
	count int
}

func (g groupAggregate) mean() float64 {
	if g.count == 0 {
		return 0
	}
	return g.sum / float64(g.count)
}

// CompareGroups aggregates the value column per category, ranks groups by
// sum descending and emits one insight per adjacent rank pair up to the
// configured top-n.
func (s *Service) CompareGroups(dataset *models.Dataset, groupColumn, valueColumn string) []models.Insight {
	groupCol, okGroup := dataset.ColumnByName(groupColumn)
	valueCol, okValue := dataset.ColumnByName(valueColumn)
	if !okGroup || !okValue || groupCol.Type != models.ColumnCategorical || valueCol.Type != models.ColumnNumeric {
		s.logger.Warn().
			Str("group_column", groupColumn).
			Str("value_column", valueColumn).
			Msg("Columns not found for comparison")
		return nil
	}

	// Aggregate per group, preserving first-appearance order for stable ranking
	byName := make(map[string]*groupAggregate)
	var groups []*groupAggregate
	rows := dataset.RowCount()
	for i := 0; i < rows; i++ {
		gCell := groupCol.Cells[i]
		vCell := valueCol.Cells[i]
		if gCell.Null || vCell.Null {
			continue
		}

		agg, ok := byName[gCell.Label]
		if !ok {
			agg = &groupAggregate{name: gCell.Label}
			byName[gCell.Label] = agg
			groups = append(groups, agg)
		}
		agg.sum += vCell.Number
		agg.count++
	}

	if len(groups) < 2 {
		s.logger.Warn().
			Str("group_column", groupColumn).
			Int("groups", len(groups)).
			Msg("Insufficient groups for comparison")
		return nil
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].sum > groups[j].sum
	})

	pairs := s.config.ComparisonTopN - 1
	if pairs > len(groups)-1 {
		pairs = len(groups) - 1
	}

	var insights []models.Insight
	for i := 0; i < pairs; i++ {
		a := groups[i]
		b := groups[i+1]

		difference := a.sum - b.sum
		pctDiff := 0.0
		if b.sum != 0 {
			pctDiff = difference / b.sum * 100
		}

		severity := ComparisonSeverity.For(math.Abs(pctDiff))

		insights = append(insights, models.Insight{
			ID:          common.NewInsightID("comp"),
			Type:        models.InsightComparison,
			Severity:    severity,
			Confidence:  0.9,
			Relevance:   0.85,
			Impact:      math.Min(math.Abs(pctDiff)/100, 1.0),
			Title:       fmt.Sprintf("%s vs %s in %s", a.name, b.name, valueColumn),
			Description: "Performance comparison",
			Narrative:   comparisonNarrative(a.name, b.name, valueColumn, a.sum, b.sum, pctDiff),
			Provenance: []models.DataProvenance{
				{
					Source:     fmt.Sprintf("%s_%s", groupColumn, valueColumn),
					RowsUsed:   rows,
					Quality:    0.9,
					DatasetRef: dataset.Name,
				},
			},
			Explanations: []models.ExplanationComponent{
				{
					Content:    fmt.Sprintf("%s outperforms %s by %.1f%%", a.name, b.name, pctDiff),
					Confidence: 0.9,
					Facts: map[string]float64{
						"value_a":    a.sum,
						"value_b":    b.sum,
						"difference": difference,
					},
				},
			},
			Comparison: &models.ComparisonDetails{
				GroupColumn: groupColumn,
				ValueColumn: valueColumn,
				GroupA:      a.name,
				GroupB:      b.name,
				SumA:        a.sum,
				SumB:        b.sum,
				MeanA:       a.mean(),
				MeanB:       b.mean(),
				CountA:      a.count,
				CountB:      b.count,
				Difference:  difference,
				PercentDiff: pctDiff,
			},
			Visualizations: []string{common.VisualizationFor(string(models.InsightComparison)), "comparison_table"},
			CreatedAt:      time.Now(),
		})
	}

	s.logger.Info().
		Str("group_column", groupColumn).
		Int("comparisons", len(insights)).
		Msg("Group comparison complete")

	return insights
}
