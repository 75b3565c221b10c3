// Package insights orchestrates detection across a dataset's columns,
// applies role-based filtering, ranks by priority and packages the result
// as an immutable collection with a separate ranking annotation.
package insights

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/models"
	"github.com/ternarybob/indago/internal/services/analysis"
)

// WeightProvider supplies learned per-insight weights to ranking. A weight
// of 0.5 is neutral; absence leaves the priority unchanged.
type WeightProvider interface {
	InsightWeight(insightID string) (float64, bool)
}

// Service generates ranked insight collections
type Service struct {
	analyzer *analysis.Service
	config   common.AnalysisConfig
	weights  WeightProvider
	logger   arbor.ILogger
}

// NewService creates a new insight generator. weights may be nil, in which
// case ranking uses raw priority scores only.
func NewService(analyzer *analysis.Service, config common.AnalysisConfig, weights WeightProvider, logger arbor.ILogger) *Service {
	return &Service{
		analyzer: analyzer,
		config:   config,
		weights:  weights,
		logger:   logger,
	}
}

// Generate runs all detectors over the dataset, filters for the optional
// role requirement, ranks and truncates. A nil requirement means no
// filtering and the configured default quota. The returned collection is
// complete and well-formed even when no insights were found.
func (s *Service) Generate(dataset *models.Dataset, requirement *models.RoleRequirement) (*models.InsightCollection, error) {
	if err := dataset.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dataset: %w", err)
	}

	roleID := "general"
	if requirement != nil {
		roleID = requirement.RoleID
	}

	s.logger.Info().
		Str("dataset", dataset.Name).
		Str("role", roleID).
		Msg("Generating insights")

	detected := s.detect(dataset)

	filtered := detected
	if requirement != nil {
		filtered = s.filterForRole(detected, requirement)
	}

	ranked, rankings := s.rank(filtered, requirement)

	quota := s.config.MaxInsights
	if requirement != nil && requirement.MaxInsightsPerReport > 0 {
		quota = requirement.MaxInsightsPerReport
	}
	if len(ranked) > quota {
		ranked = ranked[:quota]
	}

	collection := s.assemble(dataset, ranked, rankings, requirement)

	s.logger.Info().
		Str("collection_id", collection.ID).
		Int("detected", len(detected)).
		Int("retained", len(collection.Insights)).
		Msg("Insight generation complete")

	return collection, nil
}

// detect runs the detectors with the fixed-cardinality column sampling
// policy: first 3 numeric columns for trends, first 2 for anomalies, all
// numeric columns for correlation, first categorical + first numeric for
// group comparison. Failures are isolated per detector and per column.
func (s *Service) detect(dataset *models.Dataset) []models.Insight {
	var insights []models.Insight

	numericCols := dataset.NumericColumns()
	if len(numericCols) == 0 {
		s.logger.Warn().
			Str("dataset", dataset.Name).
			Msg("No numeric columns for analysis")
		return insights
	}

	trendLimit := s.config.TrendColumnLimit
	if trendLimit > len(numericCols) {
		trendLimit = len(numericCols)
	}
	for _, col := range numericCols[:trendLimit] {
		insights = append(insights, s.analyzer.DetectTrends(dataset, col.Name)...)
	}

	anomalyLimit := s.config.AnomalyColumnLimit
	if anomalyLimit > len(numericCols) {
		anomalyLimit = len(numericCols)
	}
	for _, col := range numericCols[:anomalyLimit] {
		insights = append(insights, s.analyzer.DetectAnomalies(dataset, col.Name)...)
	}

	if len(numericCols) >= 2 {
		insights = append(insights, s.analyzer.DetectCorrelations(dataset)...)
	}

	categoricalCols := dataset.CategoricalColumns()
	if len(categoricalCols) > 0 {
		insights = append(insights, s.analyzer.CompareGroups(dataset, categoricalCols[0].Name, numericCols[0].Name)...)
	}

	return insights
}

// filterForRole applies the lenient confidence floor, the type matcher
// chain, the role-level override and the high-confidence fallback. A
// non-empty input never filters to empty: the top 3 by confidence come
// back as a safety net.
func (s *Service) filterForRole(insights []models.Insight, requirement *models.RoleRequirement) []models.Insight {
	minThreshold := math.Max(0.5, requirement.MinConfidence-0.1)

	s.logger.Info().
		Str("role", requirement.RoleID).
		Float64("min_confidence", minThreshold).
		Int("candidates", len(insights)).
		Msg("Filtering insights for role")

	var filtered []models.Insight
	for _, ins := range insights {
		if ins.Confidence < minThreshold {
			s.logger.Debug().
				Str("insight", ins.ID).
				Float64("confidence", ins.Confidence).
				Msg("Filtered out below confidence floor")
			continue
		}

		matched := false
		for _, reqType := range requirement.InsightTypes {
			if strategy, ok := MatchType(reqType, string(ins.Type)); ok {
				matched = true
				s.logger.Debug().
					Str("insight", ins.ID).
					Str("strategy", strategy).
					Msg("Type matched")
				break
			}
		}

		if !matched && LevelAccepts(requirement.Level, ins.Type) {
			matched = true
			s.logger.Debug().
				Str("insight", ins.ID).
				Str("level", string(requirement.Level)).
				Msg("Accepted via role level override")
		}

		if !matched && ins.Confidence >= HighConfidenceFloor {
			matched = true
			s.logger.Debug().
				Str("insight", ins.ID).
				Float64("confidence", ins.Confidence).
				Msg("Accepted via high confidence fallback")
		}

		if !matched {
			s.logger.Debug().
				Str("insight", ins.ID).
				Str("type", string(ins.Type)).
				Msg("Filtered out: type does not match requirements")
			continue
		}

		filtered = append(filtered, ins)
	}

	if len(filtered) == 0 && len(insights) > 0 {
		s.logger.Warn().
			Str("role", requirement.RoleID).
			Msg("All insights filtered out, returning top 3 by confidence")
		fallback := make([]models.Insight, len(insights))
		copy(fallback, insights)
		sort.SliceStable(fallback, func(i, j int) bool {
			return fallback[i].Confidence > fallback[j].Confidence
		})
		if len(fallback) > 3 {
			fallback = fallback[:3]
		}
		return fallback
	}

	return filtered
}

// rank computes the priority annotation for each insight and returns the
// insights sorted descending, detection order preserved on ties
func (s *Service) rank(insights []models.Insight, requirement *models.RoleRequirement) ([]models.Insight, map[string]models.RankingAnnotation) {
	rankings := make(map[string]models.RankingAnnotation, len(insights))

	for i := range insights {
		ins := &insights[i]
		priority := PriorityScore(ins)

		annotation := models.RankingAnnotation{Priority: priority}
		if requirement != nil {
			annotation.RoleID = requirement.RoleID
		}
		if s.weights != nil {
			if w, ok := s.weights.InsightWeight(ins.ID); ok {
				annotation.Weight = w
				annotation.Priority = priority * (0.5 + w)
			}
		}
		rankings[ins.ID] = annotation
	}

	ranked := make([]models.Insight, len(insights))
	copy(ranked, insights)
	sort.SliceStable(ranked, func(i, j int) bool {
		return rankings[ranked[i].ID].Priority > rankings[ranked[j].ID].Priority
	})

	return ranked, rankings
}

// assemble builds the immutable collection snapshot. Aggregates cover the
// final truncated list, not the pre-filter candidates.
func (s *Service) assemble(dataset *models.Dataset, ranked []models.Insight, rankings map[string]models.RankingAnnotation, requirement *models.RoleRequirement) *models.InsightCollection {
	collection := &models.InsightCollection{
		ID:          common.NewCollectionID(),
		Dataset:     dataset.Name,
		RoleID:      "general",
		Insights:    ranked,
		Rankings:    make(map[string]models.RankingAnnotation, len(ranked)),
		GeneratedAt: time.Now(),
	}
	if requirement != nil {
		collection.RoleID = requirement.RoleID
	}

	// Keep only annotations for retained insights
	for _, ins := range ranked {
		collection.Rankings[ins.ID] = rankings[ins.ID]
	}

	if len(ranked) > 0 {
		var sumConfidence, sumRelevance float64
		for _, ins := range ranked {
			sumConfidence += ins.Confidence
			sumRelevance += ins.Relevance
			switch ins.Severity {
			case models.SeverityCritical:
				collection.CriticalCount++
			case models.SeverityHigh:
				collection.HighCount++
			}
		}
		collection.AverageConfidence = sumConfidence / float64(len(ranked))
		collection.AverageRelevance = sumRelevance / float64(len(ranked))
	}

	seen := make(map[string]bool)
	for _, ins := range ranked {
		for _, src := range ins.Sources() {
			if !seen[src] {
				seen[src] = true
				collection.Sources = append(collection.Sources, src)
			}
		}
	}

	return collection
}
