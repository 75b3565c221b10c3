package models

import (
	"time"
)

// InsightType classifies what kind of finding an insight carries
type InsightType string

// InsightType constants
const (
	InsightTrend          InsightType = "trend"
	InsightAnomaly        InsightType = "anomaly"
	InsightComparison     InsightType = "comparison"
	InsightCorrelation    InsightType = "correlation"
	InsightForecast       InsightType = "forecast"
	InsightPattern        InsightType = "pattern"
	InsightRisk           InsightType = "risk"
	InsightOpportunity    InsightType = "opportunity"
	InsightRecommendation InsightType = "recommendation"
	InsightSummary        InsightType = "summary"
)

// Severity is the qualitative urgency tier of an insight, derived from
// detector magnitude thresholds at creation time and never revised.
type Severity string

// Severity constants, ordered from most to least urgent
const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// Rank returns the ordering position of a severity, 0 being most urgent
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	default:
		return 4
	}
}

// DataProvenance traces an insight back to the data it was computed from
type DataProvenance struct {
	Source     string  `json:"source"`      // column or column-pair identifier
	RowsUsed   int     `json:"rows_used"`   // data points behind the finding
	Quality    float64 `json:"quality"`     // 0.0 to 1.0
	DatasetRef string  `json:"dataset_ref"` // originating dataset name
}

// ExplanationComponent is one statistical fact supporting an insight
type ExplanationComponent struct {
	Content    string             `json:"content"`
	Facts      map[string]float64 `json:"facts,omitempty"`
	Confidence float64            `json:"confidence"`
}

// TrendDetails holds the regression payload of a trend insight
type TrendDetails struct {
	Column        string  `json:"column"`
	Direction     string  `json:"direction"` // increasing, decreasing, stable
	Slope         float64 `json:"slope"`
	Intercept     float64 `json:"intercept"`
	Correlation   float64 `json:"correlation"` // Pearson r against row index
	PercentChange float64 `json:"percent_change"`
	Baseline      float64 `json:"baseline"` // first value
	Current       float64 `json:"current"`  // last value
	Points        int     `json:"points"`
}

// AnomalyDetails holds the outlier payload of an anomaly insight.
// Each flagged point becomes its own insight.
type AnomalyDetails struct {
	Column        string  `json:"column"`
	Index         int     `json:"index"`
	Expected      float64 `json:"expected"` // column mean
	Actual        float64 `json:"actual"`
	Deviation     float64 `json:"deviation"` // signed, actual minus expected
	ZScore        float64 `json:"z_score"`
	StdDev        float64 `json:"std_dev"`
	Threshold     float64 `json:"threshold"`
	DeviationType string  `json:"deviation_type"` // positive or negative
}

// CorrelationDetails holds the pairwise payload of a correlation insight
type CorrelationDetails struct {
	ColumnA          string  `json:"column_a"`
	ColumnB          string  `json:"column_b"`
	Coefficient      float64 `json:"coefficient"`
	RelationshipType string  `json:"relationship_type"` // positive or negative
}

// ComparisonDetails holds the adjacent-rank payload of a comparison insight
type ComparisonDetails struct {
	GroupColumn string  `json:"group_column"`
	ValueColumn string  `json:"value_column"`
	GroupA      string  `json:"group_a"`
	GroupB      string  `json:"group_b"`
	SumA        float64 `json:"sum_a"`
	SumB        float64 `json:"sum_b"`
	MeanA       float64 `json:"mean_a"`
	MeanB       float64 `json:"mean_b"`
	CountA      int     `json:"count_a"`
	CountB      int     `json:"count_b"`
	Difference  float64 `json:"difference"`
	PercentDiff float64 `json:"percent_diff"`
}

// Insight is a single structured, explainable finding. It is immutable once
// a detector creates it; ranking state lives in RankingAnnotation, not here.
type Insight struct {
	ID       string      `json:"id"` // {type}_{uuid8}
	Type     InsightType `json:"type"`
	Severity Severity    `json:"severity"`

	// Scores, all 0.0 to 1.0
	Confidence float64 `json:"confidence"`
	Relevance  float64 `json:"relevance"`
	Impact     float64 `json:"impact"`

	// Presentation
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Narrative      string   `json:"narrative"`
	Actions        []string `json:"actions,omitempty"`
	Visualizations []string `json:"visualizations,omitempty"`

	// Explanation payload
	Provenance   []DataProvenance       `json:"provenance"`
	Explanations []ExplanationComponent `json:"explanations"`

	// Type-specific payload, at most one populated
	Trend       *TrendDetails       `json:"trend,omitempty"`
	Anomaly     *AnomalyDetails     `json:"anomaly,omitempty"`
	Correlation *CorrelationDetails `json:"correlation,omitempty"`
	Comparison  *ComparisonDetails  `json:"comparison,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Sources returns the de-duplicated provenance source identifiers
func (i *Insight) Sources() []string {
	seen := make(map[string]bool, len(i.Provenance))
	var sources []string
	for _, p := range i.Provenance {
		if seen[p.Source] {
			continue
		}
		seen[p.Source] = true
		sources = append(sources, p.Source)
	}
	return sources
}

// RankingAnnotation carries the generator's per-insight ranking outcome.
// Insights stay untouched; annotations are recomputed on every generation.
type RankingAnnotation struct {
	Priority float64 `json:"priority"`
	RoleID   string  `json:"role_id,omitempty"`
	Weight   float64 `json:"weight,omitempty"` // learned weight applied, 0 when none
}

// InsightCollection is an immutable ranked snapshot produced by one
// generation request. Order is descending priority, detection order on ties.
type InsightCollection struct {
	ID          string                       `json:"id"` // coll_{uuid8}
	Dataset     string                       `json:"dataset"`
	RoleID      string                       `json:"role_id,omitempty"`
	Insights    []Insight                    `json:"insights"`
	Rankings    map[string]RankingAnnotation `json:"rankings"`
	GeneratedAt time.Time                    `json:"generated_at"`

	// Aggregates over the final truncated list
	AverageConfidence float64  `json:"average_confidence"`
	AverageRelevance  float64  `json:"average_relevance"`
	CriticalCount     int      `json:"critical_count"`
	HighCount         int      `json:"high_count"`
	Sources           []string `json:"sources"`
}

// Priority returns the ranked priority of an insight in this collection
func (c *InsightCollection) Priority(insightID string) float64 {
	return c.Rankings[insightID].Priority
}

// BySeverity returns the insights carrying the given severity, in rank order
func (c *InsightCollection) BySeverity(severity Severity) []Insight {
	var out []Insight
	for _, ins := range c.Insights {
		if ins.Severity == severity {
			out = append(out, ins)
		}
	}
	return out
}
