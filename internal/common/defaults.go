// Package common provides shared utilities and default configuration.
package common

// DefaultVisualization maps an insight type to its recommended chart hint.
// Detectors attach these so downstream renderers stay consistent.
type DefaultVisualization struct {
	InsightType string `json:"insight_type"`
	Chart       string `json:"chart"`
	Description string `json:"description"`
}

// GetDefaultVisualizations returns the recommended visualization per insight type.
// This is the single source of truth for chart hints.
func GetDefaultVisualizations() []DefaultVisualization {
	return []DefaultVisualization{
		{
			InsightType: "trend",
			Chart:       "line_chart",
			Description: "Value against row order with fitted trend line",
		},
		{
			InsightType: "anomaly",
			Chart:       "scatter_plot",
			Description: "Values with flagged outliers highlighted",
		},
		{
			InsightType: "correlation",
			Chart:       "scatter_plot",
			Description: "Column pair scatter with correlation coefficient",
		},
		{
			InsightType: "comparison",
			Chart:       "bar_chart",
			Description: "Group totals sorted descending",
		},
	}
}

// VisualizationFor returns the chart hint for an insight type, empty when none
func VisualizationFor(insightType string) string {
	for _, v := range GetDefaultVisualizations() {
		if v.InsightType == insightType {
			return v.Chart
		}
	}
	return ""
}
