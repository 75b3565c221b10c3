package reports

import (
	"fmt"
	"strings"

	"github.com/ternarybob/indago/internal/models"
)

// Summary builds the executive summary text for a collection. Critical and
// high severity findings are called out before the top three insights.
func Summary(collection *models.InsightCollection) string {
	if len(collection.Insights) == 0 {
		return "No significant insights were generated from the available data."
	}

	var b strings.Builder

	audience := collection.RoleID
	if audience == "" {
		audience = "general"
	}
	fmt.Fprintf(&b, "Analysis Summary for %s:\n\n", audience)
	fmt.Fprintf(&b, "Generated %d insights with average confidence of %.1f%%.\n\n",
		len(collection.Insights), collection.AverageConfidence*100)

	if collection.CriticalCount > 0 {
		fmt.Fprintf(&b, "%d CRITICAL insights require immediate attention:\n", collection.CriticalCount)
		for _, ins := range collection.BySeverity(models.SeverityCritical) {
			fmt.Fprintf(&b, "  - %s\n", ins.Title)
		}
		b.WriteString("\n")
	}

	if collection.HighCount > 0 {
		fmt.Fprintf(&b, "%d HIGH priority insights:\n", collection.HighCount)
		for _, ins := range collection.BySeverity(models.SeverityHigh) {
			fmt.Fprintf(&b, "  - %s\n", ins.Title)
		}
		b.WriteString("\n")
	}

	b.WriteString("Top Insights:\n")
	top := collection.Insights
	if len(top) > 3 {
		top = top[:3]
	}
	for i, ins := range top {
		fmt.Fprintf(&b, "%d. %s\n", i+1, ins.Title)
		fmt.Fprintf(&b, "   %s\n", ins.Description)
	}

	return b.String()
}

// Markdown renders the full report document for a collection
func Markdown(collection *models.InsightCollection) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Insight Report: %s\n\n", collection.Dataset)
	if collection.RoleID != "" {
		fmt.Fprintf(&b, "Prepared for role **%s** on %s.\n\n",
			collection.RoleID, collection.GeneratedAt.Format("2 January 2006"))
	}

	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "- Insights: %d\n", len(collection.Insights))
	fmt.Fprintf(&b, "- Average confidence: %.1f%%\n", collection.AverageConfidence*100)
	fmt.Fprintf(&b, "- Average relevance: %.1f%%\n", collection.AverageRelevance*100)
	fmt.Fprintf(&b, "- Critical: %d, High: %d\n", collection.CriticalCount, collection.HighCount)
	if len(collection.Sources) > 0 {
		fmt.Fprintf(&b, "- Data sources: %s\n", strings.Join(collection.Sources, ", "))
	}
	b.WriteString("\n")

	if len(collection.Insights) == 0 {
		b.WriteString("No significant insights were generated from the available data.\n")
		return b.String()
	}

	b.WriteString("## Insights\n\n")
	for i, ins := range collection.Insights {
		fmt.Fprintf(&b, "### %d. %s\n\n", i+1, ins.Title)
		fmt.Fprintf(&b, "**Severity:** %s | **Confidence:** %.0f%% | **Priority:** %.2f\n\n",
			ins.Severity, ins.Confidence*100, collection.Priority(ins.ID))
		if ins.Narrative != "" {
			fmt.Fprintf(&b, "%s\n\n", ins.Narrative)
		} else if ins.Description != "" {
			fmt.Fprintf(&b, "%s\n\n", ins.Description)
		}

		if len(ins.Actions) > 0 {
			b.WriteString("Recommended actions:\n\n")
			for _, action := range ins.Actions {
				fmt.Fprintf(&b, "- %s\n", action)
			}
			b.WriteString("\n")
		}

		for _, exp := range ins.Explanations {
			fmt.Fprintf(&b, "*%s*\n\n", exp.Content)
		}
	}

	return b.String()
}
