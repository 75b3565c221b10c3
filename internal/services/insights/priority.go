package insights

import "github.com/ternarybob/indago/internal/models"

// Priority formula weights
const (
	WeightRelevance  = 0.4
	WeightImpact     = 0.3
	WeightConfidence = 0.3
)

// Severity boosts applied after the weighted sum
const (
	CriticalBoost = 1.5
	HighBoost     = 1.2
)

// PriorityScore combines relevance, impact and confidence into the ranking
// value, boosted for critical and high severity
func PriorityScore(ins *models.Insight) float64 {
	score := ins.Relevance*WeightRelevance +
		ins.Impact*WeightImpact +
		ins.Confidence*WeightConfidence

	switch ins.Severity {
	case models.SeverityCritical:
		score *= CriticalBoost
	case models.SeverityHigh:
		score *= HighBoost
	}

	return score
}
