package roles

import (
	"time"

	"github.com/ternarybob/indago/internal/models"
)

// Per-level requirement defaults. Hands-on levels get more insights at a
// lower confidence bar; executive levels get fewer, more certain ones.
var levelDefaults = map[models.RoleLevel]struct {
	insightTypes  []string
	minConfidence float64
	maxInsights   int
}{
	models.LevelExecutive: {
		insightTypes:  []string{"trend", "strategic_risk", "opportunity", "high_level_comparison"},
		minConfidence: 0.8,
		maxInsights:   5,
	},
	models.LevelDirector: {
		insightTypes:  []string{"trend", "comparison", "anomaly", "forecast"},
		minConfidence: 0.75,
		maxInsights:   8,
	},
	models.LevelManager: {
		insightTypes:  []string{"anomaly", "trend", "team_performance", "operational_issue"},
		minConfidence: 0.7,
		maxInsights:   10,
	},
	models.LevelAnalyst: {
		insightTypes:  []string{"detailed_analysis", "root_cause", "variance", "forecast"},
		minConfidence: 0.65,
		maxInsights:   15,
	},
	models.LevelSpecialist: {
		insightTypes:  []string{"detailed_analysis", "root_cause", "variance", "forecast"},
		minConfidence: 0.65,
		maxInsights:   15,
	},
}

// RequirementForLevel builds a requirement skeleton from the level defaults.
// Recommendations are included for executive and director levels only.
func RequirementForLevel(roleID, name string, level models.RoleLevel) *models.RoleRequirement {
	defaults := levelDefaults[level]
	now := time.Now()
	return &models.RoleRequirement{
		RoleID:                 roleID,
		Name:                   name,
		Level:                  level,
		InsightTypes:           append([]string(nil), defaults.insightTypes...),
		MinConfidence:          defaults.minConfidence,
		MaxInsightsPerReport:   defaults.maxInsights,
		IncludeExplanations:    true,
		IncludeRecommendations: level == models.LevelExecutive || level == models.LevelDirector,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

// BuiltinRequirements returns the standard organizational roles shipped with
// the service. Stored on startup; TOML definition files may override them.
func BuiltinRequirements() []*models.RoleRequirement {
	cfo := RequirementForLevel("cfo", "Chief Financial Officer", models.LevelExecutive)
	cfo.Description = "Strategic financial oversight across the enterprise"
	cfo.KeyMetrics = []string{"Revenue", "Net Profit Margin", "Operating Cash Flow", "EBITDA"}

	salesManager := RequirementForLevel("regional_sales_manager", "Regional Sales Manager", models.LevelManager)
	salesManager.Description = "Territory performance and sales team productivity"
	salesManager.KeyMetrics = []string{"Regional Sales", "Sales Growth Rate", "Sales per Rep", "Customer Retention"}

	analyst := RequirementForLevel("financial_analyst", "Financial Analyst", models.LevelAnalyst)
	analyst.Description = "Variance analysis, cost control and forecasting"
	analyst.KeyMetrics = []string{"Budget Variance", "Expense Ratio", "Working Capital"}

	marketingDirector := RequirementForLevel("marketing_director", "Marketing Director", models.LevelDirector)
	marketingDirector.Description = "Campaign effectiveness and channel performance"
	marketingDirector.KeyMetrics = []string{"Marketing ROI", "Lead Generation", "Customer Acquisition Cost", "Brand Awareness"}

	opsManager := RequirementForLevel("operations_manager", "Operations Manager", models.LevelManager)
	opsManager.Description = "Process efficiency, quality control and capacity"
	opsManager.KeyMetrics = []string{"Operational Efficiency", "On-Time Delivery", "Defect Rate", "Resource Utilization"}

	return []*models.RoleRequirement{cfo, salesManager, analyst, marketingDirector, opsManager}
}
