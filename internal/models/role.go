package models

import (
	"errors"
	"fmt"
	"time"
)

// RoleLevel places a role in the organizational hierarchy. The level drives
// the broad-acceptance stage of the role filter.
type RoleLevel string

// RoleLevel constants
const (
	LevelExecutive  RoleLevel = "executive"
	LevelDirector   RoleLevel = "director"
	LevelManager    RoleLevel = "manager"
	LevelAnalyst    RoleLevel = "analyst"
	LevelSpecialist RoleLevel = "specialist"
)

// IsValidRoleLevel checks if a given RoleLevel is one of the valid constants
func IsValidRoleLevel(level RoleLevel) bool {
	switch level {
	case LevelExecutive, LevelDirector, LevelManager, LevelAnalyst, LevelSpecialist:
		return true
	default:
		return false
	}
}

// RoleRequirement is the per-role reporting policy: which insight types the
// role cares about, the confidence floor, and the per-report quota. The
// InsightTypes vocabulary is free-form; the generator matches it fuzzily.
type RoleRequirement struct {
	RoleID      string    `json:"role_id" toml:"role_id" validate:"required"`
	Name        string    `json:"name" toml:"name" validate:"required"`
	Level       RoleLevel `json:"level" toml:"level" validate:"required,oneof=executive director manager analyst specialist"`
	Description string    `json:"description,omitempty" toml:"description"`

	InsightTypes         []string `json:"insight_types" toml:"insight_types" validate:"required,min=1"`
	MinConfidence        float64  `json:"min_confidence" toml:"min_confidence" validate:"gte=0,lte=1"`
	MaxInsightsPerReport int      `json:"max_insights_per_report" toml:"max_insights_per_report" validate:"gt=0"`

	IncludeExplanations    bool `json:"include_explanations" toml:"include_explanations"`
	IncludeRecommendations bool `json:"include_recommendations" toml:"include_recommendations"`

	KeyMetrics []string  `json:"key_metrics,omitempty" toml:"key_metrics"`
	CreatedAt  time.Time `json:"created_at" toml:"-"`
	UpdatedAt  time.Time `json:"updated_at" toml:"-"`
}

// Validate validates the role requirement
func (r *RoleRequirement) Validate() error {
	if r.RoleID == "" {
		return errors.New("role requirement role_id is required")
	}
	if r.Name == "" {
		return errors.New("role requirement name is required")
	}
	if !IsValidRoleLevel(r.Level) {
		return fmt.Errorf("invalid role level: %s (must be one of: executive, director, manager, analyst, specialist)", r.Level)
	}
	if len(r.InsightTypes) == 0 {
		return errors.New("role requirement must list at least one insight type")
	}
	if r.MinConfidence < 0 || r.MinConfidence > 1 {
		return fmt.Errorf("min_confidence %.2f out of range [0,1]", r.MinConfidence)
	}
	if r.MaxInsightsPerReport <= 0 {
		return errors.New("max_insights_per_report must be positive")
	}
	return nil
}
