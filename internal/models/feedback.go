package models

import (
	"errors"
	"fmt"
	"time"
)

// FeedbackType distinguishes explicit ratings from behavioral signals
type FeedbackType string

// FeedbackType constants
const (
	FeedbackExplicit FeedbackType = "explicit"
	FeedbackImplicit FeedbackType = "implicit"
)

// FeedbackRecord is one append-only feedback event for an insight. Explicit
// records carry a rating and flags; implicit records carry behavioral
// signals. Records are never edited or deleted; corrections are new records.
type FeedbackRecord struct {
	ID        string       `json:"id" badgerhold:"key"` // fb_{uuid8}
	InsightID string       `json:"insight_id" validate:"required"`
	RoleID    string       `json:"role_id,omitempty"`
	UserID    string       `json:"user_id,omitempty"`
	Type      FeedbackType `json:"type" validate:"required,oneof=explicit implicit"`

	// Explicit payload
	Rating   int    `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5"`
	Relevant *bool  `json:"relevant,omitempty"`
	Accurate *bool  `json:"accurate,omitempty"`
	Comment  string `json:"comment,omitempty"`

	// Implicit payload
	ViewSeconds float64 `json:"view_seconds,omitempty"`
	Clicked     bool    `json:"clicked,omitempty"`
	DrilledDown bool    `json:"drilled_down,omitempty"`
	Shared      bool    `json:"shared,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Validate validates the feedback record
func (f *FeedbackRecord) Validate() error {
	if f.InsightID == "" {
		return errors.New("feedback insight_id is required")
	}
	switch f.Type {
	case FeedbackExplicit:
		if f.Rating != 0 && (f.Rating < 1 || f.Rating > 5) {
			return fmt.Errorf("rating %d out of range [1,5]", f.Rating)
		}
		if f.Rating == 0 && f.Relevant == nil && f.Accurate == nil && f.Comment == "" {
			return errors.New("explicit feedback must carry a rating, flag or comment")
		}
	case FeedbackImplicit:
		if f.ViewSeconds < 0 {
			return errors.New("view_seconds must not be negative")
		}
	default:
		return fmt.Errorf("invalid feedback type: %s (must be one of: explicit, implicit)", f.Type)
	}
	return nil
}

// EngagementScore converts an implicit record's signals into a single
// score: 10 viewing seconds equal one point, a click adds 2, a drill-down
// 3 and a share 5.
func (f *FeedbackRecord) EngagementScore() float64 {
	score := f.ViewSeconds / 10
	if f.Clicked {
		score += 2
	}
	if f.DrilledDown {
		score += 3
	}
	if f.Shared {
		score += 5
	}
	return score
}

// FeedbackSummary aggregates feedback over a trailing window
type FeedbackSummary struct {
	ID            string    `json:"id"` // sum_{uuid8}
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	TotalFeedback int       `json:"total_feedback"`
	AverageRating float64   `json:"average_rating"`
	PositiveRate  float64   `json:"positive_rate"` // share of ratings >= 4
	NegativeRate  float64   `json:"negative_rate"` // share of ratings <= 2
	Comments      []string  `json:"comments,omitempty"`
}

// LearnedState is the materialized view over the feedback log: per-insight
// weights and per-role preference maps. Fully recomputable at any time.
type LearnedState struct {
	InsightWeights  map[string]float64            `json:"insight_weights"`
	RolePreferences map[string]map[string]float64 `json:"role_preferences"`
	ComputedAt      time.Time                     `json:"computed_at"`
}

// LearningMetrics reports aggregate learning health for a trailing window
type LearningMetrics struct {
	WindowDays       int       `json:"window_days"`
	TotalFeedback    int       `json:"total_feedback"`
	AverageRating    float64   `json:"average_rating"`
	PositiveRate     float64   `json:"positive_rate"`
	UserSatisfaction float64   `json:"user_satisfaction"` // average rating / 5
	WeightedInsights int       `json:"weighted_insights"`
	RolesWithPrefs   int       `json:"roles_with_prefs"`
	LastAdaptation   time.Time `json:"last_adaptation,omitzero"`
}

// AdaptationActionType names the two adaptation steps
type AdaptationActionType string

// AdaptationActionType constants
const (
	ActionAdjustWeights AdaptationActionType = "adjust_weights"
	ActionUpdateRules   AdaptationActionType = "update_rules"
)

// AdaptationAction records one applied adaptation step
type AdaptationAction struct {
	ID          string               `json:"id"` // adapt_{uuid8}
	Type        AdaptationActionType `json:"type"`
	Description string               `json:"description"`
	Affected    int                  `json:"affected"` // weights or preference entries touched
	AppliedAt   time.Time            `json:"applied_at"`
}
