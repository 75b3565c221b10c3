package events

import "time"

// InsightsGeneratedPayload accompanies EventInsightsGenerated
type InsightsGeneratedPayload struct {
	CollectionID string    `json:"collection_id"`
	Dataset      string    `json:"dataset"`
	RoleID       string    `json:"role_id"`
	InsightCount int       `json:"insight_count"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// FeedbackRecordedPayload accompanies EventFeedbackRecorded
type FeedbackRecordedPayload struct {
	FeedbackID string    `json:"feedback_id"`
	InsightID  string    `json:"insight_id"`
	RoleID     string    `json:"role_id"`
	Type       string    `json:"type"`
	Rating     int       `json:"rating,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// AdaptationAppliedPayload accompanies EventAdaptationApplied
type AdaptationAppliedPayload struct {
	ActionIDs       []string  `json:"action_ids"`
	WeightsAdjusted int       `json:"weights_adjusted"`
	RulesUpdated    int       `json:"rules_updated"`
	AppliedAt       time.Time `json:"applied_at"`
}
