// Package learning recomputes insight weights and role preferences from the
// feedback log. The learned state is a materialized view: fully recomputable
// from storage at any time, so adaptation is idempotent over an unchanged log.
package learning

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
	"github.com/ternarybob/indago/internal/services/events"
)

// Engine learns from feedback and adapts ranking
type Engine struct {
	storage interfaces.FeedbackStorage
	events  interfaces.EventService
	config  common.LearningConfig
	logger  arbor.ILogger

	mu      sync.RWMutex
	state   models.LearnedState
	history []models.AdaptationAction
}

// NewEngine creates a new learning engine. events may be nil.
func NewEngine(storage interfaces.FeedbackStorage, events interfaces.EventService, config common.LearningConfig, logger arbor.ILogger) *Engine {
	return &Engine{
		storage: storage,
		events:  events,
		config:  config,
		logger:  logger,
		state: models.LearnedState{
			InsightWeights:  make(map[string]float64),
			RolePreferences: make(map[string]map[string]float64),
		},
	}
}

// InsightWeight implements the generator's WeightProvider. Returns false
// when no weight has been learned for the insight.
func (e *Engine) InsightWeight(insightID string) (float64, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	w, ok := e.state.InsightWeights[insightID]
	return w, ok
}

// State returns a copy of the learned state
func (e *Engine) State() models.LearnedState {
	e.mu.RLock()
	defer e.mu.RUnlock()

	state := models.LearnedState{
		InsightWeights:  make(map[string]float64, len(e.state.InsightWeights)),
		RolePreferences: make(map[string]map[string]float64, len(e.state.RolePreferences)),
		ComputedAt:      e.state.ComputedAt,
	}
	for id, w := range e.state.InsightWeights {
		state.InsightWeights[id] = w
	}
	for role, prefs := range e.state.RolePreferences {
		copied := make(map[string]float64, len(prefs))
		for id, score := range prefs {
			copied[id] = score
		}
		state.RolePreferences[role] = copied
	}
	return state
}

// UpdateInsightWeights recomputes the per-insight weight map from all
// explicit feedback. The weight is the average rating normalized to [0,1],
// defaulting to 0.5 when an insight has feedback but no ratings, boosted by
// 1.2 when the majority of relevance flags are true, clamped at 1.0.
func (e *Engine) UpdateInsightWeights(ctx context.Context) (int, error) {
	records, err := e.storage.GetAllFeedback(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load feedback: %w", err)
	}

	type tally struct {
		ratingSum     int
		ratingCount   int
		relevantTrue  int
		relevantTotal int
	}
	tallies := make(map[string]*tally)
	for _, record := range records {
		if record.Type != models.FeedbackExplicit {
			continue
		}
		t := tallies[record.InsightID]
		if t == nil {
			t = &tally{}
			tallies[record.InsightID] = t
		}
		if record.Rating > 0 {
			t.ratingSum += record.Rating
			t.ratingCount++
		}
		if record.Relevant != nil {
			t.relevantTotal++
			if *record.Relevant {
				t.relevantTrue++
			}
		}
	}

	weights := make(map[string]float64, len(tallies))
	for insightID, t := range tallies {
		weight := 0.5
		if t.ratingCount > 0 {
			weight = float64(t.ratingSum) / float64(t.ratingCount) / 5.0
		}
		if t.relevantTotal > 0 && float64(t.relevantTrue)/float64(t.relevantTotal) > 0.5 {
			weight *= 1.2
		}
		if weight > 1.0 {
			weight = 1.0
		}
		weights[insightID] = weight
	}

	e.mu.Lock()
	e.state.InsightWeights = weights
	e.state.ComputedAt = time.Now()
	e.mu.Unlock()

	e.logger.Info().Int("count", len(weights)).Msg("Insight weights updated")
	return len(weights), nil
}

// LearnRolePreferences recomputes the per-role preference maps. Only
// explicit ratings of 4 or 5 with a role id register a preference, scored
// as rating/5.
func (e *Engine) LearnRolePreferences(ctx context.Context) (int, error) {
	records, err := e.storage.GetAllFeedback(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load feedback: %w", err)
	}

	preferences := make(map[string]map[string]float64)
	entries := 0
	for _, record := range records {
		if record.Type != models.FeedbackExplicit || record.RoleID == "" || record.Rating < 4 {
			continue
		}
		prefs := preferences[record.RoleID]
		if prefs == nil {
			prefs = make(map[string]float64)
			preferences[record.RoleID] = prefs
		}
		prefs[record.InsightID] = float64(record.Rating) / 5.0
		entries++
	}

	e.mu.Lock()
	e.state.RolePreferences = preferences
	e.state.ComputedAt = time.Now()
	e.mu.Unlock()

	e.logger.Info().
		Int("roles", len(preferences)).
		Int("entries", entries).
		Msg("Role preferences learned")
	return entries, nil
}

// RecommendForRole reorders insight ids by the role's learned preference
// scores, highest first, original order preserved on ties. Unknown insights
// score the neutral 0.5. A role with no learned preferences gets the input
// back unchanged.
func (e *Engine) RecommendForRole(roleID string, insightIDs []string) []string {
	e.mu.RLock()
	prefs, ok := e.state.RolePreferences[roleID]
	e.mu.RUnlock()

	if !ok {
		return insightIDs
	}

	scored := make([]string, len(insightIDs))
	copy(scored, insightIDs)
	sort.SliceStable(scored, func(i, j int) bool {
		scoreI, okI := prefs[scored[i]]
		if !okI {
			scoreI = 0.5
		}
		scoreJ, okJ := prefs[scored[j]]
		if !okJ {
			scoreJ = 0.5
		}
		return scoreI > scoreJ
	})
	return scored
}

// GetMetrics reports learning health over the configured feedback window
func (e *Engine) GetMetrics(ctx context.Context) (*models.LearningMetrics, error) {
	windowDays := e.config.FeedbackWindowDays
	since := time.Now().AddDate(0, 0, -windowDays)

	records, err := e.storage.GetFeedbackSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent feedback: %w", err)
	}

	metrics := &models.LearningMetrics{
		WindowDays:    windowDays,
		TotalFeedback: len(records),
	}

	ratingSum := 0
	ratingCount := 0
	positive := 0
	for _, record := range records {
		if record.Type != models.FeedbackExplicit || record.Rating == 0 {
			continue
		}
		ratingSum += record.Rating
		ratingCount++
		if record.Rating >= 4 {
			positive++
		}
	}
	if ratingCount > 0 {
		metrics.AverageRating = float64(ratingSum) / float64(ratingCount)
		metrics.PositiveRate = float64(positive) / float64(ratingCount)
		metrics.UserSatisfaction = metrics.AverageRating / 5.0
	}

	e.mu.RLock()
	metrics.WeightedInsights = len(e.state.InsightWeights)
	metrics.RolesWithPrefs = len(e.state.RolePreferences)
	if len(e.history) > 0 {
		metrics.LastAdaptation = e.history[len(e.history)-1].AppliedAt
	}
	e.mu.RUnlock()

	return metrics, nil
}

// Adapt runs both adaptation steps and records their actions. Re-running
// over an unchanged feedback log produces the same learned state.
func (e *Engine) Adapt(ctx context.Context) ([]models.AdaptationAction, error) {
	e.logger.Info().Msg("Running learning adaptation")

	weightCount, err := e.UpdateInsightWeights(ctx)
	if err != nil {
		return nil, err
	}
	weightsAction := models.AdaptationAction{
		ID:          common.NewAdaptationID(),
		Type:        models.ActionAdjustWeights,
		Description: "Recomputed insight weights from explicit feedback",
		Affected:    weightCount,
		AppliedAt:   time.Now(),
	}

	prefCount, err := e.LearnRolePreferences(ctx)
	if err != nil {
		return nil, err
	}
	rulesAction := models.AdaptationAction{
		ID:          common.NewAdaptationID(),
		Type:        models.ActionUpdateRules,
		Description: "Relearned role preference maps from high ratings",
		Affected:    prefCount,
		AppliedAt:   time.Now(),
	}

	actions := []models.AdaptationAction{weightsAction, rulesAction}

	e.mu.Lock()
	e.history = append(e.history, actions...)
	e.mu.Unlock()

	e.publishApplied(ctx, actions, weightCount, prefCount)

	e.logger.Info().
		Int("weights", weightCount).
		Int("preferences", prefCount).
		Msg("Learning adaptation complete")
	return actions, nil
}

func (e *Engine) publishApplied(ctx context.Context, actions []models.AdaptationAction, weights, prefs int) {
	if e.events == nil {
		return
	}
	ids := make([]string, len(actions))
	for i, action := range actions {
		ids[i] = action.ID
	}
	err := e.events.Publish(ctx, interfaces.Event{
		Type: interfaces.EventAdaptationApplied,
		Payload: events.AdaptationAppliedPayload{
			ActionIDs:       ids,
			WeightsAdjusted: weights,
			RulesUpdated:    prefs,
			AppliedAt:       time.Now(),
		},
	})
	if err != nil {
		e.logger.Warn().Err(err).Msg("Failed to publish adaptation event")
	}
}

// History returns the recorded adaptation actions, oldest first
func (e *Engine) History() []models.AdaptationAction {
	e.mu.RLock()
	defer e.mu.RUnlock()
	history := make([]models.AdaptationAction, len(e.history))
	copy(history, e.history)
	return history
}

// ImprovementSuggestions derives operator-facing suggestions from the
// current feedback picture
func (e *Engine) ImprovementSuggestions(ctx context.Context, lowRated []string) ([]string, error) {
	metrics, err := e.GetMetrics(ctx)
	if err != nil {
		return nil, err
	}

	var suggestions []string
	if len(lowRated) > 0 {
		suggestions = append(suggestions, fmt.Sprintf("Improve or filter %d low-rated insights", len(lowRated)))
	}
	if metrics.TotalFeedback < 10 {
		suggestions = append(suggestions, "Encourage more user feedback")
	}
	if metrics.AverageRating > 0 && metrics.AverageRating < 3.5 {
		suggestions = append(suggestions, "Address user satisfaction concerns")
	}
	return suggestions, nil
}
