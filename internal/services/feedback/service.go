// Package feedback collects explicit ratings and implicit behavioral signals
// for insights. The underlying log is append-only; corrections are recorded
// as new entries.
package feedback

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
	"github.com/ternarybob/indago/internal/services/events"
)

// Service records and aggregates feedback
type Service struct {
	storage interfaces.FeedbackStorage
	events  interfaces.EventService
	logger  arbor.ILogger
}

// NewService creates a new feedback service. events may be nil.
func NewService(storage interfaces.FeedbackStorage, events interfaces.EventService, logger arbor.ILogger) *Service {
	return &Service{
		storage: storage,
		events:  events,
		logger:  logger,
	}
}

// RecordExplicit stores a rating/flag/comment record for an insight
func (s *Service) RecordExplicit(ctx context.Context, record *models.FeedbackRecord) (*models.FeedbackRecord, error) {
	record.Type = models.FeedbackExplicit
	return s.record(ctx, record)
}

// RecordImplicit stores a behavioral record for an insight
func (s *Service) RecordImplicit(ctx context.Context, record *models.FeedbackRecord) (*models.FeedbackRecord, error) {
	record.Type = models.FeedbackImplicit
	return s.record(ctx, record)
}

func (s *Service) record(ctx context.Context, record *models.FeedbackRecord) (*models.FeedbackRecord, error) {
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("invalid feedback: %w", err)
	}

	record.ID = common.NewFeedbackID()
	record.CreatedAt = time.Now()

	if err := s.storage.SaveFeedback(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}

	s.logger.Info().
		Str("feedback_id", record.ID).
		Str("insight_id", record.InsightID).
		Str("type", string(record.Type)).
		Int("rating", record.Rating).
		Msg("Feedback recorded")

	s.publishRecorded(ctx, record)
	return record, nil
}

func (s *Service) publishRecorded(ctx context.Context, record *models.FeedbackRecord) {
	if s.events == nil {
		return
	}
	err := s.events.Publish(ctx, interfaces.Event{
		Type: interfaces.EventFeedbackRecorded,
		Payload: events.FeedbackRecordedPayload{
			FeedbackID: record.ID,
			InsightID:  record.InsightID,
			RoleID:     record.RoleID,
			Type:       string(record.Type),
			Rating:     record.Rating,
			RecordedAt: record.CreatedAt,
		},
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to publish feedback event")
	}
}

// GetByInsight returns all feedback recorded for one insight
func (s *Service) GetByInsight(ctx context.Context, insightID string) ([]*models.FeedbackRecord, error) {
	records, err := s.storage.GetFeedbackByInsight(ctx, insightID)
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback for insight %s: %w", insightID, err)
	}
	return records, nil
}

// GetAverageRating returns the mean explicit rating for an insight. The
// second return is false when no rated feedback exists.
func (s *Service) GetAverageRating(ctx context.Context, insightID string) (float64, bool, error) {
	records, err := s.storage.GetFeedbackByInsight(ctx, insightID)
	if err != nil {
		return 0, false, fmt.Errorf("failed to get feedback for insight %s: %w", insightID, err)
	}

	sum := 0
	count := 0
	for _, record := range records {
		if record.Type == models.FeedbackExplicit && record.Rating > 0 {
			sum += record.Rating
			count++
		}
	}
	if count == 0 {
		return 0, false, nil
	}
	return float64(sum) / float64(count), true, nil
}

// GetSummary aggregates explicit feedback over a trailing window of days
func (s *Service) GetSummary(ctx context.Context, days int) (*models.FeedbackSummary, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	records, err := s.storage.GetFeedbackSince(ctx, startDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent feedback: %w", err)
	}

	summary := &models.FeedbackSummary{
		ID:            common.NewSummaryID(),
		StartDate:     startDate,
		EndDate:       endDate,
		TotalFeedback: len(records),
	}

	ratingSum := 0
	ratingCount := 0
	positive := 0
	negative := 0
	for _, record := range records {
		if record.Comment != "" {
			summary.Comments = append(summary.Comments, record.Comment)
		}
		if record.Type != models.FeedbackExplicit || record.Rating == 0 {
			continue
		}
		ratingSum += record.Rating
		ratingCount++
		if record.Rating >= 4 {
			positive++
		}
		if record.Rating <= 2 {
			negative++
		}
	}

	if ratingCount > 0 {
		summary.AverageRating = float64(ratingSum) / float64(ratingCount)
		summary.PositiveRate = float64(positive) / float64(ratingCount)
		summary.NegativeRate = float64(negative) / float64(ratingCount)
	}

	s.logger.Info().
		Int("total", summary.TotalFeedback).
		Float64("avg_rating", summary.AverageRating).
		Msg("Feedback summary generated")
	return summary, nil
}

// GetLowRatedInsights returns ids of insights whose average explicit rating
// falls below the threshold
func (s *Service) GetLowRatedInsights(ctx context.Context, threshold float64) ([]string, error) {
	records, err := s.storage.GetAllFeedback(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}

	sums := make(map[string]int)
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, record := range records {
		if record.Type != models.FeedbackExplicit || record.Rating == 0 {
			continue
		}
		if _, seen := counts[record.InsightID]; !seen {
			order = append(order, record.InsightID)
		}
		sums[record.InsightID] += record.Rating
		counts[record.InsightID]++
	}

	var lowRated []string
	for _, insightID := range order {
		avg := float64(sums[insightID]) / float64(counts[insightID])
		if avg < threshold {
			lowRated = append(lowRated, insightID)
		}
	}
	return lowRated, nil
}

// GetHighEngagementInsights returns up to 10 insight ids ranked by average
// implicit engagement score, highest first
func (s *Service) GetHighEngagementInsights(ctx context.Context) ([]string, error) {
	records, err := s.storage.GetAllFeedback(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, record := range records {
		if record.Type != models.FeedbackImplicit {
			continue
		}
		if _, seen := counts[record.InsightID]; !seen {
			order = append(order, record.InsightID)
		}
		sums[record.InsightID] += record.EngagementScore()
		counts[record.InsightID]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		avgI := sums[order[i]] / float64(counts[order[i]])
		avgJ := sums[order[j]] / float64(counts[order[j]])
		return avgI > avgJ
	})

	if len(order) > 10 {
		order = order[:10]
	}
	return order, nil
}

// Count returns the total number of feedback records
func (s *Service) Count(ctx context.Context) (int, error) {
	count, err := s.storage.CountFeedback(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count feedback: %w", err)
	}
	return count, nil
}
