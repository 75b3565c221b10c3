package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/indago/internal/models"
	"github.com/ternarybob/indago/internal/services/feedback"
)

// stubFeedbackStorage implements interfaces.FeedbackStorage over a slice
type stubFeedbackStorage struct {
	records []*models.FeedbackRecord
}

func (s *stubFeedbackStorage) SaveFeedback(ctx context.Context, record *models.FeedbackRecord) error {
	s.records = append(s.records, record)
	return nil
}

func (s *stubFeedbackStorage) GetFeedback(ctx context.Context, id string) (*models.FeedbackRecord, error) {
	for _, r := range s.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, fmt.Errorf("feedback %s not found", id)
}

func (s *stubFeedbackStorage) GetFeedbackByInsight(ctx context.Context, insightID string) ([]*models.FeedbackRecord, error) {
	var matched []*models.FeedbackRecord
	for _, r := range s.records {
		if r.InsightID == insightID {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

func (s *stubFeedbackStorage) GetFeedbackByRole(ctx context.Context, roleID string) ([]*models.FeedbackRecord, error) {
	var matched []*models.FeedbackRecord
	for _, r := range s.records {
		if r.RoleID == roleID {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

func (s *stubFeedbackStorage) GetFeedbackSince(ctx context.Context, since time.Time) ([]*models.FeedbackRecord, error) {
	var matched []*models.FeedbackRecord
	for _, r := range s.records {
		if !r.CreatedAt.Before(since) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

func (s *stubFeedbackStorage) GetAllFeedback(ctx context.Context) ([]*models.FeedbackRecord, error) {
	return s.records, nil
}

func (s *stubFeedbackStorage) CountFeedback(ctx context.Context) (int, error) {
	return len(s.records), nil
}

func newTestFeedbackHandler(storage *stubFeedbackStorage) *FeedbackHandler {
	logger := arbor.NewLogger()
	service := feedback.NewService(storage, nil, logger)
	return NewFeedbackHandler(service, 30, logger)
}

func TestRecordExplicitHandler(t *testing.T) {
	storage := &stubFeedbackStorage{}
	handler := newTestFeedbackHandler(storage)

	payload, _ := json.Marshal(map[string]interface{}{
		"insight_id": "trend_abc",
		"role_id":    "cfo",
		"rating":     5,
	})
	req := httptest.NewRequest("POST", "/api/feedback/explicit", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	handler.RecordExplicitHandler(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var saved models.FeedbackRecord
	json.NewDecoder(rec.Body).Decode(&saved)
	if saved.Type != models.FeedbackExplicit {
		t.Errorf("Expected explicit type, got %s", saved.Type)
	}
	if saved.ID == "" {
		t.Error("Expected generated feedback id")
	}
	if len(storage.records) != 1 {
		t.Errorf("Expected 1 stored record, got %d", len(storage.records))
	}
}

func TestRecordExplicitHandler_InvalidRating(t *testing.T) {
	handler := newTestFeedbackHandler(&stubFeedbackStorage{})

	payload, _ := json.Marshal(map[string]interface{}{
		"insight_id": "trend_abc",
		"rating":     9,
	})
	req := httptest.NewRequest("POST", "/api/feedback/explicit", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	handler.RecordExplicitHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestRecordImplicitHandler(t *testing.T) {
	storage := &stubFeedbackStorage{}
	handler := newTestFeedbackHandler(storage)

	payload, _ := json.Marshal(map[string]interface{}{
		"insight_id":   "anomaly_def",
		"view_seconds": 42.0,
		"clicked":      true,
	})
	req := httptest.NewRequest("POST", "/api/feedback/implicit", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	handler.RecordImplicitHandler(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var saved models.FeedbackRecord
	json.NewDecoder(rec.Body).Decode(&saved)
	if saved.Type != models.FeedbackImplicit {
		t.Errorf("Expected implicit type, got %s", saved.Type)
	}
}

func TestByInsightHandler(t *testing.T) {
	now := time.Now()
	storage := &stubFeedbackStorage{records: []*models.FeedbackRecord{
		{ID: "fb_1", InsightID: "trend_abc", Type: models.FeedbackExplicit, Rating: 4, CreatedAt: now},
		{ID: "fb_2", InsightID: "trend_abc", Type: models.FeedbackExplicit, Rating: 2, CreatedAt: now},
		{ID: "fb_3", InsightID: "other", Type: models.FeedbackExplicit, Rating: 5, CreatedAt: now},
	}}
	handler := newTestFeedbackHandler(storage)

	req := httptest.NewRequest("GET", "/api/feedback/insight/trend_abc", nil)
	rec := httptest.NewRecorder()
	handler.ByInsightHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&response)
	if int(response["count"].(float64)) != 2 {
		t.Errorf("Expected 2 records, got %v", response["count"])
	}
	if response["average_rating"].(float64) != 3.0 {
		t.Errorf("Expected average rating 3.0, got %v", response["average_rating"])
	}
}

func TestSummaryHandler_WindowParam(t *testing.T) {
	old := time.Now().AddDate(0, 0, -10)
	storage := &stubFeedbackStorage{records: []*models.FeedbackRecord{
		{ID: "fb_1", InsightID: "trend_abc", Type: models.FeedbackExplicit, Rating: 4, CreatedAt: old},
		{ID: "fb_2", InsightID: "trend_abc", Type: models.FeedbackExplicit, Rating: 5, CreatedAt: time.Now()},
	}}
	handler := newTestFeedbackHandler(storage)

	// 7-day window excludes the 10-day-old record
	req := httptest.NewRequest("GET", "/api/feedback/summary?days=7", nil)
	rec := httptest.NewRecorder()
	handler.SummaryHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var summary models.FeedbackSummary
	json.NewDecoder(rec.Body).Decode(&summary)
	if summary.TotalFeedback != 1 {
		t.Errorf("Expected 1 record in 7-day window, got %d", summary.TotalFeedback)
	}
	if summary.AverageRating != 5.0 {
		t.Errorf("Expected average 5.0, got %.1f", summary.AverageRating)
	}
}
