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
	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
	"github.com/ternarybob/indago/internal/services/analysis"
	"github.com/ternarybob/indago/internal/services/insights"
	"github.com/ternarybob/indago/internal/services/roles"
)

// stubRoleStorage implements interfaces.RoleStorage over a map
type stubRoleStorage struct {
	roles map[string]*models.RoleRequirement
}

func (s *stubRoleStorage) SaveRole(ctx context.Context, role *models.RoleRequirement) error {
	s.roles[role.RoleID] = role
	return nil
}

func (s *stubRoleStorage) GetRole(ctx context.Context, roleID string) (*models.RoleRequirement, error) {
	role, ok := s.roles[roleID]
	if !ok {
		return nil, fmt.Errorf("role %s: %w", roleID, interfaces.ErrRoleNotFound)
	}
	return role, nil
}

func (s *stubRoleStorage) GetAllRoles(ctx context.Context) ([]*models.RoleRequirement, error) {
	var all []*models.RoleRequirement
	for _, role := range s.roles {
		all = append(all, role)
	}
	return all, nil
}

func (s *stubRoleStorage) DeleteRole(ctx context.Context, roleID string) error {
	if _, ok := s.roles[roleID]; !ok {
		return fmt.Errorf("role %s: %w", roleID, interfaces.ErrRoleNotFound)
	}
	delete(s.roles, roleID)
	return nil
}

func (s *stubRoleStorage) CountRoles(ctx context.Context) (int, error) {
	return len(s.roles), nil
}

// stubCollectionStorage implements interfaces.CollectionStorage over a slice
type stubCollectionStorage struct {
	saved   []*models.InsightCollection
	saveErr error
}

func (s *stubCollectionStorage) SaveCollection(ctx context.Context, collection *models.InsightCollection) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, collection)
	return nil
}

func (s *stubCollectionStorage) GetCollection(ctx context.Context, id string) (*models.InsightCollection, error) {
	for _, c := range s.saved {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("collection %s not found", id)
}

func (s *stubCollectionStorage) GetCollectionsByRole(ctx context.Context, roleID string) ([]*models.InsightCollection, error) {
	var matched []*models.InsightCollection
	for _, c := range s.saved {
		if c.RoleID == roleID {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

func (s *stubCollectionStorage) ListCollections(ctx context.Context, opts *interfaces.ListOptions) ([]*models.InsightCollection, error) {
	return s.saved, nil
}

func (s *stubCollectionStorage) DeleteCollection(ctx context.Context, id string) error {
	for i, c := range s.saved {
		if c.ID == id {
			s.saved = append(s.saved[:i], s.saved[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *stubCollectionStorage) CountCollections(ctx context.Context) (int, error) {
	return len(s.saved), nil
}

func newTestInsightHandler(collections *stubCollectionStorage, roleStorage *stubRoleStorage) *InsightHandler {
	logger := arbor.NewLogger()
	config := common.NewDefaultConfig().Analysis
	analyzer := analysis.NewService(config, logger)
	generator := insights.NewService(analyzer, config, nil, logger)
	roleService := roles.NewService(roleStorage, logger)
	return NewInsightHandler(generator, roleService, collections, nil, logger)
}

func growthDataset() models.Dataset {
	cells := make([]models.Cell, 12)
	for i := range cells {
		cells[i] = models.NumberCell(float64(100 + i*10))
	}
	return models.Dataset{
		Name:    "sales",
		Columns: []models.Column{{Name: "revenue", Type: models.ColumnNumeric, Cells: cells}},
	}
}

func postGenerate(handler *InsightHandler, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", "/api/insights/generate", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	handler.GenerateHandler(rec, req)
	return rec
}

func TestGenerateHandler_Success(t *testing.T) {
	collections := &stubCollectionStorage{}
	handler := newTestInsightHandler(collections, &stubRoleStorage{roles: map[string]*models.RoleRequirement{}})

	rec := postGenerate(handler, GenerateRequest{Dataset: growthDataset()})

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var collection models.InsightCollection
	if err := json.NewDecoder(rec.Body).Decode(&collection); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if collection.RoleID != "general" {
		t.Errorf("Expected role 'general', got %q", collection.RoleID)
	}
	if len(collection.Insights) == 0 {
		t.Error("Expected insights for a steadily growing column")
	}
	if len(collections.saved) != 1 {
		t.Fatalf("Expected 1 saved collection, got %d", len(collections.saved))
	}
	if collections.saved[0].ID != collection.ID {
		t.Errorf("Saved collection id %s does not match response %s", collections.saved[0].ID, collection.ID)
	}
}

func TestGenerateHandler_WithRole(t *testing.T) {
	roleStorage := &stubRoleStorage{roles: map[string]*models.RoleRequirement{
		"cfo": {
			RoleID:               "cfo",
			Name:                 "Chief Financial Officer",
			Level:                models.LevelExecutive,
			InsightTypes:         []string{"trend"},
			MinConfidence:        0.6,
			MaxInsightsPerReport: 5,
		},
	}}
	handler := newTestInsightHandler(&stubCollectionStorage{}, roleStorage)

	rec := postGenerate(handler, GenerateRequest{Dataset: growthDataset(), RoleID: "cfo"})

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var collection models.InsightCollection
	json.NewDecoder(rec.Body).Decode(&collection)

	if collection.RoleID != "cfo" {
		t.Errorf("Expected role 'cfo', got %q", collection.RoleID)
	}
	if len(collection.Insights) > 5 {
		t.Errorf("Expected at most 5 insights for the role quota, got %d", len(collection.Insights))
	}
}

func TestGenerateHandler_UnknownRole(t *testing.T) {
	handler := newTestInsightHandler(&stubCollectionStorage{}, &stubRoleStorage{roles: map[string]*models.RoleRequirement{}})

	rec := postGenerate(handler, GenerateRequest{Dataset: growthDataset(), RoleID: "ghost"})

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestGenerateHandler_InvalidDataset(t *testing.T) {
	collections := &stubCollectionStorage{}
	handler := newTestInsightHandler(collections, &stubRoleStorage{roles: map[string]*models.RoleRequirement{}})

	rec := postGenerate(handler, GenerateRequest{Dataset: models.Dataset{Name: ""}})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
	if len(collections.saved) != 0 {
		t.Errorf("Expected no saved collections, got %d", len(collections.saved))
	}
}

func TestGenerateHandler_InvalidBody(t *testing.T) {
	handler := newTestInsightHandler(&stubCollectionStorage{}, &stubRoleStorage{roles: map[string]*models.RoleRequirement{}})

	req := httptest.NewRequest("POST", "/api/insights/generate", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	handler.GenerateHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCollectionHandler_GetAndList(t *testing.T) {
	collections := &stubCollectionStorage{saved: []*models.InsightCollection{
		{ID: "coll_1", Dataset: "sales", RoleID: "cfo", GeneratedAt: time.Now()},
		{ID: "coll_2", Dataset: "sales", RoleID: "analyst", GeneratedAt: time.Now()},
	}}
	handler := NewCollectionHandler(collections, nil, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/collections/coll_1", nil)
	rec := httptest.NewRecorder()
	handler.GetHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var collection models.InsightCollection
	json.NewDecoder(rec.Body).Decode(&collection)
	if collection.ID != "coll_1" {
		t.Errorf("Expected coll_1, got %s", collection.ID)
	}

	req = httptest.NewRequest("GET", "/api/collections?role=cfo", nil)
	rec = httptest.NewRecorder()
	handler.ListHandler(rec, req)

	var response map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&response)
	if int(response["count"].(float64)) != 1 {
		t.Errorf("Expected 1 collection for cfo, got %v", response["count"])
	}
}

func TestCollectionHandler_GetMissing(t *testing.T) {
	handler := NewCollectionHandler(&stubCollectionStorage{}, nil, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/collections/coll_missing", nil)
	rec := httptest.NewRecorder()
	handler.GetHandler(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
