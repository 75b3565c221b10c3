package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Insight generation
	mux.HandleFunc("/api/insights/generate", s.app.InsightHandler.GenerateHandler)

	// API routes - Stored collections
	mux.HandleFunc("/api/collections", s.app.CollectionHandler.ListHandler)
	mux.HandleFunc("/api/collections/", s.handleCollectionRoutes) // GET/DELETE /{id} and subpaths

	// API routes - Role requirements
	mux.HandleFunc("/api/roles", s.handleRolesRoute)  // GET (list), POST (create/replace)
	mux.HandleFunc("/api/roles/", s.handleRoleRoutes) // GET/DELETE /{id}

	// API routes - Feedback
	mux.HandleFunc("/api/feedback/explicit", s.app.FeedbackHandler.RecordExplicitHandler)
	mux.HandleFunc("/api/feedback/implicit", s.app.FeedbackHandler.RecordImplicitHandler)
	mux.HandleFunc("/api/feedback/summary", s.app.FeedbackHandler.SummaryHandler)
	mux.HandleFunc("/api/feedback/engagement", s.app.FeedbackHandler.EngagementHandler)
	mux.HandleFunc("/api/feedback/insight/", s.app.FeedbackHandler.ByInsightHandler)

	// API routes - Learning
	mux.HandleFunc("/api/learning/metrics", s.app.LearningHandler.MetricsHandler)
	mux.HandleFunc("/api/learning/state", s.app.LearningHandler.StateHandler)
	mux.HandleFunc("/api/learning/history", s.app.LearningHandler.HistoryHandler)
	mux.HandleFunc("/api/learning/adapt", s.app.LearningHandler.AdaptHandler)
	mux.HandleFunc("/api/learning/recommend", s.app.LearningHandler.RecommendHandler)
	mux.HandleFunc("/api/learning/suggestions", s.app.LearningHandler.SuggestionsHandler)

	// API routes - Scheduler
	mux.HandleFunc("/api/scheduler/jobs", s.app.SchedulerHandler.ListJobsHandler)
	mux.HandleFunc("/api/scheduler/jobs/", s.handleSchedulerJobRoutes)
	mux.HandleFunc("/api/scheduler/trigger-adaptation", s.app.SchedulerHandler.TriggerAdaptationHandler)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/config", s.app.ConfigHandler.GetConfigHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleCollectionRoutes routes /api/collections/{id} requests and subpaths
func (s *Server) handleCollectionRoutes(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	// GET /api/collections/{id}/summary
	if strings.HasSuffix(path, "/summary") {
		s.app.CollectionHandler.SummaryHandler(w, r)
		return
	}

	// GET /api/collections/{id}/report
	if strings.HasSuffix(path, "/report") {
		s.app.CollectionHandler.ReportHandler(w, r)
		return
	}

	switch r.Method {
	case "GET":
		s.app.CollectionHandler.GetHandler(w, r)
	case "DELETE":
		s.app.CollectionHandler.DeleteHandler(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleRolesRoute routes /api/roles requests (list and create)
func (s *Server) handleRolesRoute(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		s.app.RoleHandler.ListHandler(w, r)
	case "POST":
		s.app.RoleHandler.SaveHandler(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleRoleRoutes routes /api/roles/{id} requests
func (s *Server) handleRoleRoutes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		s.app.RoleHandler.GetHandler(w, r)
	case "PUT":
		s.app.RoleHandler.SaveHandler(w, r)
	case "DELETE":
		s.app.RoleHandler.DeleteHandler(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleSchedulerJobRoutes routes /api/scheduler/jobs/{name} requests and
// the enable/disable actions
func (s *Server) handleSchedulerJobRoutes(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	if r.Method == "POST" && strings.HasSuffix(path, "/enable") {
		s.app.SchedulerHandler.EnableJobHandler(w, r)
		return
	}

	if r.Method == "POST" && strings.HasSuffix(path, "/disable") {
		s.app.SchedulerHandler.DisableJobHandler(w, r)
		return
	}

	if r.Method == "GET" {
		s.app.SchedulerHandler.GetJobHandler(w, r)
		return
	}

	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}
