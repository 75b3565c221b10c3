package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/indago/internal/interfaces"
)

// SchedulerHandler handles scheduler-related endpoints
type SchedulerHandler struct {
	schedulerService interfaces.SchedulerService
}

// NewSchedulerHandler creates a new scheduler handler
func NewSchedulerHandler(schedulerService interfaces.SchedulerService) *SchedulerHandler {
	return &SchedulerHandler{
		schedulerService: schedulerService,
	}
}

// jobStatusResponse is the JSON shape of a scheduled job status
type jobStatusResponse struct {
	Name      string     `json:"name"`
	Enabled   bool       `json:"enabled"`
	Schedule  string     `json:"schedule"`
	LastRun   *time.Time `json:"last_run,omitempty"`
	NextRun   *time.Time `json:"next_run,omitempty"`
	IsRunning bool       `json:"is_running"`
	LastError string     `json:"last_error,omitempty"`
}

func toJobStatusResponse(status *interfaces.JobStatus) jobStatusResponse {
	return jobStatusResponse{
		Name:      status.Name,
		Enabled:   status.Enabled,
		Schedule:  status.Schedule,
		LastRun:   status.LastRun,
		NextRun:   status.NextRun,
		IsRunning: status.IsRunning,
		LastError: status.LastError,
	}
}

// ListJobsHandler handles GET /api/scheduler/jobs
func (h *SchedulerHandler) ListJobsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	statuses := h.schedulerService.GetAllJobStatuses()
	jobs := make(map[string]jobStatusResponse, len(statuses))
	for name, status := range statuses {
		jobs[name] = toJobStatusResponse(status)
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"running": h.schedulerService.IsRunning(),
		"jobs":    jobs,
	})
}

// GetJobHandler handles GET /api/scheduler/jobs/{name}
func (h *SchedulerHandler) GetJobHandler(w http.ResponseWriter, r *http.Request) {
	name := PathSuffix(r, "/api/scheduler/jobs/")
	if name == "" {
		WriteError(w, http.StatusBadRequest, "Job name is required")
		return
	}

	status, err := h.schedulerService.GetJobStatus(name)
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, toJobStatusResponse(status))
}

// EnableJobHandler handles POST /api/scheduler/jobs/{name}/enable
func (h *SchedulerHandler) EnableJobHandler(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(PathSuffix(r, "/api/scheduler/jobs/"), "/enable")
	if err := h.schedulerService.EnableJob(name); err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	WriteSuccess(w, "Job enabled")
}

// DisableJobHandler handles POST /api/scheduler/jobs/{name}/disable
func (h *SchedulerHandler) DisableJobHandler(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(PathSuffix(r, "/api/scheduler/jobs/"), "/disable")
	if err := h.schedulerService.DisableJob(name); err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	WriteSuccess(w, "Job disabled")
}

// TriggerAdaptationHandler handles POST /api/scheduler/trigger-adaptation,
// running the learning adaptation pass out of schedule
func (h *SchedulerHandler) TriggerAdaptationHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	if err := h.schedulerService.TriggerAdaptationNow(); err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteSuccess(w, "Adaptation triggered")
}
