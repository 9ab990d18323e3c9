package handlers

import (
	"net/http"
	"time"

	"github.com/pratik-mahalle/d9sync/internal/pkg/errors"
	"github.com/pratik-mahalle/d9sync/internal/pkg/logger"
	"github.com/pratik-mahalle/d9sync/internal/pkg/utils"
	"github.com/pratik-mahalle/d9sync/internal/worker"
)

// RunSource reports scheduler progress
type RunSource interface {
	LastRun() (worker.RunStatus, bool)
	NextRun() time.Time
}

// HealthHandler handles probe and status requests
type HealthHandler struct {
	runs   RunSource
	logger *logger.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(runs RunSource, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		runs:   runs,
		logger: log,
	}
}

// Healthz handles the liveness probe
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Readyz reports ready once the first reconciliation pass has finished,
// whatever its result
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.runs.LastRun(); !ok {
		utils.WriteError(w, errors.NotReady("No sync has finished yet"))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}

// StatusResponse is the body of the status endpoint
type StatusResponse struct {
	LastRun *worker.RunStatus `json:"last_run"`
	NextRun *time.Time        `json:"next_run"`
}

// Status returns the last pass and when the next one is due
func (h *HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	var resp StatusResponse
	if last, ok := h.runs.LastRun(); ok {
		resp.LastRun = &last
	}
	if next := h.runs.NextRun(); !next.IsZero() {
		resp.NextRun = &next
	}
	utils.WriteSuccess(w, http.StatusOK, resp)
}
