package api

import (
	"context"
	"net/http"
	"time"

	"github.com/okian/insightify/internal/domain/types"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	deps    Dependencies
	timeout time.Duration
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps Dependencies, timeout time.Duration) *HealthHandler {
	return &HealthHandler{deps: deps, timeout: timeout}
}

// HandleHealth handles GET /healthz. It reports 503 when the datastore does
// not answer or no model is loaded.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp := types.HealthResponse{Status: types.StatusOK, Datastore: types.StatusOK}
	if err := h.deps.Ping(ctx); err != nil {
		resp.Status = types.StatusDegraded
		resp.Datastore = types.StatusDegraded
		resp.Error = err.Error()
	}
	if summary, ok := h.deps.Model(); ok {
		resp.ModelVersion = summary.Version
		resp.ModelFamily = summary.Family
	} else {
		resp.Status = types.StatusDegraded
	}

	status := http.StatusOK
	if resp.Status != types.StatusOK {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
