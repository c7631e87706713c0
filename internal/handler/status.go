package handler

import (
	"net/http"

	"github.com/platevision/platevision-go/internal/model"
	"github.com/platevision/platevision-go/internal/service"
)

// StatusHandler handles system status requests for the dashboard.
type StatusHandler struct {
	service *service.StatusService
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(svc *service.StatusService) *StatusHandler {
	return &StatusHandler{service: svc}
}

// HandleStatus handles GET /api/system/status requests. Sampling never
// fails; degraded probes report zeros.
func (h *StatusHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.StatusResponse{
		Success: true,
		Data:    h.service.Sample(r.Context()),
	})
}
