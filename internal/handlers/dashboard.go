package handlers

import (
	"net/http"
	"time"

	"github.com/mossbrook/landscaping/internal/httpx"
	"github.com/mossbrook/landscaping/internal/services"
)

type DashboardHandler struct {
	Svc *services.DashboardService
}

func NewDashboardHandler(svc *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{Svc: svc}
}

// Get: GET /api/dashboard. Any failed read
// aborts the whole computation; there is no partial snapshot.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Svc.Snapshot(r.Context(), time.Now())
	if err != nil {
		httpx.ServiceError(w, err, "failed to fetch dashboard data")
		return
	}
	httpx.JSON(w, http.StatusOK, snap)
}
