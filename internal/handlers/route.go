package handlers

import (
	"net/http"
	"time"

	"github.com/mossbrook/landscaping/internal/httpx"
	"github.com/mossbrook/landscaping/internal/services"
)

type RouteHandler struct {
	Svc *services.RouteService
}

func NewRouteHandler(svc *services.RouteService) *RouteHandler {
	return &RouteHandler{Svc: svc}
}

// Get: GET /api/routes?date=2006-01-02. Defaults to today.
func (h *RouteHandler) Get(w http.ResponseWriter, r *http.Request) {
	date := time.Now()
	if v := r.URL.Query().Get("date"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid date", nil)
			return
		}
		date = d
	}
	route, err := h.Svc.ForDate(r.Context(), date)
	if err != nil {
		httpx.ServiceError(w, err, "failed to build route")
		return
	}
	httpx.JSON(w, http.StatusOK, route)
}
