package server

import (
	"context"
	"net/http"

	"gorm.io/gorm"

	"github.com/mossbrook/landscaping/internal/auth"
	"github.com/mossbrook/landscaping/internal/catalog"
	"github.com/mossbrook/landscaping/internal/handlers"
	"github.com/mossbrook/landscaping/internal/httpx"
	"github.com/mossbrook/landscaping/internal/logger"
	"github.com/mossbrook/landscaping/internal/metrics"
	"github.com/mossbrook/landscaping/internal/middleware"
	"github.com/mossbrook/landscaping/internal/models"
	"github.com/mossbrook/landscaping/internal/services"
)

// New constructs the root http.Handler with all routes and middlewares
// applied. catalogCache may be shared with a warmup goroutine.
func New(db *gorm.DB, catalogCache *catalog.Cache, m *metrics.HTTPMetrics) http.Handler {
	mux := http.NewServeMux()

	// RequireAuth verifies the session's user still exists.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	// --- Health endpoints ---
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("/metrics", metrics.Handler())

	// --- Public endpoints ---
	ah := handlers.NewAuthHandler(db)
	mux.HandleFunc("POST /api/login", ah.Login)
	mux.HandleFunc("POST /api/logout", ah.Logout)

	ph := handlers.NewPlantHandler(db)
	mux.HandleFunc("GET /api/plants", ph.List)
	mux.HandleFunc("POST /api/plants", ph.Create)

	ch := handlers.NewCatalogHandler(catalogCache)
	mux.HandleFunc("GET /catalog.json", ch.Get)

	leadSvc := services.NewLeadService(db)
	lh := handlers.NewLeadHandler(db, leadSvc)
	mux.HandleFunc("POST /api/contact", lh.Submit)

	// --- Session-required endpoints ---
	clh := handlers.NewClientHandler(db)
	mux.Handle("GET /api/clients", protect(clh.List))
	mux.Handle("POST /api/clients", protect(clh.Create))

	jh := handlers.NewJobHandler(db, services.NewJobService(db))
	mux.Handle("GET /api/jobs", protect(jh.List))
	mux.Handle("POST /api/jobs", protect(jh.Create))
	mux.Handle("PATCH /api/jobs/{id}/status", protect(jh.UpdateStatus))

	ih := handlers.NewInvoiceHandler(db, services.NewInvoiceService(db))
	mux.Handle("GET /api/invoices", protect(ih.List))
	mux.Handle("POST /api/invoices", protect(ih.Create))
	mux.Handle("PATCH /api/invoices/{id}/status", protect(ih.UpdateStatus))

	mux.Handle("GET /api/leads", protect(lh.List))
	mux.Handle("PATCH /api/leads/{id}", protect(lh.UpdateStatus))
	mux.Handle("DELETE /api/leads/{id}", protect(lh.Delete))
	mux.Handle("POST /api/leads/{id}/convert", protect(lh.Convert))

	eh := handlers.NewEmployeeHandler(db)
	mux.Handle("GET /api/employees", protect(eh.List))
	mux.Handle("POST /api/employees", protect(eh.Create))

	dh := handlers.NewDashboardHandler(services.NewDashboardService(db))
	mux.Handle("GET /api/dashboard", protect(dh.Get))

	rh := handlers.NewRouteHandler(services.NewRouteService(db))
	mux.Handle("GET /api/routes", protect(rh.Get))

	var h http.Handler = mux
	h = auth.Middleware(h)
	h = withRecover(h)
	if m != nil {
		h = m.Middleware(h)
	}
	h = logger.Middleware(h)
	h = middleware.RequestID(h)
	return h
}

func protect(fn http.HandlerFunc) http.Handler {
	return auth.RequireAuth(fn)
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpx.JSONError(w, http.StatusInternalServerError, "internal error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
