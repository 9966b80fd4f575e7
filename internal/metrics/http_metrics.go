package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mossbrook/landscaping/internal/middleware"
)

var (
	// RequestCounter counts all HTTP requests with labels.
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	// RequestDurationHistogram records request duration in seconds.
	RequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)
)

// HTTPMetrics collects request metrics for one service name.
type HTTPMetrics struct {
	ServiceName string
}

// NewHTTPMetrics registers the collectors and returns the middleware owner.
func NewHTTPMetrics(serviceName string) *HTTPMetrics {
	m := &HTTPMetrics{ServiceName: serviceName}
	prometheus.MustRegister(RequestCounter, RequestDurationHistogram)
	return m
}

// Middleware records a counter increment and duration observation per request.
func (m *HTTPMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := middleware.NewStatusRecorder(w)
		next.ServeHTTP(rec, r)
		status := strconv.Itoa(rec.Status())
		RequestCounter.WithLabelValues(m.ServiceName, r.Method, r.URL.Path, status).Inc()
		RequestDurationHistogram.WithLabelValues(m.ServiceName, r.Method, r.URL.Path, status).Observe(time.Since(start).Seconds())
	})
}

// Handler exposes the prometheus scrape endpoint.
func Handler() http.Handler { return promhttp.Handler() }
