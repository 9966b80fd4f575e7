package middleware

import "net/http"

// StatusRecorder wraps a ResponseWriter to capture the status code for
// logging and metrics middlewares.
type StatusRecorder struct {
	http.ResponseWriter
	status int
}

func NewStatusRecorder(w http.ResponseWriter) *StatusRecorder {
	return &StatusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (r *StatusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Status returns the recorded status code (200 if never set explicitly).
func (r *StatusRecorder) Status() int { return r.status }
