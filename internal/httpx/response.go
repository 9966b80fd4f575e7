package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mossbrook/landscaping/internal/services"
)

// ErrorResponse is the uniform error body: a short message plus optional
// per-field details.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// JSON writes payload as the response body with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	body, err := json.Marshal(payload)
	if err != nil {
		// Avoid writing partial JSON.
		http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// JSONError writes the uniform error body.
func JSONError(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, ErrorResponse{Error: msg, Details: details})
}

// ServiceError maps the service error taxonomy onto HTTP statuses.
// Validation problems carry their field details, unknown ids become 404,
// and everything else turns into a generic message with the real error
// only in the server log.
func ServiceError(w http.ResponseWriter, err error, genericMsg string) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		JSONError(w, http.StatusBadRequest, "validation failed", ve.Violations)
	case errors.Is(err, services.ErrNotFound):
		JSONError(w, http.StatusNotFound, "not found", nil)
	default:
		zap.L().Error(genericMsg, zap.Error(err))
		JSONError(w, http.StatusInternalServerError, genericMsg, nil)
	}
}
