package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// DecodeJSON reads the request body into dst. On malformed input it writes
// a 400 itself and returns false, so handlers can bail with a bare return.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			JSONError(w, http.StatusBadRequest, "empty body", nil)
			return false
		}
		JSONError(w, http.StatusBadRequest, "invalid JSON", nil)
		return false
	}
	return true
}
