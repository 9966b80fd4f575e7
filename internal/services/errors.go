package services

import (
	"errors"

	"github.com/mossbrook/landscaping/internal/validation"
)

// ErrNotFound marks a referenced entity id that does not exist. Handlers
// map it to 404 instead of the generic 500.
var ErrNotFound = errors.New("not found")

// ValidationError carries per-field violations back to the caller; always
// recoverable by correcting input, mapped to 400 at the boundary.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string { return "validation failed" }

// Invalid wraps a violations map, returning nil when there is nothing to
// report.
func Invalid(v validation.Violations) error {
	if v.Empty() {
		return nil
	}
	return &ValidationError{Violations: v}
}
