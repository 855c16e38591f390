package common

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by services and repositories. Handlers map them to
// HTTP statuses; services wrap them with context via fmt.Errorf and %w.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrAccessDenied indicates the authenticated user does not own the record.
	ErrAccessDenied = errors.New("access denied")
)

// ValidationError indicates a missing or out-of-range field in a request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with a formatted message.
func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
