package service

import "errors"

// Sentinel errors the handlers translate into HTTP statuses.
var (
	// ErrNotFound: the requested entity does not exist (404).
	ErrNotFound = errors.New("resource not found")
	// ErrForbidden: the caller is not allowed to act on this entity (403).
	ErrForbidden = errors.New("operation not permitted")
	// ErrInvalidState: the entity's status forbids the transition (409).
	ErrInvalidState = errors.New("invalid status for this operation")
	// ErrUnauthorized: authentication failed (401).
	ErrUnauthorized = errors.New("invalid credentials")
)

// ValidationError carries field-level messages for a rejected payload (400).
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

func newValidationError(message string, fields map[string]string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}
