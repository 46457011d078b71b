package apperrors

import "fmt"

// ValidationError reports malformed or out-of-range input with field-level
// detail. Handlers surface the Fields map directly in the response body.
type ValidationError struct {
	Fields map[string]string
}

func NewValidation(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	for field, msg := range e.Fields {
		return fmt.Sprintf("validation failed: %s: %s", field, msg)
	}
	return "validation failed"
}

// NotFoundError means the entity does not exist or is not visible to the
// requester.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// ConflictError covers business conflicts such as an already reserved spot or
// a guest email that belongs to a registered account.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// UnauthorizedError is returned when credentials are missing or an
// email/reservation pair does not match.
type UnauthorizedError struct {
	Reason string
}

func (e *UnauthorizedError) Error() string {
	return e.Reason
}

// SchedulingError means a release task could not be scheduled. A reservation
// without a queued release task would never auto-release, so callers fail the
// parent operation on it.
type SchedulingError struct {
	Op  string
	Err error
}

func (e *SchedulingError) Error() string {
	return fmt.Sprintf("scheduling %s failed: %v", e.Op, e.Err)
}

func (e *SchedulingError) Unwrap() error {
	return e.Err
}
