// Package apperrors defines the error taxonomy shared by the core services.
// All errors are per-call and carry a human-readable message; the API layer
// maps them to HTTP status codes with errors.As.
package apperrors

import (
	"fmt"
)

// ValidationError reports a missing or invalid required field.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an unknown entity id.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// NotFound builds a NotFoundError for a resource id.
func NotFound(resource string, id uint) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// DuplicateAwardError reports that a (volunteer, criteria) pair is already awarded.
type DuplicateAwardError struct {
	VolunteerID uint
	CriteriaID  uint
}

func (e *DuplicateAwardError) Error() string {
	return fmt.Sprintf("volunteer %d already holds the award for criteria %d", e.VolunteerID, e.CriteriaID)
}

// InvalidStateTransitionError reports an operation forbidden by the entity's
// current status, such as approving an already approved timesheet.
type InvalidStateTransitionError struct {
	Action string
	Status string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("cannot %s: current status is %s", e.Action, e.Status)
}

// InvalidTransition builds an InvalidStateTransitionError.
func InvalidTransition(action, status string) *InvalidStateTransitionError {
	return &InvalidStateTransitionError{Action: action, Status: status}
}
