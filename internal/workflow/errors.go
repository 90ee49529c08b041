package workflow

import "fmt"

// The four error kinds callers must be able to tell apart. The HTTP layer
// maps them with errors.As; none are retried inside the service.

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return e.Reason
}

// ConflictError signals a lost race, e.g. a second completion of the same
// step. Callers may re-read and retry; the service does not.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}
