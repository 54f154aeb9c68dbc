package session

import "fmt"

// ValidationError reports malformed local input. It never reaches the service.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StateError reports an operation that needs an active session.
type StateError struct {
	Op string
}

func (e *StateError) Error() string {
	return e.Op + ": no active session"
}
