package auth

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSuperseded is returned when a newer session operation was applied first.
	ErrSuperseded = errors.New("superseded by a newer session operation")
)

// ValidationError carries the structured details the API returned for a rejected registration
type ValidationError struct {
	Details map[string]any
	Err     error
}

func (e *ValidationError) Error() string {
	if msg, ok := e.Details["message"].(string); ok && msg != "" {
		return fmt.Sprintf("registration rejected: %s", msg)
	}
	return fmt.Sprintf("registration rejected: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
