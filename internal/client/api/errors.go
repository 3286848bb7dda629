package api

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("already exists")
)

// APIError is a non-2xx response decoded from the server's error body.
// It wraps one of the sentinels above so callers can branch with errors.Is
// while still having the server's message for display.
type APIError struct {
	Status  int
	Kind    error
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server error (%d)", e.Status)
}

func (e *APIError) Unwrap() error {
	return e.Kind
}
