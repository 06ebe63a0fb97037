package entity

import (
	"errors"
	"fmt"
)

// ErrCorruptSession marks a persisted session record that could not be parsed.
var ErrCorruptSession = errors.New("persisted session is corrupted")

// ValidationError is a client-side draft rule violation. It never reaches the
// network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ServerError is a non-success response from a backend service.
type ServerError struct {
	Status int
	Body   string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("Error %d: %s", e.Status, e.Body)
}

// AuthError is a rejected login or register attempt.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Err }
