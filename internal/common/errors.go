// Package common defines the sentinel errors shared by stores, services and
// handlers. Callers match them with errors.Is.
package common

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidInput marks a malformed or constraint-violating payload.
	// Nothing is written when it is returned.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when a referenced id is absent.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a unique key is already taken.
	ErrConflict = errors.New("already exists")

	// ErrUnauthorized covers credential mismatches and bad bearer tokens.
	ErrUnauthorized = errors.New("unauthorized")
)

// FieldError describes a single field that failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the field-level causes of an ErrInvalidInput.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrInvalidInput.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
