package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBadRequest marks input that failed validation before reaching storage.
var ErrBadRequest = errors.New("bad request")

// FieldError describes a validation problem with one input field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects every field problem found in one request.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s %s", fe.Field, fe.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrBadRequest }

func (e *ValidationError) add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}
