package domain

import (
	"errors"
	"strings"
)

var (
	// ErrResultNotFound is returned when no result was stored under a session id.
	ErrResultNotFound = errors.New("assessment result not found")
	// ErrEmptyCatalog indicates there are no questions to score against.
	ErrEmptyCatalog = errors.New("question catalog is empty")
	// ErrInvalidCatalog indicates the catalog breaks a structural invariant.
	ErrInvalidCatalog = errors.New("invalid question catalog")
	// ErrAnswerCountMismatch indicates the answer set does not cover the catalog exactly.
	ErrAnswerCountMismatch = errors.New("answer count does not match question count")
	// ErrAnswerOutOfRange indicates an answer is not a valid option index.
	ErrAnswerOutOfRange = errors.New("answer is not a valid option index")
)

// FieldViolation names one invalid field of a request.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries client-correctable request problems.
type ValidationError struct {
	Violations []FieldViolation
	Err        error
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{
		Violations: []FieldViolation{{Field: field, Message: err.Error()}},
		Err:        err,
	}
}
