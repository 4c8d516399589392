package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("not authorized")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrOriginNotAllowed   = errors.New("Not allowed by CORS")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserExists         = errors.New("user already exists")
	ErrRequestInProgress  = errors.New("a request with this Idempotency-Key is already in progress")
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrInterviewNotFound  = fmt.Errorf("interview %w", ErrNotFound)
	ErrSessionNotFound    = fmt.Errorf("interview session %w", ErrNotFound)
	ErrPaymentNotFound    = fmt.Errorf("payment %w", ErrNotFound)
)

// NotFoundError is produced when no route matched the request.
type NotFoundError struct {
	URI string
}

func (e *NotFoundError) Error() string {
	return "Not Found - " + e.URI
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ValidationError reports malformed input. Fields is nil when the failure
// is about the overall request shape rather than individual fields.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

// NewValidationError returns a shape-level validation error.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// FieldError returns a validation error for a single field.
func FieldError(field, violation string) *ValidationError {
	return &ValidationError{
		Message: "validation failed",
		Fields:  map[string]string{field: violation},
	}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// PanicError carries a recovered panic value together with the stack of the
// goroutine that panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func (e *PanicError) StackTrace() string {
	return string(e.Stack)
}
