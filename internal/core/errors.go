package core

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors for handling decisions.
type ErrorCategory string

const (
	ErrCatValidation ErrorCategory = "validation" // Invalid input
	ErrCatSpawn      ErrorCategory = "spawn"      // Worker process could not be started
	ErrCatTimeout    ErrorCategory = "timeout"    // Run exceeded its wall-clock limit
	ErrCatExecution  ErrorCategory = "execution"  // Runtime failure
	ErrCatInternal   ErrorCategory = "internal"   // Unexpected internal error
)

// DomainError represents a structured error from the supervision layer.
//
// Spawn errors are deliberately distinguishable from execution errors: a
// worker that could not be launched must stop the listen loop, while a
// worker that launched and then failed must not.
type DomainError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches two domain errors on category and code.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Category == t.Category && (t.Code == "" || e.Code == t.Code)
}

// IsCategory reports whether err is a DomainError of the given category.
func IsCategory(err error, cat ErrorCategory) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Category == cat
}

// ErrValidation creates a validation error.
func ErrValidation(code, message string) *DomainError {
	return &DomainError{Category: ErrCatValidation, Code: code, Message: message}
}

// ErrSpawn creates a spawn error wrapping the launch failure.
func ErrSpawn(message string, cause error) *DomainError {
	return &DomainError{Category: ErrCatSpawn, Code: "SPAWN_FAILED", Message: message, Cause: cause}
}

// ErrTimeout creates a timeout error.
func ErrTimeout(message string) *DomainError {
	return &DomainError{Category: ErrCatTimeout, Code: "TIMEOUT", Message: message}
}

// ErrExecution creates an execution error.
func ErrExecution(code, message string) *DomainError {
	return &DomainError{Category: ErrCatExecution, Code: code, Message: message}
}

// ErrInternal creates an internal error wrapping its cause.
func ErrInternal(message string, cause error) *DomainError {
	return &DomainError{Category: ErrCatInternal, Code: "INTERNAL", Message: message, Cause: cause}
}
