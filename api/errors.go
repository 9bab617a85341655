// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for the procsig library.

package api

import "fmt"

// Common errors used across the library.
var (
	// ErrReasonPoolExhausted is the soft failure returned together with
	// ReasonInvalid when every custom reason slot is taken.
	ErrReasonPoolExhausted = fmt.Errorf("custom reason pool exhausted")

	// ErrRegistrySealed is the panic value raised when registration is
	// attempted after the preload phase ended. A registry diverging
	// between processes is a startup-configuration defect, not a
	// recoverable condition.
	ErrRegistrySealed = fmt.Errorf("reason registration after preload phase")

	ErrTransportClosed = fmt.Errorf("transport is closed")
	ErrLatchClosed     = fmt.Errorf("latch is closed")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrSlotTableFull   = fmt.Errorf("process slot table full")
	ErrUnknownProcess  = fmt.Errorf("unknown target process")
	ErrNotSupported    = fmt.Errorf("operation not supported")
	ErrAlreadyStarted  = fmt.Errorf("already started")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeResourceExhausted
	ErrCodeSealed
	ErrCodeNotSupported
	ErrCodeNotFound
	ErrCodeInternal
)

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
