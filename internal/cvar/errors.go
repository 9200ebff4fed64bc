package cvar

import (
	"errors"
	"fmt"
)

// ErrAssignment matches every error returned by WriteTo.
var ErrAssignment = errors.New("cvar assignment failed")

// Errors
var (
	ErrUnknown      = errors.New("unknown cvar")
	ErrReadOnly     = errors.New("cvar is read-only")
	ErrInvalidValue = errors.New("value does not match cvar kind")
	ErrOutOfRange   = errors.New("value out of range")
	ErrDuplicate    = errors.New("cvar already defined")
	ErrInvalidName  = errors.New("invalid cvar name")
	ErrInvalidKind  = errors.New("invalid cvar kind")
)

// AssignmentError describes a rejected write.
type AssignmentError struct {
	Name  string
	Value string
	Err   error
}

func (e *AssignmentError) Error() string {
	return fmt.Sprintf("cannot assign %q to %s: %v", e.Value, e.Name, e.Err)
}

// Unwrap exposes both ErrAssignment and the specific cause.
func (e *AssignmentError) Unwrap() []error {
	return []error{ErrAssignment, e.Err}
}
