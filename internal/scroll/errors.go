package scroll

import (
	"errors"
	"fmt"
)

// ErrMalformedInput marks a ValidationError raised because a request body
// could not be decoded at all.
var ErrMalformedInput = errors.New("malformed input")

// ValidationError reports caller data that breaks a documented constraint.
// Reason is safe to show to the caller verbatim.
type ValidationError struct {
	Reason string
	err    error
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Unwrap() error { return e.err }

func invalid(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

// Malformed returns the ValidationError for an undecodable request body.
func Malformed() *ValidationError {
	return &ValidationError{Reason: "unable to parse incoming JSON post body", err: ErrMalformedInput}
}

// StorageError wraps a failed or timed-out backend call. It is never retried.
type StorageError struct {
	Op  string // "get", "put" or "list"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
