// Package apperrors defines the sentinel errors the domain services wrap
// their failures in. Callers classify with errors.Is and read the wrapped
// message for the human-readable reason; the core never formats
// user-facing copy beyond that reason.
package apperrors

import "errors"

var (
	// ErrValidation marks a precondition failure, e.g. placing an order
	// with no delivery address selected.
	ErrValidation = errors.New("validation failed")

	// ErrConstraint marks an operation that would break a domain
	// invariant, e.g. two default addresses for one user.
	ErrConstraint = errors.New("constraint violation")

	// ErrStorage marks an underlying persistence failure.
	ErrStorage = errors.New("storage failure")

	// ErrNotFound marks a lookup by id with no match.
	ErrNotFound = errors.New("not found")
)
