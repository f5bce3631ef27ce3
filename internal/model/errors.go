package model

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by a service either is one of these
// or wraps one of them, so callers can switch on errors.Is.
var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrConflict         = errors.New("conflict")
	ErrStoreFailure     = errors.New("store failure")
)

// StoreFailure tags a persistence error with the operation that hit it.
// The result matches both ErrStoreFailure and the original cause.
func StoreFailure(op string, cause error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreFailure, cause)
}

// IsCategorized reports whether err already carries one of the categories above.
func IsCategorized(err error) bool {
	for _, target := range []error{
		ErrUnauthenticated,
		ErrNotFound,
		ErrForbidden,
		ErrInvalidInput,
		ErrInvalidOperation,
		ErrConflict,
		ErrStoreFailure,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
