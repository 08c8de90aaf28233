// Package repository contains the repository interfaces and related errors.
package repository

import "errors"

// Repository errors communicate data access failures to the application layer.
var (
	// ErrBoxTemplateNotFound is returned when a template cannot be found by ID or name.
	ErrBoxTemplateNotFound = errors.New("box template not found")

	// ErrDuplicateBoxName is returned when a template name is already taken.
	ErrDuplicateBoxName = errors.New("box name already exists")

	// ErrOptimisticLock is returned when an update fails due to
	// a version mismatch (concurrent modification).
	ErrOptimisticLock = errors.New("optimistic lock conflict: record was modified by another transaction")

	// ErrConnectionFailed is returned when the database connection fails.
	ErrConnectionFailed = errors.New("database connection failed")

	// ErrInvalidInput is returned when repository receives invalid input.
	ErrInvalidInput = errors.New("invalid input provided")
)

// IsNotFoundError checks if the error is a not found error.
//
// Parameters:
//   - err: error to check
//
// Returns:
//   - bool: true if the error indicates a resource was not found
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrBoxTemplateNotFound)
}

// IsDuplicateError checks if the error is a duplicate entry error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicateBoxName)
}
