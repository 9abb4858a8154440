// Package apperr defines sentinel errors shared across layers.
package apperr

import "errors"

var (
	// ErrNotFound marks the single fatal condition on the update path:
	// the thread file does not exist. All read-path failures are logged
	// and the document skipped instead.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks invalid caller input.
	ErrValidation = errors.New("validation failed")
)
