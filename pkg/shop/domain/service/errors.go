package service

import "github.com/pkg/errors"

// The workflow contract distinguishes exactly two failure kinds. Both abort
// the in-progress unit of work; neither is retried. Callers match the kind
// with errors.Is and the detail with the wrapped message.
var (
	// ErrNotFound: a referenced entity identity does not exist in storage.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState: a business precondition is violated.
	ErrInvalidState = errors.New("invalid state")
)
