package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrProvider indicates an embedding or index backend was unreachable
	// or returned a malformed response
	ErrProvider = errors.New("provider error")

	// ErrSchemaInvalid indicates the vector collection on disk does not
	// match the dual-vector layout the current code expects
	ErrSchemaInvalid = errors.New("collection schema invalid")

	// ErrInvalidProvider indicates an unknown AI provider was specified
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrServiceUnavailable indicates a required backend service is not
	// configured or could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")
)
