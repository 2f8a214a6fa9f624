package types

import "errors"

// Storage error categories. Store operations wrap the driver error together
// with one of these, so callers can branch with errors.Is.
var (
	// ErrStorageUnavailable means the database could not be opened or its
	// schema could not be created. Fatal for the session.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrWriteFailed means an insert, update or delete did not complete.
	// Retryable from the user's point of view.
	ErrWriteFailed = errors.New("write failed")

	// ErrReadDegraded accompanies the empty result of a failed read.
	ErrReadDegraded = errors.New("read degraded")
)

// Sync errors.
var (
	ErrInvalidInterval = errors.New("sync interval must be positive")
)
