package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrConfiguration means the API token or owner id is missing or unreadable.
	ErrConfiguration    = errors.New("configuration error")
	ErrKeyNotConfigured = errors.New("encryption key not configured")
	ErrPersistence      = errors.New("persistence error")
	ErrSyncInProgress   = errors.New("sync already in progress")
)
