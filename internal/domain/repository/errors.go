package repository

import "errors"

// Sentinel errors returned by repository implementations. The application
// layer translates these into its own taxonomy; anything else coming out of a
// repository is treated as a store failure.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)
