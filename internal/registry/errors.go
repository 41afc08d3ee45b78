package registry

import "errors"

// Domain-specific errors for registry operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrLoadFailed is returned when the entity list command fails or the
	// hub reports success=false. Fatal for the run.
	ErrLoadFailed = errors.New("registry: loading entity list failed")

	// ErrMalformedEntry is returned when the entity list cannot be decoded
	// or an entry is missing its entity_id. Fatal for the run.
	ErrMalformedEntry = errors.New("registry: malformed entity list")
)
