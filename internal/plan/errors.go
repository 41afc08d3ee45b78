package plan

import "errors"

// Domain-specific errors for plan loading.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrParse is returned when a CSV plan cannot be read or is missing
	// required structure. Fatal for the run.
	ErrParse = errors.New("plan: invalid CSV plan")

	// ErrBadPattern is returned when a search regex does not compile.
	ErrBadPattern = errors.New("plan: invalid search pattern")
)
