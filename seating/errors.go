package seating

import "errors"

// Error taxonomy for seating decisions. Validation errors are returned
// before any mutation; ErrPersistence wraps database failures after
// validation passed.
var (
	ErrTableUnavailable  = errors.New("table is not available for seating")
	ErrCapacityExceeded  = errors.New("party size exceeds table capacity")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrPersistence       = errors.New("persistence failure")
)
