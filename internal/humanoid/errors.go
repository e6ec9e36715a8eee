package humanoid

import "errors"

// Errors returned by the trajectory core. Call sites wrap them with context,
// so compare with errors.Is.
var (
	// ErrInvalidArgument reports a non-finite or out-of-range numeric input.
	ErrInvalidArgument = errors.New("humanoid: invalid argument")
	// ErrInvalidBoundary reports a bounding box with left > right or down > up.
	ErrInvalidBoundary = errors.New("humanoid: invalid boundary")
	// ErrArithmetic reports a negative factorial input.
	ErrArithmetic = errors.New("humanoid: arithmetic error")
)
