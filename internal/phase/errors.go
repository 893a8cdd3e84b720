package phase

import "errors"

// Domain errors for integration operations.
var (
	// ErrInvalidArgument indicates a step size or step count outside the
	// valid range. Rejections happen before any computation.
	ErrInvalidArgument = errors.New("phase: invalid argument")

	// ErrDimension indicates mismatched state and system dimensions.
	ErrDimension = errors.New("phase: dimension mismatch")
)
