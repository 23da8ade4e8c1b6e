package vector

import (
	"errors"
	"fmt"
)

// ErrInvalidDimension indicates a Space was requested with a non-positive dimension.
var ErrInvalidDimension = errors.New("dimension must be positive")

// ErrOutOfRange indicates a decoded number does not fit in a float32.
var ErrOutOfRange = errors.New("value out of float32 range")

// ErrDimensionMismatch is returned when a value sequence does not have exactly
// the Space's dimension. Decoding reports it as the length error.
type ErrDimensionMismatch struct {
	Expected int // Expected dimensions
	Actual   int // Actual dimensions
}

// Error returns the error message for dimension mismatch
func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}
