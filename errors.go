package nahiri

import (
	"github.com/VirgileHenry/nahiri/index"
	"github.com/VirgileHenry/nahiri/index/graph"
	"github.com/VirgileHenry/nahiri/vector"
)

// ErrNotEnoughDataPoints is returned by New when the point set is too small
// for one of the index stages.
type ErrNotEnoughDataPoints = index.ErrNotEnoughDataPoints

// ErrInvalidOptions indicates a configuration that cannot describe an index.
type ErrInvalidOptions = index.ErrInvalidOptions

// ErrInvalidPoint wraps a per-point validation failure with the point's position.
type ErrInvalidPoint = index.ErrInvalidPoint

// ErrDimensionMismatch indicates a vector/query dimensionality mismatch.
type ErrDimensionMismatch = vector.ErrDimensionMismatch

// ErrInvariantViolation is returned by Validate for a corrupted graph.
type ErrInvariantViolation = graph.ErrInvariantViolation

// ErrTooManyPoints is returned when a point set does not fit into a single index.
var ErrTooManyPoints = index.ErrTooManyPoints

// ErrOutOfRange is returned when a decoded vector component overflows float32.
var ErrOutOfRange = vector.ErrOutOfRange
