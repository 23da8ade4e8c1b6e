package index

import (
	"errors"
	"fmt"

	"github.com/VirgileHenry/nahiri/core"
)

// Point is one build input: a raw vector and the payload it describes.
type Point[T any] struct {
	Vector  []float32
	Payload T
}

// Filter reports whether a payload may appear in query results.
// A nil Filter accepts every payload.
type Filter[T any] func(payload T) bool

// Accept applies f, treating a nil filter as accept-all.
func (f Filter[T]) Accept(payload T) bool {
	return f == nil || f(payload)
}

// Cloner is implemented by payloads that need a deep copy when stored in an index.
// Payloads that do not implement it are copied by value.
type Cloner[T any] interface {
	Clone() T
}

// ClonePayload returns an index-owned copy of p.
func ClonePayload[T any](p T) T {
	if c, ok := any(p).(Cloner[T]); ok {
		return c.Clone()
	}
	return p
}

// Stage names the structural part of an index that a build could not satisfy.
type Stage string

const (
	StageEntryPoint Stage = "entry point"
	StageL0         Stage = "L0"
	StageL1         Stage = "L1"
	StageL2         Stage = "L2"
	StageL3         Stage = "L3"
)

// ErrNotEnoughDataPoints is returned by Build when the point set is too small
// for one of the index stages.
type ErrNotEnoughDataPoints struct {
	Expected int   // Minimum number of points the stage needs
	Stage    Stage // Stage that could not be built
	Found    int   // Number of points supplied
}

func (e *ErrNotEnoughDataPoints) Error() string {
	return fmt.Sprintf("Expected at least %d data points to build %s, found %d", e.Expected, e.Stage, e.Found)
}

// ErrInvalidOptions indicates a configuration that cannot describe an index.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidOptions struct {
	Field  string
	Reason string
	cause  error
}

// NewErrInvalidOptions creates an ErrInvalidOptions wrapping cause.
func NewErrInvalidOptions(field, reason string, cause error) *ErrInvalidOptions {
	return &ErrInvalidOptions{Field: field, Reason: reason, cause: cause}
}

func (e *ErrInvalidOptions) Error() string {
	return fmt.Sprintf("invalid option %s: %s", e.Field, e.Reason)
}

func (e *ErrInvalidOptions) Unwrap() error { return e.cause }

// ErrInvalidPoint wraps a per-point validation failure with the point's position.
type ErrInvalidPoint struct {
	Position core.Position
	cause    error
}

// NewErrInvalidPoint creates an ErrInvalidPoint for the point at pos.
func NewErrInvalidPoint(pos core.Position, cause error) *ErrInvalidPoint {
	return &ErrInvalidPoint{Position: pos, cause: cause}
}

func (e *ErrInvalidPoint) Error() string {
	return fmt.Sprintf("invalid point at position %d: %v", e.Position, e.cause)
}

func (e *ErrInvalidPoint) Unwrap() error { return e.cause }

// ErrTooManyPoints is returned when a point set does not fit into core.Position.
var ErrTooManyPoints = errors.New("too many points for a single index")

// CheckPointCount applies the point-count gates of a tiered index, in order:
// the entry point, then each tier capacity plus one.
func CheckPointCount(found int, capacities [4]int) error {
	if found < 1 {
		return &ErrNotEnoughDataPoints{Expected: 1, Stage: StageEntryPoint, Found: found}
	}

	stages := [4]Stage{StageL0, StageL1, StageL2, StageL3}
	for i, c := range capacities {
		if found < c+1 {
			return &ErrNotEnoughDataPoints{Expected: c + 1, Stage: stages[i], Found: found}
		}
	}

	if uint64(found) > uint64(core.MaxPosition)+1 {
		return ErrTooManyPoints
	}

	return nil
}
