// Package flat provides an exact, brute-force index over the same point set a
// graph index is built from. Every search scans all stored vectors.
package flat

import (
	"fmt"
	"sort"

	"github.com/VirgileHenry/nahiri/core"
	"github.com/VirgileHenry/nahiri/distance"
	"github.com/VirgileHenry/nahiri/index"
	"github.com/VirgileHenry/nahiri/vector"
)

// Options contains configuration options for the flat index.
type Options struct {
	// Dimension is the fixed vector dimensionality for this index.
	// It must be > 0 and is enforced for all points and searches.
	Dimension int

	// Metric selects the dissimilarity measure.
	Metric distance.Metric
}

// DefaultOptions contains the default configuration options for the flat index.
var DefaultOptions = Options{
	Dimension: 0,
	Metric:    distance.MetricDot,
}

// Index is an immutable flat index. Vectors live in one contiguous slice,
// row i at data[i*dim:(i+1)*dim].
type Index[T any] struct {
	opts     Options
	space    *vector.Space
	dist     distance.Func
	data     []float32
	payloads []T
}

// Result is one search hit.
type Result[T any] struct {
	Position core.Position
	Distance float32
	Payload  T
}

// Build creates a flat index over points. An empty point set is allowed.
func Build[T any](points []index.Point[T], optFns ...func(o *Options)) (*Index[T], error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Dimension <= 0 {
		return nil, index.NewErrInvalidOptions("Dimension", fmt.Sprintf("must be positive, got %d", opts.Dimension), nil)
	}

	dist, err := distance.Provider(opts.Metric)
	if err != nil {
		return nil, index.NewErrInvalidOptions("Metric", err.Error(), err)
	}

	space, err := vector.NewSpace(opts.Dimension, opts.Metric)
	if err != nil {
		return nil, index.NewErrInvalidOptions("Dimension", err.Error(), err)
	}

	if uint64(len(points)) > uint64(core.MaxPosition)+1 {
		return nil, index.ErrTooManyPoints
	}

	dim := opts.Dimension
	f := &Index[T]{
		opts:     opts,
		space:    space,
		dist:     dist,
		data:     make([]float32, len(points)*dim),
		payloads: make([]T, len(points)),
	}

	for i, p := range points {
		if len(p.Vector) != dim {
			return nil, index.NewErrInvalidPoint(core.Position(i), &vector.ErrDimensionMismatch{Expected: dim, Actual: len(p.Vector)})
		}
		copy(f.data[i*dim:], p.Vector)
		f.payloads[i] = index.ClonePayload(p.Payload)
	}

	return f, nil
}

// Search returns the payloads of the maxResults points closest to target,
// closest first. Equal distances keep scan order.
func (f *Index[T]) Search(target []float32, maxResults int) ([]T, error) {
	results, err := f.SearchResults(target, maxResults, nil)
	if err != nil {
		return nil, err
	}

	out := make([]T, len(results))
	for i, r := range results {
		out[i] = r.Payload
	}

	return out, nil
}

// SearchResults is like Search but returns positions and distances, and skips
// payloads rejected by filter (nil accepts all).
//
// The result list is kept sorted while scanning: each candidate is placed
// before the first retained result that is strictly farther, and the list
// never grows past maxResults.
func (f *Index[T]) SearchResults(target []float32, maxResults int, filter index.Filter[T]) ([]Result[T], error) {
	dim := f.opts.Dimension
	if len(target) != dim {
		return nil, &vector.ErrDimensionMismatch{Expected: dim, Actual: len(target)}
	}

	if maxResults <= 0 || len(f.payloads) == 0 {
		return []Result[T]{}, nil
	}

	results := make([]Result[T], 0, min(maxResults, len(f.payloads)))

	for i := range f.payloads {
		if !filter.Accept(f.payloads[i]) {
			continue
		}

		d := f.dist(target, f.data[i*dim:(i+1)*dim])

		at := sort.Search(len(results), func(k int) bool {
			return distance.Compare(results[k].Distance, d) > 0
		})

		if len(results) < maxResults {
			results = append(results, Result[T]{})
		} else if at == len(results) {
			continue
		}

		copy(results[at+1:], results[at:len(results)-1])
		results[at] = Result[T]{Position: core.Position(i), Distance: d, Payload: f.payloads[i]}
	}

	return results, nil
}

// Len returns the number of stored points.
func (f *Index[T]) Len() int { return len(f.payloads) }

// Dimension returns the vector dimension of the index.
func (f *Index[T]) Dimension() int { return f.opts.Dimension }

// Metric returns the metric of the index.
func (f *Index[T]) Metric() distance.Metric { return f.opts.Metric }

// Space returns the vector space of the index.
func (f *Index[T]) Space() *vector.Space { return f.space }

// Payload returns the payload stored at pos.
func (f *Index[T]) Payload(pos core.Position) (T, bool) {
	if int(pos) >= len(f.payloads) {
		var zero T
		return zero, false
	}
	return f.payloads[pos], true
}

// Vector returns the vector stored at pos.
func (f *Index[T]) Vector(pos core.Position) (vector.Vector, bool) {
	if int(pos) >= len(f.payloads) {
		return vector.Vector{}, false
	}
	dim := f.opts.Dimension
	v, err := f.space.New(f.data[int(pos)*dim : (int(pos)+1)*dim])
	if err != nil {
		return vector.Vector{}, false
	}
	return v, true
}
