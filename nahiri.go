package nahiri

import (
	"context"
	"iter"
	"time"

	"github.com/VirgileHenry/nahiri/distance"
	"github.com/VirgileHenry/nahiri/index"
	"github.com/VirgileHenry/nahiri/index/flat"
	"github.com/VirgileHenry/nahiri/index/graph"
)

// Point is one build input: a raw vector and the payload it describes.
type Point[T any] = index.Point[T]

// Filter reports whether a payload may appear in results. A nil Filter accepts all.
type Filter[T any] = index.Filter[T]

// DB bundles a proximity graph and a flat index built over the same points.
type DB[K comparable, T any] struct {
	graph   *graph.Index[K, T]
	flat    *flat.Index[T]
	metrics MetricsCollector
	logger  *Logger
}

// New builds a DB from points. keyFn maps every payload to its key; when two
// payloads share a key the later one wins.
//
// New fails without returning a DB when the options are invalid, the point
// set is too small for one of the tiers (*ErrNotEnoughDataPoints), or a vector
// has the wrong dimension (*ErrInvalidPoint wrapping *ErrDimensionMismatch).
func New[K comparable, T any](points []Point[T], keyFn func(T) K, optFns ...Option) (*DB[K, T], error) {
	opts := applyOptions(optFns)

	ctx := context.Background()
	start := time.Now()

	db, err := build(points, keyFn, opts)

	duration := time.Since(start)
	opts.metricsCollector.RecordBuild(len(points), duration, err)
	opts.logger.LogBuild(ctx, len(points), opts.graph.Dimension, duration, err)

	if err != nil {
		return nil, err
	}

	return db, nil
}

func build[K comparable, T any](points []Point[T], keyFn func(T) K, opts options) (*DB[K, T], error) {
	g, err := graph.Build(points, keyFn, func(o *graph.Options) {
		*o = opts.graph
	})
	if err != nil {
		return nil, err
	}

	f, err := flat.Build(points, func(o *flat.Options) {
		o.Dimension = opts.graph.Dimension
		o.Metric = opts.graph.Metric
	})
	if err != nil {
		return nil, err
	}

	return &DB[K, T]{
		graph:   g,
		flat:    f,
		metrics: opts.metricsCollector,
		logger:  opts.logger,
	}, nil
}

// Neighbors returns up to maxResults payloads similar to the one registered
// under key, closest first. The second result is false when key is unknown.
//
// Only the start node's own neighbor list is consulted, so a selective filter
// or a maxResults above L0 returns fewer results.
func (db *DB[K, T]) Neighbors(ctx context.Context, key K, maxResults int, filter Filter[T]) ([]T, bool) {
	start := time.Now()

	seq, ok := db.graph.Query(key, maxResults, filter)

	var out []T
	if ok {
		out = make([]T, 0, max(0, min(maxResults, db.graph.Capacities()[0])))
		for p := range seq {
			out = append(out, p)
		}
	}

	db.metrics.RecordQuery(ok, len(out), time.Since(start))
	db.logger.LogQuery(ctx, key, maxResults, ok, len(out))

	return out, ok
}

// Query is the lazy form of Neighbors. It bypasses logging and metrics.
func (db *DB[K, T]) Query(key K, maxResults int, filter Filter[T]) (iter.Seq[T], bool) {
	return db.graph.Query(key, maxResults, filter)
}

// Closest returns the maxResults payloads whose vectors are closest to target,
// closest first, scanning every point. target must have the DB's dimension.
func (db *DB[K, T]) Closest(ctx context.Context, target []float32, maxResults int, filter Filter[T]) ([]T, error) {
	start := time.Now()

	res, err := db.flat.SearchResults(target, maxResults, filter)

	var out []T
	if err == nil {
		out = make([]T, len(res))
		for i, r := range res {
			out[i] = r.Payload
		}
	}

	db.metrics.RecordSearch(maxResults, time.Since(start), err)
	db.logger.LogSearch(ctx, maxResults, len(out), err)

	if err != nil {
		return nil, err
	}

	return out, nil
}

// Lookup returns the payload registered under key.
func (db *DB[K, T]) Lookup(key K) (T, bool) {
	pos, ok := db.graph.Lookup(key)
	if !ok {
		var zero T
		return zero, false
	}
	return db.graph.Payload(pos)
}

// Len returns the number of points.
func (db *DB[K, T]) Len() int { return db.graph.Len() }

// Dimension returns the vector dimension.
func (db *DB[K, T]) Dimension() int { return db.graph.Dimension() }

// Metric returns the dissimilarity measure.
func (db *DB[K, T]) Metric() distance.Metric { return db.graph.Metric() }

// Stats returns graph statistics.
func (db *DB[K, T]) Stats() graph.Stats { return db.graph.Stats() }

// Validate re-checks every structural invariant of the graph.
func (db *DB[K, T]) Validate() error { return db.graph.Validate() }

// Graph returns the underlying proximity graph.
func (db *DB[K, T]) Graph() *graph.Index[K, T] { return db.graph }

// Flat returns the underlying flat index.
func (db *DB[K, T]) Flat() *flat.Index[T] { return db.flat }
