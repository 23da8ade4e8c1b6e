package nahiri

import (
	"github.com/VirgileHenry/nahiri/distance"
	"github.com/VirgileHenry/nahiri/index/graph"
)

// GraphBuilder is an immutable fluent builder for creating DB instances.
// Each method returns a new builder with the updated configuration.
type GraphBuilder[K comparable, T any] struct {
	dimension  int
	metric     distance.Metric
	capacities graph.Capacities
	workers    int
	logger     *Logger
	metrics    MetricsCollector
}

// Graph creates a new builder with the specified dimension and the default
// metric, capacities and worker count.
//
// Example:
//
//	db, err := nahiri.Graph[string, Item](128).
//	    SquaredL2().
//	    Capacities(32, 8, 4, 2).
//	    Workers(8).
//	    Build(points, keyFn)
func Graph[K comparable, T any](dimension int) GraphBuilder[K, T] {
	return GraphBuilder[K, T]{
		dimension:  dimension,
		metric:     graph.DefaultOptions.Metric,
		capacities: graph.DefaultOptions.Capacities,
		workers:    graph.DefaultOptions.Workers,
	}
}

// Dot sets the metric to the dot-product dissimilarity (smaller is closer).
func (b GraphBuilder[K, T]) Dot() GraphBuilder[K, T] {
	b.metric = distance.MetricDot
	return b
}

// SquaredL2 sets the metric to squared Euclidean distance.
func (b GraphBuilder[K, T]) SquaredL2() GraphBuilder[K, T] {
	b.metric = distance.MetricSquaredL2
	return b
}

// Capacities sets the neighbor-list lengths of the four tiers.
func (b GraphBuilder[K, T]) Capacities(l0, l1, l2, l3 int) GraphBuilder[K, T] {
	b.capacities = graph.Capacities{l0, l1, l2, l3}
	return b
}

// Workers sets the number of goroutines used to link the graph.
func (b GraphBuilder[K, T]) Workers(n int) GraphBuilder[K, T] {
	b.workers = n
	return b
}

// Logger sets the structured logger for operation tracing.
func (b GraphBuilder[K, T]) Logger(l *Logger) GraphBuilder[K, T] {
	b.logger = l
	return b
}

// Metrics sets the metrics collector for monitoring.
func (b GraphBuilder[K, T]) Metrics(mc MetricsCollector) GraphBuilder[K, T] {
	b.metrics = mc
	return b
}

// Options returns the builder's configuration as New options.
func (b GraphBuilder[K, T]) Options() []Option {
	c := b.capacities
	opts := []Option{
		WithDimension(b.dimension),
		WithMetric(b.metric),
		WithCapacities(c[0], c[1], c[2], c[3]),
		WithWorkers(b.workers),
	}
	if b.logger != nil {
		opts = append(opts, WithLogger(b.logger))
	}
	if b.metrics != nil {
		opts = append(opts, WithMetricsCollector(b.metrics))
	}
	return opts
}

// Build creates the DB.
func (b GraphBuilder[K, T]) Build(points []Point[T], keyFn func(T) K) (*DB[K, T], error) {
	return New(points, keyFn, b.Options()...)
}
