package nahiri

import (
	"log/slog"

	"github.com/VirgileHenry/nahiri/distance"
	"github.com/VirgileHenry/nahiri/index/graph"
)

type options struct {
	graph            graph.Options
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures New.
type Option func(*options)

// WithDimension sets the fixed vector dimension. It is required.
func WithDimension(dim int) Option {
	return func(o *options) {
		o.graph.Dimension = dim
	}
}

// WithMetric sets the dissimilarity measure shared by the graph and the flat index.
func WithMetric(m distance.Metric) Option {
	return func(o *options) {
		o.graph.Metric = m
	}
}

// WithCapacities sets the neighbor-list lengths of the four tiers.
//
// Only l0 shapes the graph today; l1..l3 are reserved tier sizes but still
// raise the minimum point count to max(l0, l1, l2, l3)+1.
func WithCapacities(l0, l1, l2, l3 int) Option {
	return func(o *options) {
		o.graph.Capacities = graph.Capacities{l0, l1, l2, l3}
	}
}

// WithWorkers sets the number of goroutines used to link the graph.
// Values <= 1 build on the calling goroutine.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.graph.Workers = n
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &nahiri.BasicMetricsCollector{}
//	db, _ := nahiri.New(points, keyFn, nahiri.WithDimension(64), nahiri.WithMetricsCollector(metrics))
//	// ... use db ...
//	stats := metrics.GetStats()
//	fmt.Printf("Queries: %d, Avg latency: %dns\n", stats.QueryCount, stats.QueryAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := nahiri.NewJSONLogger(slog.LevelInfo)
//	db, _ := nahiri.New(points, keyFn, nahiri.WithDimension(64), nahiri.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithConfig applies every field of cfg. Options listed after it override it.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.graph.Dimension = cfg.Dimension
		o.graph.Metric = cfg.Metric
		o.graph.Capacities = cfg.Capacities.toGraph()
		o.graph.Workers = cfg.Workers
		if l := cfg.Log.Logger(); l != nil {
			o.logger = l
		}
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		graph:            graph.DefaultOptions,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
