// Package observability exports nahiri operational metrics to Prometheus.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/VirgileHenry/nahiri"
)

var _ nahiri.MetricsCollector = (*PrometheusCollector)(nil)

// PrometheusCollector implements nahiri.MetricsCollector with client_golang
// counters and histograms.
type PrometheusCollector struct {
	builds        *prometheus.CounterVec
	buildPoints   prometheus.Counter
	buildDuration prometheus.Histogram

	queries       *prometheus.CounterVec
	queryResults  prometheus.Histogram
	queryDuration prometheus.Histogram

	searches       *prometheus.CounterVec
	searchK        prometheus.Histogram
	searchDuration prometheus.Histogram
}

// Options configures a PrometheusCollector.
type Options struct {
	// Namespace prefixes every metric name.
	Namespace string

	// Registerer receives the metrics. Nil means prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
}

// DefaultOptions contains the default collector options.
var DefaultOptions = Options{
	Namespace: "nahiri",
}

// NewPrometheusCollector creates the collector and registers its metrics.
// It panics if a metric with the same name is already registered.
func NewPrometheusCollector(optFns ...func(o *Options)) *PrometheusCollector {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	f := promauto.With(reg)
	ns := opts.Namespace

	// Queries read one fixed-size list, so latencies sit in the microsecond range.
	fast := prometheus.ExponentialBuckets(1e-6, 4, 10)

	return &PrometheusCollector{
		builds: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "builds_total",
			Help:      "Total number of index builds, by outcome.",
		}, []string{"status"}),
		buildPoints: f.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "build_points_total",
			Help:      "Total number of points indexed by successful builds.",
		}),
		buildDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "build_duration_seconds",
			Help:      "Duration of index builds in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		queries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "queries_total",
			Help:      "Total number of neighbor queries by key, by whether the key was found.",
		}, []string{"found"}),
		queryResults: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "query_results",
			Help:      "Number of payloads returned per neighbor query.",
			Buckets:   prometheus.LinearBuckets(0, 4, 10),
		}),
		queryDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "query_duration_seconds",
			Help:      "Duration of neighbor queries in seconds.",
			Buckets:   fast,
		}),
		searches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "searches_total",
			Help:      "Total number of exact searches by vector, by outcome.",
		}, []string{"status"}),
		searchK: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "search_k",
			Help:      "Number of results requested per exact search.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		searchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "search_duration_seconds",
			Help:      "Duration of exact searches in seconds.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordBuild implements nahiri.MetricsCollector.
func (p *PrometheusCollector) RecordBuild(count int, duration time.Duration, err error) {
	p.builds.WithLabelValues(status(err)).Inc()
	p.buildDuration.Observe(duration.Seconds())
	if err == nil {
		p.buildPoints.Add(float64(count))
	}
}

// RecordQuery implements nahiri.MetricsCollector.
func (p *PrometheusCollector) RecordQuery(found bool, results int, duration time.Duration) {
	p.queries.WithLabelValues(strconv.FormatBool(found)).Inc()
	p.queryDuration.Observe(duration.Seconds())
	if found {
		p.queryResults.Observe(float64(results))
	}
}

// RecordSearch implements nahiri.MetricsCollector.
func (p *PrometheusCollector) RecordSearch(k int, duration time.Duration, err error) {
	p.searches.WithLabelValues(status(err)).Inc()
	p.searchDuration.Observe(duration.Seconds())
	p.searchK.Observe(float64(k))
}
