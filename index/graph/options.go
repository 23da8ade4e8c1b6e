package graph

import (
	"fmt"

	"github.com/VirgileHenry/nahiri/distance"
	"github.com/VirgileHenry/nahiri/index"
)

// Options contains configuration options for building a graph index.
type Options struct {
	// Dimension is the fixed vector dimensionality for this index.
	// It must be > 0 and is enforced for every point.
	Dimension int

	// Metric selects the dissimilarity measure.
	Metric distance.Metric

	// Capacities holds the fixed neighbor-list lengths L0..L3.
	// Every capacity must be >= 1. A build needs at least max(Ln)+1 points.
	Capacities Capacities

	// Workers is the number of goroutines computing neighbor lists.
	// Values <= 1 build sequentially on the calling goroutine.
	Workers int
}

// DefaultOptions contains the default configuration options for the graph index.
var DefaultOptions = Options{
	Dimension:  0,
	Metric:     distance.MetricDot,
	Capacities: Capacities{16, 8, 4, 2},
	Workers:    1,
}

func (o Options) validate() error {
	if o.Dimension <= 0 {
		return index.NewErrInvalidOptions("Dimension", fmt.Sprintf("must be positive, got %d", o.Dimension), nil)
	}
	if _, err := distance.Provider(o.Metric); err != nil {
		return index.NewErrInvalidOptions("Metric", err.Error(), err)
	}
	for tier, c := range o.Capacities {
		if c < 1 {
			return index.NewErrInvalidOptions(fmt.Sprintf("L%d", tier), fmt.Sprintf("capacity must be >= 1, got %d", c), nil)
		}
	}
	return nil
}
