package distance

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"gonum.org/v1/gonum/blas/gonum"
)

var blas = gonum.Implementation{}

// diffPool holds scratch buffers for SquaredL2 so the hot path does not allocate.
var diffPool = sync.Pool{
	New: func() any {
		s := make([]float32, 0, 256)
		return &s
	},
}

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float32) float32 {
	if len(a) == 0 {
		return 0
	}
	return blas.Sdot(len(a), a, 1, b, 1)
}

// SquaredL2 calculates the squared L2 (Euclidean) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float32) float32 {
	n := len(a)
	if n == 0 {
		return 0
	}

	bufPtr := diffPool.Get().(*[]float32)
	defer diffPool.Put(bufPtr)

	if cap(*bufPtr) < n {
		*bufPtr = make([]float32, n)
	}
	diff := (*bufPtr)[:n]

	copy(diff, a)
	blas.Saxpy(n, -1, b, 1, diff, 1)

	return blas.Sdot(n, diff, 1, diff, 1)
}

// Compare orders two distances by the IEEE-754 totalOrder predicate.
// It returns -1 if a sorts before b, +1 if after, and 0 if both have the same bit pattern.
//
// Unlike the < operator, Compare is a total order: -NaN < -Inf < ... < -0 < +0 < ... < +Inf < +NaN.
func Compare(a, b float32) int {
	x, y := totalKey(a), totalKey(b)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

// totalKey maps the float bit pattern to a signed integer with the same ordering
// as totalOrder: negative values get their magnitude bits flipped.
func totalKey(f float32) int32 {
	bits := int32(math.Float32bits(f))
	return bits ^ int32(uint32(bits>>31)>>1)
}

// Metric represents the distance metric used for vector comparison.
type Metric int

const (
	// MetricDot uses the raw dot product as the dissimilarity.
	// It is not a metric in the mathematical sense: self-distance is not zero
	// and the triangle inequality does not hold.
	MetricDot Metric = iota
	// MetricSquaredL2 uses the squared Euclidean distance.
	MetricSquaredL2
)

func (m Metric) String() string {
	switch m {
	case MetricDot:
		return "Dot"
	case MetricSquaredL2:
		return "SquaredL2"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// ParseMetric parses a metric name as used in configuration files.
// Names are case-insensitive; "l2" and "euclidean" are accepted for MetricSquaredL2.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dot", "inner", "inner_product":
		return MetricDot, nil
	case "l2", "squaredl2", "squared_l2", "euclidean":
		return MetricSquaredL2, nil
	default:
		return 0, fmt.Errorf("unsupported metric: %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Metric) MarshalText() ([]byte, error) {
	switch m {
	case MetricDot:
		return []byte("dot"), nil
	case MetricSquaredL2:
		return []byte("l2"), nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Metric) UnmarshalText(text []byte) error {
	parsed, err := ParseMetric(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Func is a function type for distance calculation.
type Func func(a, b []float32) float32

// Provider returns the distance function for the given metric.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricDot:
		return Dot, nil
	case MetricSquaredL2:
		return SquaredL2, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}
