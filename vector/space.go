package vector

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"

	"github.com/VirgileHenry/nahiri/codec"
	"github.com/VirgileHenry/nahiri/distance"
)

// Space fixes the dimension and the dissimilarity measure shared by a set of vectors.
// A Space is immutable and safe for concurrent use.
type Space struct {
	dim    int
	metric distance.Metric
	fn     distance.Func
}

// NewSpace creates a Space of the given dimension and metric.
func NewSpace(dim int, metric distance.Metric) (*Space, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDimension, dim)
	}

	fn, err := distance.Provider(metric)
	if err != nil {
		return nil, err
	}

	return &Space{dim: dim, metric: metric, fn: fn}, nil
}

// Dim returns the dimension of the space.
func (s *Space) Dim() int { return s.dim }

// Metric returns the metric of the space.
func (s *Space) Metric() distance.Metric { return s.metric }

// New constructs a vector from exactly Dim values. The values are copied.
func (s *Space) New(values []float32) (Vector, error) {
	if len(values) != s.dim {
		return Vector{}, &ErrDimensionMismatch{Expected: s.dim, Actual: len(values)}
	}
	return Vector{data: slices.Clone(values)}, nil
}

// Distance returns the dissimilarity between a and b. Both must belong to the space.
func (s *Space) Distance(a, b Vector) float32 {
	return s.fn(a.data, b.data)
}

// DistanceTo returns the dissimilarity between a raw query and v.
// The query length must equal Dim.
func (s *Space) DistanceTo(query []float32, v Vector) float32 {
	return s.fn(query, v.data)
}

// Encode writes v as an ordered sequence of numbers using c.
// A nil codec selects codec.Default.
func (s *Space) Encode(c codec.Codec, v Vector) ([]byte, error) {
	if c == nil {
		c = codec.Default
	}
	if v.Dim() != s.dim {
		return nil, &ErrDimensionMismatch{Expected: s.dim, Actual: v.Dim()}
	}
	return c.Marshal(v.data)
}

// Decode reads an ordered sequence of numbers using c.
// Sequences shorter or longer than Dim are rejected with *ErrDimensionMismatch.
// Numbers that overflow float32 are rejected with ErrOutOfRange whatever the
// codec; the text format cannot spell infinity, so an infinite component can
// only come from overflow.
func (s *Space) Decode(c codec.Codec, data []byte) (Vector, error) {
	if c == nil {
		c = codec.Default
	}

	var values []float32
	if err := c.Unmarshal(data, &values); err != nil {
		return Vector{}, fmt.Errorf("decode vector (%s): %w", c.Name(), err)
	}

	for i, x := range values {
		if math.IsInf(float64(x), 0) {
			return Vector{}, fmt.Errorf("decode vector (%s): component %d: %w", c.Name(), i, ErrOutOfRange)
		}
	}

	if len(values) != s.dim {
		return Vector{}, &ErrDimensionMismatch{Expected: s.dim, Actual: len(values)}
	}

	return Vector{data: values}, nil
}

// DecodeBinary decodes the output of Vector.MarshalBinary.
func (s *Space) DecodeBinary(b []byte) (Vector, error) {
	if len(b)%4 != 0 {
		return Vector{}, fmt.Errorf("invalid vector blob length %d (not multiple of 4)", len(b))
	}
	if n := len(b) / 4; n != s.dim {
		return Vector{}, &ErrDimensionMismatch{Expected: s.dim, Actual: n}
	}

	data := make([]float32, s.dim)
	for i := range data {
		data[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}

	return Vector{data: data}, nil
}
