package vector

import (
	"encoding/binary"
	"math"
	"slices"
)

// Vector is an immutable, fixed-length tuple of float32 values.
//
// The zero Vector has dimension 0.
type Vector struct {
	data []float32
}

// Dim returns the number of components.
func (v Vector) Dim() int { return len(v.data) }

// At returns the i-th component. It panics if i is out of range.
func (v Vector) At(i int) float32 { return v.data[i] }

// Values returns a copy of the components.
func (v Vector) Values() []float32 { return slices.Clone(v.data) }

// Equal reports whether v and o have the same length and equal components.
// Components compare with ==, so a NaN component never equals anything.
func (v Vector) Equal(o Vector) bool {
	return slices.Equal(v.data, o.data)
}

// MarshalBinary encodes the vector as little-endian float32 values without a
// length prefix.
func (v Vector) MarshalBinary() ([]byte, error) {
	b := make([]byte, len(v.data)*4)
	for i, f := range v.data {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
	return b, nil
}
