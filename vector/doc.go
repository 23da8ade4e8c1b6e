// Package vector defines the immutable fixed-dimension Vector type and the
// Space that fixes its dimension and dissimilarity measure.
//
// A Space is created once per index; every Vector built through it has exactly
// Space.Dim components. Vectors own a private copy of their data and expose no
// mutators.
//
// Wire forms:
//   - text: an ordered sequence of Dim numbers (a JSON array), via Encode/Decode
//   - binary: Dim little-endian IEEE-754 float32 values, via MarshalBinary/DecodeBinary
//
// Decoding rejects both short and long inputs with *ErrDimensionMismatch.
package vector
