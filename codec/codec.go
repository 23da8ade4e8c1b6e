// Package codec centralizes the text encodings used on the wire.
//
// Vectors are exchanged as ordered sequences of numbers; both built-in codecs
// render them as JSON arrays, so bytes produced by one decode with the other.
package codec

import "io"

// Codec encodes and decodes values, one at a time or as a stream.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error

	// NewDecoder reads a sequence of whitespace-separated values from r.
	NewDecoder(r io.Reader) Decoder

	Name() string
}

// Decoder reads successive values from a stream. Decode returns io.EOF once
// the stream is exhausted.
type Decoder interface {
	Decode(v any) error
}

// Names lists the built-in codecs in ByName order.
var Names = []string{"json", "go-json"}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}
