package codec

import (
	"encoding/json"
	"io"
)

// JSON is the standard-library JSON codec.
//
// float32 values are written with the shortest representation that parses
// back to the same bits, so finite values (including -0 and subnormals)
// survive a round trip. NaN and ±Inf are not representable in JSON.
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// NewDecoder returns an encoding/json stream decoder.
func (JSON) NewDecoder(r io.Reader) Decoder { return json.NewDecoder(r) }

func (JSON) Name() string { return "json" }

// Default is the codec used when callers pass nil.
var Default Codec = JSON{}
