package codec

import (
	"io"

	gojson "github.com/goccy/go-json"
)

// GoJSON is a JSON codec backed by github.com/goccy/go-json.
// It produces the same wire format as JSON and decodes large datasets faster.
type GoJSON struct{}

func (GoJSON) Marshal(v any) ([]byte, error) { return gojson.Marshal(v) }

func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }

// NewDecoder returns a go-json stream decoder.
func (GoJSON) NewDecoder(r io.Reader) Decoder { return gojson.NewDecoder(r) }

func (GoJSON) Name() string { return "go-json" }
