package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/VirgileHenry/nahiri"
	"github.com/VirgileHenry/nahiri/codec"
)

// Row is one dataset entry.
type Row struct {
	Key     string          `json:"key"`
	Vector  []float32       `json:"vector"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Record is the payload stored in the index for every row.
type Record struct {
	Key     string          `json:"key"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Clone implements index.Cloner.
func (r Record) Clone() Record {
	return Record{Key: r.Key, Payload: slices.Clone(r.Payload)}
}

func recordKey(r Record) string { return r.Key }

// readDataset decodes either a JSON array of rows or a stream of rows
// (JSON lines, or any whitespace-separated sequence of objects) with c.
func readDataset(r io.Reader, c codec.Codec) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var rows []Row
		if err := c.Unmarshal(trimmed, &rows); err != nil {
			return nil, fmt.Errorf("decode dataset: %w", err)
		}
		return rows, nil
	}

	var rows []Row
	dec := c.NewDecoder(bytes.NewReader(trimmed))
	for {
		var row Row
		if err := dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("decode dataset row %d: %w", len(rows), err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func loadDataset(path string, c codec.Codec) ([]Row, error) {
	if path == "" {
		return nil, errors.New("no dataset given (use --data)")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readDataset(f, c)
}

func toPoints(rows []Row) []nahiri.Point[Record] {
	points := make([]nahiri.Point[Record], len(rows))
	for i, r := range rows {
		points[i] = nahiri.Point[Record]{
			Vector:  r.Vector,
			Payload: Record{Key: r.Key, Payload: r.Payload},
		}
	}
	return points
}
