// Package nahiri provides an embedded, in-memory approximate nearest-neighbor
// index for Go.
//
// A DB is built once from a fixed set of points. Each point is a float32
// vector and a payload; a caller-supplied key function maps payloads to keys.
// Two structures are built over the same points:
//
//   - a proximity graph, where every node stores its L0 closest nodes. A
//     neighbor query is a key lookup plus a read of that node's list.
//   - a flat index that scans every vector. It answers "closest to this
//     arbitrary vector" exactly.
//
// # Quick Start
//
//	points := []index.Point[Item]{
//	    {Vector: []float32{0.1, 0.2}, Payload: Item{Name: "a"}},
//	    // ...
//	}
//
//	db, err := nahiri.New(points, func(i Item) string { return i.Name },
//	    nahiri.WithDimension(2),
//	    nahiri.WithCapacities(16, 8, 4, 2),
//	)
//
//	similar, ok := db.Neighbors(ctx, "a", 10, nil)
//	closest, err := db.Closest(ctx, []float32{0.3, 0.1}, 5, nil)
//
// Or with the fluent builder:
//
//	db, err := nahiri.Graph[string, Item](2).SquaredL2().Workers(4).Build(points, keyFn)
//
// # Metrics
//
// The default metric is the dot product used as a dissimilarity: smaller is
// closer, and no normalization is applied. Squared Euclidean distance is
// available as distance.MetricSquaredL2.
//
// # Size Requirements
//
// Build needs at least max(L0, L1, L2, L3)+1 points; smaller sets fail with
// *ErrNotEnoughDataPoints naming the first tier that could not be filled.
//
// # Concurrency
//
// A built DB is immutable. All methods are safe for concurrent use.
package nahiri
