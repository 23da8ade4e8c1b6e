// Package distance provides the dissimilarity measures used by the indexes.
//
// Smaller values always mean "closer". Every ordering decision in nahiri goes
// through Compare, which ranks float32 values by their IEEE-754 totalOrder so
// that NaN and signed zero sort deterministically.
//
// # Supported Metrics
//
//   - MetricDot: dot product used directly as a dissimilarity (default)
//   - MetricSquaredL2: squared Euclidean distance
//
// Neither metric normalizes its inputs. Callers that want cosine semantics must
// L2-normalize vectors before building an index.
//
// # Usage
//
//	fn, _ := distance.Provider(distance.MetricDot)
//	d := fn(a, b)
//	if distance.Compare(d, best) < 0 { ... }
package distance
