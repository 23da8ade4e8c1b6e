// Package index provides the types shared by the nahiri index implementations:
// build input points, query filters, and the build-time error kinds.
//
// Implementations:
//   - index/graph: proximity-graph index queried by key (approximate)
//   - index/flat: exact linear scan queried by vector
package index
