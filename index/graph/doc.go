// Package graph implements the proximity-graph index.
//
// Build computes, for every point, the L0 points closest to it under the
// configured metric and stores them as a fixed-length, distance-sorted list of
// positions (tier 0). Query starts from the node registered under a key and
// returns that node's list, optionally filtered and truncated.
//
// The index is approximate by contract: a query never walks past the start
// node's own list, so heavy filtering or a large maxResults yields fewer
// results rather than a wider search.
//
// Nodes reserve room for up to four tiers (capacities L0..L3). Build only ever
// populates tier 0; tiers 1-3 are carried as capacity for later multi-tier
// promotion, and their capacities are still enforced as minimum point counts.
//
// A built Index is immutable and safe for concurrent readers.
package graph
