// Package testutil provides testing utilities for nahiri.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random vectors, computing exact
// nearest neighbors, and verifying search recall.
//
// # Random Vector Generation
//
//	rng := testutil.NewRNG(seed)
//	vecs := rng.UniformVectors(1000, 32) // uniform [0, 1)
//	pts := testutil.Points(vecs)          // payload = position
//
// # Exact Search (Ground Truth)
//
//	results := testutil.BruteForceSearch(vecs, query, k, distance.Dot)
//
// # Recall Verification
//
//	recall := testutil.ComputeRecall(exactResults, approxResults)
package testutil
