// Package core holds identifier types shared by the index implementations.
package core

// Position is the dense index of a node inside a single built index.
// Positions are assigned in input order and never change after build.
// It is strictly 32-bit, which caps an index at ~4 billion points and halves
// the size of every neighbor list compared to int.
type Position uint32

// MaxPosition is the largest representable Position.
const MaxPosition = ^Position(0)
