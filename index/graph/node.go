package graph

import (
	"github.com/VirgileHenry/nahiri/vector"
)

// Node represents a node in the graph: a vector, the payload it describes, and
// its neighbor lists.
type Node[T any] struct {
	vector    vector.Vector
	payload   T
	neighbors Neighbors
}

// Vector returns the node's vector.
func (n *Node[T]) Vector() vector.Vector { return n.vector }

// Payload returns the node's payload.
func (n *Node[T]) Payload() T { return n.payload }

// Neighbors returns the node's neighbor storage.
func (n *Node[T]) Neighbors() *Neighbors { return &n.neighbors }
