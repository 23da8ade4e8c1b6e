package graph

import (
	"iter"

	"golang.org/x/sync/errgroup"

	"github.com/VirgileHenry/nahiri/core"
	"github.com/VirgileHenry/nahiri/distance"
	"github.com/VirgileHenry/nahiri/index"
	"github.com/VirgileHenry/nahiri/vector"
)

// Index is an immutable proximity-graph index over payloads of type T,
// addressed by keys of type K.
type Index[K comparable, T any] struct {
	opts  Options
	space *vector.Space
	nodes []Node[T]
	keys  map[K]core.Position
}

// Result is one query hit with its position and its distance to the start node.
type Result[T any] struct {
	Position core.Position
	Distance float32
	Payload  T
}

// Build constructs a graph index from points.
//
// Validation happens before any work, in this order: options, then the point
// count (entry point, L0, L1, L2, L3 gates), then each point's dimension.
// On success every node holds its L0 nearest neighbors and every payload is
// registered under keyFn(payload) in positional order; when two payloads share
// a key the later one wins.
//
// A failed build returns no index.
func Build[K comparable, T any](points []index.Point[T], keyFn func(T) K, optFns ...func(o *Options)) (*Index[K, T], error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if err := opts.validate(); err != nil {
		return nil, err
	}

	if keyFn == nil {
		return nil, index.NewErrInvalidOptions("keyFn", "must not be nil", nil)
	}

	if err := index.CheckPointCount(len(points), opts.Capacities); err != nil {
		return nil, err
	}

	space, err := vector.NewSpace(opts.Dimension, opts.Metric)
	if err != nil {
		return nil, index.NewErrInvalidOptions("Dimension", err.Error(), err)
	}

	l0 := opts.Capacities[0]
	arena := make([]core.Position, len(points)*l0)
	nodes := make([]Node[T], len(points))

	for i, p := range points {
		v, err := space.New(p.Vector)
		if err != nil {
			return nil, index.NewErrInvalidPoint(core.Position(i), err)
		}

		nodes[i] = Node[T]{
			vector:    v,
			payload:   index.ClonePayload(p.Payload),
			neighbors: newNeighbors(Level0, arena[i*l0:(i+1)*l0], opts.Capacities),
		}
	}

	g := &Index[K, T]{
		opts:  opts,
		space: space,
		nodes: nodes,
	}

	if err := g.link(opts.Workers); err != nil {
		return nil, err
	}

	g.keys = make(map[K]core.Position, len(nodes))
	for i := range g.nodes {
		g.keys[keyFn(g.nodes[i].payload)] = core.Position(i)
	}

	return g, nil
}

// link computes the tier-0 list of every node.
func (g *Index[K, T]) link(workers int) error {
	n := len(g.nodes)
	l0 := g.opts.Capacities[0]

	if workers <= 1 {
		s := newScratch(l0)
		for i := range n {
			g.computeNeighbors(core.Position(i), s)
		}
		return nil
	}

	// Small chunks keep workers balanced; each chunk owns its scratch.
	chunk := max(1, n/(workers*4))

	var eg errgroup.Group
	eg.SetLimit(workers)

	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		eg.Go(func() error {
			s := newScratch(l0)
			for i := start; i < end; i++ {
				g.computeNeighbors(core.Position(i), s)
			}
			return nil
		})
	}

	return eg.Wait()
}

// Query returns the payloads of the neighbors of the node registered under key.
//
// The second result is false when key is unknown. Otherwise the sequence walks
// the start node's tier-0 list closest first, skips payloads rejected by
// filter (nil accepts all) and stops after maxResults payloads. maxResults <= 0
// yields an empty sequence. The sequence is lazy and may be iterated any
// number of times.
func (g *Index[K, T]) Query(key K, maxResults int, filter index.Filter[T]) (iter.Seq[T], bool) {
	results, ok := g.Results(key, maxResults, filter)
	if !ok {
		return nil, false
	}

	return func(yield func(T) bool) {
		for r := range results {
			if !yield(r.Payload) {
				return
			}
		}
	}, true
}

// Results is like Query but also yields each hit's position and distance to
// the start node.
func (g *Index[K, T]) Results(key K, maxResults int, filter index.Filter[T]) (iter.Seq[Result[T]], bool) {
	start, ok := g.keys[key]
	if !ok {
		return nil, false
	}

	origin := &g.nodes[start]

	return func(yield func(Result[T]) bool) {
		if maxResults <= 0 {
			return
		}

		emitted := 0
		for _, id := range origin.neighbors.tiers[0] {
			n := &g.nodes[id]
			if !filter.Accept(n.payload) {
				continue
			}

			r := Result[T]{
				Position: id,
				Distance: g.space.Distance(origin.vector, n.vector),
				Payload:  n.payload,
			}
			if !yield(r) {
				return
			}

			emitted++
			if emitted == maxResults {
				return
			}
		}
	}, true
}

// Lookup returns the position registered under key.
func (g *Index[K, T]) Lookup(key K) (core.Position, bool) {
	pos, ok := g.keys[key]
	return pos, ok
}

// Node returns the node at pos.
func (g *Index[K, T]) Node(pos core.Position) (*Node[T], bool) {
	if int(pos) >= len(g.nodes) {
		return nil, false
	}
	return &g.nodes[pos], true
}

// Payload returns the payload of the node at pos.
func (g *Index[K, T]) Payload(pos core.Position) (T, bool) {
	n, ok := g.Node(pos)
	if !ok {
		var zero T
		return zero, false
	}
	return n.payload, true
}

// Vector returns the vector of the node at pos.
func (g *Index[K, T]) Vector(pos core.Position) (vector.Vector, bool) {
	n, ok := g.Node(pos)
	if !ok {
		return vector.Vector{}, false
	}
	return n.vector, true
}

// Neighbors returns a copy of the tier-0 list of the node at pos.
func (g *Index[K, T]) Neighbors(pos core.Position) ([]core.Position, bool) {
	n, ok := g.Node(pos)
	if !ok {
		return nil, false
	}
	return n.neighbors.L0(), true
}

// Len returns the number of nodes.
func (g *Index[K, T]) Len() int { return len(g.nodes) }

// Keys returns the number of distinct keys. It is lower than Len when the key
// function produced duplicates.
func (g *Index[K, T]) Keys() int { return len(g.keys) }

// Dimension returns the vector dimension of the index.
func (g *Index[K, T]) Dimension() int { return g.opts.Dimension }

// Metric returns the metric the graph was built with.
func (g *Index[K, T]) Metric() distance.Metric { return g.opts.Metric }

// Capacities returns the tier capacities L0..L3.
func (g *Index[K, T]) Capacities() Capacities { return g.opts.Capacities }

// Space returns the vector space of the index.
func (g *Index[K, T]) Space() *vector.Space { return g.space }
