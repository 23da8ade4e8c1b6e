package graph

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bits-and-blooms/bitset"

	"github.com/VirgileHenry/nahiri/core"
	"github.com/VirgileHenry/nahiri/distance"
)

// Stats summarizes the shape of a built graph.
type Stats struct {
	Nodes      int
	Keys       int
	Dimension  int
	Metric     distance.Metric
	Capacities Capacities

	// Levels counts nodes by their highest tier.
	Levels [MaxTiers]int

	// Edges is the total number of tier-0 entries.
	Edges int

	// Covered is the number of distinct nodes that appear in at least one
	// tier-0 list. Orphans = Nodes - Covered: those nodes are never returned
	// by any query.
	Covered int
	Orphans int

	// MeanFirstDistance is the average distance from a node to its closest neighbor.
	MeanFirstDistance float64
}

// Stats computes graph statistics. It walks every neighbor list once.
func (g *Index[K, T]) Stats() Stats {
	st := Stats{
		Nodes:      len(g.nodes),
		Keys:       len(g.keys),
		Dimension:  g.opts.Dimension,
		Metric:     g.opts.Metric,
		Capacities: g.opts.Capacities,
	}

	referenced := roaring.New()

	var firstSum float64
	for i := range g.nodes {
		n := &g.nodes[i]
		st.Levels[n.neighbors.level]++

		l0 := n.neighbors.tiers[0]
		st.Edges += len(l0)
		for _, id := range l0 {
			referenced.Add(uint32(id))
		}

		if len(l0) > 0 {
			firstSum += float64(g.space.Distance(n.vector, g.nodes[l0[0]].vector))
		}
	}

	st.Covered = int(referenced.GetCardinality())
	st.Orphans = st.Nodes - st.Covered
	if st.Nodes > 0 {
		st.MeanFirstDistance = firstSum / float64(st.Nodes)
	}

	return st
}

// ErrInvariantViolation reports a node whose neighbor storage breaks a graph invariant.
type ErrInvariantViolation struct {
	Position core.Position
	Reason   string
}

func (e *ErrInvariantViolation) Error() string {
	return fmt.Sprintf("graph invariant violated at node %d: %s", e.Position, e.Reason)
}

// Validate checks every structural invariant of the graph: tier shapes match
// the node level and capacities, tier-0 lists reference valid positions,
// contain neither their owner nor duplicates, and are sorted ascending by
// distance; every key maps to a valid position.
func (g *Index[K, T]) Validate() error {
	n := len(g.nodes)
	seen := bitset.New(uint(n))

	for i := range g.nodes {
		self := core.Position(i)
		nb := &g.nodes[i].neighbors

		if nb.level != Level0 {
			return &ErrInvariantViolation{Position: self, Reason: fmt.Sprintf("unexpected level %d", nb.level)}
		}

		for t := range MaxTiers {
			list := nb.tiers[t]
			if t <= int(nb.level) {
				if len(list) != g.opts.Capacities[t] || cap(list) != len(list) {
					return &ErrInvariantViolation{Position: self, Reason: fmt.Sprintf("tier %d has length %d, capacity %d", t, len(list), g.opts.Capacities[t])}
				}
			} else if list != nil {
				return &ErrInvariantViolation{Position: self, Reason: fmt.Sprintf("tier %d populated above level %d", t, nb.level)}
			}
		}

		l0 := nb.tiers[0]
		var prev float32
		for k, id := range l0 {
			switch {
			case int(id) >= n:
				return &ErrInvariantViolation{Position: self, Reason: fmt.Sprintf("neighbor %d out of range", id)}
			case id == self:
				return &ErrInvariantViolation{Position: self, Reason: "references itself"}
			case seen.Test(uint(id)):
				return &ErrInvariantViolation{Position: self, Reason: fmt.Sprintf("duplicate neighbor %d", id)}
			}
			seen.Set(uint(id))

			d := g.space.Distance(g.nodes[i].vector, g.nodes[id].vector)
			if k > 0 && distance.Compare(prev, d) > 0 {
				return &ErrInvariantViolation{Position: self, Reason: fmt.Sprintf("neighbor %d out of order", id)}
			}
			prev = d
		}

		for _, id := range l0 {
			seen.Clear(uint(id))
		}
	}

	for _, pos := range g.keys {
		if int(pos) >= n {
			return &ErrInvariantViolation{Position: pos, Reason: "key maps to missing node"}
		}
	}

	return nil
}
