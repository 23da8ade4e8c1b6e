package graph

import (
	"sort"

	"github.com/VirgileHenry/nahiri/core"
	"github.com/VirgileHenry/nahiri/distance"
)

// scratch holds the reusable buffers of one linking worker.
type scratch struct {
	dists []float32
}

func newScratch(l0 int) *scratch {
	return &scratch{dists: make([]float32, l0)}
}

// candidates sorts a tier-0 list together with its distances.
type candidates struct {
	ids   []core.Position
	dists []float32
}

func (c candidates) Len() int           { return len(c.ids) }
func (c candidates) Less(i, j int) bool { return distance.Compare(c.dists[i], c.dists[j]) < 0 }
func (c candidates) Swap(i, j int) {
	c.ids[i], c.ids[j] = c.ids[j], c.ids[i]
	c.dists[i], c.dists[j] = c.dists[j], c.dists[i]
}

// computeNeighbors fills the tier-0 list of self with the L0 nodes closest to it.
//
// The list starts as the first L0 positions other than self, sorted by
// distance. Every remaining node is then binary-searched into the list: it is
// placed before the first retained entry that is strictly farther, shifting the
// tail by one slot and dropping the last entry. A node that would land past
// the end is farther than everything retained and is discarded. Equal
// distances therefore keep the entry that was seen first.
//
// It only writes the tier-0 window of self, so distinct nodes can be computed
// concurrently.
func (g *Index[K, T]) computeNeighbors(self core.Position, s *scratch) {
	origin := g.nodes[self].vector
	ids := g.nodes[self].neighbors.tiers[0]
	l0 := len(ids)
	dists := s.dists[:l0]

	next := 0
	for k := range ids {
		if next == int(self) {
			next++
		}
		ids[k] = core.Position(next)
		dists[k] = g.space.Distance(origin, g.nodes[next].vector)
		next++
	}

	sort.Stable(candidates{ids: ids, dists: dists})

	for p := next; p < len(g.nodes); p++ {
		if p == int(self) {
			continue
		}

		d := g.space.Distance(origin, g.nodes[p].vector)

		at := sort.Search(l0, func(i int) bool {
			return distance.Compare(dists[i], d) > 0
		})
		if at == l0 {
			continue
		}

		copy(ids[at+1:], ids[at:l0-1])
		copy(dists[at+1:], dists[at:l0-1])
		ids[at] = core.Position(p)
		dists[at] = d
	}
}
