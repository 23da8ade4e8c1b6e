package graph

import (
	"slices"

	"github.com/VirgileHenry/nahiri/core"
)

// MaxTiers is the number of proximity tiers a node can participate in.
const MaxTiers = 4

// Capacities holds the fixed neighbor-list length of each tier, L0 first.
type Capacities [MaxTiers]int

// Level tags how many tiers a node participates in. A node at Level2 owns the
// lists of tiers 0, 1 and 2.
type Level uint8

const (
	Level0 Level = iota
	Level1
	Level2
	Level3
)

// Neighbors is the per-node neighbor storage.
//
// Lists for tiers <= level have exactly the tier's capacity; lists above level
// are nil. Every list is sorted ascending by distance to the owning node and
// holds neither the owner nor duplicates.
type Neighbors struct {
	level Level
	tiers [MaxTiers][]core.Position
}

// newNeighbors wires the tier-0 window l0 and allocates the fixed-length lists
// of tiers 1..level. The window's capacity must equal its length so the list
// can never grow.
func newNeighbors(level Level, l0 []core.Position, caps Capacities) Neighbors {
	n := Neighbors{level: level}
	n.tiers[0] = l0[:len(l0):len(l0)]
	for t := 1; t <= int(level); t++ {
		n.tiers[t] = make([]core.Position, caps[t])
	}
	return n
}

// Level returns the highest tier the node participates in.
func (n *Neighbors) Level() Level { return n.level }

// L0 returns a copy of the tier-0 list, closest first.
func (n *Neighbors) L0() []core.Position { return slices.Clone(n.tiers[0]) }

// Tier returns a copy of the list of tier t and whether the node participates in it.
func (n *Neighbors) Tier(t int) ([]core.Position, bool) {
	if t < 0 || t >= MaxTiers || t > int(n.level) {
		return nil, false
	}
	return slices.Clone(n.tiers[t]), true
}
