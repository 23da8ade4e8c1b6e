package graph

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VirgileHenry/nahiri/core"
	"github.com/VirgileHenry/nahiri/distance"
	"github.com/VirgileHenry/nahiri/index"
	"github.com/VirgileHenry/nahiri/testutil"
	"github.com/VirgileHenry/nahiri/vector"
)

type item struct {
	Name string
	Tags []string
}

func (i item) Clone() item {
	return item{Name: i.Name, Tags: slices.Clone(i.Tags)}
}

func itemKey(i item) string { return i.Name }

func itemPoints(vectors [][]float32) []index.Point[item] {
	points := make([]index.Point[item], len(vectors))
	for i, v := range vectors {
		points[i] = index.Point[item]{Vector: v, Payload: item{Name: fmt.Sprintf("p%d", i)}}
	}
	return points
}

func names(seq func(func(item) bool)) []string {
	out := []string{}
	for it := range seq {
		out = append(out, it.Name)
	}
	return out
}

func withOpts(dim int, caps Capacities) func(o *Options) {
	return func(o *Options) {
		o.Dimension = dim
		o.Capacities = caps
	}
}

func TestBuildScenario(t *testing.T) {
	points := []index.Point[item]{
		{Vector: []float32{0, 0}, Payload: item{Name: "a"}},
		{Vector: []float32{1, 0}, Payload: item{Name: "b"}},
		{Vector: []float32{5, 5}, Payload: item{Name: "c"}},
	}

	g, err := Build(points, itemKey, withOpts(2, Capacities{1, 1, 1, 1}))
	require.NoError(t, err)

	// Under the dot product a scores 0 against both b and c; the tie keeps the
	// first candidate seen.
	seq, ok := g.Query("a", 1, nil)
	require.True(t, ok)
	assert.Equal(t, []string{"b"}, names(seq))

	seq, ok = g.Query("c", 1, nil)
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, names(seq))

	n, ok := g.Node(2)
	require.True(t, ok)
	assert.Equal(t, []core.Position{0}, n.Neighbors().L0())

	t.Run("SquaredL2", func(t *testing.T) {
		g, err := Build(points, itemKey, func(o *Options) {
			withOpts(2, Capacities{1, 1, 1, 1})(o)
			o.Metric = distance.MetricSquaredL2
		})
		require.NoError(t, err)

		seq, ok := g.Query("a", 1, nil)
		require.True(t, ok)
		assert.Equal(t, []string{"b"}, names(seq))

		// c is 41 from b and 50 from a.
		seq, ok = g.Query("c", 1, nil)
		require.True(t, ok)
		assert.Equal(t, []string{"b"}, names(seq))
	})
}

func TestBuildPointCountGates(t *testing.T) {
	tests := []struct {
		name     string
		caps     Capacities
		n        int
		stage    index.Stage
		expected int
	}{
		{name: "empty", caps: Capacities{4, 2, 1, 1}, n: 0, stage: index.StageEntryPoint, expected: 1},
		{name: "single", caps: Capacities{4, 2, 1, 1}, n: 1, stage: index.StageL0, expected: 5},
		{name: "exactly L0", caps: Capacities{4, 2, 1, 1}, n: 4, stage: index.StageL0, expected: 5},
		{name: "L1 larger", caps: Capacities{2, 4, 1, 1}, n: 4, stage: index.StageL1, expected: 5},
		{name: "L2 larger", caps: Capacities{2, 2, 6, 1}, n: 6, stage: index.StageL2, expected: 7},
		{name: "L3 larger", caps: Capacities{1, 1, 1, 3}, n: 3, stage: index.StageL3, expected: 4},
	}

	rng := testutil.NewRNG(7)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := itemPoints(rng.UniformVectors(tt.n, 3))

			g, err := Build(points, itemKey, withOpts(3, tt.caps))
			require.Error(t, err)
			assert.Nil(t, g)

			var nerr *index.ErrNotEnoughDataPoints
			require.True(t, errors.As(err, &nerr))
			assert.Equal(t, tt.stage, nerr.Stage)
			assert.Equal(t, tt.expected, nerr.Expected)
			assert.Equal(t, tt.n, nerr.Found)
		})
	}
}

func TestBuildInvalidOptions(t *testing.T) {
	points := itemPoints(testutil.NewRNG(1).UniformVectors(10, 2))

	tests := []struct {
		name  string
		fn    func(o *Options)
		field string
	}{
		{name: "no dimension", fn: func(o *Options) {}, field: "Dimension"},
		{name: "negative dimension", fn: func(o *Options) { o.Dimension = -1 }, field: "Dimension"},
		{name: "unknown metric", fn: func(o *Options) { o.Dimension = 2; o.Metric = distance.Metric(42) }, field: "Metric"},
		{name: "zero L0", fn: withOpts(2, Capacities{0, 1, 1, 1}), field: "L0"},
		{name: "zero L3", fn: withOpts(2, Capacities{1, 1, 1, 0}), field: "L3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(points, itemKey, tt.fn)

			var oerr *index.ErrInvalidOptions
			require.True(t, errors.As(err, &oerr))
			assert.Equal(t, tt.field, oerr.Field)
		})
	}

	_, err := Build[string](points, nil, withOpts(2, Capacities{1, 1, 1, 1}))
	var oerr *index.ErrInvalidOptions
	require.True(t, errors.As(err, &oerr))
	assert.Equal(t, "keyFn", oerr.Field)
}

func TestBuildDimensionMismatch(t *testing.T) {
	points := itemPoints([][]float32{{0, 0}, {1, 1}, {2, 2, 2}, {3, 3}})

	_, err := Build(points, itemKey, withOpts(2, Capacities{1, 1, 1, 1}))
	require.Error(t, err)

	var perr *index.ErrInvalidPoint
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, core.Position(2), perr.Position)

	var derr *vector.ErrDimensionMismatch
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, 2, derr.Expected)
	assert.Equal(t, 3, derr.Actual)
}

func TestBuildCompleteGraph(t *testing.T) {
	const l0 = 4
	points := itemPoints(testutil.NewRNG(3).UniformRangeVectors(l0+1, 5))

	g, err := Build(points, itemKey, withOpts(5, Capacities{l0, 1, 1, 1}))
	require.NoError(t, err)

	for i := range g.Len() {
		nb, ok := g.Neighbors(core.Position(i))
		require.True(t, ok)

		others := []core.Position{}
		for j := range g.Len() {
			if j != i {
				others = append(others, core.Position(j))
			}
		}

		slices.Sort(nb)
		assert.Equal(t, others, nb)
	}
}

func TestNeighborListProperties(t *testing.T) {
	const (
		n   = 300
		dim = 8
		l0  = 12
	)

	for _, metric := range []distance.Metric{distance.MetricDot, distance.MetricSquaredL2} {
		t.Run(metric.String(), func(t *testing.T) {
			vecs := testutil.NewRNG(11).UniformRangeVectors(n, dim)
			g, err := Build(itemPoints(vecs), itemKey, func(o *Options) {
				o.Dimension = dim
				o.Metric = metric
				o.Capacities = Capacities{l0, 4, 2, 1}
			})
			require.NoError(t, err)
			require.NoError(t, g.Validate())

			fn, err := distance.Provider(metric)
			require.NoError(t, err)

			for i := range n {
				nb, ok := g.Neighbors(core.Position(i))
				require.True(t, ok)
				require.Len(t, nb, l0)

				exact := testutil.BruteForceSearch(vecs, vecs[i], l0, fn, i)
				want := make([]core.Position, len(exact))
				for k, r := range exact {
					want[k] = r.Position
				}

				assert.Equal(t, want, nb, "node %d", i)
			}
		})
	}
}

func TestParallelBuildMatchesSequential(t *testing.T) {
	vecs := testutil.NewRNG(99).ClusteredVectors(500, 16, 8, 0.05)
	points := itemPoints(vecs)

	seq, err := Build(points, itemKey, withOpts(16, Capacities{10, 5, 2, 1}))
	require.NoError(t, err)

	par, err := Build(points, itemKey, func(o *Options) {
		o.Dimension = 16
		o.Capacities = Capacities{10, 5, 2, 1}
		o.Workers = 4
	})
	require.NoError(t, err)

	for i := range seq.Len() {
		a, _ := seq.Neighbors(core.Position(i))
		b, _ := par.Neighbors(core.Position(i))
		assert.Equal(t, a, b, "node %d", i)
	}
}

func TestQuery(t *testing.T) {
	// 1-D points on a line, squared L2 makes the ordering obvious.
	points := itemPoints([][]float32{{0}, {1}, {2}, {3}, {10}, {11}})

	g, err := Build(points, itemKey, func(o *Options) {
		o.Dimension = 1
		o.Metric = distance.MetricSquaredL2
		o.Capacities = Capacities{3, 1, 1, 1}
	})
	require.NoError(t, err)

	t.Run("full list", func(t *testing.T) {
		seq, ok := g.Query("p0", 10, nil)
		require.True(t, ok)
		assert.Equal(t, []string{"p1", "p2", "p3"}, names(seq))
	})

	t.Run("truncated", func(t *testing.T) {
		seq, ok := g.Query("p0", 2, nil)
		require.True(t, ok)
		assert.Equal(t, []string{"p1", "p2"}, names(seq))
	})

	t.Run("zero max", func(t *testing.T) {
		seq, ok := g.Query("p0", 0, nil)
		require.True(t, ok)
		assert.Empty(t, names(seq))
	})

	t.Run("negative max", func(t *testing.T) {
		seq, ok := g.Query("p0", -3, nil)
		require.True(t, ok)
		assert.Empty(t, names(seq))
	})

	t.Run("absent key", func(t *testing.T) {
		seq, ok := g.Query("nope", 3, nil)
		assert.False(t, ok)
		assert.Nil(t, seq)
	})

	t.Run("filter before truncation", func(t *testing.T) {
		seq, ok := g.Query("p0", 2, func(i item) bool { return i.Name != "p1" })
		require.True(t, ok)
		assert.Equal(t, []string{"p2", "p3"}, names(seq))
	})

	t.Run("reject all", func(t *testing.T) {
		seq, ok := g.Query("p0", 3, func(item) bool { return false })
		require.True(t, ok)
		assert.Empty(t, names(seq))
	})

	t.Run("never walks past own list", func(t *testing.T) {
		seq, ok := g.Query("p4", 10, nil)
		require.True(t, ok)
		assert.Equal(t, []string{"p5", "p3", "p2"}, names(seq))
	})

	t.Run("reiterable and early stop", func(t *testing.T) {
		seq, ok := g.Query("p3", 3, nil)
		require.True(t, ok)

		first := names(seq)
		assert.Equal(t, first, names(seq))

		for it := range seq {
			assert.Equal(t, "p2", it.Name)
			break
		}
	})

	t.Run("results carry distances", func(t *testing.T) {
		res, ok := g.Results("p0", 3, nil)
		require.True(t, ok)

		var dists []float32
		for r := range res {
			dists = append(dists, r.Distance)
		}
		assert.Equal(t, []float32{1, 4, 9}, dists)
	})
}

func TestDuplicateKeysLastWriteWins(t *testing.T) {
	points := []index.Point[item]{
		{Vector: []float32{0}, Payload: item{Name: "dup"}},
		{Vector: []float32{5}, Payload: item{Name: "x"}},
		{Vector: []float32{6}, Payload: item{Name: "dup"}},
		{Vector: []float32{20}, Payload: item{Name: "y"}},
	}

	g, err := Build(points, itemKey, func(o *Options) {
		o.Dimension = 1
		o.Metric = distance.MetricSquaredL2
		o.Capacities = Capacities{1, 1, 1, 1}
	})
	require.NoError(t, err)

	assert.Equal(t, 4, g.Len())
	assert.Equal(t, 3, g.Keys())

	pos, ok := g.Lookup("dup")
	require.True(t, ok)
	assert.Equal(t, core.Position(2), pos)

	seq, ok := g.Query("dup", 1, nil)
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, names(seq))
}

func TestPayloadIsCloned(t *testing.T) {
	vecs := [][]float32{{0}, {1}, {2}}
	points := itemPoints(vecs)
	points[1].Payload.Tags = []string{"orig"}

	g, err := Build(points, itemKey, func(o *Options) {
		o.Dimension = 1
		o.Capacities = Capacities{1, 1, 1, 1}
	})
	require.NoError(t, err)

	points[1].Payload.Tags[0] = "mutated"
	vecs[1][0] = 42

	n, ok := g.Node(1)
	require.True(t, ok)
	assert.Equal(t, []string{"orig"}, n.Payload().Tags)
	assert.Equal(t, float32(1), n.Vector().At(0))
}

func TestAccessors(t *testing.T) {
	g, err := Build(itemPoints(testutil.NewRNG(5).UniformVectors(20, 4)), itemKey, func(o *Options) {
		o.Dimension = 4
		o.Metric = distance.MetricSquaredL2
		o.Capacities = Capacities{5, 3, 2, 1}
	})
	require.NoError(t, err)

	assert.Equal(t, 20, g.Len())
	assert.Equal(t, 20, g.Keys())
	assert.Equal(t, 4, g.Dimension())
	assert.Equal(t, distance.MetricSquaredL2, g.Metric())
	assert.Equal(t, Capacities{5, 3, 2, 1}, g.Capacities())
	assert.Equal(t, 4, g.Space().Dim())

	_, ok := g.Node(20)
	assert.False(t, ok)
	_, ok = g.Neighbors(99)
	assert.False(t, ok)

	_, ok = g.Payload(20)
	assert.False(t, ok)
	_, ok = g.Vector(20)
	assert.False(t, ok)

	p, ok := g.Payload(3)
	require.True(t, ok)
	assert.Equal(t, "p3", p.Name)

	v, ok := g.Vector(3)
	require.True(t, ok)
	assert.Equal(t, 4, v.Dim())

	n, ok := g.Node(0)
	require.True(t, ok)
	assert.Equal(t, Level0, n.Neighbors().Level())

	// Returned lists are copies.
	l0 := n.Neighbors().L0()
	l0[0] = 999
	assert.NotEqual(t, core.Position(999), n.Neighbors().L0()[0])
}

func TestStats(t *testing.T) {
	const n, l0 = 50, 6

	g, err := Build(itemPoints(testutil.NewRNG(8).UniformVectors(n, 3)), itemKey, withOpts(3, Capacities{l0, 2, 1, 1}))
	require.NoError(t, err)

	st := g.Stats()
	assert.Equal(t, n, st.Nodes)
	assert.Equal(t, n, st.Keys)
	assert.Equal(t, n*l0, st.Edges)
	assert.Equal(t, n, st.Levels[Level0])
	assert.Equal(t, 0, st.Levels[Level1])
	assert.Equal(t, st.Nodes, st.Covered+st.Orphans)
	assert.GreaterOrEqual(t, st.Covered, l0+1)
	assert.Equal(t, distance.MetricDot, st.Metric)
}

func TestValidateDetectsCorruption(t *testing.T) {
	g, err := Build(itemPoints(testutil.NewRNG(2).UniformVectors(10, 2)), itemKey, withOpts(2, Capacities{3, 1, 1, 1}))
	require.NoError(t, err)
	require.NoError(t, g.Validate())

	l0 := g.nodes[4].neighbors.tiers[0]

	l0[1] = l0[0]
	var verr *ErrInvariantViolation
	err = g.Validate()
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, core.Position(4), verr.Position)

	l0[1] = 4
	require.Error(t, g.Validate())

	l0[1] = 77
	require.Error(t, g.Validate())
}
