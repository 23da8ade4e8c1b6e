package graph_test

import (
	"fmt"

	"github.com/VirgileHenry/nahiri/distance"
	"github.com/VirgileHenry/nahiri/index"
	"github.com/VirgileHenry/nahiri/index/graph"
)

func Example() {
	points := []index.Point[string]{
		{Vector: []float32{0}, Payload: "zero"},
		{Vector: []float32{1}, Payload: "one"},
		{Vector: []float32{2}, Payload: "two"},
		{Vector: []float32{3}, Payload: "three"},
		{Vector: []float32{10}, Payload: "ten"},
	}

	g, err := graph.Build(points, func(s string) string { return s }, func(o *graph.Options) {
		o.Dimension = 1
		o.Metric = distance.MetricSquaredL2
		o.Capacities = graph.Capacities{2, 1, 1, 1}
	})
	if err != nil {
		panic(err)
	}

	seq, _ := g.Query("zero", 5, nil)
	for name := range seq {
		fmt.Println(name)
	}

	// Output:
	// one
	// two
}
