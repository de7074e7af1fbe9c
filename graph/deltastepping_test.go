package graph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weightedTestGraph(t *testing.T) *Adjacency {
	t.Helper()
	// the direct 0 -> 1 edge costs 4 but the detour through 2 costs 2
	return buildTestGraph(t, 4, []testEdge{
		{0, 1, 4}, {0, 2, 1}, {2, 1, 1}, {1, 3, 1},
	}, BuildOptions{})
}

func TestDeltaSteppingWeightedGraph(t *testing.T) {
	g := weightedTestGraph(t)
	want := []float32{0, 2, 1, 3}

	for _, delta := range []float32{0.5, 1, 2, 10} {
		got := DeltaStepping(g, 0, delta, DeltaSteppingOptions{})
		assert.Equal(t, want, got, "delta %v", delta)
	}
}

func TestDeltaSteppingSequentialWeightedGraph(t *testing.T) {
	g := weightedTestGraph(t)
	want := []float32{0, 2, 1, 3}

	for _, delta := range []float32{0.5, 1, 2, 10} {
		got := DeltaSteppingSequential(g, 0, delta, nil)
		assert.Equal(t, want, got, "delta %v", delta)
	}
}

func TestDeltaSteppingUnreachable(t *testing.T) {
	g := buildTestGraph(t, 4, []testEdge{
		{0, 1, 1},
	}, BuildOptions{})

	dist := DeltaStepping(g, 0, 1, DeltaSteppingOptions{})
	assert.Equal(t, float32(0), dist[0])
	assert.Equal(t, float32(1), dist[1])
	assert.True(t, math.IsInf(float64(dist[2]), 1))
	assert.True(t, math.IsInf(float64(dist[3]), 1))
}

func TestDeltaSteppingCustomWeight(t *testing.T) {
	g := weightedTestGraph(t)

	// unit weights turn shortest paths into hop counts
	unit := func(Graph, int) float32 { return 1 }
	dist := DeltaStepping(g, 0, 1, DeltaSteppingOptions{Weight: unit})
	assert.Equal(t, []float32{0, 1, 1, 2}, dist)
}

func TestDeltaSteppingMatchesDijkstra(t *testing.T) {
	g := randomTestGraph(t, 1000, 12000, 9, true)

	for _, delta := range []float32{0.25, 1, 5} {
		got := DeltaStepping(g, 0, delta, DeltaSteppingOptions{Executor: NewExecutor(8)})
		want := Dijkstra(g, 0, nil)

		require.Len(t, got, len(want))
		for v := range want {
			if math.IsInf(float64(want[v]), 1) {
				require.True(t, math.IsInf(float64(got[v]), 1), "vertex %d", v)
				continue
			}
			require.InDelta(t, want[v], got[v], 1e-4, "vertex %d delta %v", v, delta)
		}
	}
}

func TestDeltaSteppingSequentialMatchesDijkstra(t *testing.T) {
	g := randomTestGraph(t, 400, 4000, 13, true)

	got := DeltaSteppingSequential(g, 7, 2, nil)
	want := Dijkstra(g, 7, nil)
	for v := range want {
		if math.IsInf(float64(want[v]), 1) {
			require.True(t, math.IsInf(float64(got[v]), 1), "vertex %d", v)
			continue
		}
		require.InDelta(t, want[v], got[v], 1e-4, "vertex %d", v)
	}
}

func TestDeltaSteppingBadArgsPanic(t *testing.T) {
	g := weightedTestGraph(t)
	assert.Panics(t, func() { DeltaStepping(g, 0, 0, DeltaSteppingOptions{}) })
	assert.Panics(t, func() { DeltaStepping(g, 0, -1, DeltaSteppingOptions{}) })
	assert.Panics(t, func() { DeltaStepping(g, 9, 1, DeltaSteppingOptions{}) })
	assert.Panics(t, func() { DeltaSteppingSequential(g, 0, 0, nil) })
	assert.Panics(t, func() { Dijkstra(g, 9, nil) })
}

func TestDijkstraWeightedGraph(t *testing.T) {
	g := weightedTestGraph(t)
	assert.Equal(t, []float32{0, 2, 1, 3}, Dijkstra(g, 0, nil))
}
