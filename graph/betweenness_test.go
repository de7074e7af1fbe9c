package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brandesSequential is the textbook single-threaded Brandes accumulation,
// used as the oracle for the parallel engine.
func brandesSequential(g Graph, sources []uint32) []float64 {
	n := int(g.NumVertices())
	bc := make([]float64, n)

	for _, s := range sources {
		var stack []uint32
		preds := make([][]uint32, n)
		sigma := make([]float64, n)
		dist := make([]int, n)
		for v := range dist {
			dist[v] = -1
		}
		sigma[s] = 1
		dist[s] = 0

		queue := []uint32{s}
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			stack = append(stack, u)
			nr := g.Neighbors(u)
			for e := nr.Begin; e < nr.End; e++ {
				v := g.Target(e)
				if dist[v] < 0 {
					dist[v] = dist[u] + 1
					queue = append(queue, v)
				}
				if dist[v] == dist[u]+1 {
					sigma[v] += sigma[u]
					preds[v] = append(preds[v], u)
				}
			}
		}

		delta := make([]float64, n)
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, u := range preds[w] {
				delta[u] += sigma[u] / sigma[w] * (1 + delta[w])
			}
			if w != s {
				bc[w] += delta[w]
			}
		}
	}
	return bc
}

func TestBetweennessDiamond(t *testing.T) {
	// 0 -> 1 -> 3 and 0 -> 2 -> 3: two shortest paths to 3, each middle
	// vertex on exactly one of them.
	g := buildTestGraph(t, 4, []testEdge{
		{0, 1, 1}, {0, 2, 1}, {1, 3, 1}, {2, 3, 1},
	}, BuildOptions{})

	scores := Betweenness(g, []uint32{0}, BetweennessOptions{})
	require.Len(t, scores, 4)
	assert.Zero(t, scores[0])
	assert.InDelta(t, 0.5, scores[1], 1e-9)
	assert.InDelta(t, 0.5, scores[2], 1e-9)
	assert.Zero(t, scores[3])
}

func TestBetweennessPathGraph(t *testing.T) {
	// on 0 -> 1 -> 2 -> 3, from source 0 the interior vertices lie on one
	// and two shortest paths respectively
	g := buildTestGraph(t, 4, []testEdge{
		{0, 1, 1}, {1, 2, 1}, {2, 3, 1},
	}, BuildOptions{})

	scores := Betweenness(g, []uint32{0}, BetweennessOptions{})
	assert.Zero(t, scores[0])
	assert.InDelta(t, 2, scores[1], 1e-9)
	assert.InDelta(t, 1, scores[2], 1e-9)
	assert.Zero(t, scores[3])
}

func TestBetweennessAllSourcesMatchesSequential(t *testing.T) {
	g := randomTestGraph(t, 300, 3000, 5, false)
	n := g.NumVertices()

	sources := make([]uint32, n)
	for v := uint32(0); v < n; v++ {
		sources[v] = v
	}

	got := Betweenness(g, sources, BetweennessOptions{Executor: NewExecutor(8)})
	want := brandesSequential(g, sources)

	for v := range want {
		require.InDelta(t, want[v], got[v], 1e-6, "vertex %d", v)
	}
}

func TestBetweennessSampledSources(t *testing.T) {
	g := randomTestGraph(t, 200, 2400, 21, false)
	sources := []uint32{0, 13, 57, 123, 199}

	got := Betweenness(g, sources, BetweennessOptions{Executor: NewExecutor(4)})
	want := brandesSequential(g, sources)

	for v := range want {
		require.InDelta(t, want[v], got[v], 1e-6, "vertex %d", v)
	}
}

func TestBetweennessNormalize(t *testing.T) {
	g := buildTestGraph(t, 4, []testEdge{
		{0, 1, 1}, {1, 2, 1}, {2, 3, 1},
	}, BuildOptions{})

	scores := Betweenness(g, []uint32{0}, BetweennessOptions{Normalize: true})
	assert.InDelta(t, 1, scores[1], 1e-9)
	assert.InDelta(t, 0.5, scores[2], 1e-9)
	assert.Zero(t, scores[0])
}

func TestBetweennessNormalizeAllZero(t *testing.T) {
	// no edges, nothing to divide by
	g := buildTestGraph(t, 3, nil, BuildOptions{})
	scores := Betweenness(g, []uint32{0, 1, 2}, BetweennessOptions{Normalize: true})
	for v, score := range scores {
		assert.Zero(t, score, "vertex %d", v)
	}
}

func TestBetweennessSourceOutOfRangePanics(t *testing.T) {
	g := buildTestGraph(t, 3, []testEdge{{0, 1, 1}}, BuildOptions{})
	assert.Panics(t, func() {
		Betweenness(g, []uint32{5}, BetweennessOptions{})
	})
}
