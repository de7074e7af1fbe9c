package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBFSPathGraph(t *testing.T) {
	// 0 -> 1 -> 2 -> 3 -> 4
	g := buildTestGraph(t, 5, []testEdge{
		{0, 1, 1}, {1, 2, 1}, {2, 3, 1}, {3, 4, 1},
	}, BuildOptions{})
	gt := g.Transpose(BuildOptions{})

	parents := BFS(g, gt, 0, BFSOptions{})
	assert.Equal(t, []uint32{0, 0, 1, 2, 3}, parents)

	seqParents, levels := BFSSequential(g, 0)
	assert.Equal(t, parents, seqParents)
	assert.Equal(t, []uint32{0, 1, 2, 3, 4}, levels)
}

func TestBFSDisconnected(t *testing.T) {
	g := buildTestGraph(t, 6, []testEdge{
		{0, 1, 1}, {1, 2, 1},
		{4, 5, 1},
	}, BuildOptions{})
	gt := g.Transpose(BuildOptions{})

	parents := BFS(g, gt, 0, BFSOptions{})
	assert.Equal(t, uint32(0), parents[0])
	assert.Equal(t, uint32(0), parents[1])
	assert.Equal(t, uint32(1), parents[2])
	assert.Equal(t, Unreached, parents[3])
	assert.Equal(t, Unreached, parents[4])
	assert.Equal(t, Unreached, parents[5])
}

func TestBFSSingleVertex(t *testing.T) {
	g := buildTestGraph(t, 1, nil, BuildOptions{})
	gt := g.Transpose(BuildOptions{})
	parents := BFS(g, gt, 0, BFSOptions{})
	assert.Equal(t, []uint32{0}, parents)
}

func TestBFSRootOutOfRangePanics(t *testing.T) {
	g := buildTestGraph(t, 3, []testEdge{{0, 1, 1}}, BuildOptions{})
	gt := g.Transpose(BuildOptions{})
	assert.Panics(t, func() { BFS(g, gt, 3, BFSOptions{}) })
	assert.Panics(t, func() { BFSSequential(g, 99) })
}

// levelsFromParents recomputes depths by chasing parent pointers.
func levelsFromParents(t *testing.T, parents []uint32) []uint32 {
	t.Helper()
	levels := make([]uint32, len(parents))
	for v := range levels {
		levels[v] = Unreached
	}
	for v := range parents {
		if parents[v] == Unreached {
			continue
		}
		depth := uint32(0)
		u := uint32(v)
		for parents[u] != u {
			u = parents[u]
			depth++
			require.Less(t, depth, uint32(len(parents)), "parent chain of %d cycles", v)
		}
		levels[v] = depth
	}
	return levels
}

func TestBFSMatchesSequentialLevels(t *testing.T) {
	g := randomTestGraph(t, 2000, 20000, 42, false)
	gt := g.Transpose(BuildOptions{})

	for _, root := range []uint32{0, 17, 999} {
		parents := BFS(g, gt, root, BFSOptions{Executor: NewExecutor(8)})
		_, wantLevels := BFSSequential(g, root)

		require.NoError(t, VerifyBFS(g, gt, root, parents))
		levels := levelsFromParents(t, parents)
		assert.Equal(t, wantLevels, levels, "root %d", root)

		// a reached vertex can never be more than one level deeper than a
		// reached in-neighbor
		for u := uint32(0); u < g.NumVertices(); u++ {
			if levels[u] == Unreached {
				continue
			}
			nr := g.Neighbors(u)
			for e := nr.Begin; e < nr.End; e++ {
				v := g.Target(e)
				require.NotEqual(t, Unreached, levels[v])
				require.LessOrEqual(t, levels[v], levels[u]+1,
					"edge %d -> %d, levels %d, %d", u, v, levels[u], levels[v])
			}
		}
	}
}

func TestBFSForcedBottomUp(t *testing.T) {
	// a huge alpha flips to bottom-up almost immediately; the result must
	// not change.
	g := randomTestGraph(t, 500, 8000, 3, false)
	gt := g.Transpose(BuildOptions{})

	parents := BFS(g, gt, 0, BFSOptions{Alpha: 1 << 20, Beta: 1, Executor: NewExecutor(4)})
	_, wantLevels := BFSSequential(g, 0)

	require.NoError(t, VerifyBFS(g, gt, 0, parents))
	assert.Equal(t, wantLevels, levelsFromParents(t, parents))
}

func TestVerifyBFSCatchesBadParent(t *testing.T) {
	g := buildTestGraph(t, 4, []testEdge{
		{0, 1, 1}, {1, 2, 1}, {2, 3, 1},
	}, BuildOptions{})
	gt := g.Transpose(BuildOptions{})

	parents := []uint32{0, 0, 1, 2}
	require.NoError(t, VerifyBFS(g, gt, 0, parents))

	// 3 claims parent 0 but there is no 0 -> 3 edge
	bad := []uint32{0, 0, 1, 0}
	assert.Error(t, VerifyBFS(g, gt, 0, bad))

	// 2 marked unreached although the search should arrive
	bad = []uint32{0, 0, Unreached, 2}
	assert.Error(t, VerifyBFS(g, gt, 0, bad))
}
