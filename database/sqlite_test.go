package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gander/graph"
)

func TestSQLiteRoundTrip(t *testing.T) {
	store, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer store.Close()

	el := graph.NewEdgeList()
	el.Push(0, 1, 4)
	el.Push(0, 2, 1)
	el.Push(2, 1, 1)
	el.Push(1, 3, 1)
	el.Close()

	require.NoError(t, store.StoreEdgeList(el))

	count, err := store.CountEdges()
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	loaded, err := store.LoadEdgeList()
	require.NoError(t, err)
	assert.True(t, loaded.Closed())
	require.Equal(t, el.NumEdges(), loaded.NumEdges())
	for i := 0; i < el.NumEdges(); i++ {
		wantSrc, wantDst, wantWeight := el.Edge(i)
		src, dst, weight := loaded.Edge(i)
		assert.Equal(t, wantSrc, src)
		assert.Equal(t, wantDst, dst)
		assert.Equal(t, wantWeight, weight)
	}
}

func TestSQLiteLoadedListBuilds(t *testing.T) {
	store, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer store.Close()

	el := graph.NewEdgeList()
	el.Push(0, 1, 1)
	el.Push(1, 2, 1)
	el.Close()
	require.NoError(t, store.StoreEdgeList(el))

	loaded, err := store.LoadEdgeList()
	require.NoError(t, err)

	g := graph.BuildAdjacency(loaded, graph.BuildOptions{})
	assert.Equal(t, uint32(3), g.NumVertices())
	assert.Equal(t, 2, g.NumEdges())
}

func TestSQLiteEmptyLoad(t *testing.T) {
	store, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer store.Close()

	loaded, err := store.LoadEdgeList()
	require.NoError(t, err)
	assert.Zero(t, loaded.NumEdges())
	assert.True(t, loaded.Closed())
}
