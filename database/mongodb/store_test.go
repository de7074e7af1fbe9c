package mongodb

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gander/graph"
)

func TestVertexDocumentRoundTrip(t *testing.T) {
	want := Vertex{ID: 42, Edges: []uint64{1, 2, 3}, Hash: 999}
	got := parseDBVertex(formatDBVertex(want))
	assert.Equal(t, want, got)
}

func TestMongoRoundTrip(t *testing.T) {
	uri := os.Getenv("GANDER_MONGO_URI")
	if uri == "" {
		t.Skip("GANDER_MONGO_URI not set; skipping mongodb integration test")
	}

	client, err := Connect(uri)
	require.NoError(t, err)
	collection := GetCollection(client, "gander-test")

	el := graph.NewEdgeList()
	el.Push(0, 1, 1)
	el.Push(0, 2, 1)
	el.Push(1, 2, 1)
	el.Close()
	require.NoError(t, StoreEdgeList(collection, el))

	vertex, err := GetVertexById(collection, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), vertex.ID)
	assert.Len(t, vertex.Edges, 2)

	loaded, err := LoadEdgeList(collection)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.NumEdges())
}
