package database

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gander/graph"
)

// These tests need live backends and are skipped unless the matching
// environment variable points at one.

func TestSQLStoreRoundTrip(t *testing.T) {
	addr := os.Getenv("GANDER_MYSQL_ADDR")
	if addr == "" {
		t.Skip("GANDER_MYSQL_ADDR not set; skipping mysql integration test")
	}

	store, err := ConnectSQL(DatabaseConfig{
		Driver:     "mysql",
		ServerAddr: addr,
		Port:       3306,
		Username:   "gander",
		Password:   "gander",
		Database:   "gander",
		TableName:  "adjacency_test",
	})
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.CreateAdjacencyTable())

	require.NoError(t, store.InsertVertex(0, []uint64{1, 2}))
	require.NoError(t, store.InsertVertex(1, []uint64{3}))
	require.NoError(t, store.InsertVertex(2, nil))

	vertex, err := store.GetVertexById(0)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2}, vertex.Neighbors)

	el, err := store.LoadEdgeList()
	require.NoError(t, err)
	assert.Equal(t, 3, el.NumEdges())
}

func TestDynamoRoundTrip(t *testing.T) {
	table := os.Getenv("GANDER_DYNAMO_TABLE")
	if table == "" {
		t.Skip("GANDER_DYNAMO_TABLE not set; skipping dynamodb integration test")
	}

	svc := GetDynamoClient()
	el := graph.NewEdgeList()
	el.Push(0, 1, 1)
	el.Push(0, 2, 1)
	el.Push(1, 2, 1)
	el.Close()

	require.NoError(t, StoreEdgeListDynamo(svc, table, el))

	vertex, err := GetVertexByID(svc, 0, table)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), vertex.ID)
	assert.Len(t, vertex.Edges, 2)

	loaded, err := LoadEdgeListDynamo(svc, table)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.NumEdges())
}

func TestParseNeighborsString(t *testing.T) {
	got, err := parseNeighborsString("1,2,3")
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, got)

	got, err = parseNeighborsString("")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = parseNeighborsString("1,x,3")
	assert.Error(t, err)
}

func TestJoinNeighborsRoundTrip(t *testing.T) {
	want := []uint64{5, 10, 42}
	got, err := parseNeighborsString(joinNeighbors(want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
