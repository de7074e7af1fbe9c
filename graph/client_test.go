package graph

import (
	"net"
	"net/rpc"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serveCoordRPC exposes the coordinator on a loopback port and returns its
// address.
func serveCoordRPC(t *testing.T, coord *Coord) string {
	t.Helper()
	handler := rpc.NewServer()
	require.NoError(t, handler.RegisterName("Coord", coord))

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { listener.Close() })

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go handler.ServeConn(conn)
		}
	}()
	return listener.Addr().String()
}

func TestClientQueryOverRPC(t *testing.T) {
	coord := newTestCoord(t)
	coordAddr := serveCoordRPC(t, coord)

	client := NewClient()
	notifyCh, err := client.Start("client1", coordAddr, "127.0.0.1:0")
	require.NoError(t, err)
	defer client.Stop()

	require.NoError(t, client.SendQuery(Query{
		QueryType: SHORTEST_PATH,
		Graph:     "weighted",
		Nodes:     []uint32{0, 3},
		Delta:     1,
	}))

	result := <-notifyCh
	assert.Empty(t, result.Error)
	assert.Equal(t, SHORTEST_PATH, result.Query.QueryType)
	assert.Equal(t, "client1", result.Query.ClientId)
	assert.EqualValues(t, float32(3), result.Result)
}

func TestClientQueryUnknownGraph(t *testing.T) {
	coord := newTestCoord(t)
	coordAddr := serveCoordRPC(t, coord)

	client := NewClient()
	notifyCh, err := client.Start("client2", coordAddr, "127.0.0.1:0")
	require.NoError(t, err)
	defer client.Stop()

	require.NoError(t, client.SendQuery(Query{
		QueryType: BREADTH_FIRST_SEARCH,
		Graph:     "missing",
		Nodes:     []uint32{0},
	}))

	result := <-notifyCh
	assert.NotEmpty(t, result.Error)
}

func TestClientRejectsMalformedQueries(t *testing.T) {
	client := NewClient()

	assert.Error(t, client.SendQuery(Query{
		QueryType: BREADTH_FIRST_SEARCH,
		Nodes:     []uint32{0, 1},
	}))
	assert.Error(t, client.SendQuery(Query{
		QueryType: SHORTEST_PATH,
		Nodes:     []uint32{0, 1, 2},
	}))
	assert.Error(t, client.SendQuery(Query{QueryType: "PageRank"}))
}
