package graph

import "encoding/gob"

// constants are used as QueryType for the queries
const (
	BREADTH_FIRST_SEARCH = "BreadthFirstSearch"
	SHORTEST_PATH        = "ShortestPath"
	BETWEENNESS          = "Betweenness"
)

// Query is one analytics request against a registered graph.
type Query struct {
	ClientId  string
	QueryType string
	Graph     string   // name the graph was registered under
	Nodes     []uint32 // BFS: [root]; ShortestPath: [source] or [source, dest]; Betweenness: sources (empty = all)
	Delta     float32  // ShortestPath bucket width; <= 0 selects a default
	Normalize bool     // Betweenness only
}

// QueryResult carries the outcome back to the client. Result is dynamically
// typed by QueryType: []uint32 parents for BFS, []float32 distances (or a
// single float32 when two nodes were given) for ShortestPath, []float64
// scores for Betweenness.
type QueryResult struct {
	Query  Query
	Result interface{}
	Error  string
}

// The RPC transport encodes Result through an interface field, so every
// concrete result type has to be registered with gob.
func init() {
	gob.Register([]uint32{})
	gob.Register([]float32{})
	gob.Register([]float64{})
	gob.Register(float32(0))
}
