package graph

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"net/rpc"
	"sync"

	"github.com/gin-gonic/gin"
)

type CoordConfig struct {
	ClientAPIListenAddr string
	HTTPAPIListenAddr   string
	Workers             int
	Graphs              []GraphSource
}

// GraphSource names a graph and where the coordinator loads it from at
// startup. Kind selects the collaborator: "mtx", "sqlite", "sql",
// "dynamodb" or "mongodb".
type GraphSource struct {
	Name string
	Kind string
	Path string // file path or DSN/table, per Kind
}

type registeredGraph struct {
	forward *Adjacency
	reverse *Adjacency
}

// Coord owns the built adjacency structures and runs queries against them.
// Graphs are registered once and shared read-only by every query; queries
// run to completion, there is no cancellation path.
type Coord struct {
	mu       sync.RWMutex
	graphs   map[string]*registeredGraph
	executor *Executor
}

func NewCoord(workers int) *Coord {
	return &Coord{
		graphs:   make(map[string]*registeredGraph),
		executor: NewExecutor(workers),
	}
}

// RegisterGraph builds the compressed adjacency and its transpose from the
// edge list and makes them queryable under name.
func (c *Coord) RegisterGraph(name string, el *EdgeList) error {
	if !el.Closed() {
		return fmt.Errorf("edge list for graph %q is not closed", name)
	}
	opts := BuildOptions{Executor: c.executor}
	forward := BuildAdjacency(el, opts)
	reverse := forward.Transpose(opts)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.graphs[name]; ok {
		return fmt.Errorf("graph %q already registered", name)
	}
	c.graphs[name] = &registeredGraph{forward: forward, reverse: reverse}
	log.Printf("RegisterGraph: %q with %v vertices, %v edges\n",
		name, forward.NumVertices(), forward.NumEdges())
	return nil
}

func (c *Coord) lookup(name string) (*registeredGraph, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g, ok := c.graphs[name]
	if !ok {
		return nil, fmt.Errorf("unknown graph: %q", name)
	}
	return g, nil
}

// StartQuery runs one query to completion. It is the RPC surface the
// client calls; the HTTP handler goes through it too.
func (c *Coord) StartQuery(q Query, result *QueryResult) error {
	log.Printf("StartQuery: received query: %v %v on %q\n", q.QueryType, q.Nodes, q.Graph)
	result.Query = q

	g, err := c.lookup(q.Graph)
	if err != nil {
		result.Error = err.Error()
		return nil
	}
	n := g.forward.NumVertices()
	for _, v := range q.Nodes {
		if v >= n {
			result.Error = fmt.Sprintf("vertex %d out of range [0, %d)", v, n)
			return nil
		}
	}

	switch q.QueryType {
	case BREADTH_FIRST_SEARCH:
		if len(q.Nodes) != 1 {
			result.Error = "BFS takes exactly one root vertex"
			return nil
		}
		parents := BFS(g.forward, g.reverse, q.Nodes[0], BFSOptions{Executor: c.executor})
		result.Result = parents

	case SHORTEST_PATH:
		if len(q.Nodes) != 1 && len(q.Nodes) != 2 {
			result.Error = "ShortestPath takes a source and an optional destination"
			return nil
		}
		delta := q.Delta
		if delta <= 0 {
			delta = 1
		}
		dist := DeltaStepping(g.forward, q.Nodes[0], delta, DeltaSteppingOptions{Executor: c.executor})
		if len(q.Nodes) == 2 {
			result.Result = dist[q.Nodes[1]]
		} else {
			result.Result = dist
		}

	case BETWEENNESS:
		sources := q.Nodes
		if len(sources) == 0 {
			sources = make([]uint32, n)
			for v := uint32(0); v < n; v++ {
				sources[v] = v
			}
		}
		scores := Betweenness(g.forward, sources, BetweennessOptions{
			Normalize: q.Normalize,
			Executor:  c.executor,
		})
		result.Result = scores

	default:
		result.Error = fmt.Sprintf("unknown query type: %q", q.QueryType)
	}
	return nil
}

// ListenClientRPC serves Coord.StartQuery over TCP. Blocks.
func (c *Coord) ListenClientRPC(listenAddr string) error {
	handler := rpc.NewServer()
	if err := handler.RegisterName("Coord", c); err != nil {
		return err
	}

	addr, err := net.ResolveTCPAddr("tcp", listenAddr)
	if err != nil {
		return err
	}
	listener, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return err
	}
	log.Printf("ListenClientRPC: listening for client queries on %v\n", listenAddr)

	for {
		conn, err := listener.Accept()
		if err != nil {
			return err
		}
		go handler.ServeConn(conn)
	}
}

// ServeHTTP exposes the same query surface over HTTP. Blocks.
func (c *Coord) ServeHTTP(listenAddr string) error {
	router := gin.Default()

	router.GET("/health", func(ctx *gin.Context) {
		c.mu.RLock()
		names := make([]string, 0, len(c.graphs))
		for name := range c.graphs {
			names = append(names, name)
		}
		c.mu.RUnlock()
		ctx.JSON(http.StatusOK, gin.H{"status": "ok", "graphs": names})
	})

	router.POST("/query", func(ctx *gin.Context) {
		var q Query
		if err := ctx.BindJSON(&q); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var result QueryResult
		if err := c.StartQuery(q, &result); err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if result.Error != "" {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": result.Error})
			return
		}
		ctx.JSON(http.StatusOK, result)
	})

	return router.Run(listenAddr)
}
