package graph

import "fmt"

// EdgeList is the builder input: a sequence of directed, possibly weighted
// edges with an open/push/close lifecycle. Deduplication and undirected
// expansion are the producer's responsibility; the builder preserves
// whatever is pushed, self-loops and duplicates included.
type EdgeList struct {
	sources []uint32
	targets []uint32
	weights []float32

	numVertices uint32
	closed      bool
}

func NewEdgeList() *EdgeList {
	return &EdgeList{}
}

// Push appends one edge. Panics once the list is closed; the compressed
// adjacency treats a closed list as immutable and a late push would
// silently desynchronize anything already built from it.
func (el *EdgeList) Push(source, target uint32, weight float32) {
	if el.closed {
		panic("graph: Push on closed edge list")
	}
	el.sources = append(el.sources, source)
	el.targets = append(el.targets, target)
	el.weights = append(el.weights, weight)
	if source >= el.numVertices {
		el.numVertices = source + 1
	}
	if target >= el.numVertices {
		el.numVertices = target + 1
	}
}

// Close seals the list.
func (el *EdgeList) Close() {
	el.closed = true
}

func (el *EdgeList) Closed() bool { return el.closed }

func (el *EdgeList) NumEdges() int { return len(el.sources) }

// NumVertices is one past the highest vertex id seen, unless a larger
// count was declared with SetNumVertices.
func (el *EdgeList) NumVertices() uint32 { return el.numVertices }

// SetNumVertices declares the vertex count explicitly, for graphs whose
// trailing vertices have no edges. It can only grow the count.
func (el *EdgeList) SetNumVertices(n uint32) {
	if el.closed {
		panic("graph: SetNumVertices on closed edge list")
	}
	if n > el.numVertices {
		el.numVertices = n
	}
}

// Edge returns the i'th pushed edge.
func (el *EdgeList) Edge(i int) (source, target uint32, weight float32) {
	return el.sources[i], el.targets[i], el.weights[i]
}

func (el *EdgeList) String() string {
	return fmt.Sprintf("EdgeList{vertices: %d, edges: %d, closed: %v}",
		el.numVertices, len(el.sources), el.closed)
}
