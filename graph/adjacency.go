package graph

import (
	"fmt"
	"math"
	"sort"
)

// Graph is the capability every engine in this package traverses. Edge ids
// are stable linear offsets into the neighbor store, valid for the lifetime
// of the value that produced them; they index per-edge side arrays such as
// the betweenness successor bitmap.
type Graph interface {
	NumVertices() uint32
	NumEdges() int
	// Neighbors returns the splittable edge-id range of v's out-edges.
	Neighbors(v uint32) Range
	Target(e int) uint32
	Weight(e int) float32
}

const neighborGrain = 512

// BuildOptions configures BuildAdjacency. The zero value is usable.
type BuildOptions struct {
	// SortNeighbors orders each vertex's neighbor slice by target id.
	// Required by set-intersection style algorithms, not by the engines
	// here.
	SortNeighbors bool
	Executor      *Executor
}

// Adjacency is the compressed (CSR-style) adjacency structure: an offsets
// array of length N+1 plus a struct-of-arrays neighbor store. It is built
// once and shared read-only by every concurrent traversal; nothing in this
// package mutates it after BuildAdjacency returns.
type Adjacency struct {
	offsets []uint32
	targets []uint32
	weights []float32
}

// BuildAdjacency runs the two-pass construction: histogram of source
// degrees, exclusive prefix sum into offsets, then a scatter pass that
// places each edge at its vertex's write cursor. The input list must be
// closed. Malformed results are programmer errors and panic.
func BuildAdjacency(el *EdgeList, opts BuildOptions) *Adjacency {
	if !el.Closed() {
		panic("graph: BuildAdjacency on open edge list")
	}
	ex := opts.Executor
	if ex == nil {
		ex = NewExecutor(0)
	}

	n := int(el.NumVertices())
	m := el.NumEdges()
	if uint64(m) > uint64(math.MaxUint32) {
		panic("graph: edge count overflows offset type")
	}

	degrees := make([]uint32, n)
	ex.For(NewRange(0, m, DefaultGrain), func(r Range) {
		for i := r.Begin; i < r.End; i++ {
			fetchAdd32(&degrees[el.sources[i]], 1)
		}
	})

	offsets := make([]uint32, n+1)
	var sum uint32
	for v := 0; v < n; v++ {
		offsets[v] = sum
		sum += degrees[v]
	}
	offsets[n] = sum

	// Scatter. The cursors start as a copy of the offsets and each edge
	// claims a slot with a fetch-add.
	cursors := make([]uint32, n)
	copy(cursors, offsets[:n])
	targets := make([]uint32, m)
	weights := make([]float32, m)
	ex.For(NewRange(0, m, DefaultGrain), func(r Range) {
		for i := r.Begin; i < r.End; i++ {
			slot := fetchAdd32(&cursors[el.sources[i]], 1)
			targets[slot] = el.targets[i]
			weights[slot] = el.weights[i]
		}
	})

	adj := &Adjacency{offsets: offsets, targets: targets, weights: weights}
	adj.assertValid()

	if opts.SortNeighbors {
		adj.sortNeighbors(ex)
	}
	return adj
}

// assertValid checks the construction invariants: offsets non-decreasing
// and offsets[N] equal to the store size. Violations are fatal.
func (a *Adjacency) assertValid() {
	n := len(a.offsets) - 1
	for v := 0; v < n; v++ {
		if a.offsets[v] > a.offsets[v+1] {
			panic(fmt.Sprintf("graph: offsets decrease at vertex %d", v))
		}
	}
	if int(a.offsets[n]) != len(a.targets) {
		panic(fmt.Sprintf("graph: offsets[%d]=%d != edge count %d",
			n, a.offsets[n], len(a.targets)))
	}
}

func (a *Adjacency) sortNeighbors(ex *Executor) {
	n := int(a.NumVertices())
	ex.For(NewRange(0, n, 64), func(r Range) {
		for v := r.Begin; v < r.End; v++ {
			begin, end := a.offsets[v], a.offsets[v+1]
			sort.Sort(neighborSorter{
				targets: a.targets[begin:end],
				weights: a.weights[begin:end],
			})
		}
	})
}

type neighborSorter struct {
	targets []uint32
	weights []float32
}

func (s neighborSorter) Len() int           { return len(s.targets) }
func (s neighborSorter) Less(i, j int) bool { return s.targets[i] < s.targets[j] }
func (s neighborSorter) Swap(i, j int) {
	s.targets[i], s.targets[j] = s.targets[j], s.targets[i]
	s.weights[i], s.weights[j] = s.weights[j], s.weights[i]
}

func (a *Adjacency) NumVertices() uint32 { return uint32(len(a.offsets) - 1) }

func (a *Adjacency) NumEdges() int { return len(a.targets) }

func (a *Adjacency) Neighbors(v uint32) Range {
	return NewRange(int(a.offsets[v]), int(a.offsets[v+1]), neighborGrain)
}

func (a *Adjacency) Degree(v uint32) int {
	return int(a.offsets[v+1] - a.offsets[v])
}

func (a *Adjacency) Target(e int) uint32 { return a.targets[e] }

func (a *Adjacency) Weight(e int) float32 { return a.weights[e] }

// Transpose builds the in-edge view of the graph with the same two-pass
// construction, reusing edge weights. Direction-optimizing BFS needs it for
// bottom-up rounds.
func (a *Adjacency) Transpose(opts BuildOptions) *Adjacency {
	ex := opts.Executor
	if ex == nil {
		ex = NewExecutor(0)
	}
	n := int(a.NumVertices())
	m := a.NumEdges()

	degrees := make([]uint32, n)
	ex.For(NewRange(0, m, DefaultGrain), func(r Range) {
		for e := r.Begin; e < r.End; e++ {
			fetchAdd32(&degrees[a.targets[e]], 1)
		}
	})

	offsets := make([]uint32, n+1)
	var sum uint32
	for v := 0; v < n; v++ {
		offsets[v] = sum
		sum += degrees[v]
	}
	offsets[n] = sum

	cursors := make([]uint32, n)
	copy(cursors, offsets[:n])
	targets := make([]uint32, m)
	weights := make([]float32, m)
	for v := uint32(0); v < uint32(n); v++ {
		nr := a.Neighbors(v)
		for e := nr.Begin; e < nr.End; e++ {
			slot := cursors[a.targets[e]]
			cursors[a.targets[e]]++
			targets[slot] = v
			weights[slot] = a.weights[e]
		}
	}

	t := &Adjacency{offsets: offsets, targets: targets, weights: weights}
	t.assertValid()
	if opts.SortNeighbors {
		t.sortNeighbors(ex)
	}
	return t
}

// RelabelByDegree returns a copy of the graph with vertices renumbered in
// descending degree order, plus the permutation mapping old ids to new.
//
// Hazard: relabeling produces a new value with new edge ids. Any paired
// view (a transpose, a per-edge bitmap) built from the old value is stale
// and must be rebuilt from the relabeled graph; the two are not kept in
// sync for you.
func (a *Adjacency) RelabelByDegree(opts BuildOptions) (*Adjacency, []uint32) {
	n := int(a.NumVertices())
	order := make([]uint32, n)
	for v := range order {
		order[v] = uint32(v)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return a.Degree(order[i]) > a.Degree(order[j])
	})
	perm := make([]uint32, n)
	for rank, old := range order {
		perm[old] = uint32(rank)
	}

	el := NewEdgeList()
	el.SetNumVertices(uint32(n))
	for v := uint32(0); v < uint32(n); v++ {
		nr := a.Neighbors(v)
		for e := nr.Begin; e < nr.End; e++ {
			el.Push(perm[v], perm[a.targets[e]], a.weights[e])
		}
	}
	el.Close()
	return BuildAdjacency(el, opts), perm
}
