package graph

import (
	"fmt"
	"math"
	"sync"
)

// BetweennessOptions configures the multi-source Brandes engine.
type BetweennessOptions struct {
	// Normalize divides every score by the maximum score.
	Normalize bool
	NumBins   int
	Executor  *Executor
}

func (o *BetweennessOptions) fill() {
	if o.Executor == nil {
		o.Executor = NewExecutor(0)
	}
	if o.NumBins <= 0 {
		o.NumBins = o.Executor.Workers()
	}
	o.NumBins = ceilPow2(o.NumBins)
}

// Betweenness computes approximate betweenness centrality from the given
// source set with Brandes' algorithm. Each source runs as an independently
// dispatched task owning private per-source state; the only cross-source
// state is the centrality array, accumulated with an atomic float add. Pass
// every vertex as a source for the exact scores.
//
// Per source, the forward phase is a level-synchronized BFS that fetch-adds
// path counts along every shortest-path edge and marks that edge in a
// per-edge successor bitmap, indexed by the edge ids of g; a vertex can
// legitimately take contributions from several predecessors discovered in
// the same round. The backward phase walks the retired frontiers in strict
// reverse level order (hard barrier between levels, parallel within one)
// accumulating dependencies over the marked edges.
func Betweenness(g Graph, sources []uint32, opts BetweennessOptions) []float64 {
	opts.fill()
	ex := opts.Executor

	n := int(g.NumVertices())
	for _, s := range sources {
		if int(s) >= n {
			panic(fmt.Sprintf("graph: betweenness source %d out of range [0, %d)", s, n))
		}
	}

	// Centrality accumulator, float64 bits per vertex.
	bc := make([]uint64, n)

	var wg sync.WaitGroup
	for _, s := range sources {
		wg.Add(1)
		go func(root uint32) {
			defer wg.Done()
			betweennessFromSource(g, root, bc, opts)
		}(s)
	}
	wg.Wait()

	scores := make([]float64, n)
	ex.For(NewRange(0, n, DefaultGrain), func(r Range) {
		for v := r.Begin; v < r.End; v++ {
			scores[v] = math.Float64frombits(bc[v])
		}
	})

	if opts.Normalize {
		max := ex.ReduceMax(NewRange(0, n, DefaultGrain), func(r Range) float64 {
			biggest := 0.0
			for v := r.Begin; v < r.End; v++ {
				if scores[v] > biggest {
					biggest = scores[v]
				}
			}
			return biggest
		})
		if max > 0 {
			ex.For(NewRange(0, n, DefaultGrain), func(r Range) {
				for v := r.Begin; v < r.End; v++ {
					scores[v] /= max
				}
			})
		}
	}
	return scores
}

func betweennessFromSource(g Graph, root uint32, bc []uint64, opts BetweennessOptions) {
	ex := opts.Executor
	n := int(g.NumVertices())
	m := g.NumEdges()

	levels := make([]uint32, n)
	ex.For(NewRange(0, n, DefaultGrain), func(r Range) {
		for v := r.Begin; v < r.End; v++ {
			levels[v] = Unreached
		}
	})
	pathCounts := make([]uint64, n)
	succ := NewAtomicBitVector(m)

	numBins := opts.NumBins
	q1 := newFrontierBins(numBins)
	q2 := newFrontierBins(numBins)
	var retired []*frontierBins

	lvl := uint32(0)
	pathCounts[root] = 1
	q1.push(0, root)
	levels[root] = lvl
	lvl++

	done := false
	for !done {
		ex.For(NewRange(0, numBins, 1), func(r Range) {
			for i := r.Begin; i < r.End; i++ {
				bin := q1.bins[i]
				ex.For(NewRange(0, len(bin), DefaultGrain), func(br Range) {
					for bi := br.Begin; bi < br.End; bi++ {
						u := bin[bi]
						nr := g.Neighbors(u)
						for e := nr.Begin; e < nr.End; e++ {
							v := g.Target(e)
							lvlV := acquire32(&levels[v])

							// First encounter or same-round encounter:
							// u is a shortest-path predecessor of v, so
							// propagate counts and mark the edge.
							if lvlV == Unreached || lvlV == lvl {
								fetchAdd64(&pathCounts[v], acquire64(&pathCounts[u]))
								succ.AtomicSet(e)
							}

							// Race to claim v for the next frontier; the
							// CAS winner is the one that enqueues it.
							if lvlV == Unreached && cas32(&levels[v], Unreached, lvl) {
								q2.push(u, v)
							}
						}
					}
				})
			}
		})

		done = q2.empty()
		retired = append(retired, q1)
		q1 = q2
		q2 = newFrontierBins(numBins)
		lvl++
	}

	// Backward dependency accumulation over the retired frontiers, deepest
	// level first. Within a level every vertex is independent; between
	// levels the loop itself is the barrier.
	deltas := make([]float64, n)
	for i := len(retired) - 1; i >= 0; i-- {
		rb := retired[i]
		ex.For(NewRange(0, numBins, 1), func(r Range) {
			for bi := r.Begin; bi < r.End; bi++ {
				bin := rb.bins[bi]
				ex.For(NewRange(0, len(bin), DefaultGrain), func(br Range) {
					for j := br.Begin; j < br.End; j++ {
						u := bin[j]
						var delta float64
						nr := g.Neighbors(u)
						for e := nr.Begin; e < nr.End; e++ {
							if succ.Get(e) != 0 {
								v := g.Target(e)
								delta += float64(pathCounts[u]) / float64(pathCounts[v]) * (1 + deltas[v])
							}
						}
						deltas[u] = delta
						// The source itself lies on every one of its own
						// paths; its dependency is not a centrality
						// contribution.
						if u != root {
							fetchAddFloat64(&bc[u], delta)
						}
					}
				})
			}
		})
	}
}
