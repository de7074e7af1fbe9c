package graph

import (
	"fmt"
	"math"
	"sync"
)

// Unreached is the sentinel parent/level for vertices a traversal never
// claimed.
const Unreached = uint32(math.MaxUint32)

// BFSOptions are tuning knobs, not correctness parameters: any positive
// alpha/beta give the same parent array modulo tie-breaks.
type BFSOptions struct {
	NumBins  int // rounded up to a power of two; default 32
	Alpha    int // top-down -> bottom-up switch threshold; default 15
	Beta     int // bottom-up -> top-down switch threshold; default 18
	Executor *Executor
}

func (o *BFSOptions) fill() {
	if o.NumBins <= 0 {
		o.NumBins = 32
	}
	o.NumBins = ceilPow2(o.NumBins)
	if o.Alpha <= 0 {
		o.Alpha = 15
	}
	if o.Beta <= 0 {
		o.Beta = 18
	}
	if o.Executor == nil {
		o.Executor = NewExecutor(0)
	}
}

// frontierBins is the shared per-round frontier: a power-of-two number of
// drop points, each guarded by its own mutex so concurrent pushes from
// different bins never contend.
type frontierBins struct {
	mask uint32
	mu   []sync.Mutex
	bins [][]uint32
}

func newFrontierBins(n int) *frontierBins {
	return &frontierBins{
		mask: uint32(n - 1),
		mu:   make([]sync.Mutex, n),
		bins: make([][]uint32, n),
	}
}

// push drops v into the bin selected by key.
func (f *frontierBins) push(key, v uint32) {
	i := key & f.mask
	f.mu[i].Lock()
	f.bins[i] = append(f.bins[i], v)
	f.mu[i].Unlock()
}

func (f *frontierBins) empty() bool {
	for i := range f.bins {
		if len(f.bins[i]) != 0 {
			return false
		}
	}
	return true
}

// reset empties every bin, keeping capacity for the next round.
func (f *frontierBins) reset() {
	for i := range f.bins {
		f.bins[i] = f.bins[i][:0]
	}
}

// BFS performs direction-optimizing breadth-first search from root, after
// Beamer: top-down rounds claim frontier neighbors through a parent CAS,
// bottom-up rounds scan unclaimed vertices' in-edges (via the transpose gt)
// against the frontier bitmap. The switch heuristic compares edges incident
// to the frontier against the unscanned remainder (alpha) and holds
// bottom-up while the awakened count keeps growing or stays above N/beta.
//
// Returns the parent array: parent[root] == root, Unreached elsewhere the
// search never arrived. Ordering within a round is unspecified; when several
// frontier vertices could claim the same neighbor the first CAS wins.
func BFS(g, gt Graph, root uint32, opts BFSOptions) []uint32 {
	opts.fill()
	ex := opts.Executor

	n := int(g.NumVertices())
	if int(root) >= n {
		panic(fmt.Sprintf("graph: BFS root %d out of range [0, %d)", root, n))
	}
	numBins := opts.NumBins
	q1 := newFrontierBins(numBins)
	q2 := newFrontierBins(numBins)

	parents := make([]uint32, n)
	ex.For(NewRange(0, n, DefaultGrain), func(r Range) {
		for v := r.Begin; v < r.End; v++ {
			parents[v] = Unreached
		}
	})
	front := NewAtomicBitVector(n)
	curr := NewAtomicBitVector(n)

	edgesToCheck := uint64(g.NumEdges())
	scoutCount := uint64(g.Neighbors(root).Size())

	parents[root] = root
	q1.push(root, root)

	done := false
	for !done {
		if scoutCount > edgesToCheck/uint64(opts.Alpha) {
			// Bottom-up phase. Materialize the frontier bitmap from the
			// bins first.
			var awake uint64
			ex.For(NewRange(0, numBins, 1), func(r Range) {
				for i := r.Begin; i < r.End; i++ {
					bin := q1.bins[i]
					fetchAdd64(&awake, uint64(len(bin)))
					for _, u := range bin {
						curr.AtomicSet(int(u))
					}
				}
			})

			for {
				oldAwake := awake
				front, curr = curr, front
				curr.Clear(ex)

				awake = ex.ReduceSum(NewRange(0, n, DefaultGrain), func(r Range) uint64 {
					var count uint64
					for u := r.Begin; u < r.End; u++ {
						if parents[u] != Unreached {
							continue
						}
						nr := gt.Neighbors(uint32(u))
						for e := nr.Begin; e < nr.End; e++ {
							v := gt.Target(e)
							if front.Get(int(v)) != 0 {
								curr.AtomicSet(u)
								// Only this task touches parents[u] until
								// the round barrier, so a plain store is
								// race-free.
								parents[u] = v
								count++
								break
							}
						}
					}
					return count
				})

				if awake < oldAwake && awake <= uint64(n)/uint64(opts.Beta) {
					break
				}
			}

			if awake == 0 {
				return parents
			}
			ex.ForBits(curr.NonZeros(1<<9), func(i int) {
				q2.push(uint32(i), uint32(i))
			})
			scoutCount = 1
		} else {
			// Top-down phase over the binned frontier.
			edgesToCheck -= scoutCount
			scoutCount = ex.ReduceSum(NewRange(0, numBins, 1), func(r Range) uint64 {
				var outer uint64
				for i := r.Begin; i < r.End; i++ {
					bin := q1.bins[i]
					outer += ex.ReduceSum(NewRange(0, len(bin), DefaultGrain), func(br Range) uint64 {
						var count uint64
						for bi := br.Begin; bi < br.End; bi++ {
							u := bin[bi]
							nr := g.Neighbors(u)
							for e := nr.Begin; e < nr.End; e++ {
								v := g.Target(e)
								if acquire32(&parents[v]) == Unreached &&
									cas32(&parents[v], Unreached, u) {
									q2.push(u, v)
									count += uint64(g.Neighbors(v).Size())
								}
							}
						}
						return count
					})
				}
				return outer
			})
		}

		done = q2.empty()
		q1, q2 = q2, q1
		q2.reset()
	}

	return parents
}

// BFSSequential is the plain top-down traversal: one growable frontier, no
// atomics. It returns both the parent and level arrays and is the baseline
// the direction-optimizing engine must agree with on levels.
func BFSSequential(g Graph, root uint32) (parents, levels []uint32) {
	n := int(g.NumVertices())
	if int(root) >= n {
		panic(fmt.Sprintf("graph: BFS root %d out of range [0, %d)", root, n))
	}
	parents = make([]uint32, n)
	levels = make([]uint32, n)
	for v := 0; v < n; v++ {
		parents[v] = Unreached
		levels[v] = Unreached
	}

	q1 := []uint32{root}
	var q2 []uint32
	lvl := uint32(0)
	parents[root] = root
	levels[root] = lvl
	lvl++

	for len(q1) > 0 {
		for _, u := range q1 {
			nr := g.Neighbors(u)
			for e := nr.Begin; e < nr.End; e++ {
				v := g.Target(e)
				if levels[v] == Unreached {
					q2 = append(q2, v)
					levels[v] = lvl
					parents[v] = u
				}
			}
		}
		q1, q2 = q2, q1[:0]
		lvl++
	}
	return parents, levels
}
