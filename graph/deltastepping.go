package graph

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
)

// WeightFn supplies the weight of an edge; nil means the weights stored in
// the graph.
type WeightFn func(g Graph, e int) float32

// InfiniteDistance is the tentative distance of a vertex no relaxation has
// reached.
var InfiniteDistance = float32(math.Inf(1))

// DeltaSteppingOptions configures the bucketed relaxation engine.
type DeltaSteppingOptions struct {
	Weight   WeightFn
	Executor *Executor
}

// bucketList is the growable array of distance buckets. The common append
// path is resize-free: a per-bucket mutex guards the push and the spine of
// bucket pointers is only replaced under the resize lock, with the
// double-checked size read keeping the fast path off that lock entirely.
type bucketList struct {
	resize sync.Mutex
	size   int64        // atomic: number of valid buckets
	spine  atomic.Value // []*bucket
}

type bucket struct {
	mu    sync.Mutex
	items []uint32
}

func newBucketList() *bucketList {
	b := &bucketList{size: 1}
	b.spine.Store([]*bucket{{}})
	return b
}

func (b *bucketList) len() int {
	return int(atomic.LoadInt64(&b.size))
}

// push appends v to bucket i, growing the spine if needed.
func (b *bucketList) push(i int, v uint32) {
	if int64(i) >= atomic.LoadInt64(&b.size) {
		b.grow(i + 1)
	}
	spine := b.spine.Load().([]*bucket)
	bk := spine[i]
	bk.mu.Lock()
	bk.items = append(bk.items, v)
	bk.mu.Unlock()
}

func (b *bucketList) grow(want int) {
	b.resize.Lock()
	defer b.resize.Unlock()
	if int64(want) <= atomic.LoadInt64(&b.size) {
		return
	}
	old := b.spine.Load().([]*bucket)
	spine := make([]*bucket, want)
	copy(spine, old)
	for i := len(old); i < want; i++ {
		spine[i] = &bucket{}
	}
	b.spine.Store(spine)
	atomic.StoreInt64(&b.size, int64(want))
}

// take moves bucket i's contents into dst and empties the bucket.
func (b *bucketList) take(i int, dst []uint32) []uint32 {
	spine := b.spine.Load().([]*bucket)
	bk := spine[i]
	bk.mu.Lock()
	dst = append(dst, bk.items...)
	bk.items = bk.items[:0]
	bk.mu.Unlock()
	return dst
}

func (b *bucketList) emptyAt(i int) bool {
	spine := b.spine.Load().([]*bucket)
	bk := spine[i]
	bk.mu.Lock()
	n := len(bk.items)
	bk.mu.Unlock()
	return n == 0
}

// DeltaStepping computes single-source shortest paths with bucketed
// relaxation. Bucket i holds vertices whose tentative distance lies in
// [i*delta, (i+1)*delta); a vertex re-enters a bucket every time its
// distance improves, and stale copies are filtered when the bucket is
// drained rather than removed eagerly. Each bucket is drained to a fixed
// point, absorbing same-bucket re-insertions, before the engine advances.
//
// delta trades round count against redundant relaxations only; any
// delta > 0 produces exact shortest-path distances.
func DeltaStepping(g Graph, source uint32, delta float32, opts DeltaSteppingOptions) []float32 {
	if delta <= 0 {
		panic(fmt.Sprintf("graph: delta-stepping requires delta > 0, got %v", delta))
	}
	ex := opts.Executor
	if ex == nil {
		ex = NewExecutor(0)
	}
	weight := opts.Weight
	if weight == nil {
		weight = func(g Graph, e int) float32 { return g.Weight(e) }
	}

	n := int(g.NumVertices())
	if int(source) >= n {
		panic(fmt.Sprintf("graph: delta-stepping source %d out of range [0, %d)", source, n))
	}

	// Tentative distances as float32 bit patterns so improvement is a CAS.
	tdist := make([]uint32, n)
	infBits := math.Float32bits(InfiniteDistance)
	ex.For(NewRange(0, n, DefaultGrain), func(r Range) {
		for v := r.Begin; v < r.End; v++ {
			tdist[v] = infBits
		}
	})

	buckets := newBucketList()
	topBucket := 0

	storeFloat32(&tdist[source], 0)
	buckets.push(0, source)

	relax := func(u, v uint32, wt float32) {
		next := loadFloat32(&tdist[u]) + wt
		prev := loadFloat32(&tdist[v])
		improved := false
		for next < prev {
			if casFloat32(&tdist[v], prev, next) {
				improved = true
				break
			}
			prev = loadFloat32(&tdist[v])
		}
		if !improved {
			return
		}
		buckets.push(int(next/delta), v)
	}

	var frontier []uint32
	for topBucket < buckets.len() {
		frontier = frontier[:0]
		frontier = buckets.take(topBucket, frontier)

		lower := delta * float32(topBucket)
		ex.For(NewRange(0, len(frontier), 64), func(r Range) {
			for i := r.Begin; i < r.End; i++ {
				u := frontier[i]
				// Stale copy: this vertex already settled into an
				// earlier bucket.
				if loadFloat32(&tdist[u]) < lower {
					continue
				}
				nr := g.Neighbors(u)
				for e := nr.Begin; e < nr.End; e++ {
					relax(u, g.Target(e), weight(g, e))
				}
			}
		})

		// Advance only once this bucket stops refilling itself.
		for topBucket < buckets.len() && buckets.emptyAt(topBucket) {
			topBucket++
		}
	}

	dist := make([]float32, n)
	for v := 0; v < n; v++ {
		dist[v] = math.Float32frombits(tdist[v])
	}
	return dist
}

// DeltaSteppingSequential is the single-threaded rendition with plain
// slices for buckets. Same invariants, no atomics; kept as a baseline and
// for callers that want deterministic behavior on small graphs.
func DeltaSteppingSequential(g Graph, source uint32, delta float32, weight WeightFn) []float32 {
	if delta <= 0 {
		panic(fmt.Sprintf("graph: delta-stepping requires delta > 0, got %v", delta))
	}
	if weight == nil {
		weight = func(g Graph, e int) float32 { return g.Weight(e) }
	}
	n := int(g.NumVertices())
	tdist := make([]float32, n)
	for v := range tdist {
		tdist[v] = InfiniteDistance
	}

	bins := make([][]uint32, 1)
	topBin := 0
	bins[0] = append(bins[0], source)
	tdist[source] = 0

	relax := func(u, v uint32, wt float32) {
		next := tdist[u] + wt
		if next < tdist[v] {
			tdist[v] = next
			dest := int(next / delta)
			for dest >= len(bins) {
				bins = append(bins, nil)
			}
			bins[dest] = append(bins[dest], v)
		}
	}

	var frontier []uint32
	for topBin < len(bins) {
		frontier = frontier[:0]
		frontier, bins[topBin] = bins[topBin], frontier

		for _, u := range frontier {
			if tdist[u] >= delta*float32(topBin) {
				nr := g.Neighbors(u)
				for e := nr.Begin; e < nr.End; e++ {
					relax(u, g.Target(e), weight(g, e))
				}
			}
		}
		for topBin < len(bins) && len(bins[topBin]) == 0 {
			topBin++
		}
	}
	return tdist
}
