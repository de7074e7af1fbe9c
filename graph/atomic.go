package graph

import (
	"math"
	"sync/atomic"
)

// Uniform atomic operations shared by every engine in this package. All
// shared traversal state (parents, levels, path counts, tentative
// distances, centrality accumulators) is touched exclusively through these
// helpers; a plain unsynchronized write to any of those arrays is a bug.
//
// Go's sync/atomic operations are all sequentially consistent, so the
// acquire/release/relaxed distinction of the original design collapses onto
// the same primitives. The names are kept anyway so call sites still say
// what ordering they actually need.

func acquire32(p *uint32) uint32 { return atomic.LoadUint32(p) }

func relaxed32(p *uint32) uint32 { return atomic.LoadUint32(p) }

func release32(p *uint32, v uint32) { atomic.StoreUint32(p, v) }

func acquire64(p *uint64) uint64 { return atomic.LoadUint64(p) }

func release64(p *uint64, v uint64) { atomic.StoreUint64(p, v) }

// cas32 publishes new only if *p still holds old; callers retry with a
// refreshed expected value on failure.
func cas32(p *uint32, old, new uint32) bool {
	return atomic.CompareAndSwapUint32(p, old, new)
}

func cas64(p *uint64, old, new uint64) bool {
	return atomic.CompareAndSwapUint64(p, old, new)
}

// fetchAdd32 returns the value held before the add.
func fetchAdd32(p *uint32, delta uint32) uint32 {
	return atomic.AddUint32(p, delta) - delta
}

func fetchAdd64(p *uint64, delta uint64) uint64 {
	return atomic.AddUint64(p, delta) - delta
}

// fetchOr64 sets mask bits in *p and returns the prior value. The early
// return when every mask bit is already set skips the write entirely; the
// stored value would not change.
func fetchOr64(p *uint64, mask uint64) uint64 {
	for {
		old := atomic.LoadUint64(p)
		if old&mask == mask {
			return old
		}
		if atomic.CompareAndSwapUint64(p, old, old|mask) {
			return old
		}
	}
}

// fetchAddFloat64 accumulates a float64 stored as IEEE bits in *p. There is
// no hardware fetch-add for floats, so this is a read-compute-CAS retry
// loop; retries are unbounded under contention, which is an accepted
// property of the algorithm, not a failure mode to detect.
func fetchAddFloat64(p *uint64, delta float64) float64 {
	for {
		old := atomic.LoadUint64(p)
		prev := math.Float64frombits(old)
		if atomic.CompareAndSwapUint64(p, old, math.Float64bits(prev+delta)) {
			return prev
		}
	}
}

func loadFloat32(p *uint32) float32 {
	return math.Float32frombits(atomic.LoadUint32(p))
}

func storeFloat32(p *uint32, v float32) {
	atomic.StoreUint32(p, math.Float32bits(v))
}

// casFloat32 swaps on the bit patterns; equal floats always have equal bits
// here because the engines never store negative zero or NaN distances.
func casFloat32(p *uint32, old, new float32) bool {
	return atomic.CompareAndSwapUint32(p, math.Float32bits(old), math.Float32bits(new))
}
