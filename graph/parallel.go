package graph

import (
	"runtime"
	"sync"
)

// Executor is the fork-join runtime injected into every engine call. It is
// a value, not a package global, so the same binary can run different
// engines with different parallelism without recompilation. The zero value
// is not usable; construct one with NewExecutor.
type Executor struct {
	workers  int
	maxDepth int
}

// NewExecutor builds an executor that fans out to roughly workers
// goroutines per parallel region. workers <= 0 selects GOMAXPROCS.
func NewExecutor(workers int) *Executor {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	depth := 0
	for n := 1; n < workers; n <<= 1 {
		depth++
	}
	// Oversplit by a couple of levels so uneven leaves rebalance.
	return &Executor{workers: workers, maxDepth: depth + 2}
}

func (e *Executor) Workers() int { return e.workers }

// For runs body over disjoint subranges of r, splitting while the range is
// divisible and the depth budget lasts. Bodies run concurrently; For
// returns only after every subrange has completed (the join is the only
// blocking point).
func (e *Executor) For(r Range, body func(Range)) {
	if r.Empty() {
		return
	}
	e.forSplit(r, body, e.maxDepth)
}

func (e *Executor) forSplit(r Range, body func(Range), depth int) {
	if depth == 0 || !r.IsDivisible() {
		body(r)
		return
	}
	left, right := r.Split()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		e.forSplit(right, body, depth-1)
	}()
	e.forSplit(left, body, depth-1)
	wg.Wait()
}

// ReduceSum runs body over disjoint subranges and sums the partial results.
func (e *Executor) ReduceSum(r Range, body func(Range) uint64) uint64 {
	if r.Empty() {
		return 0
	}
	return e.reduceSplit(r, body, e.maxDepth)
}

func (e *Executor) reduceSplit(r Range, body func(Range) uint64, depth int) uint64 {
	if depth == 0 || !r.IsDivisible() {
		return body(r)
	}
	left, right := r.Split()
	var rightSum uint64
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		rightSum = e.reduceSplit(right, body, depth-1)
	}()
	leftSum := e.reduceSplit(left, body, depth-1)
	wg.Wait()
	return leftSum + rightSum
}

// ReduceMax runs body over disjoint subranges and combines with max.
func (e *Executor) ReduceMax(r Range, body func(Range) float64) float64 {
	if r.Empty() {
		return 0
	}
	return e.maxSplit(r, body, e.maxDepth)
}

func (e *Executor) maxSplit(r Range, body func(Range) float64, depth int) float64 {
	if depth == 0 || !r.IsDivisible() {
		return body(r)
	}
	left, right := r.Split()
	var rightMax float64
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		rightMax = e.maxSplit(right, body, depth-1)
	}()
	leftMax := e.maxSplit(left, body, depth-1)
	wg.Wait()
	if rightMax > leftMax {
		return rightMax
	}
	return leftMax
}

// ForBits runs body for every set-bit index of a bit-vector range,
// splitting on word boundaries exactly like For splits index ranges.
func (e *Executor) ForBits(r NonZeroRange, body func(i int)) {
	if r.Empty() {
		return
	}
	e.forBitsSplit(r, body, e.maxDepth)
}

func (e *Executor) forBitsSplit(r NonZeroRange, body func(i int), depth int) {
	if depth == 0 || !r.IsDivisible() {
		r.ForEach(body)
		return
	}
	left, right := r.Split()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		e.forBitsSplit(right, body, depth-1)
	}()
	e.forBitsSplit(left, body, depth-1)
	wg.Wait()
}

func ceilPow2(x int) int {
	n := 1
	for n < x {
		n <<= 1
	}
	return n
}
