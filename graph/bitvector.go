package graph

import "math/bits"

const wordBits = 64

// AtomicBitVector is a packed concurrent bitmap over vertex or edge ids.
// One atomic bit per id is much denser than one atomic word per id, which
// is what makes bitmap frontiers affordable at scale.
//
// Set and AtomicSet return the previous value of the bit (masked, not
// shifted). That return value is how the engines claim an id exactly once
// under a race: the winner sees zero, everyone else sees nonzero, and no
// separate compare step is needed.
type AtomicBitVector struct {
	bits  int
	words []uint64
}

// NewAtomicBitVector allocates a bitmap with all bits zero.
func NewAtomicBitVector(n int) *AtomicBitVector {
	return &AtomicBitVector{bits: n, words: make([]uint64, wordsFor(n))}
}

func wordsFor(n int) int {
	return n/wordBits + boolToInt(n%wordBits != 0)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func bitSplit(i int) (word int, mask uint64) {
	return i / wordBits, uint64(1) << (i % wordBits)
}

func (b *AtomicBitVector) Len() int { return b.bits }

// Get reads a bit with a plain load. Only safe when no concurrent sets can
// touch the same word, e.g. reading the previous round's frontier after a
// barrier.
func (b *AtomicBitVector) Get(i int) uint64 {
	word, mask := bitSplit(i)
	return b.words[word] & mask
}

// AtomicGet reads a bit with an atomic load and synchronizes with
// concurrent AtomicSet calls.
func (b *AtomicBitVector) AtomicGet(i int) uint64 {
	word, mask := bitSplit(i)
	return acquire64(&b.words[word]) & mask
}

// Set sets a bit with a plain read-modify-write and returns its previous
// value. Sequential use only.
func (b *AtomicBitVector) Set(i int) uint64 {
	word, mask := bitSplit(i)
	prev := b.words[word] & mask
	b.words[word] |= mask
	return prev
}

// AtomicSet sets a bit and returns its previous value; safe under
// concurrent sets and atomic gets on the same word.
func (b *AtomicBitVector) AtomicSet(i int) uint64 {
	word, mask := bitSplit(i)
	return fetchOr64(&b.words[word], mask) & mask
}

// Clear zeroes the bitmap, in parallel when an executor is supplied. Must
// not race with concurrent sets.
func (b *AtomicBitVector) Clear(ex *Executor) {
	if ex == nil {
		for i := range b.words {
			b.words[i] = 0
		}
		return
	}
	ex.For(NewRange(0, len(b.words), 512), func(r Range) {
		for i := r.Begin; i < r.End; i++ {
			b.words[i] = 0
		}
	})
}

// NonZeros returns a splittable range over the set bits. cutoff is in
// words: subranges of at most cutoff words run sequentially.
func (b *AtomicBitVector) NonZeros(cutoff int) NonZeroRange {
	if cutoff <= 0 {
		cutoff = 512
	}
	return NonZeroRange{words: b.words, begin: 0, end: len(b.words), cutoff: cutoff}
}

// NonZeroRange iterates the set bits of a word-aligned slice of a bitmap.
// It splits on word boundaries, so parallel consumers never share a word.
type NonZeroRange struct {
	words      []uint64
	begin, end int
	cutoff     int
}

func (r NonZeroRange) Size() int { return r.end - r.begin }

func (r NonZeroRange) Empty() bool { return r.Size() <= 0 }

func (r NonZeroRange) IsDivisible() bool { return r.Size() > r.cutoff }

func (r NonZeroRange) Split() (NonZeroRange, NonZeroRange) {
	mid := r.begin + r.Size()/2
	left, right := r, r
	left.end = mid
	right.begin = mid
	return left, right
}

// ForEach calls f with the index of every set bit in the range, in
// ascending order, skipping zero words via count-trailing-zeros.
func (r NonZeroRange) ForEach(f func(i int)) {
	for wi := r.begin; wi < r.end; wi++ {
		w := r.words[wi]
		for w != 0 {
			f(wi*wordBits + bits.TrailingZeros64(w))
			w &= w - 1
		}
	}
}
