package graph

// DefaultGrain is the size below which a range is handed to a single
// goroutine instead of being split further.
const DefaultGrain = 2048

// Range is a half-open index interval [Begin, End) that knows how to split
// itself for fork-join decomposition. Every engine hands work to the
// executor through this type (or through NonZeroRange, which follows the
// same contract).
type Range struct {
	Begin, End int
	Grain      int
}

func NewRange(begin, end, grain int) Range {
	if grain <= 0 {
		grain = DefaultGrain
	}
	return Range{Begin: begin, End: end, Grain: grain}
}

func (r Range) Size() int { return r.End - r.Begin }

func (r Range) Empty() bool { return r.Size() <= 0 }

// IsDivisible reports whether splitting is still worthwhile. Callers must
// check it before splitting; below the grain, work runs sequentially.
func (r Range) IsDivisible() bool { return r.Size() > r.Grain }

// Split halves the range. The caller is responsible for only splitting
// divisible ranges.
func (r Range) Split() (Range, Range) {
	mid := r.Begin + r.Size()/2
	return Range{r.Begin, mid, r.Grain}, Range{mid, r.End, r.Grain}
}
