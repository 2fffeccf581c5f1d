// Package rmq implements an append-only range-minimum-query structure over a
// growing sequence of values, using a block sparse table: Values is supplied
// by the caller (the segmentation DP's traceback vector) and Update is
// called once per appended element.
package rmq

// BlockSize is the RMQ block size; must be a power of two.
const BlockSize = 64

// Values is anything indexable that the RMQ can compare positions over.
// segmentation.Traceback (a []Cell ordered by SegmentMaxSize) implements
// this directly.
type Values interface {
	Len() int
	// Less reports whether the value at index i should be preferred (is
	// "smaller") to the value at index j.
	Less(i, j int) bool
}

// RMQ answers argmin queries over an append-only Values sequence.
type RMQ struct {
	values Values
	// precalc[pow2] holds, for each block-aligned window of size
	// BlockSize*2^pow2, the index of its minimum element. precalc[0] holds
	// one entry per completed block of size BlockSize.
	precalc [][]int
}

// New constructs an RMQ bound to values. values will typically be empty at
// construction time; the caller calls Update after each append.
func New(values Values) *RMQ {
	return &RMQ{values: values, precalc: make([][]int, 1)}
}

// Update must be called after appending an element at lastIdx to the
// underlying Values sequence. It only does work when lastIdx completes a new
// block.
func (r *RMQ) Update(lastIdx int) {
	n := lastIdx + 1
	if n%BlockSize != 0 {
		return
	}
	bnum := n / BlockSize
	if len(r.precalc) == 0 {
		r.precalc = make([][]int, 1)
	}
	newSample := r.naiveMin((bnum-1)*BlockSize, bnum*BlockSize)
	r.precalc[0] = append(r.precalc[0], newSample)

	for pow := 1; (1 << uint(pow)) <= bnum; pow++ {
		if len(r.precalc) <= pow {
			r.precalc = append(r.precalc, nil)
		}
		span := 1 << uint(pow)
		half := span >> 1
		s1 := r.precalc[pow-1][bnum-span]
		s2 := r.precalc[pow-1][bnum-half]
		best := s1
		if r.values.Less(s2, s1) {
			best = s2
		}
		r.precalc[pow] = append(r.precalc[pow], best)
	}
}

// Query returns the index of the preferred ("minimum") element in [lo, hi).
// hi must not exceed the number of elements Update has been called for times
// BlockSize, rounded up to the values length.
func (r *RMQ) Query(lo, hi int) int {
	beginBlock := lo/BlockSize + 1
	endBlock := hi / BlockSize

	if beginBlock >= endBlock {
		return r.naiveMin(lo, hi)
	}

	pow := bitLen(endBlock-beginBlock) - 1
	span := 1 << uint(pow)
	s1 := r.precalc[pow][beginBlock]
	s2 := r.precalc[pow][endBlock-span]
	best := s1
	if r.values.Less(s2, s1) {
		best = s2
	}

	leftSample := r.naiveMin(lo, beginBlock*BlockSize)
	if r.values.Less(leftSample, best) {
		best = leftSample
	}

	if hi == endBlock*BlockSize {
		return best
	}
	rightSample := r.naiveMin(endBlock*BlockSize, hi)
	if r.values.Less(rightSample, best) {
		best = rightSample
	}
	return best
}

// naiveMin linearly scans [first, last) for the preferred element; used both
// as the base case and for partial blocks that haven't been summarized yet.
func (r *RMQ) naiveMin(first, last int) int {
	best := first
	for i := first + 1; i < last; i++ {
		if r.values.Less(i, best) {
			best = i
		}
	}
	return best
}

func bitLen(x int) int {
	n := 0
	for x > 0 {
		x >>= 1
		n++
	}
	return n
}
