package join

import (
	"github.com/grailbio/founder-sequences/bitvec"
	"github.com/grailbio/founder-sequences/ferrors"
)

// Permutation is the K x S founder assignment matrix: entry (seg, row)
// names the index into that segment's Substrings of the class founder row
// `row` emits over the segment's column range. Entries are bit-packed at
// width BitsFor(K); the all-ones value at that width is reserved as the gap
// sentinel, rendered as a dash by the output writer. None of the joining
// disciplines implemented here produce gaps (apportionment fills every row
// exactly), but the sentinel is honored end to end.
type Permutation struct {
	vec      *bitvec.Vector
	founders int
	segments int
	gap      uint64
}

// NewPermutation packs cols, where cols[s][row] is the class index founder
// row `row` uses in segment s. Every column must have exactly K rows and
// every class index must be below the gap sentinel for width BitsFor(K).
func NewPermutation(cols [][]uint32, K uint32) (Permutation, error) {
	width := bitvec.BitsFor(uint64(K))
	gap := uint64(1)<<width - 1
	vec := bitvec.New(len(cols)*int(K), width, gap)
	for si, col := range cols {
		if len(col) != int(K) {
			return Permutation{}, ferrors.Newf(ferrors.Internal, "join: segment %d assignment has %d rows, want %d", si, len(col), K)
		}
		for row, class := range col {
			if uint64(class) >= gap {
				return Permutation{}, ferrors.Newf(ferrors.Internal, "join: class index %d collides with gap sentinel at width %d", class, width)
			}
			vec.Set(si*int(K)+row, uint64(class))
		}
	}
	return Permutation{vec: vec, founders: int(K), segments: len(cols), gap: gap}, nil
}

// NumFounders returns K, the founder row count.
func (p Permutation) NumFounders() int { return p.founders }

// NumSegments returns the number of segments the matrix spans.
func (p Permutation) NumSegments() int { return p.segments }

// At returns the class index assigned to founder row `row` in segment seg,
// or gap=true for an unassigned slot.
func (p Permutation) At(seg, row int) (class uint32, gap bool) {
	v := p.vec.Get(seg*p.founders + row)
	if v == p.gap {
		return 0, true
	}
	return uint32(v), false
}
