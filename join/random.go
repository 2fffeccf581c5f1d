package join

import "github.com/grailbio/founder-sequences/bitvec"

// Random joins segments by flattening every segment's apportioned classes
// into a length-K bit-packed vector (each class repeated CopyNumber times),
// then Fisher-Yates shuffling under an MT19937 seeded from the
// user-supplied seed. Segments are independent, so their shuffles draw from
// one shared generator in segment order - deterministic given seed and
// input.
func Random(segs []Segment, K uint32, seed uint32) [][]uint32 {
	rng := NewMT19937(seed)
	cols := make([][]uint32, len(segs))
	width := bitvec.BitsFor(uint64(K))
	for i, seg := range segs {
		flat := Expand(seg.Substrings, K)
		v := bitvec.New(len(flat), width, 0)
		for j, class := range flat {
			v.Set(j, uint64(class))
		}
		v.Shuffle(rng.Intn)
		col := make([]uint32, v.Len())
		for j := range col {
			col[j] = uint32(v.Get(j))
		}
		cols[i] = col
	}
	return cols
}
