package join

import "github.com/grailbio/founder-sequences/ferrors"

// PBWTOrder joins segments by walking, for every segment, a cursor over the
// apportioned substrings in PBWT rank order, tracking the cumulative copy
// number; founder row r emits the class whose cumulative range contains r.
// Unlike random, emission order is the PBWT's own rank order rather than a
// shuffle.
func PBWTOrder(segs []Segment, K uint32) ([][]uint32, error) {
	cols := make([][]uint32, len(segs))
	for si, seg := range segs {
		subs := seg.Substrings
		if len(subs) == 0 {
			return nil, ferrors.New(ferrors.Internal, "join: segment has no distinct substrings")
		}
		col := make([]uint32, K)
		idx := 0
		cum := subs[0].CopyNumber
		for row := uint32(0); row < K; row++ {
			for row == cum && idx+1 < len(subs) {
				idx++
				cum += subs[idx].CopyNumber
			}
			col[row] = uint32(idx)
		}
		cols[si] = col
	}
	return cols, nil
}
