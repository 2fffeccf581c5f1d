package join

// Bipartite joins adjacent segments by an exact max-weight perfect matching
// over the complete bipartite graph on the previous segment's K founder-row
// slots and the next segment's K (apportioned, copy-padded) substring
// slots. Because every slot sharing a substring class carries that class's
// row set, the weight between two slots depends only on the classes they
// belong to - "copied" (padding) slots inherit their source class's weight
// - so the K x K weight matrix is built once per class pair and looked up
// per slot.
func Bipartite(segs []Segment, K uint32, scoring SetScoring) ([][]uint32, error) {
	if len(segs) == 0 {
		return nil, nil
	}
	classSeqs := make([][]int, len(segs))
	classSeqs[0] = initialClassOrder(segs[0].Substrings)

	for i := 0; i < len(segs)-1; i++ {
		lhsSubs := segs[i].Substrings
		rhsSubs := segs[i+1].Substrings
		classW := classWeights(lhsSubs, rhsSubs, scoring)

		rhsOrder := initialClassOrder(rhsSubs) // canonical starting order for the rhs expansion
		n := int(K)
		w := make([][]int64, n)
		for a := 0; a < n; a++ {
			row := make([]int64, n)
			lc := classSeqs[i][a]
			for b := 0; b < n; b++ {
				rc := rhsOrder[b]
				row[b] = classW[lc][rc]
			}
			w[a] = row
		}

		assignment := hungarianMaxWeight(w)
		next := make([]int, n)
		for a, b := range assignment {
			next[a] = rhsOrder[b]
		}
		classSeqs[i+1] = next
	}

	cols := make([][]uint32, len(segs))
	for i := range segs {
		cols[i] = classSeqToColumn(classSeqs[i])
	}
	return cols, nil
}

// classWeights builds the |lhs| x |rhs| matrix of edge weights between
// substring classes, per the configured set-scoring discipline.
func classWeights(lhs, rhs []Substring, scoring SetScoring) [][]int64 {
	w := make([][]int64, len(lhs))
	for i, ls := range lhs {
		row := make([]int64, len(rhs))
		for j, rs := range rhs {
			inter := intersectionSize(ls.Rows, rs.Rows)
			switch scoring {
			case Intersection:
				row[j] = -int64(inter)
			default: // SymmetricDifference
				symDiff := len(ls.Rows) + len(rs.Rows) - 2*inter
				row[j] = -int64(symDiff)
			}
		}
		w[i] = row
	}
	return w
}

// intersectionSize returns |a ∩ b| for two ascending-sorted row-index
// slices, via a linear merge.
func intersectionSize(a, b []uint32) int {
	i, j, n := 0, 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			n++
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return n
}
