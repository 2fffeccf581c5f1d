package join

import (
	"sort"

	"golang.org/x/exp/slices"
)

// Greedy joins adjacent segments by matching them on descending
// co-occurrence of original rows. For every pair of classes (lhs, rhs),
// the weight is the number of original rows whose representative substring
// is lhs in the left segment and rhs in the right segment; pairs are
// consumed in descending-weight order, each consuming as much of both
// sides' remaining (apportioned) budget as it can, and any budget left
// over after the weighted pass is drained by a left-to-right scan pairing
// whatever capacity remains on each side.
//
// The resulting per-adjacent-pair class transport is then walked alongside
// the previous segment's row ordering to build a chain of class sequences,
// one per segment, so that founder row r names a consistent lineage of
// substrings end to end.
func Greedy(segs []Segment, K uint32, numRows int) ([][]uint32, error) {
	if len(segs) == 0 {
		return nil, nil
	}
	classSeqs := make([][]int, len(segs))
	classSeqs[0] = initialClassOrder(segs[0].Substrings)

	for i := 0; i < len(segs)-1; i++ {
		plan := transportPlan(segs[i].Substrings, segs[i+1].Substrings, numRows)
		next, err := applyPlan(classSeqs[i], segs[i].Substrings, plan)
		if err != nil {
			return nil, err
		}
		classSeqs[i+1] = next
	}

	cols := make([][]uint32, len(segs))
	for i := range segs {
		cols[i] = classSeqToColumn(classSeqs[i])
	}
	return cols, nil
}

type classPair struct {
	lhs, rhs int
	weight   uint32
}

// transportPlan counts, for every original row, which lhs class and which
// rhs class it belongs to, then greedily assigns transport amounts between
// classes in descending co-occurrence order, consuming each side's
// apportioned copy-number budget. Leftover budget (when a class's rows
// never co-occurred with the matched side's survivors) is drained by a
// simple left-to-right scan so every unit of both budgets is placed.
func transportPlan(lhs, rhs []Substring, numRows int) map[[2]int]uint32 {
	lhsRC := rowClassIndex(lhs, numRows)
	rhsRC := rowClassIndex(rhs, numRows)

	counts := map[[2]int]uint32{}
	for row := 0; row < numRows; row++ {
		key := [2]int{int(lhsRC[row]), int(rhsRC[row])}
		counts[key]++
	}

	pairs := make([]classPair, 0, len(counts))
	for k, c := range counts {
		pairs = append(pairs, classPair{lhs: k[0], rhs: k[1], weight: c})
	}
	slices.SortFunc(pairs, func(a, b classPair) bool {
		if a.weight != b.weight {
			return a.weight > b.weight
		}
		if a.lhs != b.lhs {
			return a.lhs < b.lhs
		}
		return a.rhs < b.rhs
	})

	lBudget := make([]uint32, len(lhs))
	for i, s := range lhs {
		lBudget[i] = s.CopyNumber
	}
	rBudget := make([]uint32, len(rhs))
	for i, s := range rhs {
		rBudget[i] = s.CopyNumber
	}

	plan := map[[2]int]uint32{}
	for _, p := range pairs {
		if lBudget[p.lhs] == 0 || rBudget[p.rhs] == 0 {
			continue
		}
		amt := minU32(lBudget[p.lhs], rBudget[p.rhs])
		plan[[2]int{p.lhs, p.rhs}] += amt
		lBudget[p.lhs] -= amt
		rBudget[p.rhs] -= amt
	}

	li, ri := 0, 0
	for {
		for li < len(lBudget) && lBudget[li] == 0 {
			li++
		}
		for ri < len(rBudget) && rBudget[ri] == 0 {
			ri++
		}
		if li >= len(lBudget) || ri >= len(rBudget) {
			break
		}
		amt := minU32(lBudget[li], rBudget[ri])
		plan[[2]int{li, ri}] += amt
		lBudget[li] -= amt
		rBudget[ri] -= amt
	}

	return plan
}

// applyPlan walks prevSeq (the previous segment's length-K class sequence)
// left to right; every time class l is encountered, it consumes one unit
// from l's queue of (rhs class, remaining amount) transport entries,
// producing the next segment's class sequence in the same row order.
func applyPlan(prevSeq []int, prevSubs []Substring, plan map[[2]int]uint32) ([]int, error) {
	type rcount struct {
		r     int
		count uint32
	}
	queues := make([][]rcount, len(prevSubs))
	for k, amt := range plan {
		queues[k[0]] = append(queues[k[0]], rcount{r: k[1], count: amt})
	}
	for l := range queues {
		sort.Slice(queues[l], func(i, j int) bool { return queues[l][i].r < queues[l][j].r })
	}

	cursor := make([]int, len(prevSubs))
	out := make([]int, len(prevSeq))
	for pos, l := range prevSeq {
		q := queues[l]
		for cursor[l] < len(q) && q[cursor[l]].count == 0 {
			cursor[l]++
		}
		out[pos] = q[cursor[l]].r
		q[cursor[l]].count--
	}
	return out, nil
}
