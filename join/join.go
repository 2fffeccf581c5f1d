// Package join implements the four segment-joining disciplines: given the
// reduced segmentation and, for every segment,
// the PBWT samples advanced to its right boundary (segmentation.AdvancedSample),
// it computes a permutation matrix pairing substrings across adjacent
// segments, naming for each of the K founder rows the substring it uses in
// every segment (package output writes the founder sequences from it).
//
// All four methods share the same per-segment substring bookkeeping
// (Segment, Substring, Apportion): every segment's distinct
// substrings are first read off the PBWT in rank order (natural occurrence
// counts summing to N), then apportioned by largest remainder so each gets
// at least one founder row and the total is exactly K (see DESIGN.md for
// the apportionment rationale).
package join

import (
	"sort"

	"github.com/grailbio/founder-sequences/ferrors"
	"github.com/grailbio/founder-sequences/segmentation"
)

// Method selects a joining discipline.
type Method int

const (
	MethodGreedy Method = iota
	MethodBipartite
	MethodRandom
	MethodPBWTOrder
)

// ParseMethod maps the CLI's --segment-joining flag value to a Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "greedy":
		return MethodGreedy, nil
	case "bipartite-matching":
		return MethodBipartite, nil
	case "random":
		return MethodRandom, nil
	case "pbwt-order":
		return MethodPBWTOrder, nil
	default:
		return 0, ferrors.Newf(ferrors.ConfigInvalid, "join: unknown segment joining method %q", s)
	}
}

// SetScoring selects how the bipartite matcher scores a candidate pairing of
// two substring classes.
type SetScoring int

const (
	SymmetricDifference SetScoring = iota
	Intersection
)

// ParseSetScoring maps the CLI's --bipartite-set-scoring flag value.
func ParseSetScoring(s string) (SetScoring, error) {
	switch s {
	case "symmetric-difference":
		return SymmetricDifference, nil
	case "intersection":
		return Intersection, nil
	default:
		return 0, ferrors.Newf(ferrors.ConfigInvalid, "join: unknown bipartite set scoring %q", s)
	}
}

// Config configures a join run.
type Config struct {
	Method     Method
	SetScoring SetScoring // only meaningful when Method == MethodBipartite
	RandomSeed uint32     // only meaningful when Method == MethodRandom
}

// Validate checks the configuration combination, catching e.g. a bipartite
// set-scoring flag paired with a non-bipartite method.
func (c Config) Validate() error {
	if c.Method != MethodBipartite && c.SetScoring != SymmetricDifference {
		return ferrors.New(ferrors.ConfigInvalid, "join: --bipartite-set-scoring is only valid with bipartite-matching joining")
	}
	return nil
}

// Substring is one distinct substring (equivalence class of rows) within a
// segment, in PBWT rank order.
type Substring struct {
	// SubstringIdx is the minimum original row index in the class; the row
	// whose substring on the segment's column range is emitted for this
	// class.
	SubstringIdx uint32
	// Rows is the sorted set of original row indices agreeing on the
	// segment's column range.
	Rows []uint32
	// CopyNumber is, initially, the natural occurrence count (len(Rows));
	// Apportion rewrites it to the number of founder rows using this
	// substring, so that within one segment the CopyNumbers sum to K.
	CopyNumber uint32
	// StringIdx is this class's position in PBWT rank order; Apportion and
	// initialClassOrder break ties by it, and the PBWT/random segment
	// listing prints it as SUBSEQUENCE_NUMBER.
	StringIdx uint32
}

// Segment bundles a reduced cut's boundaries with its distinct substrings.
type Segment struct {
	Cell       segmentation.Cell
	Substrings []Substring
}

// BuildSegments reads the distinct-substring classes (in PBWT rank order,
// with natural occurrence counts) for every advanced sample.
func BuildSegments(advanced []segmentation.AdvancedSample) []Segment {
	segs := make([]Segment, len(advanced))
	for i, a := range advanced {
		classes := a.Ctx.UniqueSubstringRowsLHS(a.Segment.LB)
		subs := make([]Substring, len(classes))
		for k, rows := range classes {
			subs[k] = Substring{
				SubstringIdx: rows[0],
				Rows:         rows,
				CopyNumber:   uint32(len(rows)),
				StringIdx:    uint32(k),
			}
		}
		segs[i] = Segment{Cell: a.Segment, Substrings: subs}
	}
	return segs
}

// Apportion rewrites every segment's substrings' CopyNumber so that each
// substring retains at least one founder row and the segment's CopyNumbers
// sum to exactly K: one row is reserved per substring, and the remaining
// K-m rows are distributed by a largest-remainder apportionment proportional
// to the substring's natural occurrence count, ties broken by ascending
// rank (StringIdx) for determinism.
//
// Every substring's copy number is the number of founder rows assigned to
// it; their sum across a segment is exactly K. This is shared by all four
// joiners: PBWT-order and random use it directly
// to fill every founder row without gaps; greedy and bipartite use it to
// size the per-class transport budgets they match across segments.
func Apportion(segs []Segment, K uint32) error {
	for i := range segs {
		if err := apportionOne(segs[i].Substrings, K); err != nil {
			return err
		}
	}
	return nil
}

func apportionOne(subs []Substring, K uint32) error {
	m := uint32(len(subs))
	if m == 0 {
		return ferrors.New(ferrors.Internal, "join: segment has no distinct substrings")
	}
	if m > K {
		return ferrors.Newf(ferrors.Internal, "join: segment has %d distinct substrings, more than founder count %d", m, K)
	}
	if m == K {
		for i := range subs {
			subs[i].CopyNumber = 1
		}
		return nil
	}

	var total uint64
	for _, s := range subs {
		total += uint64(s.CopyNumber)
	}
	remaining := K - m

	type remainder struct {
		idx  int
		frac uint64 // scaled numerator of the fractional remainder, for exact tie comparisons
	}
	quotas := make([]uint32, len(subs))
	remainders := make([]remainder, len(subs))
	var assigned uint32
	for i, s := range subs {
		num := uint64(remaining) * uint64(s.CopyNumber)
		quotas[i] = uint32(num / total)
		remainders[i] = remainder{idx: i, frac: num % total}
		assigned += quotas[i]
	}
	left := remaining - assigned

	sort.Slice(remainders, func(i, j int) bool {
		if remainders[i].frac != remainders[j].frac {
			return remainders[i].frac > remainders[j].frac
		}
		return subs[remainders[i].idx].StringIdx < subs[remainders[j].idx].StringIdx
	})
	for k := uint32(0); k < left; k++ {
		quotas[remainders[k].idx]++
	}

	for i := range subs {
		subs[i].CopyNumber = 1 + quotas[i]
	}
	return nil
}

// Expand flattens subs into a length-K slice of class indices, each
// appearing CopyNumber times contiguously in rank order. Used by the random
// joiner, which shuffles the result.
func Expand(subs []Substring, K uint32) []uint32 {
	out := make([]uint32, 0, K)
	for ci, s := range subs {
		for c := uint32(0); c < s.CopyNumber; c++ {
			out = append(out, uint32(ci))
		}
	}
	return out
}

// rowClassIndex inverts subs' Rows lists into a lookup from original row
// index to class index, for computing class-pair co-occurrence weights.
func rowClassIndex(subs []Substring, n int) []int32 {
	rc := make([]int32, n)
	for ci, s := range subs {
		for _, r := range s.Rows {
			rc[r] = int32(ci)
		}
	}
	return rc
}

// initialClassOrder returns the canonical length-K sequence of class
// indices for a chain's leftmost segment: classes in descending CopyNumber
// order (ties broken by ascending rank), each repeated CopyNumber times.
// Later segments in the chain derive their order from matching against this
// one, so founder row identity threads consistently end to end.
func initialClassOrder(subs []Substring) []int {
	order := make([]int, len(subs))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := subs[order[i]], subs[order[j]]
		if a.CopyNumber != b.CopyNumber {
			return a.CopyNumber > b.CopyNumber
		}
		return a.StringIdx < b.StringIdx
	})
	var seq []int
	for _, ci := range order {
		for c := uint32(0); c < subs[ci].CopyNumber; c++ {
			seq = append(seq, ci)
		}
	}
	return seq
}

// classSeqToColumn converts a chain's length-K class-index sequence into a
// permutation-matrix column.
func classSeqToColumn(seq []int) []uint32 {
	out := make([]uint32, len(seq))
	for i, ci := range seq {
		out[i] = uint32(ci)
	}
	return out
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}
