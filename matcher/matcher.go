// Package matcher finds, for every row of an original (pre-founder) input,
// the maximal-length runs over which it agrees character-for-character with
// some subset of founder rows, by narrowing a candidate set:
// start with every founder index as a candidate, and at each column filter
// down to the candidates whose founder agrees at that column; whenever
// filtering would empty the set, close the current run (recording every
// founder that survived up to but not including this column), then restart
// the candidate set from every founder filtered by the current column alone.
package matcher

import (
	"github.com/grailbio/founder-sequences/dispatch"
	"github.com/grailbio/founder-sequences/ferrors"
)

// Match is one maximal agreement run for a single input sequence: over
// [LB, RB), the sequence equals every founder named in FounderIndices.
type Match struct {
	SequenceIndex  int
	LB             int
	RB             int
	FounderIndices []int
}

// MatchSequence runs the candidate-narrowing scan for one sequence against
// founders, all of which must share sequence's length.
func MatchSequence(seqIdx int, sequence []byte, founders [][]byte) ([]Match, error) {
	if len(founders) == 0 {
		return nil, ferrors.New(ferrors.ConfigInvalid, "matcher: no founders to match against")
	}
	n := len(sequence)
	for _, f := range founders {
		if len(f) != n {
			return nil, ferrors.Newf(ferrors.InputMalformed, "matcher: founder length %d does not match sequence length %d", len(f), n)
		}
	}

	all := make([]int, len(founders))
	for i := range all {
		all[i] = i
	}

	filter := func(candidates []int, col int, c byte) []int {
		var out []int
		for _, fi := range candidates {
			if founders[fi][col] == c {
				out = append(out, fi)
			}
		}
		return out
	}

	var matches []Match
	candidates := all
	lb := 0
	for col := 0; col < n; col++ {
		next := filter(candidates, col, sequence[col])
		if len(next) == 0 {
			matches = append(matches, Match{SequenceIndex: seqIdx, LB: lb, RB: col, FounderIndices: candidates})
			lb = col
			candidates = filter(all, col, sequence[col])
			if len(candidates) == 0 {
				return nil, ferrors.Newf(ferrors.InputMalformed, "matcher: sequence %d column %d (%q) matches no founder", seqIdx, col, sequence[col])
			}
			continue
		}
		candidates = next
	}
	matches = append(matches, Match{SequenceIndex: seqIdx, LB: lb, RB: n, FounderIndices: candidates})
	return matches, nil
}

// MatchAll runs MatchSequence over every sequence, fanned out across sched,
// returning results in input order.
func MatchAll(sequences [][]byte, founders [][]byte, sched dispatch.Scheduler) ([][]Match, error) {
	out := make([][]Match, len(sequences))
	err := sched.Run(len(sequences), func(i int) error {
		m, err := MatchSequence(i, sequences[i], founders)
		if err != nil {
			return err
		}
		out[i] = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
