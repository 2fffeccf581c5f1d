package segmentation

import "github.com/grailbio/founder-sequences/ferrors"

// Reduce runs the greedy second-pass optimisation: walking
// left to right over the DP-chosen cuts and their advanced PBWT samples, it
// extends a run for as long as the run's distinct-substring count from a
// running left bound stays within maxSize, committing a cut only when
// extending further would exceed it. This can combine several adjacent DP
// segments into one while preserving the maxSize bound.
func Reduce(advanced []AdvancedSample, maxSize uint32) ([]Cell, error) {
	if len(advanced) == 0 {
		return nil, ferrors.New(ferrors.Internal, "segmentation: Reduce called with no samples")
	}

	var out []Cell
	currentLB := uint32(0)

	prevIdx := -1
	var prevSize uint32

	commit := func(rb uint32, size uint32) {
		out = append(out, Cell{LB: currentLB, RB: rb, SegmentSize: size, SegmentMaxSize: size})
		currentLB = rb
	}

	for i := range advanced {
		s := advanced[i]
		size := s.Ctx.UniqueSubstringCountLHS(currentLB)
		if size <= maxSize {
			prevIdx = i
			prevSize = size
			continue
		}

		// Extending to s would exceed maxSize: commit the run up through the
		// previous sample and start a fresh run from its right bound.
		if prevIdx < 0 {
			return nil, ferrors.Newf(ferrors.Internal, "segmentation: single segment [%d,%d) already exceeds bound %d", currentLB, s.Segment.RB, maxSize)
		}
		commit(advanced[prevIdx].Segment.RB, prevSize)

		size = s.Ctx.UniqueSubstringCountLHS(currentLB)
		prevIdx = i
		prevSize = size
	}

	// Final run, up through the last sample examined.
	commit(advanced[prevIdx].Segment.RB, prevSize)
	return out, nil
}
