// Package segmentation implements the O(n) segmentation dynamic program, the
// parallel PBWT sample updater that advances samples to the traceback's
// chosen cut points, and the greedy segment reducer that merges adjacent DP
// segments without exceeding the founder count.
package segmentation

import "github.com/grailbio/founder-sequences/ferrors"

// Cell is a single segmentation DP cell: the best segmentation ending at
// column RB has last segment [LB, RB) of SegmentSize distinct substrings;
// SegmentMaxSize is the max segment size over the whole prefix ending at RB.
type Cell struct {
	LB             uint32
	RB             uint32
	SegmentSize    uint32
	SegmentMaxSize uint32
}

// Traceback is the full per-column DP vector, indexed by rb-L for every cell
// with rb <= n-L; the final cell (rb == n) is appended last, directly after
// the cell for rb == n-L. It doubles as rmq.Values, letting the DP query it
// directly.
type Traceback []Cell

func (t Traceback) Len() int           { return len(t) }
func (t Traceback) Less(i, j int) bool { return t[i].SegmentMaxSize < t[j].SegmentMaxSize }

// tracebackRef lets an rmq.RMQ observe a Traceback slice that grows via
// append after the RMQ was constructed (mirroring the &values idiom used
// in rmq's own tests).
type tracebackRef struct {
	cells *Traceback
}

func (r tracebackRef) Len() int           { return r.cells.Len() }
func (r tracebackRef) Less(i, j int) bool { return r.cells.Less(i, j) }

// Follow walks the traceback from its last cell (the one ending at column n)
// back to the start via LB backlinks, returning the reduced (ordered, [0,n)-covering)
// segmentation. L is needed to convert column positions to dp-array
// indices (idx = column - L).
func Follow(full Traceback, L int) ([]Cell, error) {
	if len(full) == 0 {
		return nil, ferrors.New(ferrors.Internal, "segmentation: empty traceback")
	}
	var reduced []Cell
	idx := len(full) - 1
	for {
		cell := full[idx]
		reduced = append(reduced, cell)
		if cell.LB == 0 {
			break
		}
		idx = int(cell.LB) - L
		if idx < 0 {
			return nil, ferrors.New(ferrors.Internal, "segmentation: traceback backlink out of range")
		}
	}
	// reverse in place
	for i, j := 0, len(reduced)-1; i < j; i, j = i+1, j-1 {
		reduced[i], reduced[j] = reduced[j], reduced[i]
	}
	return reduced, nil
}
