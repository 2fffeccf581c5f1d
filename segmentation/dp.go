package segmentation

import (
	"github.com/grailbio/founder-sequences/ferrors"
	"github.com/grailbio/founder-sequences/pbwt"
	"github.com/grailbio/founder-sequences/rmq"
	"github.com/pkg/errors"
)

// Result is the outcome of running the segmentation DP to completion.
type Result struct {
	Full           Traceback
	Reduced        []Cell
	MaxSegmentSize uint32
	Samples        []pbwt.Sample
}

// Opts configures a DP run. DefaultOpts fills in a sampling rate that scales
// with sqrt(n).
type Opts struct {
	// MinSegmentLength (L) is the minimum number of columns a segment may
	// span.
	MinSegmentLength int
	// SampleRate is the PBWT sampling cadence in columns; 0 disables
	// sampling (every column is then replayed directly during joining,
	// which is only viable for small inputs).
	SampleRate int
}

// DefaultOpts returns an Opts with SampleRate derived from n (sqrt(n),
// floored at 1) and the given minimum segment length.
func DefaultOpts(n, minSegmentLength int) Opts {
	rate := 1
	for r := 1; r*r <= n; r++ {
		rate = r
	}
	return Opts{MinSegmentLength: minSegmentLength, SampleRate: rate}
}

// Run executes the four-phase segmentation DP over matrix,
// producing the full traceback, its reduced (optimal-path) form, the
// resulting founder count, and the PBWT samples collected along the way.
//
// Phases, per column j (0-indexed) after stepping to current_column=j+1:
//
//	A (j < L-1):                         burn-in, step only.
//	B (L-1 <= j < min(2L,n-L+1)-1):       exactly one segment fits; no
//	                                      predecessor DP needed.
//	C (that bound <= j < n-L):           full DP: scan ascending divergence
//	                                      keys, RMQ-query candidate
//	                                      predecessors.
//	D (n-L <= j < n-1):                  step only; at j == n-1 the final
//	                                      cell is produced with the same
//	                                      procedure as phase C.
func Run(matrix pbwt.Matrix, opts Opts) (*Result, error) {
	n := matrix.Length()
	L := opts.MinSegmentLength
	if L <= 0 {
		return nil, ferrors.New(ferrors.ConfigInvalid, "segmentation: minimum segment length must be > 0")
	}
	if n < L {
		return nil, ferrors.Newf(ferrors.ConfigInvalid, "segmentation: sequence length %d shorter than minimum segment length %d", n, L)
	}

	ctx := pbwt.NewContext(matrix, true)
	ctx.Prepare()
	sampler := pbwt.NewSampler(ctx, opts.SampleRate)

	if n < 2*L {
		size, err := shortPath(ctx, sampler, n)
		if err != nil {
			return nil, err
		}
		full := Traceback{{LB: 0, RB: uint32(n), SegmentSize: size, SegmentMaxSize: size}}
		return &Result{
			Full:           full,
			Reduced:        []Cell{full[0]},
			MaxSegmentSize: size,
			Samples:        sampler.Samples,
		}, nil
	}

	var cells Traceback
	ref := tracebackRef{cells: &cells}
	r := rmq.New(ref)

	phaseBEnd := min(2*L, n-L+1) - 1

	for j := 0; j < n; j++ {
		if err := sampler.Process(j+1, nil); err != nil {
			return nil, errors.Wrap(err, "segmentation: stepping PBWT")
		}

		if j < L-1 {
			continue
		}

		var cell Cell
		switch {
		case j < phaseBEnd:
			cell = singleSegmentCell(ctx, j)
		case j < n-L:
			cell = dpCell(ctx, cells, r, j, L)
		case j == n-1:
			cell = dpCell(ctx, cells, r, j, L)
		default:
			continue
		}

		cells = append(cells, cell)
		r.Update(len(cells) - 1)
	}

	if len(cells) == 0 {
		return nil, ferrors.New(ferrors.Internal, "segmentation: DP produced no cells")
	}
	last := cells[len(cells)-1]
	if int(last.SegmentMaxSize) >= matrix.NumSeqs() {
		return nil, ferrors.Newf(ferrors.NotReducible, "segmentation: best segmentation founder count %d is no smaller than input sequence count %d", last.SegmentMaxSize, matrix.NumSeqs())
	}

	reduced, err := Follow(cells, L)
	if err != nil {
		return nil, err
	}

	return &Result{
		Full:           cells,
		Reduced:        reduced,
		MaxSegmentSize: last.SegmentMaxSize,
		Samples:        sampler.Samples,
	}, nil
}

// singleSegmentCell handles phase B: the only legal segmentation up to
// column j+1 is the single segment [0, j+1).
func singleSegmentCell(ctx *pbwt.Context, j int) Cell {
	size := ctx.UniqueSubstringCountLHS(0)
	return Cell{LB: 0, RB: uint32(j + 1), SegmentSize: size, SegmentMaxSize: size}
}

// dpCell handles phases C and D's final cell: scan ascending divergence
// keys, and for each contiguous run of candidate cut points yielding the
// same right-segment size, RMQ-query the cheapest predecessor.
func dpCell(ctx *pbwt.Context, cells Traceback, r *rmq.RMQ, j, L int) Cell {
	rb := j + 1
	numSeqs := uint32(len(ctx.D()))
	var best Cell
	haveBest := false

	var delta uint32
	nKeys := ctx.DivergenceCountsLen()
	for k := 0; k < nKeys; k++ {
		v, cnt := ctx.DivergenceCountAt(k)
		delta += cnt

		// Cut points p in [v, nextV) all see |{d <= p}| == delta, so the
		// right-side segment [p, rb) has numSeqs-delta distinct substrings
		// throughout the window.
		dpLB := int(v)
		dpRB := rb
		if k+1 < nKeys {
			nextV, _ := ctx.DivergenceCountAt(k + 1)
			dpRB = int(nextV)
		}

		if dpLB < L {
			dpLB = L
		}
		if bound := j + 2 - L; dpRB > bound {
			dpRB = bound
		}
		if dpLB >= dpRB {
			continue
		}
		rhs := numSeqs - delta

		idx := r.Query(dpLB-L, dpRB-L)
		pred := cells[idx]
		maxSize := pred.SegmentMaxSize
		if rhs > maxSize {
			maxSize = rhs
		}
		if !haveBest || maxSize < best.SegmentMaxSize {
			best = Cell{LB: uint32(idx + L), RB: uint32(rb), SegmentSize: rhs, SegmentMaxSize: maxSize}
			haveBest = true
		}
	}
	if !haveBest {
		// Every candidate window contracted to empty: any cut here leaves a
		// right segment with all numSeqs substrings distinct. Record that
		// honestly so the cell can never win an RMQ query unless the whole
		// run is headed for NotReducible anyway.
		return Cell{LB: uint32(L), RB: uint32(rb), SegmentSize: numSeqs, SegmentMaxSize: numSeqs}
	}
	return best
}
