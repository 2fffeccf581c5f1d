// Package pipeline wires the PBWT engine, segmentation DP, sample updater,
// greedy reducer, and segment joiner into the single linear sequence of
// stages the command-line entry points drive. Each stage receives its
// inputs by value and hands its outputs to the next; no stage keeps a
// back-reference to its caller.
package pipeline

import (
	"github.com/grailbio/founder-sequences/alphabet"
	"github.com/grailbio/founder-sequences/dispatch"
	"github.com/grailbio/founder-sequences/join"
	"github.com/grailbio/founder-sequences/pbwt"
	"github.com/grailbio/founder-sequences/segmentation"
	"github.com/grailbio/founder-sequences/seqio"
)

// Config configures a full pipeline run.
type Config struct {
	MinSegmentLength int
	// PBWTSampleRate multiplies the sqrt(n) sampling cadence; 0 disables
	// sampling entirely, in which case every joining-stage replay starts
	// from column 0.
	PBWTSampleRate int
	Join           join.Config
	SingleThreaded bool
}

// Progress is called after each major stage completes, reporting a
// monotonically increasing done out of total (both stage counts, not
// columns).
type Progress func(done, total uint64)

const stageCount = 5

// Result is the full output of one pipeline run: the alphabet the matrix
// was remapped through, the segmentation actually used (for serialization or
// diagnostics), and the final founder permutation.
type Result struct {
	Alphabet    alphabet.Table
	Matrix      pbwt.Matrix
	Segments    []join.Segment
	Permutation join.Permutation
}

// Run executes the full pipeline over an already-loaded sequence matrix.
func Run(input seqio.Matrix, cfg Config, progress Progress) (*Result, error) {
	if progress == nil {
		progress = func(uint64, uint64) {}
	}
	sched := scheduler(cfg.SingleThreaded)

	table, err := alphabet.Build(input.Rows)
	if err != nil {
		return nil, err
	}
	mapped, err := table.Remap(input.Rows)
	if err != nil {
		return nil, err
	}
	matrix := pbwt.Matrix{Rows: mapped, Sigma: table.Size()}
	progress(1, stageCount)

	dpOpts := segmentation.DefaultOpts(matrix.Length(), cfg.MinSegmentLength)
	dpOpts.SampleRate *= cfg.PBWTSampleRate
	dpResult, err := segmentation.Run(matrix, dpOpts)
	if err != nil {
		return nil, err
	}
	progress(2, stageCount)

	advanced, err := segmentation.UpdateSamples(matrix, dpResult.Samples, dpResult.Reduced, sched)
	if err != nil {
		return nil, err
	}
	progress(3, stageCount)

	finalCells, err := segmentation.Reduce(advanced, dpResult.MaxSegmentSize)
	if err != nil {
		return nil, err
	}
	finalAdvanced, err := segmentation.UpdateSamples(matrix, dpResult.Samples, finalCells, sched)
	if err != nil {
		return nil, err
	}
	progress(4, stageCount)

	perm, segs, err := join.Run(cfg.Join, finalAdvanced, matrix.NumSeqs(), dpResult.MaxSegmentSize)
	if err != nil {
		return nil, err
	}
	progress(5, stageCount)

	return &Result{Alphabet: table, Matrix: matrix, Segments: segs, Permutation: perm}, nil
}

// RunFromSegmentation replays a previously serialized segmentation
// (segmentation.Container) instead of re-running the DP, for the
// --input-segmentation CLI path: the alphabet and segment boundaries come
// from the container, and only the sample-updater and joining stages run.
func RunFromSegmentation(input seqio.Matrix, container segmentation.Container, cfg Config, progress Progress) (*Result, error) {
	if progress == nil {
		progress = func(uint64, uint64) {}
	}
	sched := scheduler(cfg.SingleThreaded)

	table, err := alphabet.BuildFromSymbols(container.Alphabet)
	if err != nil {
		return nil, err
	}
	mapped, err := table.Remap(input.Rows)
	if err != nil {
		return nil, err
	}
	matrix := pbwt.Matrix{Rows: mapped, Sigma: table.Size()}
	progress(1, 3)

	// The container carries only segment boundaries, not PBWT samples: every
	// replay starts from the column-0 identity sample.
	samples := []pbwt.Sample{pbwt.InitialSample(matrix)}
	progress(2, 3)

	advanced, err := segmentation.UpdateSamples(matrix, samples, container.Segments, sched)
	if err != nil {
		return nil, err
	}

	perm, segs, err := join.Run(cfg.Join, advanced, matrix.NumSeqs(), container.MaxSegmentSize)
	if err != nil {
		return nil, err
	}
	progress(3, 3)

	return &Result{Alphabet: table, Matrix: matrix, Segments: segs, Permutation: perm}, nil
}

func scheduler(singleThreaded bool) dispatch.Scheduler {
	if singleThreaded {
		return dispatch.Serial{}
	}
	return dispatch.Multi{}
}
