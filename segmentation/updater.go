package segmentation

import (
	"github.com/grailbio/founder-sequences/dispatch"
	"github.com/grailbio/founder-sequences/pbwt"
	"github.com/pkg/errors"
)

// AdvancedSample is a PBWT sample advanced to exactly one reduced segment's
// right boundary, ready for the joining stage to query at that column.
type AdvancedSample struct {
	Segment Cell
	Ctx     *pbwt.Context
}

// UpdateSamples advances, for every reduced segment, the nearest preceding
// PBWT sample up to that segment's right boundary column, with divergence
// counts enabled (Reduce's UniqueSubstringCountLHS calls read them; the
// joining stage reads class row sets from a and d directly). Segments are
// independent, so
// the work is fanned out across sched.
func UpdateSamples(matrix pbwt.Matrix, samples []pbwt.Sample, reduced []Cell, sched dispatch.Scheduler) ([]AdvancedSample, error) {
	out := make([]AdvancedSample, len(reduced))
	err := sched.Run(len(reduced), func(i int) error {
		seg := reduced[i]
		base := pbwt.InitialSample(matrix)
		if idx := pbwt.NearestSampleAtOrBefore(samples, int(seg.RB)); idx >= 0 {
			base = samples[idx]
		}
		ctx, err := pbwt.AdvanceSample(matrix, base, int(seg.RB))
		if err != nil {
			return errors.Wrapf(err, "segmentation: advancing sample for segment [%d,%d)", seg.LB, seg.RB)
		}
		ctx.SetTrackCounts(true)
		out[i] = AdvancedSample{Segment: seg, Ctx: ctx}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
