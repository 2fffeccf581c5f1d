package segmentation

import (
	"github.com/grailbio/founder-sequences/pbwt"
	"github.com/pkg/errors"
)

// shortPath handles sequences too short to admit two segments (n < 2L): the
// only legal segmentation is the single segment [0, n), whose size is the
// number of distinct full-length row substrings.
func shortPath(ctx *pbwt.Context, sampler *pbwt.Sampler, n int) (uint32, error) {
	if err := sampler.Process(n, nil); err != nil {
		return 0, errors.Wrap(err, "segmentation: stepping PBWT to end (short path)")
	}
	return ctx.UniqueSubstringCountLHS(0), nil
}
