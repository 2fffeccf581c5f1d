package segmentation_test

import (
	"math/rand"
	"testing"

	"github.com/grailbio/founder-sequences/dispatch"
	"github.com/grailbio/founder-sequences/segmentation"
	"github.com/stretchr/testify/require"
)

func TestReduceCombinesAdjacentSegmentsWithinBound(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	// Binary alphabet: two-column segments have at most 4 distinct
	// substrings, so the input is reducible.
	m := randomMatrix(rng, 8, 60, 2)

	res, err := segmentation.Run(m, segmentation.Opts{MinSegmentLength: 2, SampleRate: 4})
	require.NoError(t, err)

	advanced, err := segmentation.UpdateSamples(m, res.Samples, res.Reduced, dispatch.Serial{})
	require.NoError(t, err)

	reduced, err := segmentation.Reduce(advanced, res.MaxSegmentSize)
	require.NoError(t, err)

	require.EqualValues(t, 0, reduced[0].LB)
	require.EqualValues(t, 60, reduced[len(reduced)-1].RB)
	for i := 1; i < len(reduced); i++ {
		require.Equal(t, reduced[i-1].RB, reduced[i].LB)
	}
	for _, c := range reduced {
		require.LessOrEqual(t, c.SegmentSize, res.MaxSegmentSize)
	}
	require.LessOrEqual(t, len(reduced), len(res.Reduced))
}
