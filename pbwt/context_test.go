package pbwt_test

import (
	"math/rand"
	"testing"

	"github.com/grailbio/founder-sequences/pbwt"
	"github.com/stretchr/testify/require"
)

func matrixFromStrings(rows []string) pbwt.Matrix {
	out := make([][]byte, len(rows))
	for i, r := range rows {
		b := make([]byte, len(r))
		for j := range r {
			switch r[j] {
			case 'A':
				b[j] = 0
			case 'C':
				b[j] = 1
			case 'G':
				b[j] = 2
			case 'T':
				b[j] = 3
			}
		}
		out[i] = b
	}
	return pbwt.Matrix{Rows: out, Sigma: 4}
}

func TestIdenticalRowsOneDistinctSubstring(t *testing.T) {
	m := matrixFromStrings([]string{"AAAA", "AAAA", "AAAA", "AAAA"})
	ctx := pbwt.NewContext(m, true)
	ctx.Prepare()
	for i := 0; i < 4; i++ {
		require.NoError(t, ctx.Step())
	}
	require.EqualValues(t, 1, ctx.UniqueSubstringCountLHS(0))
}

func TestDivergingRowsDistinctSubstringCount(t *testing.T) {
	// Three rows distinct at column 2 onward: AAAA/AATT/AAGG share column 0-1.
	m := matrixFromStrings([]string{"AAAA", "AATT", "AAGG"})
	ctx := pbwt.NewContext(m, true)
	ctx.Prepare()
	for i := 0; i < 4; i++ {
		require.NoError(t, ctx.Step())
	}
	require.EqualValues(t, 3, ctx.UniqueSubstringCountLHS(0))
}

// TestRoundTripAgainstDirectRerun checks the PBWT round-trip property: for
// random inputs and any j, the multiset {d[i]} at column j produced by
// sampling+replay equals direct iteration to j.
func TestRoundTripAgainstDirectRerun(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const n, seqCount, sigma = 40, 12, 4
	rows := make([][]byte, seqCount)
	for i := range rows {
		row := make([]byte, n)
		for j := range row {
			row[j] = byte(rng.Intn(sigma))
		}
		rows[i] = row
	}
	m := pbwt.Matrix{Rows: rows, Sigma: sigma}

	sampler := pbwt.NewSampler(pbwt.NewContext(m, false), 5)
	sampler.Context().Prepare()
	require.NoError(t, sampler.Process(n, nil))

	for j := 1; j <= n; j++ {
		direct := pbwt.NewContext(m, false)
		direct.Prepare()
		for k := 0; k < j; k++ {
			require.NoError(t, direct.Step())
		}
		wantD := append([]uint32(nil), direct.D()...)

		idx := pbwt.NearestSampleAtOrBefore(sampler.Samples, j)
		require.GreaterOrEqual(t, idx, 0)
		replayed, err := pbwt.AdvanceSample(m, sampler.Samples[idx], j)
		require.NoError(t, err)
		gotD := append([]uint32(nil), replayed.D()...)

		require.ElementsMatch(t, wantD, gotD, "column %d", j)
	}
}

func TestStepPastBoundsErrors(t *testing.T) {
	m := matrixFromStrings([]string{"AA", "AA"})
	ctx := pbwt.NewContext(m, false)
	ctx.Prepare()
	require.NoError(t, ctx.Step())
	require.NoError(t, ctx.Step())
	require.Error(t, ctx.Step())
}
