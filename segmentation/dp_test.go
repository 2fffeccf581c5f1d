package segmentation_test

import (
	"math/rand"
	"testing"

	"github.com/grailbio/founder-sequences/pbwt"
	"github.com/grailbio/founder-sequences/segmentation"
	"github.com/stretchr/testify/require"
)

func matrixFromStrings(rows []string, sigma int) pbwt.Matrix {
	out := make([][]byte, len(rows))
	for i, r := range rows {
		b := make([]byte, len(r))
		for j := range r {
			b[j] = r[j] - 'A'
		}
		out[i] = b
	}
	return pbwt.Matrix{Rows: out, Sigma: sigma}
}

// bruteForceMaxSegmentSize computes the minimum achievable max-segment
// distinct-substring count for a segmentation of [0,n) into segments of at
// least L columns, by direct O(n^2) substring enumeration. This is the
// reference used to check the DP's optimality property.
func bruteForceMaxSegmentSize(m pbwt.Matrix, L int) int {
	n := m.Length()
	distinct := func(lb, rb int) int {
		seen := map[string]struct{}{}
		for _, row := range m.Rows {
			seen[string(row[lb:rb])] = struct{}{}
		}
		return len(seen)
	}

	const undefined = 1 << 30
	dp := make([]int, n+1)
	reachable := make([]bool, n+1)
	dp[0] = 0
	reachable[0] = true
	for x := 1; x <= n; x++ {
		dp[x] = undefined
		for lb := 0; lb <= x-L; lb++ {
			if !reachable[lb] {
				continue
			}
			candidate := dp[lb]
			d := distinct(lb, x)
			if d > candidate {
				candidate = d
			}
			if candidate < dp[x] {
				dp[x] = candidate
			}
		}
		reachable[x] = dp[x] != undefined
	}
	return dp[n]
}

func randomMatrix(rng *rand.Rand, rows, n, sigma int) pbwt.Matrix {
	out := make([][]byte, rows)
	for i := range out {
		row := make([]byte, n)
		for j := range row {
			row[j] = byte(rng.Intn(sigma))
		}
		out[i] = row
	}
	return pbwt.Matrix{Rows: out, Sigma: sigma}
}

func TestRunMatchesBruteForceOptimum(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 15; trial++ {
		n := 6 + rng.Intn(14)
		rows := 3 + rng.Intn(6)
		L := 1 + rng.Intn(3)
		sigma := 2 + rng.Intn(3)
		if n < 2*L {
			n = 2 * L
		}
		m := randomMatrix(rng, rows, n, sigma)

		want := bruteForceMaxSegmentSize(m, L)

		res, err := segmentation.Run(m, segmentation.Opts{MinSegmentLength: L, SampleRate: 3})
		if want >= rows {
			require.Error(t, err, "trial %d: expected NotReducible", trial)
			continue
		}
		require.NoError(t, err, "trial %d", trial)
		require.EqualValues(t, want, res.MaxSegmentSize, "trial %d: n=%d rows=%d L=%d", trial, n, rows, L)
	}
}

func TestRunShortPathSingleSegment(t *testing.T) {
	// matrixFromStrings maps each letter to letter-'A', so 'T' becomes 19 and
	// sigma must be at least 20.
	m := matrixFromStrings([]string{"AAAA", "AATT", "AAGG"}, 20)
	res, err := segmentation.Run(m, segmentation.Opts{MinSegmentLength: 3, SampleRate: 0})
	require.NoError(t, err)
	require.Len(t, res.Reduced, 1)
	require.EqualValues(t, 0, res.Reduced[0].LB)
	require.EqualValues(t, 4, res.Reduced[0].RB)
	require.EqualValues(t, 3, res.MaxSegmentSize)
}

func TestRunReducedTracebackCoversWholeRange(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	// Binary alphabet so the optimum stays below the row count; with four
	// symbols these ten rows are NotReducible.
	m := randomMatrix(rng, 10, 40, 2)
	res, err := segmentation.Run(m, segmentation.Opts{MinSegmentLength: 3, SampleRate: 5})
	require.NoError(t, err)

	require.EqualValues(t, 0, res.Reduced[0].LB)
	for i := 1; i < len(res.Reduced); i++ {
		require.Equal(t, res.Reduced[i-1].RB, res.Reduced[i].LB, "segments must be contiguous")
	}
	require.EqualValues(t, 40, res.Reduced[len(res.Reduced)-1].RB)
}

func TestRunNotReducibleWhenMaxSegmentTooLarge(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	// Two random rows: unless they are identical, every segmentation has a
	// segment covering a column where they differ, i.e. 2 distinct
	// substrings, equal to the row count, so the result can never beat N and
	// must be reported NotReducible.
	m := randomMatrix(rng, 2, 8, 4)
	_, err := segmentation.Run(m, segmentation.Opts{MinSegmentLength: 2, SampleRate: 0})
	require.Error(t, err)
}
