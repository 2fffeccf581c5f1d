package pipeline

import (
	"bytes"
	"strings"
	"testing"

	"github.com/grailbio/founder-sequences/ferrors"
	"github.com/grailbio/founder-sequences/join"
	"github.com/grailbio/founder-sequences/output"
	"github.com/grailbio/founder-sequences/segmentation"
	"github.com/grailbio/founder-sequences/seqio"
	"github.com/stretchr/testify/require"
)

func inputFromStrings(rows ...string) seqio.Matrix {
	m := seqio.Matrix{}
	for i, r := range rows {
		m.Rows = append(m.Rows, []byte(r))
		m.Names = append(m.Names, string(rune('a'+i)))
	}
	return m
}

func foundersOf(t *testing.T, result *Result) []string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, output.WriteFounders(&buf, result.Matrix, result.Alphabet, result.Segments, result.Permutation))
	out := strings.TrimRight(buf.String(), "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// requireFidelity checks that every input row's substring on every segment
// appears in some founder over the same column range.
func requireFidelity(t *testing.T, input seqio.Matrix, result *Result, founders []string) {
	t.Helper()
	for _, seg := range result.Segments {
		lb, rb := seg.Cell.LB, seg.Cell.RB
		for ri, row := range input.Rows {
			want := string(row[lb:rb])
			found := false
			for _, f := range founders {
				if f[lb:rb] == want {
					found = true
					break
				}
			}
			require.True(t, found, "row %d substring [%d,%d) missing from founders", ri, lb, rb)
		}
	}
}

func TestIdenticalRowsCollapseToOneFounder(t *testing.T) {
	input := inputFromStrings("ACGTACGT", "ACGTACGT", "ACGTACGT", "ACGTACGT")
	cfg := Config{MinSegmentLength: 2, PBWTSampleRate: 1, Join: join.Config{Method: join.MethodPBWTOrder}, SingleThreaded: true}

	result, err := Run(input, cfg, nil)
	require.NoError(t, err)
	founders := foundersOf(t, result)
	require.Equal(t, []string{"ACGTACGT"}, founders)
}

func TestTwoDistinctRowsYieldTwoFounders(t *testing.T) {
	input := inputFromStrings("AAAA", "AACC", "AAAA")
	cfg := Config{MinSegmentLength: 2, PBWTSampleRate: 1, Join: join.Config{Method: join.MethodGreedy}, SingleThreaded: true}

	result, err := Run(input, cfg, nil)
	require.NoError(t, err)
	require.Equal(t, 2, result.Permutation.NumFounders())

	founders := foundersOf(t, result)
	require.Len(t, founders, 2)
	require.ElementsMatch(t, []string{"AAAA", "AACC"}, founders)
}

func TestBipartiteIntersectionPreservesEveryRow(t *testing.T) {
	input := inputFromStrings("AAAA", "AATT", "AAGG", "AAGG")
	cfg := Config{
		MinSegmentLength: 2,
		PBWTSampleRate:   1,
		Join:             join.Config{Method: join.MethodBipartite, SetScoring: join.Intersection},
		SingleThreaded:   true,
	}

	result, err := Run(input, cfg, nil)
	require.NoError(t, err)
	require.Equal(t, 3, result.Permutation.NumFounders())
	founders := foundersOf(t, result)
	requireFidelity(t, input, result, founders)
}

func TestPBWTOrderFoundersPreserveSubstrings(t *testing.T) {
	input := inputFromStrings("ACGT", "AGGT", "ACCT")
	cfg := Config{MinSegmentLength: 2, PBWTSampleRate: 1, Join: join.Config{Method: join.MethodPBWTOrder}, SingleThreaded: true}

	result, err := Run(input, cfg, nil)
	require.NoError(t, err)
	require.Equal(t, 2, result.Permutation.NumFounders())
	founders := foundersOf(t, result)
	requireFidelity(t, input, result, founders)
}

func TestSerializedSegmentationReplayIsByteIdentical(t *testing.T) {
	// Eight rows drawn from four templates so the founder count stays below
	// the row count.
	input := inputFromStrings(
		"AAAAAAAACCCCCCCCAAAAAAAACCCCCCCC",
		"AAAAAAAACCCCCCCCAAAAAAAACCCCCCCC",
		"CCCCCCCCAAAAAAAACCCCCCCCAAAAAAAA",
		"CCCCCCCCAAAAAAAACCCCCCCCAAAAAAAA",
		"AAAACCCCAAAACCCCAAAACCCCAAAACCCC",
		"AAAACCCCAAAACCCCAAAACCCCAAAACCCC",
		"CCCCAAAACCCCAAAACCCCAAAACCCCAAAA",
		"CCCCAAAACCCCAAAACCCCAAAACCCCAAAA",
	)
	cfg := Config{MinSegmentLength: 8, PBWTSampleRate: 1, Join: join.Config{Method: join.MethodPBWTOrder}, SingleThreaded: true}

	first, err := Run(input, cfg, nil)
	require.NoError(t, err)
	require.LessOrEqual(t, first.Permutation.NumFounders(), 8)
	wantFounders := foundersOf(t, first)

	cells := make([]segmentation.Cell, len(first.Segments))
	for i, seg := range first.Segments {
		cells[i] = seg.Cell
	}
	container := segmentation.Container{
		InputPath:      "in.fa",
		Alphabet:       first.Alphabet.Symbols(),
		MaxSegmentSize: uint32(first.Permutation.NumFounders()),
		Segments:       cells,
	}
	var buf bytes.Buffer
	require.NoError(t, segmentation.WriteContainer(&buf, container))
	reloaded, err := segmentation.ReadContainer(&buf)
	require.NoError(t, err)

	second, err := RunFromSegmentation(input, reloaded, cfg, nil)
	require.NoError(t, err)
	require.Equal(t, wantFounders, foundersOf(t, second))
}

func TestRandomJoiningReproducibleAcrossRuns(t *testing.T) {
	input := inputFromStrings("AAAACCCC", "AAAAGGGG", "AAAACCCC")
	cfg := Config{
		MinSegmentLength: 2,
		PBWTSampleRate:   1,
		Join:             join.Config{Method: join.MethodRandom, RandomSeed: 42},
		SingleThreaded:   true,
	}

	first, err := Run(input, cfg, nil)
	require.NoError(t, err)
	second, err := Run(input, cfg, nil)
	require.NoError(t, err)
	require.Equal(t, foundersOf(t, first), foundersOf(t, second))
}

func TestNotReducibleInputRejected(t *testing.T) {
	// Two rows disagreeing on every column: any segmentation needs as many
	// founders as rows.
	input := inputFromStrings("AAAAAAAA", "CCCCCCCC")
	cfg := Config{MinSegmentLength: 2, PBWTSampleRate: 1, Join: join.Config{Method: join.MethodRandom, RandomSeed: 42}, SingleThreaded: true}

	_, err := Run(input, cfg, nil)
	require.Error(t, err)
	require.True(t, ferrors.Is(err, ferrors.NotReducible))
}
