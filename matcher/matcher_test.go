package matcher

import (
	"testing"

	"github.com/grailbio/founder-sequences/dispatch"
	"github.com/stretchr/testify/require"
)

func TestMatchSequenceSingleRunWhenSequenceEqualsOneFounder(t *testing.T) {
	founders := [][]byte{
		[]byte("AAAA"),
		[]byte("AACC"),
	}
	matches, err := MatchSequence(0, []byte("AACC"), founders)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, 0, matches[0].LB)
	require.Equal(t, 4, matches[0].RB)
	require.Equal(t, []int{1}, matches[0].FounderIndices)
}

func TestMatchSequenceSplitsOnDisagreement(t *testing.T) {
	founders := [][]byte{
		[]byte("AAAA"),
		[]byte("AACC"),
	}
	// Follows founder 1 through column 2, then switches to founder 0 at
	// column 3, so the scan closes one run per recombination point.
	matches, err := MatchSequence(0, []byte("AACA"), founders)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	require.Equal(t, 0, matches[0].LB)
	require.Equal(t, 3, matches[0].RB)
	require.ElementsMatch(t, []int{1}, matches[0].FounderIndices)
	require.Equal(t, 3, matches[1].LB)
	require.Equal(t, 4, matches[1].RB)
	require.ElementsMatch(t, []int{0}, matches[1].FounderIndices)
}

func TestMatchSequenceErrorsWhenNoFounderMatchesAColumn(t *testing.T) {
	founders := [][]byte{[]byte("AAAA")}
	_, err := MatchSequence(0, []byte("AAAT"), founders)
	require.Error(t, err)
}

func TestMatchAllRunsAllSequences(t *testing.T) {
	founders := [][]byte{[]byte("AAAA"), []byte("AACC")}
	sequences := [][]byte{[]byte("AAAA"), []byte("AACC")}
	results, err := MatchAll(sequences, founders, dispatch.Serial{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, []int{0}, results[0][0].FounderIndices)
	require.Equal(t, []int{1}, results[1][0].FounderIndices)
}
