package alphabet_test

import (
	"testing"

	"github.com/grailbio/founder-sequences/alphabet"
	"github.com/stretchr/testify/require"
)

func TestBuildAndRemapRoundTrip(t *testing.T) {
	rows := [][]byte{[]byte("ACGT"), []byte("TTGA")}
	table, err := alphabet.Build(rows)
	require.NoError(t, err)
	require.Equal(t, 4, table.Size())
	require.Equal(t, []byte("ACGT"), table.Symbols())

	mapped, err := table.Remap(rows)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 1, 2, 3}, mapped[0])
	require.Equal(t, []byte{3, 3, 2, 0}, mapped[1])

	require.Equal(t, rows[0], table.Unmap(mapped[0]))
	require.Equal(t, rows[1], table.Unmap(mapped[1]))
}

func TestIndexRejectsUnknownByte(t *testing.T) {
	table, err := alphabet.Build([][]byte{[]byte("AC")})
	require.NoError(t, err)
	_, err = table.Index('G')
	require.Error(t, err)
}

func TestBuildRejectsEmptyInput(t *testing.T) {
	_, err := alphabet.Build(nil)
	require.Error(t, err)
}

func TestFingerprintStableAcrossBuilds(t *testing.T) {
	rows := [][]byte{[]byte("ACGTACGT")}
	t1, err := alphabet.Build(rows)
	require.NoError(t, err)
	t2, err := alphabet.Build(rows)
	require.NoError(t, err)
	require.Equal(t, t1.Fingerprint(), t2.Fingerprint())
}
