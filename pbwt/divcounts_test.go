package pbwt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDivCountsAddRemoveOrdering(t *testing.T) {
	var c divCounts
	c.Add(5)
	c.Add(2)
	c.Add(5)
	c.Add(8)
	require.Equal(t, 3, c.Len())
	v0, n0 := c.At(0)
	require.Equal(t, uint32(2), v0)
	require.Equal(t, uint32(1), n0)
	v1, n1 := c.At(1)
	require.Equal(t, uint32(5), v1)
	require.Equal(t, uint32(2), n1)

	require.EqualValues(t, 3, c.CountLE(5))
	require.EqualValues(t, 1, c.CountLE(2))
	require.EqualValues(t, 0, c.CountLE(1))

	c.Remove(5)
	c.Remove(5)
	require.Equal(t, 2, c.Len())
	require.EqualValues(t, 1, c.CountLE(2))
}

func TestDivCountsRebuildFrom(t *testing.T) {
	var c divCounts
	c.Add(1)
	c.rebuildFrom([]uint32{3, 3, 3, 9})
	require.Equal(t, 2, c.Len())
	require.EqualValues(t, 3, c.CountLE(3))
	require.EqualValues(t, 4, c.CountLE(100))
}
