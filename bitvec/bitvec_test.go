package bitvec_test

import (
	"math/rand"
	"testing"

	"github.com/grailbio/founder-sequences/bitvec"
	"github.com/stretchr/testify/require"
)

func TestGetSetRoundTrip(t *testing.T) {
	v := bitvec.New(100, 5, 0)
	for i := 0; i < 100; i++ {
		v.Set(i, uint64(i%31))
	}
	for i := 0; i < 100; i++ {
		require.Equal(t, uint64(i%31), v.Get(i))
	}
}

func TestFill(t *testing.T) {
	v := bitvec.New(10, 3, 0)
	v.Fill(2, 7, 5)
	for i := 0; i < 10; i++ {
		if i >= 2 && i < 7 {
			require.Equal(t, uint64(5), v.Get(i))
		} else {
			require.Equal(t, uint64(0), v.Get(i))
		}
	}
}

func TestWidthSpanningWordBoundary(t *testing.T) {
	// width 37 means some elements straddle a 64-bit word boundary.
	v := bitvec.New(20, 37, 0)
	want := make([]uint64, 20)
	for i := range want {
		want[i] = uint64(i) * 12345677 % (1 << 37)
		v.Set(i, want[i])
	}
	for i := range want {
		require.Equal(t, want[i], v.Get(i))
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	n := 50
	v := bitvec.New(n, bitvec.BitsFor(uint64(n)), 0)
	for i := 0; i < n; i++ {
		v.Set(i, uint64(i))
	}
	rng := rand.New(rand.NewSource(42))
	v.Shuffle(func(bound int) int { return rng.Intn(bound) })

	seen := make([]bool, n)
	for i := 0; i < n; i++ {
		val := v.Get(i)
		require.False(t, seen[val])
		seen[val] = true
	}
}

func TestBitsFor(t *testing.T) {
	require.Equal(t, uint(1), bitvec.BitsFor(0))
	require.Equal(t, uint(1), bitvec.BitsFor(1))
	require.Equal(t, uint(2), bitvec.BitsFor(2))
	require.Equal(t, uint(2), bitvec.BitsFor(3))
	require.Equal(t, uint(3), bitvec.BitsFor(4))
}
