package rmq_test

import (
	"math/rand"
	"testing"

	"github.com/grailbio/founder-sequences/rmq"
	"github.com/stretchr/testify/require"
)

type intValues []int

func (v intValues) Len() int           { return len(v) }
func (v intValues) Less(i, j int) bool { return v[i] < v[j] }

func naiveArgmin(v intValues, lo, hi int) int {
	best := lo
	for i := lo + 1; i < hi; i++ {
		if v[i] < v[best] {
			best = i
		}
	}
	return best
}

func TestQueryMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	values := make(intValues, 0, 500)
	r := rmq.New(&values)

	for n := 1; n <= 500; n++ {
		values = append(values, rng.Intn(1000))
		r.Update(len(values) - 1)

		for trial := 0; trial < 20; trial++ {
			lo := rng.Intn(n)
			hi := lo + 1 + rng.Intn(n-lo)
			got := r.Query(lo, hi)
			want := naiveArgmin(values, lo, hi)
			require.Equal(t, values[want], values[got], "lo=%d hi=%d n=%d", lo, hi, n)
		}
	}
}

func TestQuerySingleElementRange(t *testing.T) {
	values := intValues{5}
	r := rmq.New(&values)
	r.Update(0)
	require.Equal(t, 0, r.Query(0, 1))
}

func TestQueryAcrossManyBlocks(t *testing.T) {
	n := rmq.BlockSize*5 + 3
	values := make(intValues, n)
	r := rmq.New(&values)
	for i := 0; i < n; i++ {
		values[i] = n - i
		r.Update(i)
	}
	// Minimum over the whole range is the last element.
	require.Equal(t, n-1, r.Query(0, n))
	// Minimum within the first full block is at the end of the block.
	require.Equal(t, rmq.BlockSize-1, r.Query(0, rmq.BlockSize))
}
