// Package pbwt incrementally maintains the positional Burrows-Wheeler
// transform of an aligned sequence matrix, one column at a time, and
// schedules periodic samples that let later stages replay the transform to
// any right-extending column without reprocessing from the start.
//
// The column-update algorithm (two-pass bucket sort with a per-symbol
// "divergence floor" tracker) is the classical PBWT column step.
package pbwt

import (
	"sort"

	"github.com/grailbio/founder-sequences/ferrors"
	"github.com/pkg/errors"
)

// State is the PBWT context's lifecycle state.
type State int

const (
	StateUninit State = iota
	StateReady
	StateStepping
	StateQueryable
)

// Matrix is a read-only N x n matrix of small-alphabet symbol indices, one
// row per sequence. Rows must all share the same length.
type Matrix struct {
	Rows  [][]byte
	Sigma int // alphabet size; symbols are in [0, Sigma).
}

// NumSeqs returns N.
func (m Matrix) NumSeqs() int { return len(m.Rows) }

// Length returns n, the number of columns. Panics if Rows is empty.
func (m Matrix) Length() int { return len(m.Rows[0]) }

// Context maintains the prefix permutation a, the divergence array d, and
// (optionally) the divergence-value counts, one column at a time.
type Context struct {
	matrix Matrix
	n      int
	state  State

	a   []uint32
	d   []uint32
	col int

	counts      divCounts
	trackCounts bool
}

// NewContext constructs an uninitialized context over matrix. trackCounts
// controls whether divergence-value counts are maintained as the context
// steps; the sampler disables this when replaying purely to advance a base
// sample, and recomputes counts on demand instead.
func NewContext(matrix Matrix, trackCounts bool) *Context {
	return &Context{
		matrix:      matrix,
		n:           matrix.Length(),
		state:       StateUninit,
		trackCounts: trackCounts,
	}
}

// Prepare resets the context to column 0, with a the identity permutation
// and d all zero.
func (c *Context) Prepare() {
	n := c.matrix.NumSeqs()
	c.a = make([]uint32, n)
	c.d = make([]uint32, n)
	for i := range c.a {
		c.a[i] = uint32(i)
	}
	c.col = 0
	c.counts.reset()
	if c.trackCounts {
		// d[i] = 0 for every rank, including the i=0 sentinel (current_column
		// is 0 at Prepare time, so the sentinel value coincides with the rest).
		for i := 0; i < n; i++ {
			c.counts.Add(0)
		}
	}
	c.state = StateReady
}

// Column returns the current column index (the number of columns consumed
// so far).
func (c *Context) Column() int { return c.col }

// A returns the current prefix permutation. The returned slice is owned by
// the context and must not be retained past the next Step/Prepare call.
func (c *Context) A() []uint32 { return c.a }

// D returns the current divergence array, same aliasing caveat as A.
func (c *Context) D() []uint32 { return c.d }

// SetTrackCounts toggles divergence-count maintenance. When re-enabled, the
// counts are rebuilt from the current d array (ranks 0..N-1); this mirrors
// the sampler's "recompute on demand" path.
func (c *Context) SetTrackCounts(track bool) {
	if track && !c.trackCounts {
		c.counts.rebuildFrom(c.d)
	}
	c.trackCounts = track
}

// Step consumes column c.col, updating a, d, and (if enabled) the
// divergence-value counts in place.
func (c *Context) Step() error {
	if c.state != StateReady && c.state != StateStepping && c.state != StateQueryable {
		return errors.Wrap(ferrors.New(ferrors.Internal, "pbwt: Step called before Prepare"), "pbwt")
	}
	if c.col >= c.n {
		return errors.Wrap(ferrors.New(ferrors.Internal, "pbwt: Step past column bound"), "pbwt: ColumnOutOfRange")
	}

	n := len(c.a)
	sigma := c.matrix.Sigma
	col := c.col

	var counts [256]int
	for i := 0; i < n; i++ {
		counts[c.matrix.Rows[c.a[i]][col]]++
	}
	offsets := make([]int, sigma)
	acc := 0
	for s := 0; s < sigma; s++ {
		offsets[s] = acc
		acc += counts[s]
	}

	newA := make([]uint32, n)
	newD := make([]uint32, n)
	p := make([]uint32, sigma)
	sentinel := uint32(col + 1)
	for s := range p {
		p[s] = sentinel
	}

	for i := 0; i < n; i++ {
		idx := c.a[i]
		dv := c.d[i]
		if c.trackCounts {
			c.counts.Remove(dv)
		}
		for s := 0; s < sigma; s++ {
			if dv > p[s] {
				p[s] = dv
			}
		}
		sym := c.matrix.Rows[idx][col]
		out := offsets[sym]
		offsets[sym]++
		newA[out] = idx
		newD[out] = p[sym]
		if c.trackCounts {
			c.counts.Add(p[sym])
		}
		p[sym] = 0
	}

	c.a = newA
	c.d = newD
	c.col = col + 1
	if c.col < c.n {
		c.state = StateStepping
	} else {
		c.state = StateQueryable
	}
	return nil
}

// DivergenceCountsLen returns the number of distinct divergence values
// currently tracked (only meaningful when counts are being tracked).
func (c *Context) DivergenceCountsLen() int { return c.counts.Len() }

// DivergenceCountAt returns the i'th (value, count) pair in ascending
// value order.
func (c *Context) DivergenceCountAt(i int) (value, count uint32) { return c.counts.At(i) }

// UniqueSubstringCountLHS returns the number of distinct substrings on
// columns [lb, current_column), in O(|keys <= lb|). Ranks i-1 and i share a
// class exactly when d[i] <= lb, so the class count is N minus the number
// of such ranks; the d[0] sentinel always exceeds any valid lb and so
// always opens the first class.
func (c *Context) UniqueSubstringCountLHS(lb uint32) uint32 {
	n := uint32(len(c.d))
	if c.trackCounts {
		return n - c.counts.CountLE(lb)
	}
	// Fall back to a direct scan of d when counts aren't being tracked.
	var le uint32
	for _, v := range c.d {
		if v <= lb {
			le++
		}
	}
	return n - le
}

// ClassRep pairs the minimum row index of a substring equivalence class
// with the number of rows that fall into it, in rank order.
type ClassRep struct {
	MinRow int
	Size   int
}

// UniqueSubstringCountAndIdxsLHS returns the same count as
// UniqueSubstringCountLHS along with the (min-row, class-size) pairs for
// each equivalence class of rows agreeing on [lb, current_column), in rank
// order.
func (c *Context) UniqueSubstringCountAndIdxsLHS(lb uint32) (uint32, []ClassRep) {
	var classes []ClassRep
	n := len(c.a)
	for i := 0; i < n; {
		// Ranks i and i+1 belong to the same class iff d[i+1] <= lb.
		minRow := int(c.a[i])
		j := i + 1
		for j < n && c.d[j] <= lb {
			if int(c.a[j]) < minRow {
				minRow = int(c.a[j])
			}
			j++
		}
		classes = append(classes, ClassRep{MinRow: minRow, Size: j - i})
		i = j
	}
	return uint32(len(classes)), classes
}

// UniqueSubstringRowsLHS returns, for each equivalence class of rows
// agreeing on [lb, current_column) in rank order, the full sorted set of
// original row indices belonging to that class. It generalizes
// UniqueSubstringCountAndIdxsLHS for the join stage, which needs
// more than just the class size: the greedy and bipartite matchers pair
// classes across adjacent segments by row-set overlap, and every joiner
// needs the class's minimum row as its representative substring index.
func (c *Context) UniqueSubstringRowsLHS(lb uint32) [][]uint32 {
	n := len(c.a)
	var classes [][]uint32
	for i := 0; i < n; {
		j := i + 1
		for j < n && c.d[j] <= lb {
			j++
		}
		rows := make([]uint32, j-i)
		copy(rows, c.a[i:j])
		sort.Slice(rows, func(x, y int) bool { return rows[x] < rows[y] })
		classes = append(classes, rows)
		i = j
	}
	return classes
}
