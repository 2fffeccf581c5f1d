package pbwt

import "sort"

// divCounts is a sparse ordered map from divergence value to the number of
// ranks holding that value, kept sorted by value ascending, mirroring a
// std::map<uint32_t, uint32_t>. Entries are added and removed one at a time
// as the PBWT context steps, and the whole map is scanned in ascending order
// by the segmentation DP once per column.
//
// A sorted slice (rather than a balanced tree) is deliberate: the number of
// distinct divergence values is typically small relative to N, every DP
// step scans every entry anyway, and a slice avoids the allocation and
// pointer-chasing overhead of a tree for workloads this size (see
// DESIGN.md).
type divCounts struct {
	entries []divEntry
}

type divEntry struct {
	value uint32
	count uint32
}

func (c *divCounts) search(v uint32) (idx int, found bool) {
	idx = sort.Search(len(c.entries), func(i int) bool { return c.entries[i].value >= v })
	found = idx < len(c.entries) && c.entries[idx].value == v
	return
}

// Add increments the count for value v, inserting a new entry if needed.
func (c *divCounts) Add(v uint32) {
	idx, found := c.search(v)
	if found {
		c.entries[idx].count++
		return
	}
	c.entries = append(c.entries, divEntry{})
	copy(c.entries[idx+1:], c.entries[idx:])
	c.entries[idx] = divEntry{value: v, count: 1}
}

// Remove decrements the count for value v, dropping the entry if it reaches
// zero. Removing a value that isn't present is a no-op (used for the d[0]
// sentinel, which callers may or may not track).
func (c *divCounts) Remove(v uint32) {
	idx, found := c.search(v)
	if !found {
		return
	}
	c.entries[idx].count--
	if c.entries[idx].count == 0 {
		c.entries = append(c.entries[:idx], c.entries[idx+1:]...)
	}
}

// Len returns the number of distinct divergence values currently tracked.
func (c *divCounts) Len() int { return len(c.entries) }

// At returns the i'th (value, count) pair in ascending value order.
func (c *divCounts) At(i int) (value, count uint32) {
	e := c.entries[i]
	return e.value, e.count
}

// CountLE returns the sum of counts for all tracked values <= lim, scanning
// ascending values and stopping as soon as they exceed lim (the map is
// sorted, so this is O(|keys <= lim|), not O(|keys|)).
func (c *divCounts) CountLE(lim uint32) uint32 {
	var total uint32
	for _, e := range c.entries {
		if e.value > lim {
			break
		}
		total += e.count
	}
	return total
}

// reset empties the map, e.g. when rebuilding it from scratch after a
// sample replay.
func (c *divCounts) reset() {
	c.entries = c.entries[:0]
}

// rebuildFrom replaces the map's contents with a fresh histogram of d,
// used by the sampler when it recomputes counts from a retained d array
// instead of storing them with the snapshot.
func (c *divCounts) rebuildFrom(d []uint32) {
	c.reset()
	for _, v := range d {
		c.Add(v)
	}
}
