// Package output writes the two result streams a completed join produces: the
// founder sequences themselves, and an optional tab-separated segment
// listing whose columns depend on the joining discipline that produced the
// permutation.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/founder-sequences/alphabet"
	"github.com/grailbio/founder-sequences/join"
	"github.com/grailbio/founder-sequences/pbwt"
)

// GapSymbol is written for any founder row/segment slot left unassigned. No
// joining discipline implemented here produces gaps, but the writer honors
// the sentinel value if one is ever present in a permutation.
const GapSymbol = '-'

// WriteFounders emits K lines, each exactly n bytes (raw alphabet bytes, not
// symbol indices) plus a trailing newline, one per founder row.
func WriteFounders(out io.Writer, matrix pbwt.Matrix, table alphabet.Table, segs []join.Segment, perm join.Permutation) error {
	if len(segs) != perm.NumSegments() {
		return fmt.Errorf("output: %d segments but %d permutation columns", len(segs), perm.NumSegments())
	}
	w := bufio.NewWriter(out)
	for row := 0; row < perm.NumFounders(); row++ {
		for s, seg := range segs {
			class, gap := perm.At(s, row)
			if gap {
				for col := seg.Cell.LB; col < seg.Cell.RB; col++ {
					if err := w.WriteByte(GapSymbol); err != nil {
						return err
					}
				}
				continue
			}
			srcRow := seg.Substrings[class].SubstringIdx
			slice := matrix.Rows[srcRow][seg.Cell.LB:seg.Cell.RB]
			if _, err := w.Write(table.Unmap(slice)); err != nil {
				return err
			}
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return w.Flush()
}

// WriteSegmentsPBWTOrder writes the PBWT/random segment-listing variant:
// SEGMENT, LB, RB, SIZE, SUBSEQUENCE_NUMBER, COPY_NUMBER, SUBSEQUENCE - one
// row per distinct substring within every segment.
func WriteSegmentsPBWTOrder(out io.Writer, matrix pbwt.Matrix, table alphabet.Table, segs []join.Segment) error {
	w := tsv.NewWriter(out)
	w.WriteString("SEGMENT\tLB\tRB\tSIZE\tSUBSEQUENCE_NUMBER\tCOPY_NUMBER\tSUBSEQUENCE")
	if err := w.EndLine(); err != nil {
		return err
	}
	for s, seg := range segs {
		for _, sub := range seg.Substrings {
			slice := matrix.Rows[sub.SubstringIdx][seg.Cell.LB:seg.Cell.RB]
			w.WriteUint32(uint32(s))
			w.WriteUint32(seg.Cell.LB)
			w.WriteUint32(seg.Cell.RB)
			w.WriteUint32(uint32(len(seg.Substrings)))
			w.WriteUint32(sub.StringIdx)
			w.WriteUint32(sub.CopyNumber)
			w.WriteString(string(table.Unmap(slice)))
			if err := w.EndLine(); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}

// WriteSegmentsMatched writes the greedy/bipartite segment-listing variant:
// SEGMENT, LB, RB, SIZE, SUBSEQUENCE, SEQUENCES, COPIED_FROM - one row per
// distinct substring within every segment. SEQUENCES is the comma-separated
// set of original rows sharing that substring. COPIED_FROM names the source
// row for a copy padded in by the apportionment step beyond the substring's
// natural occurrence count, or "-" when the substring needed no padding;
// since apportionment distributes copies without tracking which upstream
// matched class a given copy descends from, every padded copy here reports
// its own substring's representative row as its source (see DESIGN.md).
func WriteSegmentsMatched(out io.Writer, matrix pbwt.Matrix, table alphabet.Table, segs []join.Segment) error {
	w := tsv.NewWriter(out)
	w.WriteString("SEGMENT\tLB\tRB\tSIZE\tSUBSEQUENCE\tSEQUENCES\tCOPIED_FROM")
	if err := w.EndLine(); err != nil {
		return err
	}
	for s, seg := range segs {
		for _, sub := range seg.Substrings {
			slice := matrix.Rows[sub.SubstringIdx][seg.Cell.LB:seg.Cell.RB]
			rows := make([]string, len(sub.Rows))
			for i, r := range sub.Rows {
				rows[i] = strconv.FormatUint(uint64(r), 10)
			}
			copiedFrom := "-"
			if sub.CopyNumber > uint32(len(sub.Rows)) {
				copiedFrom = strconv.FormatUint(uint64(sub.SubstringIdx), 10)
			}
			w.WriteUint32(uint32(s))
			w.WriteUint32(seg.Cell.LB)
			w.WriteUint32(seg.Cell.RB)
			w.WriteUint32(uint32(len(seg.Substrings)))
			w.WriteString(string(table.Unmap(slice)))
			w.WriteString(strings.Join(rows, ","))
			w.WriteString(copiedFrom)
			if err := w.EndLine(); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}

// WriteSegments dispatches to the matcher-backed or PBWT/random listing
// variant depending on the joining method that produced segs.
func WriteSegments(out io.Writer, matrix pbwt.Matrix, table alphabet.Table, segs []join.Segment, method join.Method) error {
	switch method {
	case join.MethodGreedy, join.MethodBipartite:
		return WriteSegmentsMatched(out, matrix, table, segs)
	default:
		return WriteSegmentsPBWTOrder(out, matrix, table, segs)
	}
}
