// Package identity detects and strips identity columns - columns on which
// every row of the matrix agrees - before core segmentation, and reinserts
// them afterward so founders regain the original sequence length. Identity
// columns carry no segmentation signal but inflate n, so stripping them
// first shrinks the PBWT and DP passes. The column map travels between the
// removal and insertion tools as a '0'/'1' bitstring, one byte per original
// column, with identity bytes refilled from a reference row.
package identity

import (
	"bufio"
	"io"

	"github.com/grailbio/founder-sequences/ferrors"
	"github.com/grailbio/founder-sequences/seqio"
	"github.com/pkg/errors"
)

// ColumnMap records, for every column of the original matrix, whether it was
// an identity column, plus the shared byte each identity column held (taken
// from row 0, which serves as the reference for refilling).
type ColumnMap struct {
	Identity  []bool
	Reference []byte // Reference[j] is meaningful only where Identity[j].
}

// Detect scans matrix and returns the ColumnMap marking every column on
// which all rows agree.
func Detect(matrix seqio.Matrix) ColumnMap {
	n := matrix.Length()
	cm := ColumnMap{Identity: make([]bool, n), Reference: make([]byte, n)}
	for j := 0; j < n; j++ {
		identical := true
		c := matrix.Rows[0][j]
		for _, row := range matrix.Rows[1:] {
			if row[j] != c {
				identical = false
				break
			}
		}
		cm.Identity[j] = identical
		cm.Reference[j] = c
	}
	return cm
}

// Remove returns the matrix with every identity column (per cm) stripped.
func Remove(matrix seqio.Matrix, cm ColumnMap) (seqio.Matrix, error) {
	n := matrix.Length()
	if len(cm.Identity) != n {
		return seqio.Matrix{}, ferrors.Newf(ferrors.ConfigInvalid, "identity: column map has %d entries, matrix has %d columns", len(cm.Identity), n)
	}
	out := seqio.Matrix{Names: matrix.Names, Rows: make([][]byte, len(matrix.Rows))}
	for i, row := range matrix.Rows {
		reduced := make([]byte, 0, n)
		for j, b := range row {
			if !cm.Identity[j] {
				reduced = append(reduced, b)
			}
		}
		out.Rows[i] = reduced
	}
	return out, nil
}

// Insert reconstructs the original column width: every non-identity column
// is copied in order from reduced, every identity column is filled from
// cm.Reference.
func Insert(reduced seqio.Matrix, cm ColumnMap) (seqio.Matrix, error) {
	reducedLen := reduced.Length()
	var wantReduced int
	for _, id := range cm.Identity {
		if !id {
			wantReduced++
		}
	}
	if reducedLen != wantReduced {
		return seqio.Matrix{}, ferrors.Newf(ferrors.ConfigInvalid, "identity: reduced matrix has %d columns, column map expects %d non-identity columns", reducedLen, wantReduced)
	}

	out := seqio.Matrix{Names: reduced.Names, Rows: make([][]byte, len(reduced.Rows))}
	for i, row := range reduced.Rows {
		full := make([]byte, len(cm.Identity))
		cursor := 0
		for j, id := range cm.Identity {
			if id {
				full[j] = cm.Reference[j]
			} else {
				full[j] = row[cursor]
				cursor++
			}
		}
		out.Rows[i] = full
	}
	return out, nil
}

// WriteColumnMap serializes cm.Identity as a bitstring of '0'/'1' characters
// followed by a newline, one byte per original column.
func WriteColumnMap(w io.Writer, cm ColumnMap) error {
	bw := bufio.NewWriter(w)
	for _, id := range cm.Identity {
		if id {
			if err := bw.WriteByte('1'); err != nil {
				return err
			}
		} else if err := bw.WriteByte('0'); err != nil {
			return err
		}
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	return bw.Flush()
}

// ReadColumnMap parses a bitstring written by WriteColumnMap, filling
// Reference from ref, a full-length sequence supplying the identity bytes.
func ReadColumnMap(r io.Reader, ref []byte) (ColumnMap, error) {
	br := bufio.NewReader(r)
	line, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return ColumnMap{}, errors.Wrap(err, "identity: reading column map")
	}
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	if len(line) != len(ref) {
		return ColumnMap{}, ferrors.Newf(ferrors.InputMalformed, "identity: column map has %d entries, reference has %d columns", len(line), len(ref))
	}

	cm := ColumnMap{Identity: make([]bool, len(line)), Reference: make([]byte, len(line))}
	for j, c := range []byte(line) {
		switch c {
		case '1':
			cm.Identity[j] = true
			cm.Reference[j] = ref[j]
		case '0':
			// non-identity column; Reference[j] left zero, unused.
		default:
			return ColumnMap{}, ferrors.Newf(ferrors.InputMalformed, "identity: unexpected column map byte %q at position %d", c, j)
		}
	}
	return cm, nil
}
