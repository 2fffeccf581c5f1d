// Package alphabet builds the compressed, consecutive symbol alphabet a
// loaded sequence matrix is remapped onto before PBWT processing: each
// distinct byte value appearing anywhere in the matrix is assigned a
// consecutive index in [0, sigma), so the PBWT context can index small
// per-symbol arrays directly instead of sparsely keying on raw byte values.
package alphabet

import (
	farm "github.com/dgryski/go-farm"
	"github.com/grailbio/founder-sequences/ferrors"
)

// Table is a read-only mapping between raw input bytes and consecutive
// symbol indices.
type Table struct {
	symbols []byte   // symbols[idx] is the original byte for index idx.
	toIdx   [256]int8
}

const unmapped = -1

// Build scans rows and returns the Table that maps each distinct byte to a
// consecutive index in order of first ascending byte value.
func Build(rows [][]byte) (Table, error) {
	var present [256]bool
	for _, row := range rows {
		for _, b := range row {
			present[b] = true
		}
	}

	var symbols []byte
	for b := 0; b < 256; b++ {
		if present[b] {
			symbols = append(symbols, byte(b))
		}
	}
	if len(symbols) == 0 {
		return Table{}, ferrors.New(ferrors.InputMalformed, "alphabet: no symbols found in input")
	}
	if len(symbols) > 127 {
		return Table{}, ferrors.Newf(ferrors.InputMalformed, "alphabet: %d distinct symbols exceeds supported maximum", len(symbols))
	}

	t := Table{symbols: symbols}
	for i := range t.toIdx {
		t.toIdx[i] = unmapped
	}
	for idx, b := range symbols {
		t.toIdx[b] = int8(idx)
	}
	return t, nil
}

// BuildFromSymbols reconstructs a Table from a previously recorded symbol
// list (the order Build produced), for replaying a serialized segmentation
// container without re-scanning the input matrix.
func BuildFromSymbols(symbols []byte) (Table, error) {
	if len(symbols) == 0 {
		return Table{}, ferrors.New(ferrors.InputMalformed, "alphabet: empty symbol table")
	}
	if len(symbols) > 127 {
		return Table{}, ferrors.Newf(ferrors.InputMalformed, "alphabet: %d distinct symbols exceeds supported maximum", len(symbols))
	}
	t := Table{symbols: append([]byte(nil), symbols...)}
	for i := range t.toIdx {
		t.toIdx[i] = unmapped
	}
	for idx, b := range t.symbols {
		t.toIdx[b] = int8(idx)
	}
	return t, nil
}

// Size returns sigma, the number of distinct symbols.
func (t Table) Size() int { return len(t.symbols) }

// Symbols returns the original bytes in index order; index i in the mapped
// matrix corresponds to Symbols()[i].
func (t Table) Symbols() []byte {
	out := make([]byte, len(t.symbols))
	copy(out, t.symbols)
	return out
}

// Index maps a raw byte to its symbol index, or returns an error if b never
// appeared during Build.
func (t Table) Index(b byte) (int, error) {
	idx := t.toIdx[b]
	if idx == unmapped {
		return 0, ferrors.Newf(ferrors.InputMalformed, "alphabet: byte %q not present in built alphabet", b)
	}
	return int(idx), nil
}

// Remap translates rows (raw bytes) into a fresh N x n matrix of symbol
// indices using t.
func (t Table) Remap(rows [][]byte) ([][]byte, error) {
	out := make([][]byte, len(rows))
	for i, row := range rows {
		mapped := make([]byte, len(row))
		for j, b := range row {
			idx, err := t.Index(b)
			if err != nil {
				return nil, err
			}
			mapped[j] = byte(idx)
		}
		out[i] = mapped
	}
	return out, nil
}

// Unmap translates a symbol-index row back into raw bytes.
func (t Table) Unmap(row []byte) []byte {
	out := make([]byte, len(row))
	for i, idx := range row {
		out[i] = t.symbols[idx]
	}
	return out
}

// Fingerprint returns a stable 64-bit hash of the alphabet's symbol table,
// logged with the founder count at the end of a founder-sequences run so two
// runs can be compared for identical alphabet derivation without printing
// the whole table.
func (t Table) Fingerprint() uint64 {
	return farm.Hash64(t.symbols)
}
