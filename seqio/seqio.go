// Package seqio reads the aligned sequence matrix from a FASTA file or a
// list file (one sequence-file path per line), validating that every row is
// byte-equal length. The whole matrix must fit in memory as equal-length
// rows; there is no streaming path.
package seqio

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/grailbio/founder-sequences/ferrors"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// Format selects how Load interprets path.
type Format int

const (
	FormatFASTA Format = iota
	FormatListFile
)

// ParseFormat maps the CLI's --input-format flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "fasta":
		return FormatFASTA, nil
	case "list-file":
		return FormatListFile, nil
	default:
		return 0, ferrors.Newf(ferrors.ConfigInvalid, "seqio: unknown input format %q", s)
	}
}

// Matrix is the loaded alignment: parallel Names/Rows slices, all rows the
// same length.
type Matrix struct {
	Names []string
	Rows  [][]byte
}

// Length returns n, the common row length, or 0 if there are no rows.
func (m Matrix) Length() int {
	if len(m.Rows) == 0 {
		return 0
	}
	return len(m.Rows[0])
}

// Load reads path according to format, validating that every sequence has
// the same non-zero length.
func Load(path string, format Format) (Matrix, error) {
	var m Matrix
	var err error
	switch format {
	case FormatFASTA:
		m, err = readFASTA(path)
	case FormatListFile:
		m, err = readListFile(path)
	default:
		return Matrix{}, ferrors.New(ferrors.ConfigInvalid, "seqio: unknown format")
	}
	if err != nil {
		return Matrix{}, err
	}
	if len(m.Rows) == 0 {
		return Matrix{}, ferrors.New(ferrors.InputMalformed, "seqio: input contains no sequences")
	}
	n := len(m.Rows[0])
	if n == 0 {
		return Matrix{}, ferrors.New(ferrors.InputMalformed, "seqio: sequences are empty")
	}
	for i, row := range m.Rows {
		if len(row) != n {
			return Matrix{}, ferrors.Newf(ferrors.InputMalformed, "seqio: sequence %q has length %d, want %d", m.Names[i], len(row), n)
		}
	}
	return m, nil
}

// openMaybeGzip opens path, transparently decompressing it if it carries a
// .gz suffix.
func openMaybeGzip(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "seqio: opening %s", path)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "seqio: opening gzip stream %s", path)
	}
	return struct {
		io.Reader
		io.Closer
	}{zr, closerFunc(func() error {
		zr.Close()
		return f.Close()
	})}, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func readFASTA(path string) (Matrix, error) {
	f, err := openMaybeGzip(path)
	if err != nil {
		return Matrix{}, err
	}
	defer f.Close()

	var m Matrix
	var cur strings.Builder
	haveSeq := false

	flush := func() {
		if haveSeq {
			m.Rows = append(m.Rows, []byte(cur.String()))
			cur.Reset()
		}
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, ">") {
			flush()
			name := strings.TrimPrefix(line, ">")
			if sp := strings.IndexByte(name, ' '); sp >= 0 {
				name = name[:sp]
			}
			m.Names = append(m.Names, name)
			haveSeq = true
			continue
		}
		cur.WriteString(strings.TrimSpace(line))
	}
	flush()
	if err := scanner.Err(); err != nil {
		return Matrix{}, errors.Wrapf(err, "seqio: reading %s", path)
	}
	return m, nil
}

// readListFile reads a file naming one sequence file per line (each itself a
// single-sequence FASTA or raw-sequence file) and concatenates their
// contents into one Matrix, using the path as listed as the row name.
func readListFile(path string) (Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return Matrix{}, errors.Wrapf(err, "seqio: opening %s", path)
	}
	defer f.Close()

	var paths []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		paths = append(paths, line)
	}
	if err := scanner.Err(); err != nil {
		return Matrix{}, errors.Wrapf(err, "seqio: reading list file %s", path)
	}

	var m Matrix
	for _, p := range paths {
		sub, err := readSingleSequence(p)
		if err != nil {
			return Matrix{}, err
		}
		m.Rows = append(m.Rows, sub)
		m.Names = append(m.Names, p)
	}
	return m, nil
}

// readSingleSequence reads one list entry: a single-sequence FASTA file, or
// a raw sequence file whose non-empty lines are concatenated.
func readSingleSequence(path string) ([]byte, error) {
	f, err := openMaybeGzip(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cur strings.Builder
	headers := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, ">") {
			headers++
			if headers > 1 {
				return nil, ferrors.Newf(ferrors.InputMalformed, "seqio: list entry %s must contain exactly one sequence", path)
			}
			continue
		}
		cur.WriteString(strings.TrimSpace(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "seqio: reading %s", path)
	}
	if cur.Len() == 0 {
		return nil, ferrors.Newf(ferrors.InputMalformed, "seqio: list entry %s contains no sequence data", path)
	}
	return []byte(cur.String()), nil
}
