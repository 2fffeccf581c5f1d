package segmentation

import (
	"encoding/binary"
	"io"

	"github.com/grailbio/founder-sequences/ferrors"
	"github.com/minio/highwayhash"
	"github.com/pkg/errors"
)

// magic identifies a serialized segmentation container.
var magic = [4]byte{'F', 'S', 'E', 'G'}

const containerVersion = uint32(1)

// zeroSeed is the highwayhash key used for the container checksum; the
// checksum guards against truncation and accidental corruption, not against
// a malicious adversary, so a fixed key is sufficient.
var zeroSeed = [highwayhash.Size]uint8{}

// Container is the on-disk representation of a completed segmentation: the
// input path it was computed from (for provenance), the alphabet symbol
// table, and the reduced segment list.
type Container struct {
	InputPath      string
	Alphabet       []byte
	MaxSegmentSize uint32
	Segments       []Cell
}

// WriteContainer serializes c to w as: magic, version, input path length +
// bytes, alphabet length + bytes, max segment size, segment count, then one
// {lb,rb,size} triple per segment, trailed by a highwayhash-256 checksum of
// everything written before it.
func WriteContainer(w io.Writer, c Container) error {
	var buf []byte
	buf = append(buf, magic[:]...)
	buf = appendUint32(buf, containerVersion)
	buf = appendString(buf, c.InputPath)
	buf = appendBytes(buf, c.Alphabet)
	buf = appendUint32(buf, c.MaxSegmentSize)
	buf = appendUint32(buf, uint32(len(c.Segments)))
	for _, seg := range c.Segments {
		buf = appendUint32(buf, seg.LB)
		buf = appendUint32(buf, seg.RB)
		buf = appendUint32(buf, seg.SegmentSize)
	}

	sum := highwayhash.Sum(buf, zeroSeed[:])
	buf = append(buf, sum[:]...)

	if _, err := w.Write(buf); err != nil {
		return errors.Wrap(err, "segmentation: writing container")
	}
	return nil
}

// ReadContainer parses a container previously written by WriteContainer,
// verifying its checksum.
func ReadContainer(r io.Reader) (Container, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Container{}, errors.Wrap(err, "segmentation: reading container")
	}
	if len(raw) < highwayhash.Size {
		return Container{}, ferrors.New(ferrors.InputMalformed, "segmentation: container truncated")
	}
	body, sum := raw[:len(raw)-highwayhash.Size], raw[len(raw)-highwayhash.Size:]
	want := highwayhash.Sum(body, zeroSeed[:])
	for i := range want {
		if want[i] != sum[i] {
			return Container{}, ferrors.New(ferrors.InputMalformed, "segmentation: container checksum mismatch")
		}
	}

	p := body
	if len(p) < 8 || string(p[:4]) != string(magic[:]) {
		return Container{}, ferrors.New(ferrors.InputMalformed, "segmentation: bad container magic")
	}
	p = p[4:]
	version, p, err := readUint32(p)
	if err != nil {
		return Container{}, err
	}
	if version != containerVersion {
		return Container{}, ferrors.Newf(ferrors.InputMalformed, "segmentation: unsupported container version %d", version)
	}

	var c Container
	c.InputPath, p, err = readString(p)
	if err != nil {
		return Container{}, err
	}
	c.Alphabet, p, err = readBytes(p)
	if err != nil {
		return Container{}, err
	}
	c.MaxSegmentSize, p, err = readUint32(p)
	if err != nil {
		return Container{}, err
	}
	var count uint32
	count, p, err = readUint32(p)
	if err != nil {
		return Container{}, err
	}
	c.Segments = make([]Cell, count)
	for i := range c.Segments {
		var lb, rb, size uint32
		lb, p, err = readUint32(p)
		if err != nil {
			return Container{}, err
		}
		rb, p, err = readUint32(p)
		if err != nil {
			return Container{}, err
		}
		size, p, err = readUint32(p)
		if err != nil {
			return Container{}, err
		}
		c.Segments[i] = Cell{LB: lb, RB: rb, SegmentSize: size, SegmentMaxSize: c.MaxSegmentSize}
	}
	if len(p) != 0 {
		return Container{}, ferrors.New(ferrors.InputMalformed, "segmentation: trailing bytes after container body")
	}
	return c, nil
}

func appendUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendBytes(buf, v []byte) []byte {
	buf = appendUint32(buf, uint32(len(v)))
	return append(buf, v...)
}

func appendString(buf []byte, s string) []byte {
	return appendBytes(buf, []byte(s))
}

func readUint32(p []byte) (uint32, []byte, error) {
	if len(p) < 4 {
		return 0, nil, ferrors.New(ferrors.InputMalformed, "segmentation: container truncated reading uint32")
	}
	return binary.LittleEndian.Uint32(p[:4]), p[4:], nil
}

func readBytes(p []byte) ([]byte, []byte, error) {
	n, p, err := readUint32(p)
	if err != nil {
		return nil, nil, err
	}
	if uint32(len(p)) < n {
		return nil, nil, ferrors.New(ferrors.InputMalformed, "segmentation: container truncated reading bytes")
	}
	return p[:n], p[n:], nil
}

func readString(p []byte) (string, []byte, error) {
	b, p, err := readBytes(p)
	if err != nil {
		return "", nil, err
	}
	return string(b), p, nil
}
