package segmentation_test

import (
	"bytes"
	"testing"

	"github.com/grailbio/founder-sequences/segmentation"
	"github.com/stretchr/testify/require"
)

func TestContainerRoundTrip(t *testing.T) {
	c := segmentation.Container{
		InputPath:      "input.fasta",
		Alphabet:       []byte("ACGT"),
		MaxSegmentSize: 7,
		Segments: []segmentation.Cell{
			{LB: 0, RB: 10, SegmentSize: 5},
			{LB: 10, RB: 23, SegmentSize: 7},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, segmentation.WriteContainer(&buf, c))

	got, err := segmentation.ReadContainer(&buf)
	require.NoError(t, err)
	require.Equal(t, c.InputPath, got.InputPath)
	require.Equal(t, c.Alphabet, got.Alphabet)
	require.Equal(t, c.MaxSegmentSize, got.MaxSegmentSize)
	require.Len(t, got.Segments, 2)
	require.EqualValues(t, 0, got.Segments[0].LB)
	require.EqualValues(t, 10, got.Segments[0].RB)
	require.EqualValues(t, 5, got.Segments[0].SegmentSize)
}

func TestContainerRejectsCorruption(t *testing.T) {
	c := segmentation.Container{InputPath: "x", Alphabet: []byte("AC"), MaxSegmentSize: 1}
	var buf bytes.Buffer
	require.NoError(t, segmentation.WriteContainer(&buf, c))

	corrupted := buf.Bytes()
	corrupted[0] ^= 0xff
	_, err := segmentation.ReadContainer(bytes.NewReader(corrupted))
	require.Error(t, err)
}
