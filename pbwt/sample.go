package pbwt

import (
	"github.com/golang/snappy"
	"github.com/grailbio/founder-sequences/ferrors"
	"github.com/pkg/errors"
)

// Sample is a snapshot of a Context at a given column, capturing a and d.
// Divergence-value counts are not retained; callers that need them after a
// replay call SetTrackCounts(true) on the replayed context, which rebuilds
// the map from d.
//
// The snapshot's a/d payload is Snappy-compressed in memory: samples are
// retained for the whole run, and for large N compressing the
// mostly-monotonic-run divergence array trades a modest CPU cost for a
// real memory saving.
type Sample struct {
	Column  int
	n       int
	aPacked []byte
	dPacked []byte
}

func packUint32s(vs []uint32) []byte {
	raw := make([]byte, 4*len(vs))
	for i, v := range vs {
		raw[4*i] = byte(v)
		raw[4*i+1] = byte(v >> 8)
		raw[4*i+2] = byte(v >> 16)
		raw[4*i+3] = byte(v >> 24)
	}
	return snappy.Encode(nil, raw)
}

func unpackUint32s(packed []byte, n int) ([]uint32, error) {
	raw, err := snappy.Decode(nil, packed)
	if err != nil {
		return nil, errors.Wrap(err, "pbwt: decompressing sample")
	}
	if len(raw) != 4*n {
		return nil, errors.Wrap(ferrors.New(ferrors.Internal, "pbwt: sample length mismatch"), "pbwt")
	}
	out := make([]uint32, n)
	for i := range out {
		out[i] = uint32(raw[4*i]) | uint32(raw[4*i+1])<<8 | uint32(raw[4*i+2])<<16 | uint32(raw[4*i+3])<<24
	}
	return out, nil
}

// snapshot captures c's current a/d arrays into a Sample.
func snapshot(c *Context) Sample {
	return Sample{
		Column:  c.col,
		n:       len(c.a),
		aPacked: packUint32s(c.a),
		dPacked: packUint32s(c.d),
	}
}

// Restore decompresses the sample's a/d arrays.
func (s Sample) Restore() (a, d []uint32, err error) {
	a, err = unpackUint32s(s.aPacked, s.n)
	if err != nil {
		return nil, nil, err
	}
	d, err = unpackUint32s(s.dPacked, s.n)
	if err != nil {
		return nil, nil, err
	}
	return a, d, nil
}

// Sampler wraps a Context and a sample rate, recording periodic Samples as
// the context steps forward.
type Sampler struct {
	ctx     *Context
	rate    int // sample every `rate` columns; 0 disables sampling.
	Samples []Sample
}

// NewSampler constructs a Sampler over a freshly-prepared context. rate is
// the sampling cadence in columns (typically sqrt(n)*multiplier, computed
// by the caller); 0 disables sampling entirely.
func NewSampler(ctx *Context, rate int) *Sampler {
	return &Sampler{ctx: ctx, rate: rate}
}

// Context returns the wrapped PBWT context.
func (s *Sampler) Context() *Context { return s.ctx }

// Process advances the context until its column equals until, invoking
// onColumn after each step and recording a sample whenever the resulting
// column is a multiple of the sample rate. The column-0 snapshot is
// recorded on the first call so a replay base exists for every target
// column.
func (s *Sampler) Process(until int, onColumn func(column int)) error {
	if s.rate > 0 && len(s.Samples) == 0 && s.ctx.Column() == 0 {
		s.Samples = append(s.Samples, snapshot(s.ctx))
	}
	for s.ctx.Column() < until {
		if err := s.ctx.Step(); err != nil {
			return errors.Wrapf(err, "pbwt: stepping to column %d", until)
		}
		col := s.ctx.Column()
		if onColumn != nil {
			onColumn(col)
		}
		if s.rate > 0 && col%s.rate == 0 {
			s.Samples = append(s.Samples, snapshot(s.ctx))
		}
	}
	return nil
}

// AdvanceSample replays from sample to toColumn, returning a fresh context
// positioned at toColumn. Divergence-count tracking is disabled during
// replay and left disabled on return; callers that need counts call
// SetTrackCounts(true) explicitly.
func AdvanceSample(matrix Matrix, sample Sample, toColumn int) (*Context, error) {
	if toColumn < sample.Column {
		return nil, errors.Wrapf(ferrors.New(ferrors.Internal, "pbwt: replay target precedes sample"), "pbwt: column %d < sample column %d", toColumn, sample.Column)
	}
	a, d, err := sample.Restore()
	if err != nil {
		return nil, err
	}
	ctx := NewContext(matrix, false)
	ctx.a = a
	ctx.d = d
	ctx.col = sample.Column
	ctx.state = StateQueryable
	if sample.Column == 0 {
		ctx.state = StateReady
	}
	for ctx.col < toColumn {
		if err := ctx.Step(); err != nil {
			return nil, errors.Wrapf(err, "pbwt: replaying to column %d", toColumn)
		}
	}
	return ctx, nil
}

// InitialSample returns the Sample a freshly prepared (unstepped) context
// over matrix would produce: identity permutation, all-zero divergence, at
// column 0. Replaying an already-known segmentation (no PBWT samples were
// retained alongside it) starts every AdvanceSample call from here.
func InitialSample(matrix Matrix) Sample {
	ctx := NewContext(matrix, false)
	ctx.Prepare()
	return snapshot(ctx)
}

// NearestSampleAtOrBefore returns the index of the last sample in samples
// (sorted ascending by Column) whose Column is <= target, or -1 if none
// qualifies.
func NearestSampleAtOrBefore(samples []Sample, target int) int {
	best := -1
	for i, s := range samples {
		if s.Column <= target {
			best = i
		} else {
			break
		}
	}
	return best
}
