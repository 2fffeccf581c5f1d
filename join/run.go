package join

import (
	"github.com/grailbio/founder-sequences/ferrors"
	"github.com/grailbio/founder-sequences/segmentation"
)

// Run builds the per-segment substring classes, apportions their copy
// numbers, and dispatches to the configured joining discipline, returning
// the bit-packed founder permutation matrix plus the (apportioned)
// segments themselves, which the output writer's segment listing also
// needs.
func Run(cfg Config, advanced []segmentation.AdvancedSample, numRows int, K uint32) (Permutation, []Segment, error) {
	if err := cfg.Validate(); err != nil {
		return Permutation{}, nil, err
	}
	if len(advanced) == 0 {
		return Permutation{}, nil, ferrors.New(ferrors.Internal, "join: no segments to join")
	}

	segs := BuildSegments(advanced)
	if err := Apportion(segs, K); err != nil {
		return Permutation{}, nil, err
	}

	var (
		cols [][]uint32
		err  error
	)
	switch cfg.Method {
	case MethodPBWTOrder:
		cols, err = PBWTOrder(segs, K)
	case MethodRandom:
		cols = Random(segs, K, cfg.RandomSeed)
	case MethodGreedy:
		cols, err = Greedy(segs, K, numRows)
	case MethodBipartite:
		cols, err = Bipartite(segs, K, cfg.SetScoring)
	default:
		err = ferrors.Newf(ferrors.ConfigInvalid, "join: unknown method %d", cfg.Method)
	}
	if err != nil {
		return Permutation{}, nil, err
	}

	perm, err := NewPermutation(cols, K)
	if err != nil {
		return Permutation{}, nil, err
	}
	return perm, segs, nil
}
