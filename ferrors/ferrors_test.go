package ferrors_test

import (
	"testing"

	"github.com/grailbio/founder-sequences/ferrors"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestIsAfterWrap(t *testing.T) {
	base := ferrors.New(ferrors.NotReducible, "max segment size >= N")
	wrapped := errors.Wrap(base, "generating traceback")
	require.True(t, ferrors.Is(wrapped, ferrors.NotReducible))
	require.False(t, ferrors.Is(wrapped, ferrors.ConfigInvalid))
}

func TestNewf(t *testing.T) {
	err := ferrors.Newf(ferrors.ConfigInvalid, "segment length %d must be > 0", 0)
	require.EqualError(t, err, "config invalid: segment length 0 must be > 0")
}

func TestIsNil(t *testing.T) {
	require.False(t, ferrors.Is(nil, ferrors.Internal))
}
