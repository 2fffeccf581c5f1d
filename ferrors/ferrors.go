// Package ferrors defines the error kinds shared across the founder-sequences
// core. Every package wraps these with github.com/pkg/errors at its API
// boundary; only the CLI layer inspects kinds and exits non-zero.
package ferrors

import "github.com/pkg/errors"

// Kind classifies an error for the CLI layer.
type Kind int

const (
	// Internal indicates an invariant violation; it should never occur in a
	// correct build and signals a bug rather than bad input.
	Internal Kind = iota
	// InputMalformed indicates the sequence source was unreadable or
	// ill-formed (unequal lengths, empty input).
	InputMalformed
	// ConfigInvalid indicates an invalid combination of configuration
	// parameters (e.g. bipartite set scoring without bipartite joining).
	ConfigInvalid
	// NotReducible indicates the DP-computed founder count K is not smaller
	// than the input sequence count N.
	NotReducible
)

func (k Kind) String() string {
	switch k {
	case InputMalformed:
		return "input malformed"
	case ConfigInvalid:
		return "config invalid"
	case NotReducible:
		return "not reducible"
	default:
		return "internal error"
	}
}

// Error is a kinded error value.
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string { return e.Kind.String() + ": " + e.msg }

// New constructs a kinded error with a message, ready to be wrapped by
// github.com/pkg/errors at the caller's boundary.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, msg: msg}
}

// Newf is New with fmt-style formatting.
func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, msg: errors.Errorf(format, args...).Error()}
}

// Is reports whether err (or anything it wraps, per errors.Cause) carries
// the given kind.
func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	if e, ok := errors.Cause(err).(*Error); ok {
		return e.Kind == kind
	}
	return false
}
