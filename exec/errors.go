package exec

import "errors"

var (
	// ErrMissingOut reports an outermost call made without an output
	// target. The outermost call owns materialization; there is nowhere
	// else for its result to go.
	ErrMissingOut = errors.New("exec: outermost call requires an out target")

	// ErrNestedCall reports out, offset_provider or backend supplied on a
	// nested call. A nested call runs against the context its outermost
	// caller opened; accepting any of the three would let it open a
	// second, conflicting one.
	ErrNestedCall = errors.New("exec: nested call must not carry out, offset_provider or backend")

	// ErrBackend reports a backend identifier with no registered execution
	// strategy.
	ErrBackend = errors.New("exec: unknown backend")
)
