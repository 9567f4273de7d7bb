package mesh

import "errors"

var (
	// ErrConnectivity reports an invalid connectivity or offset declaration:
	// a ragged or negative-valued neighbor table, or an offset whose declared
	// source/target dimensions do not match the registered connectivity.
	ErrConnectivity = errors.New("mesh: invalid connectivity")

	// ErrProvider reports an unusable offset-provider entry: a name that is
	// not registered, or a registered value that is neither a Dimension nor
	// a *Connectivity.
	ErrProvider = errors.New("mesh: invalid offset provider entry")

	// ErrClosedContext reports a resolve attempt against a context whose
	// outermost call has already returned.
	ErrClosedContext = errors.New("mesh: offset context is closed")
)
