package field

import "errors"

// Sentinel errors for the failure classes of the value algebra. Callers
// classify with errors.Is; messages carry the concrete detail.
var (
	// ErrShape reports a rank, dimension or window mismatch: wrong number
	// of indices, incompatible dimension orders, or an empty promoted
	// window.
	ErrShape = errors.New("field: shape mismatch")

	// ErrIndex reports an external index outside the valid window of its
	// axis, including connectivity entries that point past the stored
	// window of a gathered field.
	ErrIndex = errors.New("field: index out of range")

	// ErrType reports an element-type violation: mixed-dtype arithmetic,
	// division on non-float fields, reductions over booleans, or a
	// non-boolean selection mask.
	ErrType = errors.New("field: element type mismatch")

	// ErrTuple reports structurally incongruent tuple arguments.
	ErrTuple = errors.New("field: incongruent tuples")

	// ErrNoContext reports a remap attempted outside any mesh context.
	ErrNoContext = errors.New("field: no mesh context")
)
