// Package mesh defines the topology vocabulary of the stencil runtime:
// logical dimensions, named field offsets, neighbor connectivities, and the
// offset-provider context that binds offset names to concrete connectivities
// for the duration of one outermost operator call.
//
// Everything in this package is a plain immutable value once constructed.
// Dimensions are comparable tags; connectivities own a private copy of their
// neighbor table. The only stateful type is Context, which is created and
// closed by the invocation controller and is not safe for concurrent use.
//
// Neighbor tables use 1-based entries; the entry 0 is the canonical sentinel
// meaning "no neighbor at this slot". Negative entries are rejected.
package mesh
