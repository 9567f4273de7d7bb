// Package field implements the value algebra of the stencil runtime: dense
// arrays tagged with ordered mesh dimensions, per-axis origin offsets and a
// broadcast-dimension set, together with the operations stencil bodies are
// written in: elementwise arithmetic and comparison, remapping through field
// offsets (axis shifts and neighbor gathers), axis-collapsing reductions,
// masked selection and broadcasting.
//
// External indices are 1-based at origin zero, matching the 1-based ids used
// in connectivity tables; an origin of n shifts the valid window of an axis
// of length l to [n+1, n+l]. The translation from external index to storage
// coordinate happens in exactly one place and is applied uniformly at the
// field boundary.
//
// Fields are immutable values once constructed, with one deliberate
// exception: Set exists so that callers can fill freshly allocated output
// buffers. Slicing returns views that share storage with their base field.
//
// The dynamic Value interface unifies the three field element types and
// tuples; it is what builtin operators and the invocation controller accept.
package field
