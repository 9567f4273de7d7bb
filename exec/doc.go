// Package exec wraps compiled stencil computations as operator values and
// controls their invocation. An operator call is either outermost or nested:
// the outermost call owns the offset-provider context for its whole call
// tree and materializes the computed result into a caller-supplied output
// buffer, while a nested call (one made from inside another operator's body)
// reuses the active context and returns its value directly.
//
// How an operator body runs is decided by a backend selected per call from a
// registry. The embedded backend evaluates the body in process and is always
// available; other backends delegate to an external execution collaborator
// and receive the operator's captured names through a ClosureExtractor.
package exec
