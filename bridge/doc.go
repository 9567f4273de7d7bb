// Package bridge dispatches operator calls to an external execution service
// over HTTP. It is the reference client for the backend wire contract: one
// POST per outermost call carrying the operator's source form, its captured
// environment, the arguments, the output shape and the offset provider, one
// JSON reply carrying the materialized outputs. ReplayHandler is the matching
// in-process server, used to verify that a remote execution produces exactly
// what the embedded backend produces.
package bridge
