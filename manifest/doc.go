// Package manifest loads mesh manifests: HCL documents declaring the
// dimensions, offsets, connectivities and fields of one or more meshes,
// together with run blocks naming the operator invocations to perform
// against them.
//
// The loader translates the HCL schema into the runtime's domain values. A
// mesh block becomes a validated offset provider plus a set of named fields;
// a run block stays symbolic (operator, argument and output names) and is
// resolved by the caller against its operator catalog.
package manifest
