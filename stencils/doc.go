// Package stencils declares the canonical dimension and offset vocabulary
// and a catalog of built-in operators over it. The catalog covers the common
// unstructured-mesh motions (slot gathers, neighborhood reductions) and two
// pointwise demos; manifests bind its operator names to concrete meshes.
package stencils
