package manifest

import "github.com/hashicorp/hcl/v2"

// documentSchema is the top-level structure of a manifest file.
type documentSchema struct {
	Meshes []*meshSchema `hcl:"mesh,block"`
	Runs   []*runSchema  `hcl:"run,block"`
	Remain hcl.Body      `hcl:",remain"`
}

// meshSchema declares one mesh: its dimension vocabulary, the offsets fields
// can be remapped through, the provider entries those offsets resolve to
// (connectivity tables and axis shifts), and the named data fields.
type meshSchema struct {
	Name           string                `hcl:"name,label"`
	Dimensions     []*dimensionSchema    `hcl:"dimension,block"`
	Offsets        []*offsetSchema       `hcl:"offset,block"`
	Connectivities []*connectivitySchema `hcl:"connectivity,block"`
	Shifts         []*shiftSchema        `hcl:"shift,block"`
	Fields         []*fieldSchema        `hcl:"field,block"`
}

type dimensionSchema struct {
	Name string `hcl:"name,label"`
	Kind string `hcl:"kind"`
}

type offsetSchema struct {
	Name   string   `hcl:"name,label"`
	Source string   `hcl:"source"`
	Target []string `hcl:"target"`
}

// connectivitySchema registers a neighbor table under an offset name. The
// table expression must evaluate to a rectangular list of integer lists,
// rows indexed by target element, entries 1-based source ids with 0 as the
// no-neighbor sentinel.
type connectivitySchema struct {
	Name   string         `hcl:"name,label"`
	Source string         `hcl:"source"`
	Target string         `hcl:"target"`
	Table  hcl.Expression `hcl:"table"`
}

// shiftSchema registers a plain dimension under an offset name, for offsets
// that move along a regularly indexed axis instead of gathering neighbors.
type shiftSchema struct {
	Name      string `hcl:"name,label"`
	Dimension string `hcl:"dimension"`
}

// fieldSchema declares a named data field. Exactly one of values (nested
// literal data, nesting depth = rank) or zeros (per-axis lengths of a
// zero-initialized buffer) must be set.
type fieldSchema struct {
	Name   string         `hcl:"name,label"`
	Dims   []string       `hcl:"dims"`
	Type   string         `hcl:"type,optional"`
	Values hcl.Expression `hcl:"values,optional"`
	Zeros  hcl.Expression `hcl:"zeros,optional"`
	Origin hcl.Expression `hcl:"origin,optional"`
}

// runSchema names one outermost operator invocation: the operator to call,
// the fields passed as arguments and the field the result is written to,
// all resolved by name at execution time. The mesh attribute may be omitted
// in single-mesh documents.
type runSchema struct {
	Name     string   `hcl:"name,label"`
	Mesh     string   `hcl:"mesh,optional"`
	Operator string   `hcl:"operator"`
	Args     []string `hcl:"args"`
	Out      string   `hcl:"out"`
}
