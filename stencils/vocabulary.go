package stencils

import (
	"sort"

	"github.com/vk/fieldgridgo/mesh"
)

// Canonical dimensions. Cell, Edge and Vertex index unstructured mesh
// elements, K indexes vertical levels, and the *Dim locals index the
// neighbor slots produced by the gather offsets below.
var (
	Cell   = mesh.Dim("Cell", mesh.Horizontal)
	Edge   = mesh.Dim("Edge", mesh.Horizontal)
	Vertex = mesh.Dim("Vertex", mesh.Horizontal)
	K      = mesh.Dim("K", mesh.Vertical)

	E2CDim = mesh.Dim("E2CDim", mesh.Local)
	V2EDim = mesh.Dim("V2EDim", mesh.Local)
)

// Canonical offsets. E2C gathers cell values onto edges and V2E gathers edge
// values onto vertices; Koff shifts along the vertical axis.
var (
	E2C  = mesh.MustOffset("E2C", Cell, Edge, E2CDim)
	V2E  = mesh.MustOffset("V2E", Edge, Vertex, V2EDim)
	Koff = mesh.MustOffset("Koff", K, K)
)

// Vocabulary returns the sorted names an operator source form may reference
// without capturing them. It seeds the closure extractor for operators built
// on the canonical vocabulary.
func Vocabulary() []string {
	names := []string{
		Cell.Name, Edge.Name, Vertex.Name, K.Name,
		E2CDim.Name, V2EDim.Name,
		E2C.Name(), V2E.Name(), Koff.Name(),
	}
	sort.Strings(names)
	return names
}
