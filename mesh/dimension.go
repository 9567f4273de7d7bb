package mesh

import "fmt"

// Kind classifies the role a dimension plays on a mesh.
type Kind int

const (
	// Horizontal dimensions index mesh elements such as cells, edges or
	// vertices of the unstructured grid.
	Horizontal Kind = iota
	// Vertical dimensions index regularly spaced levels or layers.
	Vertical
	// Local dimensions index the neighbor slots produced by a gather; they
	// never denote a mesh axis of their own.
	Local
)

// String returns the lowercase kind name used in manifests and diagnostics.
func (k Kind) String() string {
	switch k {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case Local:
		return "local"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind converts a manifest kind keyword into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "horizontal":
		return Horizontal, nil
	case "vertical":
		return Vertical, nil
	case "local":
		return Local, nil
	default:
		return 0, fmt.Errorf("unknown dimension kind %q (want horizontal, vertical or local)", s)
	}
}

// Dimension tags one logical axis by name and kind. Dimensions are plain
// comparable values: two dimensions denote the same axis iff both name and
// kind match, so a manifest-built dimension and a package-level declaration
// interoperate without any registration step.
type Dimension struct {
	Name string
	Kind Kind
}

// Dim is a shorthand constructor for declaring dimensions as package vars.
func Dim(name string, kind Kind) Dimension {
	return Dimension{Name: name, Kind: kind}
}

// Dims collects dimensions into an ordered axis list.
func Dims(ds ...Dimension) []Dimension {
	return append([]Dimension(nil), ds...)
}

func (d Dimension) String() string { return d.Name }

// offsetEntry marks Dimension as a value an offset name may resolve to.
func (Dimension) offsetEntry() {}
