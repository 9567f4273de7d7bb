package field

import (
	"fmt"
	"strings"

	"github.com/vk/fieldgridgo/mesh"
)

// Value is the dynamic union the builtins and the invocation controller
// operate on: a Field of any supported element type, or a Tuple of values.
// The union is closed; external packages consume values through type
// switches on *Field[float64], *Field[int64], *Field[bool] and Tuple.
type Value interface {
	// Dims returns the ordered dimensions; nil for tuples.
	Dims() []mesh.Dimension
	// BroadcastDims returns the broadcast set; nil for tuples.
	BroadcastDims() []mesh.Dimension

	value()
}

func (f *Field[T]) value() {}

// Tuple groups values positionally. Tuples nest; they carry no dimensions of
// their own.
type Tuple []Value

// Dims implements Value; tuples have no axes.
func (Tuple) Dims() []mesh.Dimension { return nil }

// BroadcastDims implements Value; tuples have no broadcast set.
func (Tuple) BroadcastDims() []mesh.Dimension { return nil }

func (Tuple) value() {}

func (t Tuple) String() string {
	parts := make([]string, len(t))
	for i, v := range t {
		parts[i] = fmt.Sprint(v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// TypeName names the element type of a value for diagnostics: "float64",
// "int64", "bool" or "tuple".
func TypeName(v Value) string {
	switch v.(type) {
	case *Field[float64]:
		return "float64"
	case *Field[int64]:
		return "int64"
	case *Field[bool]:
		return "bool"
	case Tuple:
		return "tuple"
	default:
		return fmt.Sprintf("%T", v)
	}
}
