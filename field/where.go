package field

import (
	"fmt"

	"github.com/vk/fieldgridgo/mesh"
)

// Where selects elementwise between a and b under a boolean mask: true picks
// from a, false from b. Mask and branches are promoted to a common shape.
// Tuple branches must be congruent and are selected element by element with
// the same mask; a tuple may not pair with a field.
func Where(mask, a, b Value) (Value, error) {
	m, ok := mask.(*Field[bool])
	if !ok {
		return nil, fmt.Errorf("%w: where mask must be a bool field, got %s", ErrType, TypeName(mask))
	}
	return whereValue(m, a, b)
}

func whereValue(m *Field[bool], a, b Value) (Value, error) {
	at, aTuple := a.(Tuple)
	bt, bTuple := b.(Tuple)
	switch {
	case aTuple != bTuple:
		return nil, fmt.Errorf("%w: where branches pair %s with %s", ErrTuple, TypeName(a), TypeName(b))
	case aTuple:
		if len(at) != len(bt) {
			return nil, fmt.Errorf("%w: where branches have %d and %d elements", ErrTuple, len(at), len(bt))
		}
		out := make(Tuple, len(at))
		for i := range at {
			v, err := whereValue(m, at[i], bt[i])
			if err != nil {
				return nil, fmt.Errorf("tuple element %d: %w", i, err)
			}
			out[i] = v
		}
		return out, nil
	}

	switch x := a.(type) {
	case *Field[float64]:
		y, ok := b.(*Field[float64])
		if !ok {
			return nil, opTypeErr("where", a, b)
		}
		return zip3(m, x, y, func(c bool, p, q float64) float64 {
			if c {
				return p
			}
			return q
		})
	case *Field[int64]:
		y, ok := b.(*Field[int64])
		if !ok {
			return nil, opTypeErr("where", a, b)
		}
		return zip3(m, x, y, func(c bool, p, q int64) int64 {
			if c {
				return p
			}
			return q
		})
	case *Field[bool]:
		y, ok := b.(*Field[bool])
		if !ok {
			return nil, opTypeErr("where", a, b)
		}
		return zip3(m, x, y, func(c, p, q bool) bool {
			if c {
				return p
			}
			return q
		})
	default:
		return nil, fmt.Errorf("%w: where is not defined on %s", ErrType, TypeName(a))
	}
}

// Broadcast widens a field's broadcast-dimension set so it can participate
// in elementwise operations over the given axes. The set must cover every
// axis the field already has, in a compatible order. The data is untouched.
func Broadcast(v Value, dims ...mesh.Dimension) (Value, error) {
	switch x := v.(type) {
	case *Field[float64]:
		return x.BroadcastTo(dims...)
	case *Field[int64]:
		return x.BroadcastTo(dims...)
	case *Field[bool]:
		return x.BroadcastTo(dims...)
	default:
		return nil, fmt.Errorf("%w: broadcast is not defined on %s", ErrType, TypeName(v))
	}
}
