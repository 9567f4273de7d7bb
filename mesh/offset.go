package mesh

import "fmt"

// FieldOffset is the named descriptor through which fields are remapped. Its
// source is the dimension consumed from the input field; its target lists the
// dimensions that replace it in the result. For a gather the target is the
// connectivity's row dimension optionally followed by one Local neighbor-slot
// dimension; for a shift along a regular axis source and target coincide.
type FieldOffset struct {
	name   string
	source Dimension
	target []Dimension
}

// NewFieldOffset validates and builds a FieldOffset. Every target dimension
// after the first must be Local: it denotes a neighbor slot, not a mesh axis.
func NewFieldOffset(name string, source Dimension, target ...Dimension) (*FieldOffset, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: offset name is required", ErrConnectivity)
	}
	if len(target) == 0 {
		return nil, fmt.Errorf("%w: offset %s declares no target dimension", ErrConnectivity, name)
	}
	for _, d := range target[1:] {
		if d.Kind != Local {
			return nil, fmt.Errorf("%w: offset %s target %s must be local, is %s",
				ErrConnectivity, name, d, d.Kind)
		}
	}
	return &FieldOffset{name: name, source: source, target: append([]Dimension(nil), target...)}, nil
}

// MustOffset is NewFieldOffset for package-level declarations; it panics on
// an invalid declaration.
func MustOffset(name string, source Dimension, target ...Dimension) *FieldOffset {
	o, err := NewFieldOffset(name, source, target...)
	if err != nil {
		panic(err)
	}
	return o
}

// Name returns the key under which providers register this offset.
func (o *FieldOffset) Name() string { return o.name }

// Source returns the dimension the offset consumes from the input field.
func (o *FieldOffset) Source() Dimension { return o.source }

// Target returns the dimensions the offset produces, first the mesh axis and
// then any Local neighbor-slot axis.
func (o *FieldOffset) Target() []Dimension {
	return append([]Dimension(nil), o.target...)
}

// target slot helpers used by the remap implementation.

// TargetAxis returns the mesh axis the offset maps onto.
func (o *FieldOffset) TargetAxis() Dimension { return o.target[0] }

// LocalAxis returns the neighbor-slot dimension and whether one is declared.
func (o *FieldOffset) LocalAxis() (Dimension, bool) {
	if len(o.target) < 2 {
		return Dimension{}, false
	}
	return o.target[1], true
}

func (o *FieldOffset) String() string { return o.name }

// At selects one neighbor slot (1-based) for a gather, or the shift distance
// for a regular-axis offset.
func (o *FieldOffset) At(index int) OffsetCall {
	return OffsetCall{offset: o, index: index, hasIndex: true}
}

// All requests the full neighbor table. Applied to a regular-axis offset it
// shifts by one.
func (o *FieldOffset) All() OffsetCall {
	return OffsetCall{offset: o}
}

// OffsetCall pairs a FieldOffset with an optional slot selection; it is the
// argument of a remap expression.
type OffsetCall struct {
	offset   *FieldOffset
	index    int
	hasIndex bool
}

// Offset returns the descriptor being applied.
func (c OffsetCall) Offset() *FieldOffset { return c.offset }

// Index returns the selected neighbor slot (or shift distance) and whether
// one was given.
func (c OffsetCall) Index() (int, bool) { return c.index, c.hasIndex }

func (c OffsetCall) String() string {
	if c.offset == nil {
		return "offset(?)"
	}
	if c.hasIndex {
		return fmt.Sprintf("%s[%d]", c.offset.name, c.index)
	}
	return c.offset.name
}
