package manifest

import (
	"fmt"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/fieldgridgo/field"
	"github.com/vk/fieldgridgo/mesh"
)

func translateMesh(mb *meshSchema) (*Mesh, error) {
	m := &Mesh{
		Name:     mb.Name,
		Dims:     make(map[string]mesh.Dimension, len(mb.Dimensions)),
		Offsets:  make(map[string]*mesh.FieldOffset, len(mb.Offsets)),
		Provider: make(mesh.Provider, len(mb.Connectivities)+len(mb.Shifts)),
		Fields:   make(map[string]field.Value, len(mb.Fields)),
	}

	for _, db := range mb.Dimensions {
		if _, dup := m.Dims[db.Name]; dup {
			return nil, fmt.Errorf("mesh %q: dimension %q declared twice", mb.Name, db.Name)
		}
		kind, err := mesh.ParseKind(db.Kind)
		if err != nil {
			return nil, fmt.Errorf("mesh %q: dimension %q: %w", mb.Name, db.Name, err)
		}
		m.Dims[db.Name] = mesh.Dim(db.Name, kind)
	}

	for _, ob := range mb.Offsets {
		if _, dup := m.Offsets[ob.Name]; dup {
			return nil, fmt.Errorf("mesh %q: offset %q declared twice", mb.Name, ob.Name)
		}
		source, err := m.dim(ob.Source)
		if err != nil {
			return nil, fmt.Errorf("mesh %q: offset %q: %w", mb.Name, ob.Name, err)
		}
		target := make([]mesh.Dimension, len(ob.Target))
		for i, name := range ob.Target {
			if target[i], err = m.dim(name); err != nil {
				return nil, fmt.Errorf("mesh %q: offset %q: %w", mb.Name, ob.Name, err)
			}
		}
		offset, err := mesh.NewFieldOffset(ob.Name, source, target...)
		if err != nil {
			return nil, fmt.Errorf("mesh %q: %w", mb.Name, err)
		}
		m.Offsets[ob.Name] = offset
	}

	for _, cb := range mb.Connectivities {
		if _, dup := m.Provider[cb.Name]; dup {
			return nil, fmt.Errorf("mesh %q: offset name %q registered twice", mb.Name, cb.Name)
		}
		conn, err := translateConnectivity(m, cb)
		if err != nil {
			return nil, fmt.Errorf("mesh %q: connectivity %q: %w", mb.Name, cb.Name, err)
		}
		m.Provider[cb.Name] = conn
	}

	for _, sb := range mb.Shifts {
		if _, dup := m.Provider[sb.Name]; dup {
			return nil, fmt.Errorf("mesh %q: offset name %q registered twice", mb.Name, sb.Name)
		}
		d, err := m.dim(sb.Dimension)
		if err != nil {
			return nil, fmt.Errorf("mesh %q: shift %q: %w", mb.Name, sb.Name, err)
		}
		if offset, ok := m.Offsets[sb.Name]; ok {
			if offset.Source() != d || offset.TargetAxis() != d || len(offset.Target()) > 1 {
				return nil, fmt.Errorf("%w: mesh %q: offset %q declares %s -> %v but shifts along %s",
					mesh.ErrConnectivity, mb.Name, sb.Name, offset.Source(), offset.Target(), d)
			}
		}
		m.Provider[sb.Name] = d
	}

	for _, fb := range mb.Fields {
		if _, dup := m.Fields[fb.Name]; dup {
			return nil, fmt.Errorf("mesh %q: field %q declared twice", mb.Name, fb.Name)
		}
		f, err := translateField(m, fb)
		if err != nil {
			return nil, fmt.Errorf("mesh %q: field %q: %w", mb.Name, fb.Name, err)
		}
		m.Fields[fb.Name] = f
	}

	return m, nil
}

func (m *Mesh) dim(name string) (mesh.Dimension, error) {
	d, ok := m.Dims[name]
	if !ok {
		return mesh.Dimension{}, fmt.Errorf("unknown dimension %q", name)
	}
	return d, nil
}

func translateConnectivity(m *Mesh, cb *connectivitySchema) (*mesh.Connectivity, error) {
	source, err := m.dim(cb.Source)
	if err != nil {
		return nil, err
	}
	target, err := m.dim(cb.Target)
	if err != nil {
		return nil, err
	}

	var table [][]int
	if err := decodeExpression(cb.Table, cty.List(cty.List(cty.Number)), &table); err != nil {
		return nil, fmt.Errorf("table: %w", err)
	}
	conn, err := mesh.NewConnectivity(source, target, table)
	if err != nil {
		return nil, err
	}

	// A same-named offset declaration must agree with the table it will
	// resolve to; catching the mismatch here beats failing mid-gather.
	if offset, ok := m.Offsets[cb.Name]; ok {
		if offset.Source() != conn.Source() || offset.TargetAxis() != conn.Target() {
			return nil, fmt.Errorf("%w: offset %q declares %s -> %s but the table maps %s -> %s",
				mesh.ErrConnectivity, cb.Name, offset.Source(), offset.TargetAxis(), conn.Source(), conn.Target())
		}
	}
	return conn, nil
}

func translateField(m *Mesh, fb *fieldSchema) (field.Value, error) {
	// The type keyword names the abstract element kind, not a Go type.
	elem := fb.Type
	if elem == "" {
		elem = "float"
	}
	switch elem {
	case "float", "int", "bool":
	default:
		return nil, fmt.Errorf("unknown element type %q (want float, int or bool)", elem)
	}

	dims := make([]mesh.Dimension, len(fb.Dims))
	for i, name := range fb.Dims {
		var err error
		if dims[i], err = m.dim(name); err != nil {
			return nil, err
		}
	}

	opts, err := originOptions(m, fb.Origin, dims)
	if err != nil {
		return nil, err
	}

	// Absent expression attributes decode to null, not to a nil expression.
	values, diags := fb.Values.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("values: %w", diags)
	}
	zeros, diags := fb.Zeros.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("zeros: %w", diags)
	}

	switch {
	case !values.IsNull() && !zeros.IsNull():
		return nil, fmt.Errorf("values and zeros are mutually exclusive")
	case !zeros.IsNull():
		var lens []int
		if err := decodeValue(zeros, cty.List(cty.Number), &lens); err != nil {
			return nil, fmt.Errorf("zeros: %w", err)
		}
		if len(lens) != len(dims) {
			return nil, fmt.Errorf("zeros names %d lengths for %d dimensions", len(lens), len(dims))
		}
		switch elem {
		case "int":
			return field.Zeros[int64](dims, lens, opts...)
		case "bool":
			return field.Zeros[bool](dims, lens, opts...)
		default:
			return field.Zeros[float64](dims, lens, opts...)
		}
	case !values.IsNull():
		lens, leaves, err := flattenValues(values, len(dims))
		if err != nil {
			return nil, fmt.Errorf("values: %w", err)
		}
		switch elem {
		case "int":
			return buildField[int64](dims, lens, leaves, cty.Number, opts)
		case "bool":
			return buildField[bool](dims, lens, leaves, cty.Bool, opts)
		default:
			return buildField[float64](dims, lens, leaves, cty.Number, opts)
		}
	default:
		return nil, fmt.Errorf("one of values or zeros is required")
	}
}

func originOptions(m *Mesh, expr hcl.Expression, dims []mesh.Dimension) ([]field.Option, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("origin: %w", diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	var origins map[string]int
	if err := decodeValue(val, cty.Map(cty.Number), &origins); err != nil {
		return nil, fmt.Errorf("origin: %w", err)
	}
	opts := make([]field.Option, 0, len(origins))
	for name, origin := range origins {
		d, err := m.dim(name)
		if err != nil {
			return nil, fmt.Errorf("origin: %w", err)
		}
		if !slices.Contains(dims, d) {
			return nil, fmt.Errorf("origin names %s, which is not a field dimension", d)
		}
		opts = append(opts, field.WithOrigin(d, origin))
	}
	return opts, nil
}

// decodeExpression evaluates a literal manifest expression, converts it to
// the wanted cty type and decodes it into the Go target. Absent attributes
// evaluate to null and are rejected here.
func decodeExpression(expr hcl.Expression, want cty.Type, target any) error {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return fmt.Errorf("%w", diags)
	}
	if val.IsNull() {
		return fmt.Errorf("a value is required")
	}
	return decodeValue(val, want, target)
}

func decodeValue(val cty.Value, want cty.Type, target any) error {
	converted, err := convert.Convert(val, want)
	if err != nil {
		return err
	}
	return gocty.FromCtyValue(converted, target)
}

// flattenValues walks a nested literal list, checking that its nesting depth
// matches the field rank and that every level is rectangular, and returns
// the per-axis lengths with the leaves in row-major order.
func flattenValues(val cty.Value, rank int) ([]int, []cty.Value, error) {
	if rank == 0 {
		return nil, []cty.Value{val}, nil
	}
	if !val.CanIterateElements() {
		return nil, nil, fmt.Errorf("expected %d levels of list nesting, found a bare value", rank)
	}

	lens := []int{val.LengthInt()}
	var innerLens []int
	var leaves []cty.Value
	first := true
	for it := val.ElementIterator(); it.Next(); {
		_, element := it.Element()
		sub, subLeaves, err := flattenValues(element, rank-1)
		if err != nil {
			return nil, nil, err
		}
		if first {
			innerLens = sub
			first = false
		} else if !slices.Equal(sub, innerLens) {
			return nil, nil, fmt.Errorf("ragged values: rows of %v and %v elements", innerLens, sub)
		}
		leaves = append(leaves, subLeaves...)
	}
	if first {
		// An empty axis still contributes rank-1 inner lengths of zero.
		innerLens = make([]int, rank-1)
	}
	return append(lens, innerLens...), leaves, nil
}

func buildField[T field.Elem](dims []mesh.Dimension, lens []int, leaves []cty.Value, want cty.Type, opts []field.Option) (field.Value, error) {
	data := make([]T, len(leaves))
	for i, leaf := range leaves {
		converted, err := convert.Convert(leaf, want)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i+1, err)
		}
		if err := gocty.FromCtyValue(converted, &data[i]); err != nil {
			return nil, fmt.Errorf("element %d: %w", i+1, err)
		}
	}
	return field.NewShaped(dims, lens, data, opts...)
}
