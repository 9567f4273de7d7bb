package field

import (
	"context"
	"fmt"

	"github.com/vk/fieldgridgo/mesh"
)

// Remap applies an offset call to a field, resolving the offset name against
// the mesh context carried by ctx. An offset that resolves to a dimension
// shifts that axis's origin by the call index (one when absent). An offset
// that resolves to a connectivity gathers neighbor values: the full call
// f(E2C) appends the offset's local axis over all neighbor slots, while the
// indexed call f(E2C[k]) selects the 1-based slot k.
//
// Gathers are pure: the result never aliases the input. Sentinel entries
// yield the element type's zero value; entries outside the gathered axis's
// window fail with ErrIndex and no partial result.
func Remap(ctx context.Context, v Value, call mesh.OffsetCall) (Value, error) {
	mctx, ok := mesh.FromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("%w: remap %s outside an operator invocation", ErrNoContext, call)
	}
	off := call.Offset()
	if off == nil {
		return nil, fmt.Errorf("%w: remap without an offset", mesh.ErrProvider)
	}
	entry, err := mctx.Resolve(off.Name())
	if err != nil {
		return nil, err
	}

	switch e := entry.(type) {
	case mesh.Dimension:
		amount := 1
		if k, ok := call.Index(); ok {
			amount = k
		}
		switch x := v.(type) {
		case *Field[float64]:
			return shiftField(x, off, e, amount)
		case *Field[int64]:
			return shiftField(x, off, e, amount)
		case *Field[bool]:
			return shiftField(x, off, e, amount)
		default:
			return nil, fmt.Errorf("%w: remap is not defined on %s", ErrType, TypeName(v))
		}
	case *mesh.Connectivity:
		switch x := v.(type) {
		case *Field[float64]:
			return gatherField(x, off, e, call)
		case *Field[int64]:
			return gatherField(x, off, e, call)
		case *Field[bool]:
			return gatherField(x, off, e, call)
		default:
			return nil, fmt.Errorf("%w: remap is not defined on %s", ErrType, TypeName(v))
		}
	default:
		return nil, fmt.Errorf("%w: offset %s resolved to unsupported entry %T", mesh.ErrProvider, off.Name(), entry)
	}
}

// shiftField moves the origin of one axis, relabeling the field's window
// without touching storage. The shifted field shares data with its input.
func shiftField[T Elem](f *Field[T], off *mesh.FieldOffset, d mesh.Dimension, amount int) (*Field[T], error) {
	if _, local := off.LocalAxis(); off.Source() != d || off.TargetAxis() != d || local {
		return nil, fmt.Errorf("%w: offset %s resolves to axis %s but declares source %s and target %v",
			mesh.ErrConnectivity, off.Name(), d, off.Source(), off.Target())
	}
	axis := dimIndex(f.dims, d)
	if axis < 0 {
		return nil, fmt.Errorf("%w: field %v has no %s axis to shift through %s", ErrShape, f.dims, d, off.Name())
	}
	g := *f
	g.origin = append([]int(nil), f.origin...)
	g.origin[axis] += amount
	return &g, nil
}

// gatherField replaces the source axis of f with the connectivity's target
// axis (and, for a full gather, the offset's local axis) by looking up each
// table entry in the source window.
func gatherField[T Elem](f *Field[T], off *mesh.FieldOffset, conn *mesh.Connectivity, call mesh.OffsetCall) (*Field[T], error) {
	if off.Source() != conn.Source() || off.TargetAxis() != conn.Target() {
		return nil, fmt.Errorf("%w: offset %s declares %s -> %s but resolves to connectivity %s -> %s",
			mesh.ErrConnectivity, off.Name(), off.Source(), off.TargetAxis(), conn.Source(), conn.Target())
	}
	srcAxis := dimIndex(f.dims, conn.Source())
	if srcAxis < 0 {
		return nil, fmt.Errorf("%w: field %v has no %s axis to gather through %s", ErrShape, f.dims, conn.Source(), off.Name())
	}
	if dimIndex(f.dims, conn.Target()) >= 0 {
		return nil, fmt.Errorf("%w: gather through %s would duplicate axis %s", ErrShape, off.Name(), conn.Target())
	}

	slot, hasSlot := call.Index()
	local, hasLocal := off.LocalAxis()
	if hasSlot {
		if slot < 1 || slot > conn.MaxNeighbors() {
			return nil, fmt.Errorf("%w: slot %d of %s, table has %d neighbor slots", ErrIndex, slot, off.Name(), conn.MaxNeighbors())
		}
	} else if !hasLocal {
		return nil, fmt.Errorf("%w: full gather through %s requires a local target dimension", mesh.ErrConnectivity, off.Name())
	} else if dimIndex(f.dims, local) >= 0 {
		return nil, fmt.Errorf("%w: gather through %s would duplicate axis %s", ErrShape, off.Name(), local)
	}

	// Build the result space, aligning the input strides to it; the source
	// axis contributes per element via the table entry instead.
	var (
		outDims   []mesh.Dimension
		outLens   []int
		outOrigin []int
		inStrides []int
	)
	for axis, d := range f.dims {
		if axis == srcAxis {
			outDims = append(outDims, conn.Target())
			outLens = append(outLens, conn.Rows())
			outOrigin = append(outOrigin, 0)
			inStrides = append(inStrides, 0)
			if !hasSlot {
				outDims = append(outDims, local)
				outLens = append(outLens, conn.MaxNeighbors())
				outOrigin = append(outOrigin, 0)
				inStrides = append(inStrides, 0)
			}
			continue
		}
		outDims = append(outDims, d)
		outLens = append(outLens, f.lens[axis])
		outOrigin = append(outOrigin, f.origin[axis])
		inStrides = append(inStrides, f.strides[axis])
	}

	total := 1
	for _, l := range outLens {
		total *= l
	}
	out := make([]T, total)
	if total > 0 {
		cur := newCursor(outLens, [][]int{inStrides}, []int{f.off})
		srcStride := f.strides[srcAxis]
		for n := range out {
			row := cur.coords[srcAxis]
			k := slot - 1
			if !hasSlot {
				k = cur.coords[srcAxis+1]
			}
			if e := conn.Entry(row, k); e != mesh.Sentinel {
				s, err := f.index(srcAxis, e)
				if err != nil {
					return nil, fmt.Errorf("%s row %d slot %d: %w", off.Name(), row+1, k+1, err)
				}
				out[n] = f.data[cur.offsets[0]+s*srcStride]
			}
			cur.next()
		}
	}
	return &Field[T]{
		dims:    outDims,
		lens:    outLens,
		strides: contiguousStrides(outLens),
		origin:  outOrigin,
		bcast:   append([]mesh.Dimension(nil), outDims...),
		data:    out,
	}, nil
}
