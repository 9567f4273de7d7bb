package field

import (
	"fmt"

	"github.com/vk/fieldgridgo/mesh"
)

// Sel selects part of one axis. Span keeps a window of external indices and
// the axis itself; Pick fixes one external index and drops the axis.
type Sel struct {
	dim   mesh.Dimension
	first int
	last  int
	pick  bool
}

// Span selects the inclusive external window [first, last] of axis d.
func Span(d mesh.Dimension, first, last int) Sel {
	return Sel{dim: d, first: first, last: last}
}

// Pick selects the single external index at on axis d and collapses it.
func Pick(d mesh.Dimension, at int) Sel {
	return Sel{dim: d, first: at, last: at, pick: true}
}

// Slice returns a view of the field restricted by the given selectors. The
// view shares storage with its base; spanned axes keep their external
// labels, so index i addresses the same element before and after slicing.
// Axes without a selector are kept whole.
func (f *Field[T]) Slice(sels ...Sel) (*Field[T], error) {
	byAxis := make(map[int]Sel, len(sels))
	for _, sel := range sels {
		axis := dimIndex(f.dims, sel.dim)
		if axis < 0 {
			return nil, fmt.Errorf("%w: slice names %s which is not an axis of %v", ErrShape, sel.dim, f.dims)
		}
		if _, dup := byAxis[axis]; dup {
			return nil, fmt.Errorf("%w: axis %s selected twice", ErrShape, sel.dim)
		}
		byAxis[axis] = sel
	}

	g := &Field[T]{off: f.off, data: f.data}
	dropped := make(map[mesh.Dimension]bool)
	for axis, d := range f.dims {
		sel, ok := byAxis[axis]
		if !ok {
			g.dims = append(g.dims, d)
			g.lens = append(g.lens, f.lens[axis])
			g.strides = append(g.strides, f.strides[axis])
			g.origin = append(g.origin, f.origin[axis])
			continue
		}
		if sel.first > sel.last {
			return nil, fmt.Errorf("%w: span [%d, %d] on axis %s is inverted", ErrIndex, sel.first, sel.last, d)
		}
		s0, err := f.index(axis, sel.first)
		if err != nil {
			return nil, err
		}
		if _, err := f.index(axis, sel.last); err != nil {
			return nil, err
		}
		g.off += s0 * f.strides[axis]
		if sel.pick {
			dropped[d] = true
			continue
		}
		g.dims = append(g.dims, d)
		g.lens = append(g.lens, sel.last-sel.first+1)
		g.strides = append(g.strides, f.strides[axis])
		g.origin = append(g.origin, sel.first-1)
	}
	for _, d := range f.bcast {
		if !dropped[d] {
			g.bcast = append(g.bcast, d)
		}
	}
	return g, nil
}
