package field

import (
	"fmt"

	"github.com/vk/fieldgridgo/mesh"
)

// layout is the type-erased storage description of one operand, so that the
// planner does not depend on the element type.
type layout struct {
	dims    []mesh.Dimension
	lens    []int
	strides []int
	off     int
	origin  []int
	bcast   []mesh.Dimension
}

func (f *Field[T]) layout() layout {
	return layout{
		dims:    f.dims,
		lens:    f.lens,
		strides: f.strides,
		off:     f.off,
		origin:  f.origin,
		bcast:   f.bcast,
	}
}

// zipPlan is the promoted result space of an elementwise operation: the
// merged axis list, the per-axis window intersection, and each operand's
// strides aligned to the result axes with zero strides on broadcast axes.
// All slices are freshly allocated and may be owned by the result field.
type zipPlan struct {
	dims    []mesh.Dimension
	lens    []int
	origin  []int
	bcast   []mesh.Dimension
	total   int
	strides [][]int
	base    []int
}

func planZip(ops ...layout) (*zipPlan, error) {
	var (
		dims  []mesh.Dimension
		bcast []mesh.Dimension
		err   error
	)
	for _, op := range ops {
		if dims, err = promoteDims(dims, op.dims); err != nil {
			return nil, err
		}
		if bcast, err = promoteDims(bcast, op.bcast); err != nil {
			return nil, err
		}
	}

	p := &zipPlan{
		dims:    dims,
		lens:    make([]int, len(dims)),
		origin:  make([]int, len(dims)),
		bcast:   bcast,
		total:   1,
		strides: make([][]int, len(ops)),
		base:    make([]int, len(ops)),
	}
	for k := range ops {
		p.strides[k] = make([]int, len(dims))
		p.base[k] = ops[k].off
	}

	for axis, d := range dims {
		window := Range{}
		first := true
		for k, op := range ops {
			j := dimIndex(op.dims, d)
			if j < 0 {
				continue
			}
			w := Range{First: op.origin[j] + 1, Last: op.origin[j] + op.lens[j]}
			if first {
				window, first = w, false
			} else {
				window = window.intersect(w)
			}
			p.strides[k][axis] = op.strides[j]
		}
		if window.Len() <= 0 {
			return nil, fmt.Errorf("%w: promoted window on axis %s is empty", ErrShape, d)
		}
		p.lens[axis] = window.Len()
		p.origin[axis] = window.First - 1
		p.total *= window.Len()

		// Rebase each participating operand onto the window start.
		for k, op := range ops {
			if j := dimIndex(op.dims, d); j >= 0 {
				p.base[k] += (window.First - op.origin[j] - 1) * op.strides[j]
			}
		}
	}
	return p, nil
}

func fieldFromPlan[R Elem](p *zipPlan, data []R) *Field[R] {
	return &Field[R]{
		dims:    p.dims,
		lens:    p.lens,
		strides: contiguousStrides(p.lens),
		origin:  p.origin,
		bcast:   p.bcast,
		data:    data,
	}
}

// zip2 applies f over the promoted space of two fields.
func zip2[A, B, R Elem](a *Field[A], b *Field[B], f func(A, B) R) (*Field[R], error) {
	p, err := planZip(a.layout(), b.layout())
	if err != nil {
		return nil, err
	}
	out := make([]R, p.total)
	if p.total > 0 {
		cur := newCursor(p.lens, p.strides, p.base)
		for n := range out {
			out[n] = f(a.data[cur.offsets[0]], b.data[cur.offsets[1]])
			cur.next()
		}
	}
	return fieldFromPlan(p, out), nil
}

// zip3 applies f over the promoted space of three fields.
func zip3[A, B, C, R Elem](a *Field[A], b *Field[B], c *Field[C], f func(A, B, C) R) (*Field[R], error) {
	p, err := planZip(a.layout(), b.layout(), c.layout())
	if err != nil {
		return nil, err
	}
	out := make([]R, p.total)
	if p.total > 0 {
		cur := newCursor(p.lens, p.strides, p.base)
		for n := range out {
			out[n] = f(a.data[cur.offsets[0]], b.data[cur.offsets[1]], c.data[cur.offsets[2]])
			cur.next()
		}
	}
	return fieldFromPlan(p, out), nil
}

// mapField applies f elementwise to a single field, keeping its shape.
func mapField[A, R Elem](a *Field[A], f func(A) R) *Field[R] {
	out := make([]R, a.Size())
	if len(out) > 0 {
		cur := newCursor(a.lens, [][]int{a.strides}, []int{a.off})
		for n := range out {
			out[n] = f(a.data[cur.offsets[0]])
			cur.next()
		}
	}
	return &Field[R]{
		dims:    append([]mesh.Dimension(nil), a.dims...),
		lens:    append([]int(nil), a.lens...),
		strides: contiguousStrides(a.lens),
		origin:  append([]int(nil), a.origin...),
		bcast:   append([]mesh.Dimension(nil), a.bcast...),
		data:    out,
	}
}
