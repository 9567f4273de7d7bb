package field

import (
	"fmt"

	"github.com/vk/fieldgridgo/mesh"
)

type number interface {
	~float64 | ~int64
}

// NeighborSum collapses the first matching axis by summation. With the local
// axis produced by a full gather this sums each element's neighborhood;
// sentinel slots were zero-filled by the gather and do not perturb the sum.
func NeighborSum(v Value, axis mesh.Dimension) (Value, error) {
	switch x := v.(type) {
	case *Field[float64]:
		return reduceField(x, axis, "neighbor_sum", func(a, b float64) float64 { return a + b })
	case *Field[int64]:
		return reduceField(x, axis, "neighbor_sum", func(a, b int64) int64 { return a + b })
	default:
		return nil, fmt.Errorf("%w: neighbor_sum is not defined on %s", ErrType, TypeName(v))
	}
}

// MaxOver collapses the first matching axis by maximum. Zero values from
// sentinel slots participate like any other element.
func MaxOver(v Value, axis mesh.Dimension) (Value, error) {
	switch x := v.(type) {
	case *Field[float64]:
		return reduceField(x, axis, "max_over", func(a, b float64) float64 { return max(a, b) })
	case *Field[int64]:
		return reduceField(x, axis, "max_over", func(a, b int64) int64 { return max(a, b) })
	default:
		return nil, fmt.Errorf("%w: max_over is not defined on %s", ErrType, TypeName(v))
	}
}

// MinOver collapses the first matching axis by minimum.
func MinOver(v Value, axis mesh.Dimension) (Value, error) {
	switch x := v.(type) {
	case *Field[float64]:
		return reduceField(x, axis, "min_over", func(a, b float64) float64 { return min(a, b) })
	case *Field[int64]:
		return reduceField(x, axis, "min_over", func(a, b int64) int64 { return min(a, b) })
	default:
		return nil, fmt.Errorf("%w: min_over is not defined on %s", ErrType, TypeName(v))
	}
}

// reduceField folds combine along one axis, seeding each output element with
// the first element of its lane. The collapsed axis disappears from the
// dimensions, the windows and the broadcast set; everything else is kept.
func reduceField[T number](f *Field[T], d mesh.Dimension, op string, combine func(T, T) T) (*Field[T], error) {
	axis := dimIndex(f.dims, d)
	if axis < 0 {
		return nil, fmt.Errorf("%w: %s over %s, field has axes %v", ErrShape, op, d, f.dims)
	}
	if f.lens[axis] == 0 {
		return nil, fmt.Errorf("%w: %s over empty axis %s", ErrShape, op, d)
	}

	var (
		outDims    []mesh.Dimension
		outLens    []int
		outOrigin  []int
		outStrides []int
	)
	for i, dim := range f.dims {
		if i == axis {
			continue
		}
		outDims = append(outDims, dim)
		outLens = append(outLens, f.lens[i])
		outOrigin = append(outOrigin, f.origin[i])
		outStrides = append(outStrides, f.strides[i])
	}
	var outBcast []mesh.Dimension
	for _, dim := range f.bcast {
		if dim != d {
			outBcast = append(outBcast, dim)
		}
	}

	total := 1
	for _, l := range outLens {
		total *= l
	}
	out := make([]T, total)
	if total > 0 {
		cur := newCursor(outLens, [][]int{outStrides}, []int{f.off})
		axisLen, axisStride := f.lens[axis], f.strides[axis]
		for n := range out {
			acc := f.data[cur.offsets[0]]
			for k := 1; k < axisLen; k++ {
				acc = combine(acc, f.data[cur.offsets[0]+k*axisStride])
			}
			out[n] = acc
			cur.next()
		}
	}
	return &Field[T]{
		dims:    outDims,
		lens:    outLens,
		strides: contiguousStrides(outLens),
		origin:  outOrigin,
		bcast:   outBcast,
		data:    out,
	}, nil
}
