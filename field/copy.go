package field

import "fmt"

// CopyInto copies src into dst positionally. Both sides must agree on
// element type, dimensions and per-axis lengths; origins may differ, dst
// keeps its own labeling and broadcast set. Tuples copy element by element
// and must be congruent. dst is typically a caller-allocated output buffer,
// which may be a view into a larger field.
func CopyInto(dst, src Value) error {
	switch d := dst.(type) {
	case *Field[float64]:
		s, ok := src.(*Field[float64])
		if !ok {
			return fmt.Errorf("%w: copy %s into %s", ErrType, TypeName(src), TypeName(dst))
		}
		return copyField(d, s)
	case *Field[int64]:
		s, ok := src.(*Field[int64])
		if !ok {
			return fmt.Errorf("%w: copy %s into %s", ErrType, TypeName(src), TypeName(dst))
		}
		return copyField(d, s)
	case *Field[bool]:
		s, ok := src.(*Field[bool])
		if !ok {
			return fmt.Errorf("%w: copy %s into %s", ErrType, TypeName(src), TypeName(dst))
		}
		return copyField(d, s)
	case Tuple:
		s, ok := src.(Tuple)
		if !ok {
			return fmt.Errorf("%w: copy %s into tuple", ErrTuple, TypeName(src))
		}
		if len(d) != len(s) {
			return fmt.Errorf("%w: copy %d elements into %d", ErrTuple, len(s), len(d))
		}
		for i := range d {
			if err := CopyInto(d[i], s[i]); err != nil {
				return fmt.Errorf("tuple element %d: %w", i, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: copy into %s", ErrType, TypeName(dst))
	}
}

func copyField[T Elem](dst, src *Field[T]) error {
	if len(dst.dims) != len(src.dims) {
		return fmt.Errorf("%w: copy rank %d into rank %d", ErrShape, len(src.dims), len(dst.dims))
	}
	for i := range dst.dims {
		if dst.dims[i] != src.dims[i] {
			return fmt.Errorf("%w: copy axes %v into %v", ErrShape, src.dims, dst.dims)
		}
		if dst.lens[i] != src.lens[i] {
			return fmt.Errorf("%w: axis %s has length %d, destination has %d",
				ErrShape, dst.dims[i], src.lens[i], dst.lens[i])
		}
	}
	total := dst.Size()
	if total == 0 {
		return nil
	}
	cur := newCursor(dst.lens, [][]int{dst.strides, src.strides}, []int{dst.off, src.off})
	for n := 0; n < total; n++ {
		dst.data[cur.offsets[0]] = src.data[cur.offsets[1]]
		cur.next()
	}
	return nil
}
