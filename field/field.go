package field

import (
	"fmt"

	"github.com/vk/fieldgridgo/mesh"
)

// Elem constrains the element types a Field can carry.
type Elem interface {
	~float64 | ~int64 | ~bool
}

// Field is a dense array tagged with ordered dimensions. Storage is
// row-major over lens with explicit strides so that slices can alias their
// base without copying. origin holds the per-axis origin offset; bcast is
// the broadcast-dimension set, always a superset of dims in a compatible
// order.
type Field[T Elem] struct {
	dims    []mesh.Dimension
	lens    []int
	strides []int
	off     int
	origin  []int
	bcast   []mesh.Dimension
	data    []T
}

// Option configures field construction.
type Option func(*options)

type options struct {
	origins map[mesh.Dimension]int
}

// WithOrigin sets the origin offset of one axis. The external window of an
// axis of length l and origin n is [n+1, n+l].
func WithOrigin(d mesh.Dimension, origin int) Option {
	return func(o *options) {
		if o.origins == nil {
			o.origins = make(map[mesh.Dimension]int)
		}
		o.origins[d] = origin
	}
}

// NewShaped builds a field over dims with the given per-axis lengths. data
// is row-major and its length must equal the product of lens; the slice is
// copied. Origins default to zero, the broadcast set defaults to dims.
func NewShaped[T Elem](dims []mesh.Dimension, lens []int, data []T, opts ...Option) (*Field[T], error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if len(dims) != len(lens) {
		return nil, fmt.Errorf("%w: %d dimensions with %d lengths", ErrShape, len(dims), len(lens))
	}
	total := 1
	for i, d := range dims {
		if d.Name == "" {
			return nil, fmt.Errorf("%w: axis %d has an unnamed dimension", ErrShape, i)
		}
		for _, seen := range dims[:i] {
			if seen.Name == d.Name {
				return nil, fmt.Errorf("%w: duplicate dimension %s", ErrShape, d)
			}
		}
		if lens[i] < 0 {
			return nil, fmt.Errorf("%w: axis %s has negative length %d", ErrShape, d, lens[i])
		}
		total *= lens[i]
	}
	if len(data) != total {
		return nil, fmt.Errorf("%w: %d elements for shape of %d", ErrShape, len(data), total)
	}
	f := &Field[T]{
		dims:    append([]mesh.Dimension(nil), dims...),
		lens:    append([]int(nil), lens...),
		strides: contiguousStrides(lens),
		origin:  make([]int, len(dims)),
		bcast:   append([]mesh.Dimension(nil), dims...),
		data:    append([]T(nil), data...),
	}
	for d, origin := range o.origins {
		axis := dimIndex(f.dims, d)
		if axis < 0 {
			return nil, fmt.Errorf("%w: origin names %s which is not an axis", ErrShape, d)
		}
		f.origin[axis] = origin
	}
	return f, nil
}

// FromSlice builds a rank-1 field over d from data.
func FromSlice[T Elem](d mesh.Dimension, data []T, opts ...Option) (*Field[T], error) {
	return NewShaped(mesh.Dims(d), []int{len(data)}, data, opts...)
}

// Zeros builds a zero-initialized field over dims with the given lengths.
func Zeros[T Elem](dims []mesh.Dimension, lens []int, opts ...Option) (*Field[T], error) {
	total := 1
	for _, l := range lens {
		if l < 0 {
			return nil, fmt.Errorf("%w: negative length %d", ErrShape, l)
		}
		total *= l
	}
	return NewShaped(dims, lens, make([]T, total), opts...)
}

// Scalar builds a rank-0 field holding a single value. Scalars broadcast
// against any field in elementwise operations.
func Scalar[T Elem](v T) *Field[T] {
	return &Field[T]{data: []T{v}}
}

func contiguousStrides(lens []int) []int {
	strides := make([]int, len(lens))
	acc := 1
	for i := len(lens) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= lens[i]
	}
	return strides
}

func dimIndex(dims []mesh.Dimension, d mesh.Dimension) int {
	for i, have := range dims {
		if have == d {
			return i
		}
	}
	return -1
}

// Dims returns the ordered dimensions of the field.
func (f *Field[T]) Dims() []mesh.Dimension {
	return append([]mesh.Dimension(nil), f.dims...)
}

// BroadcastDims returns the broadcast-dimension set.
func (f *Field[T]) BroadcastDims() []mesh.Dimension {
	return append([]mesh.Dimension(nil), f.bcast...)
}

// Lens returns the per-axis lengths.
func (f *Field[T]) Lens() []int {
	return append([]int(nil), f.lens...)
}

// Origins returns the per-axis origin offsets.
func (f *Field[T]) Origins() []int {
	return append([]int(nil), f.origin...)
}

// Rank returns the number of axes.
func (f *Field[T]) Rank() int { return len(f.dims) }

// Size returns the number of addressable elements.
func (f *Field[T]) Size() int {
	total := 1
	for _, l := range f.lens {
		total *= l
	}
	return total
}

// index translates one external index into the storage coordinate of an
// axis. This is the only place the origin convention is applied.
func (f *Field[T]) index(axis, external int) (int, error) {
	s := external - f.origin[axis] - 1
	if s < 0 || s >= f.lens[axis] {
		return 0, fmt.Errorf("%w: %d on axis %s, window is [%d, %d]",
			ErrIndex, external, f.dims[axis], f.origin[axis]+1, f.origin[axis]+f.lens[axis])
	}
	return s, nil
}

func (f *Field[T]) flat(external []int) (int, error) {
	if len(external) != len(f.dims) {
		return 0, fmt.Errorf("%w: %d indices for rank %d", ErrShape, len(external), len(f.dims))
	}
	pos := f.off
	for axis, ext := range external {
		s, err := f.index(axis, ext)
		if err != nil {
			return 0, err
		}
		pos += s * f.strides[axis]
	}
	return pos, nil
}

// At reads the element at the given external indices, one per axis.
func (f *Field[T]) At(external ...int) (T, error) {
	pos, err := f.flat(external)
	if err != nil {
		var zero T
		return zero, err
	}
	return f.data[pos], nil
}

// Set writes the element at the given external indices. It exists for
// filling freshly built output buffers; writing through a view also writes
// the base field.
func (f *Field[T]) Set(v T, external ...int) error {
	pos, err := f.flat(external)
	if err != nil {
		return err
	}
	f.data[pos] = v
	return nil
}

// Data materializes the elements in row-major order of the field's own
// dimensions and returns them as a fresh slice.
func (f *Field[T]) Data() []T {
	total := f.Size()
	out := make([]T, total)
	if total == 0 {
		return out
	}
	cur := newCursor(f.lens, [][]int{f.strides}, []int{f.off})
	for i := 0; i < total; i++ {
		out[i] = f.data[cur.offsets[0]]
		cur.next()
	}
	return out
}

// BroadcastTo widens the broadcast-dimension set. The new set must contain
// every axis of the field in a compatible order.
func (f *Field[T]) BroadcastTo(dims ...mesh.Dimension) (*Field[T], error) {
	merged, err := promoteDims(f.dims, dims)
	if err != nil {
		return nil, err
	}
	if len(merged) != len(dims) {
		return nil, fmt.Errorf("%w: broadcast set %v does not cover field dimensions %v", ErrShape, dims, f.dims)
	}
	g := *f
	g.bcast = append([]mesh.Dimension(nil), dims...)
	return &g, nil
}

// String renders the field header without its data, for logs and errors.
func (f *Field[T]) String() string {
	return fmt.Sprintf("Field%v%v origin=%v", f.dims, f.lens, f.origin)
}
