package field

import (
	"fmt"

	"github.com/vk/fieldgridgo/mesh"
)

// Range is the inclusive external index window of one axis. An axis of
// length l at origin n spans [n+1, n+l]; an empty axis has Last < First.
type Range struct {
	First int
	Last  int
}

// Len returns the number of indices in the window.
func (r Range) Len() int { return r.Last - r.First + 1 }

func (r Range) String() string { return fmt.Sprintf("[%d, %d]", r.First, r.Last) }

// intersect narrows r to the part shared with o.
func (r Range) intersect(o Range) Range {
	if o.First > r.First {
		r.First = o.First
	}
	if o.Last < r.Last {
		r.Last = o.Last
	}
	return r
}

// Shape describes a field without its data: ordered dimensions, the external
// window of each axis, and the broadcast-dimension set.
type Shape struct {
	Dims      []mesh.Dimension
	Ranges    []Range
	Broadcast []mesh.Dimension
}

// Shape reports the field's dimensions, windows and broadcast set.
func (f *Field[T]) Shape() Shape {
	ranges := make([]Range, len(f.dims))
	for axis := range f.dims {
		ranges[axis] = f.window(axis)
	}
	return Shape{
		Dims:      f.Dims(),
		Ranges:    ranges,
		Broadcast: f.BroadcastDims(),
	}
}

func (f *Field[T]) window(axis int) Range {
	return Range{First: f.origin[axis] + 1, Last: f.origin[axis] + f.lens[axis]}
}
