package field

// cursor walks a row-major coordinate space while maintaining one flat
// storage offset per operand. An operand whose stride is zero on an axis is
// broadcast along that axis. All elementwise loops in this package run on
// this cursor so that strided views and broadcast operands take the same
// code path as dense fields.
type cursor struct {
	lens    []int
	coords  []int
	strides [][]int
	offsets []int
}

func newCursor(lens []int, strides [][]int, base []int) *cursor {
	return &cursor{
		lens:    lens,
		coords:  make([]int, len(lens)),
		strides: strides,
		offsets: append([]int(nil), base...),
	}
}

// next advances to the next coordinate, updating every operand offset.
// It reports false once the space is exhausted.
func (c *cursor) next() bool {
	for axis := len(c.coords) - 1; axis >= 0; axis-- {
		c.coords[axis]++
		for k := range c.offsets {
			c.offsets[k] += c.strides[k][axis]
		}
		if c.coords[axis] < c.lens[axis] {
			return true
		}
		c.coords[axis] = 0
		for k := range c.offsets {
			c.offsets[k] -= c.strides[k][axis] * c.lens[axis]
		}
	}
	return false
}
