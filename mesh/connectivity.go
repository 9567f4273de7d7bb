package mesh

import "fmt"

// Sentinel is the neighbor-table entry meaning "no neighbor at this slot".
// Valid entries are 1-based indices into the source axis, so 0 can never
// collide with a real neighbor.
const Sentinel = 0

// Connectivity is a dense neighbor-index table linking two horizontal
// dimensions. Rows are indexed by Target element, columns by neighbor slot,
// and entries are 1-based Source ids (or Sentinel). A field over Source is
// remapped onto Target by gathering one or all neighbor columns.
type Connectivity struct {
	source Dimension
	target Dimension
	table  []int // row-major, rows × width
	rows   int
	width  int
}

// NewConnectivity builds a connectivity from a rectangular neighbor table.
// The table is copied; the caller keeps ownership of its slice. Entries must
// be Sentinel or positive; upper bounds are checked at gather time against
// the field being remapped.
func NewConnectivity(source, target Dimension, table [][]int) (*Connectivity, error) {
	if source.Name == "" || target.Name == "" {
		return nil, fmt.Errorf("%w: source and target dimensions are required", ErrConnectivity)
	}
	if source == target {
		return nil, fmt.Errorf("%w: source and target are both %s", ErrConnectivity, source)
	}
	c := &Connectivity{source: source, target: target, rows: len(table)}
	if c.rows == 0 {
		return c, nil
	}
	c.width = len(table[0])
	c.table = make([]int, 0, c.rows*c.width)
	for i, row := range table {
		if len(row) != c.width {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d", ErrConnectivity, i+1, len(row), c.width)
		}
		for j, e := range row {
			if e < Sentinel {
				return nil, fmt.Errorf("%w: entry at row %d slot %d is %d; entries are 1-based with %d as sentinel",
					ErrConnectivity, i+1, j+1, e, Sentinel)
			}
		}
		c.table = append(c.table, row...)
	}
	return c, nil
}

// Source returns the dimension whose elements the table entries index.
func (c *Connectivity) Source() Dimension { return c.source }

// Target returns the dimension indexing the table rows.
func (c *Connectivity) Target() Dimension { return c.target }

// Rows returns the number of Target elements covered by the table.
func (c *Connectivity) Rows() int { return c.rows }

// MaxNeighbors returns the neighbor-slot count (the table width).
func (c *Connectivity) MaxNeighbors() int { return c.width }

// Entry returns the table value for a Target element and neighbor slot, both
// 0-based storage coordinates. The returned value is a 1-based Source id or
// Sentinel.
func (c *Connectivity) Entry(row, slot int) int {
	return c.table[row*c.width+slot]
}

// Table materializes a copy of the neighbor table, row by row. It exists for
// serialization boundaries; gathers go through Entry.
func (c *Connectivity) Table() [][]int {
	out := make([][]int, c.rows)
	for i := range out {
		out[i] = append([]int(nil), c.table[i*c.width:(i+1)*c.width]...)
	}
	return out
}

func (c *Connectivity) String() string {
	return fmt.Sprintf("connectivity %s→%s (%d×%d)", c.target, c.source, c.rows, c.width)
}

// offsetEntry marks *Connectivity as a value an offset name may resolve to.
func (*Connectivity) offsetEntry() {}
