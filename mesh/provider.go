package mesh

import "fmt"

// OffsetEntry is the closed set of values an offset name may resolve to in a
// provider: a Dimension for shifts along a regular axis, or a *Connectivity
// for neighbor gathers. The interface is sealed; nothing outside this package
// can implement it.
type OffsetEntry interface {
	offsetEntry()
}

// Provider maps offset names to the entries they resolve to during one
// outermost operator call.
type Provider map[string]OffsetEntry

// Validate checks every registered entry. It rejects nil entries, nil
// connectivities and anonymous dimensions so that a bad provider is caught
// when the outermost call opens, not in the middle of a gather.
func (p Provider) Validate() error {
	for name, entry := range p {
		switch e := entry.(type) {
		case Dimension:
			if e.Name == "" {
				return fmt.Errorf("%w: offset %q resolves to an unnamed dimension", ErrProvider, name)
			}
		case *Connectivity:
			if e == nil {
				return fmt.Errorf("%w: offset %q resolves to a nil connectivity", ErrProvider, name)
			}
		default:
			return fmt.Errorf("%w: offset %q resolves to %T, want Dimension or *Connectivity", ErrProvider, name, entry)
		}
	}
	return nil
}
