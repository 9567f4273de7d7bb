package field

import (
	"fmt"

	"github.com/vk/fieldgridgo/mesh"
)

// promoteDims merges two ordered axis lists into one list that preserves the
// relative order of both inputs. Axes that appear in only one input keep
// their position relative to the shared axes. Inputs that order a shared
// pair of axes differently cannot be promoted.
func promoteDims(a, b []mesh.Dimension) ([]mesh.Dimension, error) {
	merged := make([]mesh.Dimension, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			merged = append(merged, a[i])
			i++
			j++
		case dimIndex(b[j:], a[i]) < 0:
			merged = append(merged, a[i])
			i++
		case dimIndex(a[i:], b[j]) < 0:
			merged = append(merged, b[j])
			j++
		default:
			return nil, fmt.Errorf("%w: dimension orders %v and %v disagree", ErrShape, a, b)
		}
	}
	merged = append(merged, a[i:]...)
	merged = append(merged, b[j:]...)
	return merged, nil
}
