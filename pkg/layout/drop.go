package layout

import (
	"math"

	"github.com/matzehuels/jsonflow/pkg/graph"
)

// DropTarget returns the node a dragged node should be reparented under
// when it is released with its top-left corner at (x, y): the nearest
// other node whose top-left corner lies closer than threshold. A
// threshold of zero or less uses DefaultDropThreshold. Ties go to the
// node that comes first in the layout.
func DropTarget(l graph.Layout, draggedID string, x, y, threshold float64) (string, bool) {
	if threshold <= 0 {
		threshold = DefaultDropThreshold
	}
	best, bestDist := "", math.Inf(1)
	for _, p := range l.Placements {
		if p.ID == draggedID {
			continue
		}
		d := math.Hypot(x-p.X, y-p.Y)
		if d < threshold && d < bestDist {
			best, bestDist = p.ID, d
		}
	}
	return best, best != ""
}
