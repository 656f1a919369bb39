package tracker

import (
	"math"

	"github.com/alanyoungcy/positionwatch/internal/domain"
)

// DefaultEpsilon is the size tolerance below which a change is noise.
const DefaultEpsilon = 1e-6

// Diff classifies every key of prev and curr as opened, closed or updated.
//
// An empty prev marks an initialization run: the result has Initial set and
// no classified keys. Only size is compared on keys present in both
// snapshots; a size that moved by more than epsilon is an update. Keys are
// reported in lexicographic order.
func Diff(prev, curr domain.Snapshot, epsilon float64) domain.ChangeSet {
	if len(prev) == 0 {
		return domain.ChangeSet{Initial: true}
	}

	var cs domain.ChangeSet
	for _, k := range curr.SortedKeys() {
		before, ok := prev[k]
		if !ok {
			cs.Opened = append(cs.Opened, k)
			continue
		}
		if math.Abs(curr[k].Size-before.Size) > epsilon {
			cs.Updated = append(cs.Updated, k)
		}
	}
	for _, k := range prev.SortedKeys() {
		if _, ok := curr[k]; !ok {
			cs.Closed = append(cs.Closed, k)
		}
	}
	return cs
}
