package vision

import (
	"sort"

	"github.com/menta2k/scan-splitter/pkg/types"
)

// Order numbers regions on a page of the given height. Regions whose center
// lies above the vertical midpoint come first, each half read left to right.
// Slots are contiguous from 1 and independent of the input order.
func Order(regions []types.OrientedRegion, height int) []types.SlottedRegion {
	mid := float64(height) / 2

	idx := make([]int, len(regions))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ra, rb := regions[idx[a]].Rect, regions[idx[b]].Rect
		topA, topB := ra.Center.Y < mid, rb.Center.Y < mid
		if topA != topB {
			return topA
		}
		if ra.Center.X != rb.Center.X {
			return ra.Center.X < rb.Center.X
		}
		if ra.Center.Y != rb.Center.Y {
			return ra.Center.Y < rb.Center.Y
		}
		if regions[idx[a]].Area != regions[idx[b]].Area {
			return regions[idx[a]].Area > regions[idx[b]].Area
		}
		return idx[a] < idx[b]
	})

	slotted := make([]types.SlottedRegion, len(idx))
	for slot, i := range idx {
		slotted[slot] = types.SlottedRegion{Slot: slot + 1, Region: regions[i]}
	}
	return slotted
}
