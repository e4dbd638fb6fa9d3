package vision

import (
	"github.com/menta2k/scan-splitter/pkg/geometry"
	"github.com/menta2k/scan-splitter/pkg/types"
)

// EstimateOrientation fits the minimum-area rectangle around a candidate. The
// angle is canonical, so rotating by its negation straightens the photo along
// the shortest path.
func EstimateOrientation(c types.CandidateRegion) types.OrientedRegion {
	return types.OrientedRegion{
		Rect:     geometry.MinAreaRect(c.Boundary),
		Area:     c.Area,
		Boundary: c.Boundary,
	}
}

// EstimateAll runs EstimateOrientation over every candidate, keeping order
func EstimateAll(candidates []types.CandidateRegion) []types.OrientedRegion {
	regions := make([]types.OrientedRegion, len(candidates))
	for i, c := range candidates {
		regions[i] = EstimateOrientation(c)
	}
	return regions
}
