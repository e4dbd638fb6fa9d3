// Package geometry holds the planar math behind region orientation: polygon
// area, convex hulls and minimum-area enclosing rectangles.
package geometry

import (
	"math"
	"sort"

	"github.com/menta2k/scan-splitter/pkg/types"
)

// PolygonArea returns the enclosed area of a closed polygon (shoelace formula)
func PolygonArea(pts []types.Point) float64 {
	n := len(pts)
	if n < 3 {
		return 0
	}
	var sum int64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += int64(pts[i].X)*int64(pts[j].Y) - int64(pts[j].X)*int64(pts[i].Y)
	}
	return math.Abs(float64(sum)) / 2
}

// cross returns the z component of (a-o) x (b-o)
func cross(o, a, b types.Point) int64 {
	return int64(a.X-o.X)*int64(b.Y-o.Y) - int64(a.Y-o.Y)*int64(b.X-o.X)
}

// ConvexHull returns the convex hull of pts using the monotone chain algorithm.
// Collinear points are dropped. The input slice is not modified.
func ConvexHull(pts []types.Point) []types.Point {
	if len(pts) == 0 {
		return nil
	}
	sorted := make([]types.Point, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	// dedupe
	uniq := sorted[:1]
	for _, p := range sorted[1:] {
		if p != uniq[len(uniq)-1] {
			uniq = append(uniq, p)
		}
	}
	if len(uniq) < 3 {
		return uniq
	}

	hull := make([]types.Point, 0, 2*len(uniq))
	for _, p := range uniq {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(uniq) - 2; i >= 0; i-- {
		p := uniq[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}
