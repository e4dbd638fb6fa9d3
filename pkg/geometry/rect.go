package geometry

import (
	"math"

	"github.com/menta2k/scan-splitter/pkg/types"
)

// MinAreaRect returns the smallest-area rectangle enclosing pts, computed with
// rotating calipers over the convex hull. The result is canonicalized.
func MinAreaRect(pts []types.Point) types.RotatedRect {
	hull := ConvexHull(pts)
	switch len(hull) {
	case 0:
		return types.RotatedRect{}
	case 1:
		return types.RotatedRect{Center: types.FPoint{X: float64(hull[0].X), Y: float64(hull[0].Y)}}
	case 2:
		a, b := hull[0], hull[1]
		dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
		return Canonicalize(types.RotatedRect{
			Center: types.FPoint{X: float64(a.X+b.X) / 2, Y: float64(a.Y+b.Y) / 2},
			Width:  math.Hypot(dx, dy),
			Angle:  math.Atan2(dy, dx) * 180 / math.Pi,
		})
	}

	best := types.RotatedRect{}
	bestArea := math.Inf(1)
	n := len(hull)
	for i := 0; i < n; i++ {
		p, q := hull[i], hull[(i+1)%n]
		ex, ey := float64(q.X-p.X), float64(q.Y-p.Y)
		length := math.Hypot(ex, ey)
		if length == 0 {
			continue
		}
		ex, ey = ex/length, ey/length
		// normal to the edge
		nx, ny := -ey, ex

		minU, maxU := math.Inf(1), math.Inf(-1)
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, h := range hull {
			x, y := float64(h.X), float64(h.Y)
			u := x*ex + y*ey
			v := x*nx + y*ny
			minU = math.Min(minU, u)
			maxU = math.Max(maxU, u)
			minV = math.Min(minV, v)
			maxV = math.Max(maxV, v)
		}

		w, h := maxU-minU, maxV-minV
		if area := w * h; area < bestArea-1e-9 {
			bestArea = area
			cu, cv := (minU+maxU)/2, (minV+maxV)/2
			best = types.RotatedRect{
				Center: types.FPoint{X: cu*ex + cv*nx, Y: cu*ey + cv*ny},
				Width:  w,
				Height: h,
				Angle:  math.Atan2(ey, ex) * 180 / math.Pi,
			}
		}
	}
	return Canonicalize(best)
}

// Canonicalize returns the same rectangle with its angle in [-45, 45).
// Every 90 degree step swaps width and height, so (w, h, 91) and (h, w, 1)
// map to the same value.
func Canonicalize(r types.RotatedRect) types.RotatedRect {
	a := math.Mod(r.Angle, 180)
	if a < -90 {
		a += 180
	} else if a >= 90 {
		a -= 180
	}
	w, h := r.Width, r.Height
	if a >= 45 {
		a -= 90
		w, h = h, w
	} else if a < -45 {
		a += 90
		w, h = h, w
	}
	if a == 0 {
		// avoid -0 in output
		a = 0
	}
	return types.RotatedRect{Center: r.Center, Width: w, Height: h, Angle: a}
}
