package geometry

import (
	"math"
	"testing"

	"github.com/menta2k/scan-splitter/pkg/types"
)

func rectPoints(x0, y0, x1, y1 int) []types.Point {
	return []types.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

// rotatedPoints samples the outline of a w x h rectangle rotated by angle
// degrees about (cx, cy), rounded to pixels.
func rotatedPoints(cx, cy, w, h, angle float64) []types.Point {
	rad := angle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	var pts []types.Point
	add := func(u, v float64) {
		x := cx + u*cos - v*sin
		y := cy + u*sin + v*cos
		pts = append(pts, types.Point{X: int(math.Round(x)), Y: int(math.Round(y))})
	}
	for u := -w / 2; u <= w/2; u++ {
		add(u, -h/2)
		add(u, h/2)
	}
	for v := -h / 2; v <= h/2; v++ {
		add(-w/2, v)
		add(w/2, v)
	}
	return pts
}

func TestPolygonArea(t *testing.T) {
	tests := []struct {
		name     string
		pts      []types.Point
		expected float64
	}{
		{"square", rectPoints(0, 0, 10, 10), 100},
		{"rectangle", rectPoints(5, 5, 25, 15), 200},
		{"triangle", []types.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 3}}, 6},
		{"reversed", []types.Point{{X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0}, {X: 0, Y: 0}}, 100},
		{"line", []types.Point{{X: 0, Y: 0}, {X: 5, Y: 0}}, 0},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PolygonArea(tt.pts); got != tt.expected {
				t.Errorf("Expected area %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestConvexHull(t *testing.T) {
	pts := rectPoints(0, 0, 10, 10)
	// interior and edge points must not survive
	pts = append(pts, types.Point{X: 5, Y: 5}, types.Point{X: 2, Y: 7}, types.Point{X: 5, Y: 0}, types.Point{X: 0, Y: 0})

	hull := ConvexHull(pts)
	if len(hull) != 4 {
		t.Fatalf("Expected 4 hull points, got %d: %v", len(hull), hull)
	}
	if PolygonArea(hull) != 100 {
		t.Errorf("Expected hull area 100, got %v", PolygonArea(hull))
	}
}

func TestConvexHullDegenerate(t *testing.T) {
	if hull := ConvexHull(nil); hull != nil {
		t.Errorf("Expected nil hull, got %v", hull)
	}
	if hull := ConvexHull([]types.Point{{X: 3, Y: 3}, {X: 3, Y: 3}}); len(hull) != 1 {
		t.Errorf("Expected single point hull, got %v", hull)
	}
	if hull := ConvexHull([]types.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}); len(hull) != 2 {
		t.Errorf("Expected collinear points to reduce to 2, got %v", hull)
	}
}

func TestMinAreaRectAxisAligned(t *testing.T) {
	r := MinAreaRect(rectPoints(10, 20, 110, 70))

	if r.Angle != 0 {
		t.Errorf("Expected angle 0, got %v", r.Angle)
	}
	if math.Abs(r.Width-100) > 1e-9 || math.Abs(r.Height-50) > 1e-9 {
		t.Errorf("Expected 100x50, got %vx%v", r.Width, r.Height)
	}
	if math.Abs(r.Center.X-60) > 1e-9 || math.Abs(r.Center.Y-45) > 1e-9 {
		t.Errorf("Expected center (60,45), got (%v,%v)", r.Center.X, r.Center.Y)
	}
}

func TestMinAreaRectRotated(t *testing.T) {
	tests := []struct {
		angle float64
		w, h  float64
	}{
		{15, 400, 250},
		{3, 300, 200},
		{-7, 300, 200},
		{-30, 200, 320},
		{40, 500, 300},
	}

	for _, tt := range tests {
		r := MinAreaRect(rotatedPoints(500, 400, tt.w, tt.h, tt.angle))
		if math.Abs(r.Angle-tt.angle) > 1 {
			t.Errorf("angle %v: recovered %v", tt.angle, r.Angle)
		}
		if math.Abs(r.Width-tt.w) > 3 || math.Abs(r.Height-tt.h) > 3 {
			t.Errorf("angle %v: expected %vx%v, got %vx%v", tt.angle, tt.w, tt.h, r.Width, r.Height)
		}
		if math.Abs(r.Center.X-500) > 1.5 || math.Abs(r.Center.Y-400) > 1.5 {
			t.Errorf("angle %v: expected center (500,400), got (%v,%v)", tt.angle, r.Center.X, r.Center.Y)
		}
	}
}

func TestMinAreaRectDegenerate(t *testing.T) {
	single := MinAreaRect([]types.Point{{X: 7, Y: 9}})
	if single.Width != 0 || single.Height != 0 || single.Center.X != 7 || single.Center.Y != 9 {
		t.Errorf("Unexpected rect for single point: %+v", single)
	}

	line := MinAreaRect([]types.Point{{X: 0, Y: 0}, {X: 10, Y: 0}})
	if line.Width != 10 || line.Height != 0 || line.Angle != 0 {
		t.Errorf("Unexpected rect for segment: %+v", line)
	}

	vertical := MinAreaRect([]types.Point{{X: 0, Y: 0}, {X: 0, Y: 10}})
	if vertical.Width != 0 || vertical.Height != 10 || vertical.Angle != 0 {
		t.Errorf("Unexpected rect for vertical segment: %+v", vertical)
	}
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		in       types.RotatedRect
		expected types.RotatedRect
	}{
		{types.RotatedRect{Width: 10, Height: 20, Angle: 91}, types.RotatedRect{Width: 20, Height: 10, Angle: 1}},
		{types.RotatedRect{Width: 20, Height: 10, Angle: 1}, types.RotatedRect{Width: 20, Height: 10, Angle: 1}},
		{types.RotatedRect{Width: 10, Height: 20, Angle: 90}, types.RotatedRect{Width: 20, Height: 10, Angle: 0}},
		{types.RotatedRect{Width: 10, Height: 20, Angle: -90}, types.RotatedRect{Width: 20, Height: 10, Angle: 0}},
		{types.RotatedRect{Width: 10, Height: 20, Angle: 180}, types.RotatedRect{Width: 10, Height: 20, Angle: 0}},
		{types.RotatedRect{Width: 10, Height: 20, Angle: 45}, types.RotatedRect{Width: 20, Height: 10, Angle: -45}},
		{types.RotatedRect{Width: 10, Height: 20, Angle: -45}, types.RotatedRect{Width: 10, Height: 20, Angle: -45}},
		{types.RotatedRect{Width: 10, Height: 20, Angle: -87}, types.RotatedRect{Width: 20, Height: 10, Angle: 3}},
		{types.RotatedRect{Width: 10, Height: 20, Angle: 270}, types.RotatedRect{Width: 20, Height: 10, Angle: 0}},
	}

	for _, tt := range tests {
		got := Canonicalize(tt.in)
		if got.Width != tt.expected.Width || got.Height != tt.expected.Height || got.Angle != tt.expected.Angle {
			t.Errorf("Canonicalize(%+v) = %+v, expected %+v", tt.in, got, tt.expected)
		}
		if got.Angle < -45 || got.Angle >= 45 {
			t.Errorf("Angle %v out of canonical range", got.Angle)
		}
	}
}

func TestCanonicalizeEquivalence(t *testing.T) {
	a := Canonicalize(types.RotatedRect{Center: types.FPoint{X: 5, Y: 6}, Width: 30, Height: 80, Angle: 91})
	b := Canonicalize(types.RotatedRect{Center: types.FPoint{X: 5, Y: 6}, Width: 80, Height: 30, Angle: 1})
	if a != b {
		t.Errorf("Expected identical canonical forms, got %+v and %+v", a, b)
	}
}

func TestCornersMatchRect(t *testing.T) {
	r := types.RotatedRect{Center: types.FPoint{X: 50, Y: 50}, Width: 40, Height: 20, Angle: 30}
	corners := r.Corners()
	var pts []types.Point
	for _, c := range corners {
		pts = append(pts, types.Point{X: int(math.Round(c.X * 100)), Y: int(math.Round(c.Y * 100))})
	}
	// scaled by 100 to keep precision in integer points
	area := PolygonArea(pts) / 10000
	if math.Abs(area-800) > 1 {
		t.Errorf("Expected corner polygon area 800, got %v", area)
	}
}
