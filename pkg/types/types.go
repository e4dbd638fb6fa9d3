package types

import (
	"errors"
	"image"
	"math"
)

// ErrInvalidInput is returned when a source image is missing or has no pixels
var ErrInvalidInput = errors.New("invalid input image")

// Point is an integer pixel coordinate
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// FPoint is a sub-pixel coordinate
type FPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Boundary is a closed sequence of points along the outer edge of a blob.
// The last point connects back to the first.
type Boundary []Point

// Bounds returns the axis-aligned pixel rectangle covering the boundary
func (b Boundary) Bounds() image.Rectangle {
	if len(b) == 0 {
		return image.Rectangle{}
	}
	r := image.Rect(b[0].X, b[0].Y, b[0].X+1, b[0].Y+1)
	for _, p := range b[1:] {
		if p.X < r.Min.X {
			r.Min.X = p.X
		}
		if p.Y < r.Min.Y {
			r.Min.Y = p.Y
		}
		if p.X+1 > r.Max.X {
			r.Max.X = p.X + 1
		}
		if p.Y+1 > r.Max.Y {
			r.Max.Y = p.Y + 1
		}
	}
	return r
}

// CandidateRegion is a traced boundary with the measurements used for filtering
type CandidateRegion struct {
	Boundary    Boundary        `json:"-"`
	Area        float64         `json:"area"`
	AspectRatio float64         `json:"aspect_ratio"`
	Bounds      image.Rectangle `json:"bounds"`
}

// RotatedRect is a rectangle of the given size centered at Center whose width
// axis points Angle degrees from the +x axis towards +y.
type RotatedRect struct {
	Center FPoint  `json:"center"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Angle  float64 `json:"angle"`
}

// Corners returns the four corners in drawing order
func (r RotatedRect) Corners() [4]FPoint {
	rad := r.Angle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	hw, hh := r.Width/2, r.Height/2

	// width axis (cos, sin), height axis (-sin, cos)
	ux, uy := cos*hw, sin*hw
	vx, vy := -sin*hh, cos*hh
	c := r.Center
	return [4]FPoint{
		{c.X - ux - vx, c.Y - uy - vy},
		{c.X + ux - vx, c.Y + uy - vy},
		{c.X + ux + vx, c.Y + uy + vy},
		{c.X - ux + vx, c.Y - uy + vy},
	}
}

// Area returns width times height
func (r RotatedRect) Area() float64 {
	return r.Width * r.Height
}

// OrientedRegion is an accepted photo region
type OrientedRegion struct {
	Rect     RotatedRect `json:"rect"`
	Area     float64     `json:"area"`
	Boundary Boundary    `json:"-"`
}

// SlottedRegion is an oriented region with its output slot (1-4)
type SlottedRegion struct {
	Slot   int            `json:"slot"`
	Region OrientedRegion `json:"region"`
}

// ExtractedPhoto is one straightened photo cut from the page
type ExtractedPhoto struct {
	Image   image.Image    `json:"-"`
	Slot    int            `json:"slot"`
	Region  OrientedRegion `json:"region"`
	Padding int            `json:"padding"`
}
