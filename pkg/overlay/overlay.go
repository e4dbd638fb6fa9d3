// Package overlay draws detection diagnostics onto a copy of a page image.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/menta2k/scan-splitter/pkg/types"
)

// MaxPixels is the largest page the renderer will allocate an overlay for
const MaxPixels = 1 << 28

// Colors used by the overlay
var (
	BoundaryColor = color.NRGBA{0, 255, 0, 255}   // traced boundary
	RectColor     = color.NRGBA{255, 204, 0, 255} // fitted rectangle
	CenterColor   = color.NRGBA{255, 0, 0, 255}   // rectangle center
	LabelColor    = color.NRGBA{0, 170, 255, 255} // slot number
)

// Mark is one region to draw. Slot 0 draws no label.
type Mark struct {
	Slot   int
	Region types.OrientedRegion
}

// MarksFromSlotted converts ordered regions into marks
func MarksFromSlotted(regions []types.SlottedRegion) []Mark {
	marks := make([]Mark, len(regions))
	for i, r := range regions {
		marks[i] = Mark{Slot: r.Slot, Region: r.Region}
	}
	return marks
}

// MarksFromPhotos converts extracted photos into marks
func MarksFromPhotos(photos []types.ExtractedPhoto) []Mark {
	marks := make([]Mark, len(photos))
	for i, p := range photos {
		marks[i] = Mark{Slot: p.Slot, Region: p.Region}
	}
	return marks
}

// Renderer draws region marks over page images
type Renderer struct {
	font *truetype.Font
}

// New creates a Renderer using the Go Regular font for labels
func New() (*Renderer, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse label font: %w", err)
	}
	return &Renderer{font: f}, nil
}

// Render returns a copy of img with every mark drawn on it. The source image
// is not modified.
func (r *Renderer) Render(img image.Image, marks []Mark) (image.Image, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: empty page", types.ErrInvalidInput)
	}
	if int64(w)*int64(h) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d page is too large for a debug overlay", types.ErrInvalidInput, w, h)
	}

	dc := gg.NewContextForImage(img)
	side := float64(min(w, h))
	stroke := math.Max(2, 0.004*side)
	cross := math.Max(4, 0.01*side)

	if r.font != nil {
		dc.SetFontFace(truetype.NewFace(r.font, &truetype.Options{Size: math.Max(12, 0.04*side)}))
	}

	for _, m := range marks {
		drawBoundary(dc, m.Region.Boundary, stroke)
		drawRect(dc, m.Region.Rect, stroke)

		c := m.Region.Rect.Center
		dc.SetColor(CenterColor)
		dc.SetLineWidth(stroke)
		dc.DrawLine(c.X-cross, c.Y, c.X+cross, c.Y)
		dc.DrawLine(c.X, c.Y-cross, c.X, c.Y+cross)
		dc.Stroke()

		if m.Slot > 0 {
			dc.SetColor(LabelColor)
			dc.DrawStringAnchored(strconv.Itoa(m.Slot), c.X+2*cross, c.Y-2*cross, 0, 0)
		}
	}
	return dc.Image(), nil
}

func drawBoundary(dc *gg.Context, b types.Boundary, stroke float64) {
	if len(b) < 2 {
		return
	}
	dc.SetColor(BoundaryColor)
	dc.SetLineWidth(stroke)
	dc.MoveTo(float64(b[0].X), float64(b[0].Y))
	for _, p := range b[1:] {
		dc.LineTo(float64(p.X), float64(p.Y))
	}
	dc.ClosePath()
	dc.Stroke()
}

func drawRect(dc *gg.Context, r types.RotatedRect, stroke float64) {
	if r.Width <= 0 && r.Height <= 0 {
		return
	}
	corners := r.Corners()
	dc.SetColor(RectColor)
	dc.SetLineWidth(stroke)
	dc.MoveTo(corners[0].X, corners[0].Y)
	for _, p := range corners[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.ClosePath()
	dc.Stroke()
}
