package cropper

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/menta2k/scan-splitter/pkg/types"
)

// GridConfig holds configuration for the quadrant fallback
type GridConfig struct {
	TrimMargins     bool  // shrink each quadrant to its non-white content
	MarginThreshold uint8 // luminance at or above this counts as paper
}

// DefaultGridConfig returns the standard quadrant settings
func DefaultGridConfig() GridConfig {
	return GridConfig{
		TrimMargins:     false,
		MarginThreshold: 240,
	}
}

// GridSplitter cuts a page into four equal quadrants without any analysis
type GridSplitter struct {
	config GridConfig
}

// NewGrid creates a GridSplitter with default configuration
func NewGrid() *GridSplitter {
	return &GridSplitter{config: DefaultGridConfig()}
}

// NewGridWithConfig creates a GridSplitter with custom configuration
func NewGridWithConfig(config GridConfig) *GridSplitter {
	return &GridSplitter{config: config}
}

// Quadrants returns the four quadrant rectangles of bounds, split at the
// floored midpoints, in slot order: top-left, top-right, bottom-left,
// bottom-right.
func Quadrants(bounds image.Rectangle) [4]image.Rectangle {
	w, h := bounds.Dx(), bounds.Dy()
	midX, midY := w/2, h/2
	rects := [4]image.Rectangle{
		image.Rect(0, 0, midX, midY),
		image.Rect(midX, 0, w, midY),
		image.Rect(0, midY, midX, h),
		image.Rect(midX, midY, w, h),
	}
	for i := range rects {
		rects[i] = rects[i].Add(bounds.Min)
	}
	return rects
}

// Split returns exactly four photos, one per quadrant, with zero rotation
func (g *GridSplitter) Split(img image.Image) []types.ExtractedPhoto {
	bounds := img.Bounds()
	photos := make([]types.ExtractedPhoto, 0, 4)
	for i, q := range Quadrants(bounds) {
		if g.config.TrimMargins {
			q = contentBounds(img, q, g.config.MarginThreshold)
		}
		photos = append(photos, types.ExtractedPhoto{
			Image:  imaging.Crop(img, q),
			Slot:   i + 1,
			Region: quadrantRegion(q, bounds),
		})
	}
	return photos
}

// quadrantRegion describes an axis-aligned rectangle in page pixel indices
func quadrantRegion(q, page image.Rectangle) types.OrientedRegion {
	w, h := float64(q.Dx()), float64(q.Dy())
	return types.OrientedRegion{
		Rect: types.RotatedRect{
			Center: types.FPoint{
				X: float64(q.Min.X-page.Min.X) + (w-1)/2,
				Y: float64(q.Min.Y-page.Min.Y) + (h-1)/2,
			},
			Width:  w,
			Height: h,
		},
		Area: w * h,
	}
}

// contentBounds shrinks q to the pixels darker than threshold. A quadrant
// with no such pixel is returned unchanged.
func contentBounds(img image.Image, q image.Rectangle, threshold uint8) image.Rectangle {
	gray := imaging.Grayscale(imaging.Crop(img, q))
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	minX, minY, maxX, maxY := w, h, -1, -1
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+w*4]
		for x := 0; x < w; x++ {
			if row[x*4] >= threshold {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < 0 {
		return q
	}
	return image.Rect(q.Min.X+minX, q.Min.Y+minY, q.Min.X+maxX+1, q.Min.Y+maxY+1)
}
