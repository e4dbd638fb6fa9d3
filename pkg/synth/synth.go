// Package synth renders synthetic scanned pages with known photo placement,
// for tests and for trying the splitter without a scanner.
package synth

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

// A4 page at 300 dpi
const (
	A4Width  = 2480
	A4Height = 3508
)

// Photo is one rectangle placed on the page
type Photo struct {
	CenterX, CenterY float64
	Width, Height    float64
	Angle            float64 // degrees, clockwise on screen
	Fill             color.Color
	Border           float64 // grey frame width; 0 draws none
	Pattern          bool    // draw inner rectangles like printed content
}

// Page describes a synthetic scan
type Page struct {
	Width, Height int
	Background    color.Color
	Photos        []Photo
}

var pastels = []color.NRGBA{
	{255, 200, 200, 255},
	{200, 255, 200, 255},
	{200, 200, 255, 255},
	{255, 255, 200, 255},
}

// FourPhotoA4 returns an A4 page with four photos in a 2x2 layout, each
// slightly rotated the way hand-placed prints usually are.
func FourPhotoA4() Page {
	const (
		margin  = 200.0
		spacing = 100.0
	)
	w := (A4Width - 2*margin - spacing) / 2
	h := (A4Height - 2*margin - spacing) / 2
	angles := []float64{2, -1, -2, 1}

	page := Page{Width: A4Width, Height: A4Height, Background: color.White}
	for i, a := range angles {
		col, row := float64(i%2), float64(i/2)
		page.Photos = append(page.Photos, Photo{
			CenterX: margin + col*(w+spacing) + w/2,
			CenterY: margin + row*(h+spacing) + h/2,
			Width:   w * 0.9,
			Height:  h * 0.9,
			Angle:   a,
			Fill:    pastels[i],
			Border:  5,
			Pattern: true,
		})
	}
	return page
}

// Render draws the page
func (p Page) Render() image.Image {
	dc := gg.NewContext(p.Width, p.Height)
	bg := p.Background
	if bg == nil {
		bg = color.White
	}
	dc.SetColor(bg)
	dc.Clear()

	for _, ph := range p.Photos {
		drawPhoto(dc, ph)
	}
	return dc.Image()
}

func drawPhoto(dc *gg.Context, ph Photo) {
	dc.Push()
	defer dc.Pop()

	dc.RotateAbout(gg.Radians(ph.Angle), ph.CenterX, ph.CenterY)
	x0, y0 := ph.CenterX-ph.Width/2, ph.CenterY-ph.Height/2

	fill := ph.Fill
	if fill == nil {
		fill = pastels[0]
	}
	if ph.Border > 0 {
		dc.SetColor(color.NRGBA{128, 128, 128, 255})
		dc.DrawRectangle(x0, y0, ph.Width, ph.Height)
		dc.Fill()
		dc.SetColor(fill)
		dc.DrawRectangle(x0+ph.Border, y0+ph.Border, ph.Width-2*ph.Border, ph.Height-2*ph.Border)
		dc.Fill()
	} else {
		dc.SetColor(fill)
		dc.DrawRectangle(x0, y0, ph.Width, ph.Height)
		dc.Fill()
	}

	if !ph.Pattern {
		return
	}
	dc.SetColor(color.NRGBA{90, 90, 90, 255})
	dc.SetLineWidth(3)
	for i := 1; i <= 3; i++ {
		inset := float64(i) * min(ph.Width, ph.Height) / 10
		dc.DrawRectangle(x0+inset, y0+inset, ph.Width-2*inset, ph.Height-2*inset)
		dc.Stroke()
	}
}
