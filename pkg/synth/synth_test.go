package synth

import (
	"image/color"
	"math"
	"testing"
)

func nrgbaAt(p Page, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(p.Render().At(x, y)).(color.NRGBA)
}

func TestFourPhotoA4Layout(t *testing.T) {
	page := FourPhotoA4()
	if page.Width != A4Width || page.Height != A4Height {
		t.Fatalf("Expected A4 page, got %dx%d", page.Width, page.Height)
	}
	if len(page.Photos) != 4 {
		t.Fatalf("Expected 4 photos, got %d", len(page.Photos))
	}
	for i, ph := range page.Photos {
		if math.Abs(ph.Angle) > 3 {
			t.Errorf("photo %d: angle %v is not a slight rotation", i, ph.Angle)
		}
		if ph.CenterX-ph.Width/2 < 0 || ph.CenterX+ph.Width/2 > A4Width ||
			ph.CenterY-ph.Height/2 < 0 || ph.CenterY+ph.Height/2 > A4Height {
			t.Errorf("photo %d extends past the page", i)
		}
	}
	// 2x2 reading order
	p := page.Photos
	if !(p[0].CenterX < p[1].CenterX && p[0].CenterY == p[1].CenterY && p[2].CenterY > p[0].CenterY) {
		t.Errorf("Unexpected layout: %+v", p)
	}
	if p[0].CenterX != 695 || p[0].CenterY != 952 {
		t.Errorf("Expected first photo at (695,952), got (%v,%v)", p[0].CenterX, p[0].CenterY)
	}
}

func TestRenderPlainPhoto(t *testing.T) {
	page := Page{
		Width:  200,
		Height: 100,
		Photos: []Photo{{CenterX: 100, CenterY: 50, Width: 80, Height: 40, Fill: color.NRGBA{200, 0, 0, 255}}},
	}
	img := page.Render()
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 100 {
		t.Fatalf("Expected 200x100, got %v", img.Bounds())
	}
	if c := nrgbaAt(page, 100, 50); c.R != 200 || c.G != 0 {
		t.Errorf("Expected photo fill, got %v", c)
	}
	if c := nrgbaAt(page, 5, 5); c != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("Expected white background, got %v", c)
	}
}

func TestRenderBorderAndBackground(t *testing.T) {
	page := Page{
		Width:      120,
		Height:     120,
		Background: color.Black,
		Photos:     []Photo{{CenterX: 60, CenterY: 60, Width: 60, Height: 60, Border: 6}},
	}
	if c := nrgbaAt(page, 2, 2); c.R != 0 || c.G != 0 || c.B != 0 {
		t.Errorf("Expected black background, got %v", c)
	}
	if c := nrgbaAt(page, 33, 60); c.R != 128 || c.G != 128 {
		t.Errorf("Expected grey frame, got %v", c)
	}
	if c := nrgbaAt(page, 60, 60); c != pastels[0] {
		t.Errorf("Expected default fill, got %v", c)
	}
}

func TestRenderRotatedPhoto(t *testing.T) {
	page := Page{
		Width:  300,
		Height: 300,
		Photos: []Photo{{CenterX: 150, CenterY: 150, Width: 200, Height: 100, Angle: 30, Fill: color.NRGBA{0, 0, 200, 255}}},
	}
	// the unrotated corner area is paper, a point along the rotated axis is photo
	if c := nrgbaAt(page, 240, 105); c.B != 255 || c.R != 255 {
		t.Errorf("Expected paper at the unrotated corner, got %v", c)
	}
	x := 150 + 80*math.Cos(math.Pi/6)
	y := 150 + 80*math.Sin(math.Pi/6)
	if c := nrgbaAt(page, int(x), int(y)); c.B != 200 || c.R != 0 {
		t.Errorf("Expected photo along the rotated axis, got %v", c)
	}
}
