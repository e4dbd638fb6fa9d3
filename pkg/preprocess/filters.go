package preprocess

import (
	"image"
	"math"

	"gonum.org/v1/gonum/stat"
)

// borderFraction is the share of each side sampled when probing the paper colour
const borderFraction = 0.02

// isDarkBackground reports whether the page border is darker than level
func isDarkBackground(g *image.Gray, level float64) bool {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	band := int(math.Max(1, borderFraction*float64(min(w, h))))
	samples := make([]float64, 0, 2*band*(w+h))
	for y := 0; y < h; y++ {
		row := g.Pix[y*g.Stride : y*g.Stride+w]
		if y < band || y >= h-band {
			for _, v := range row {
				samples = append(samples, float64(v))
			}
			continue
		}
		for x := 0; x < band && x < w; x++ {
			samples = append(samples, float64(row[x]), float64(row[w-1-x]))
		}
	}
	if len(samples) == 0 {
		return false
	}
	return stat.Mean(samples, nil) < level
}

// Bilateral smooths g while keeping strong edges. The window is the disc of
// the given diameter; pixels outside the image repeat the nearest edge pixel.
func Bilateral(g *image.Gray, diameter int, sigmaColor, sigmaSpace float64) *image.Gray {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	radius := diameter / 2
	if radius < 1 {
		copy(out.Pix, g.Pix)
		return out
	}

	type tap struct {
		dx, dy int
		weight float64
	}
	var taps []tap
	spaceCoeff := -0.5 / (sigmaSpace * sigmaSpace)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d2 := float64(dx*dx + dy*dy)
			if d2 > float64(radius*radius) {
				continue
			}
			taps = append(taps, tap{dx, dy, math.Exp(d2 * spaceCoeff)})
		}
	}

	var colorWeight [256]float64
	colorCoeff := -0.5 / (sigmaColor * sigmaColor)
	for i := range colorWeight {
		colorWeight[i] = math.Exp(float64(i*i) * colorCoeff)
	}

	clampX := func(x int) int { return max(0, min(w-1, x)) }
	clampY := func(y int) int { return max(0, min(h-1, y)) }

	for y := 0; y < h; y++ {
		inner := y >= radius && y < h-radius
		for x := 0; x < w; x++ {
			center := int(g.Pix[y*g.Stride+x])
			var sum, norm float64
			fast := inner && x >= radius && x < w-radius
			for _, t := range taps {
				var v int
				if fast {
					v = int(g.Pix[(y+t.dy)*g.Stride+x+t.dx])
				} else {
					v = int(g.Pix[clampY(y+t.dy)*g.Stride+clampX(x+t.dx)])
				}
				diff := v - center
				if diff < 0 {
					diff = -diff
				}
				wt := t.weight * colorWeight[diff]
				sum += wt * float64(v)
				norm += wt
			}
			out.Pix[y*out.Stride+x] = uint8(math.Round(sum / norm))
		}
	}
	return out
}

// AdaptiveThreshold marks pixels that are at least c darker than the mean of
// their block x block neighbourhood. The neighbourhood is clipped at the image
// edges. Foreground is 255.
func AdaptiveThreshold(g *image.Gray, block int, c float64) *image.Gray {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	r := block / 2

	// integral image with a zero row and column in front
	iw := w + 1
	integral := make([]int64, iw*(h+1))
	for y := 0; y < h; y++ {
		var rowSum int64
		for x := 0; x < w; x++ {
			rowSum += int64(g.Pix[y*g.Stride+x])
			integral[(y+1)*iw+x+1] = integral[y*iw+x+1] + rowSum
		}
	}

	for y := 0; y < h; y++ {
		y0, y1 := max(0, y-r), min(h, y+r+1)
		for x := 0; x < w; x++ {
			x0, x1 := max(0, x-r), min(w, x+r+1)
			sum := integral[y1*iw+x1] - integral[y0*iw+x1] - integral[y1*iw+x0] + integral[y0*iw+x0]
			n := float64((y1 - y0) * (x1 - x0))
			if float64(g.Pix[y*g.Stride+x]) <= float64(sum)/n-c {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}

// Close applies a dilation followed by an erosion with a size x size square
func Close(mask *image.Gray, size int) *image.Gray {
	if size <= 1 {
		out := image.NewGray(mask.Rect)
		copy(out.Pix, mask.Pix)
		return out
	}
	r := size / 2
	return erode(dilate(mask, r), r)
}

func dilate(mask *image.Gray, r int) *image.Gray {
	return boxMorph(mask, r, func(count, window int) bool { return count > 0 })
}

func erode(mask *image.Gray, r int) *image.Gray {
	return boxMorph(mask, r, func(count, window int) bool { return count == window })
}

// boxMorph runs a separable square morphology pass. keep decides the output
// pixel from the number of foreground pixels in the clipped window.
func boxMorph(mask *image.Gray, r int, keep func(count, window int) bool) *image.Gray {
	w, h := mask.Rect.Dx(), mask.Rect.Dy()
	tmp := make([]uint8, w*h)
	prefix := make([]int, max(w, h)+1)

	for y := 0; y < h; y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+w]
		for x, v := range row {
			prefix[x+1] = prefix[x]
			if v != 0 {
				prefix[x+1]++
			}
		}
		for x := 0; x < w; x++ {
			x0, x1 := max(0, x-r), min(w, x+r+1)
			if keep(prefix[x1]-prefix[x0], x1-x0) {
				tmp[y*w+x] = 255
			}
		}
	}

	out := image.NewGray(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y]
			if tmp[y*w+x] != 0 {
				prefix[y+1]++
			}
		}
		for y := 0; y < h; y++ {
			y0, y1 := max(0, y-r), min(h, y+r+1)
			if keep(prefix[y1]-prefix[y0], y1-y0) {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}
