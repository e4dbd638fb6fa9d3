// Package contour traces the outer boundaries of foreground blobs in a binary
// mask. Blobs nested inside another blob's holes are merged into it, so only
// outermost boundaries are reported.
package contour

import (
	"image"

	"github.com/menta2k/scan-splitter/pkg/types"
)

// Clockwise neighbour offsets in image coordinates (y down), starting east.
var (
	dirX = [8]int{1, 1, 0, -1, -1, -1, 0, 1}
	dirY = [8]int{0, 1, 1, 1, 0, -1, -1, -1}
)

const west = 4

// Detector finds outer boundaries in binary masks
type Detector struct {
	simplify bool
}

// New creates a Detector that removes collinear boundary points
func New() *Detector {
	return &Detector{simplify: true}
}

// NewRaw creates a Detector that keeps every boundary pixel
func NewRaw() *Detector {
	return &Detector{simplify: false}
}

// Trace returns one boundary per outermost 8-connected foreground blob of
// mask (non-zero pixels), in raster order of each blob's first pixel.
func (d *Detector) Trace(mask *image.Gray) []types.Boundary {
	w, h := mask.Rect.Dx(), mask.Rect.Dy()
	if w == 0 || h == 0 {
		return nil
	}
	filled := fillHoles(mask, w, h)
	visited := make([]bool, w*h)

	var boundaries []types.Boundary
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if !filled[i] || visited[i] {
				continue
			}
			b := traceBoundary(filled, w, h, x, y)
			markBlob(filled, visited, w, h, x, y)
			if d.simplify {
				b = Simplify(b)
			}
			boundaries = append(boundaries, b)
		}
	}
	return boundaries
}

// fillHoles returns the mask as a flat slice with every background pixel that
// cannot reach the image border (through 4-connected background) set.
func fillHoles(mask *image.Gray, w, h int) []bool {
	fg := make([]bool, w*h)
	for y := 0; y < h; y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+w]
		for x, v := range row {
			fg[y*w+x] = v != 0
		}
	}

	outside := make([]bool, w*h)
	queue := make([]int, 0, 2*(w+h))
	seed := func(x, y int) {
		i := y*w + x
		if !fg[i] && !outside[i] {
			outside[i] = true
			queue = append(queue, i)
		}
	}
	for x := 0; x < w; x++ {
		seed(x, 0)
		seed(x, h-1)
	}
	for y := 0; y < h; y++ {
		seed(0, y)
		seed(w-1, y)
	}
	for len(queue) > 0 {
		i := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		x, y := i%w, i/w
		if x > 0 {
			seed(x-1, y)
		}
		if x < w-1 {
			seed(x+1, y)
		}
		if y > 0 {
			seed(x, y-1)
		}
		if y < h-1 {
			seed(x, y+1)
		}
	}

	for i := range fg {
		if !outside[i] {
			fg[i] = true
		}
	}
	return fg
}

// markBlob flags every pixel of the 8-connected blob containing (sx, sy)
func markBlob(fg, visited []bool, w, h, sx, sy int) {
	start := sy*w + sx
	visited[start] = true
	stack := []int{start}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		for d := 0; d < 8; d++ {
			nx, ny := x+dirX[d], y+dirY[d]
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			j := ny*w + nx
			if fg[j] && !visited[j] {
				visited[j] = true
				stack = append(stack, j)
			}
		}
	}
}

// traceBoundary follows the outer edge of the blob whose first raster pixel is
// (sx, sy) using Moore-neighbour tracing. Tracing stops when the walk is about
// to repeat its first step.
func traceBoundary(fg []bool, w, h, sx, sy int) types.Boundary {
	at := func(x, y int) bool {
		return x >= 0 && y >= 0 && x < w && y < h && fg[y*w+x]
	}

	// next finds the first foreground neighbour clockwise after the backtrack
	next := func(x, y, back int) (int, int, int, bool) {
		for i := 1; i <= 8; i++ {
			d := (back + i) % 8
			if at(x+dirX[d], y+dirY[d]) {
				return x + dirX[d], y + dirY[d], d, true
			}
		}
		return 0, 0, 0, false
	}

	boundary := types.Boundary{{X: sx, Y: sy}}
	// the pixel west of the first raster pixel is background
	fx, fy, fd, ok := next(sx, sy, west)
	if !ok {
		return boundary
	}

	limit := 4*w*h + 8
	x, y, d := fx, fy, fd
	for steps := 0; steps < limit; steps++ {
		back := backtrack(d)
		nx, ny, nd, _ := next(x, y, back)
		if x == sx && y == sy && nx == fx && ny == fy {
			break
		}
		boundary = append(boundary, types.Point{X: x, Y: y})
		x, y, d = nx, ny, nd
	}
	return boundary
}

// backtrack returns the direction, seen from the pixel just entered by moving
// in direction d, of the last background pixel examined before it.
func backtrack(d int) int {
	if d%2 == 0 {
		return (d + 6) % 8
	}
	return (d + 5) % 8
}
