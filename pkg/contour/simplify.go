package contour

import "github.com/menta2k/scan-splitter/pkg/types"

// Simplify removes points that lie in the middle of a straight horizontal,
// vertical or diagonal run. Enclosed area and bounds are unchanged.
func Simplify(b types.Boundary) types.Boundary {
	n := len(b)
	if n < 3 {
		return b
	}
	out := make(types.Boundary, 0, n)
	for i := 0; i < n; i++ {
		prev, cur, next := b[(i+n-1)%n], b[i], b[(i+1)%n]
		if step(prev, cur) == step(cur, next) {
			continue
		}
		out = append(out, cur)
	}
	if len(out) == 0 {
		// degenerate loop, keep the start
		return types.Boundary{b[0]}
	}
	return out
}

// step returns the unit move between two neighbouring boundary points
func step(a, b types.Point) types.Point {
	return types.Point{X: sign(b.X - a.X), Y: sign(b.Y - a.Y)}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
