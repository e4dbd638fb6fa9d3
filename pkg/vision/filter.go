// Package vision decides which traced boundaries are photos, how each photo
// is rotated, and in which order photos are numbered.
package vision

import (
	"fmt"
	"math"
	"sort"

	"github.com/menta2k/scan-splitter/pkg/geometry"
	"github.com/menta2k/scan-splitter/pkg/types"
)

// MaxPhotos is the most photos a single page can yield
const MaxPhotos = 4

// FilterConfig holds the plausibility rules for photo regions
type FilterConfig struct {
	MinAreaRatio       float64 // minimum share of the page area
	MaxAspectRatio     float64 // bounding box long side / short side must stay below
	MinSeparationRatio float64 // share of the smallest diagonal two centers must keep apart; 0 disables
	MaxRegions         int
}

// DefaultFilterConfig returns the standard photo plausibility rules
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		MinAreaRatio:       0.05,
		MaxAspectRatio:     10,
		MinSeparationRatio: 0.25,
		MaxRegions:         MaxPhotos,
	}
}

// Validate checks the configuration ranges
func (c FilterConfig) Validate() error {
	if c.MinAreaRatio < 0 || c.MinAreaRatio >= 1 {
		return fmt.Errorf("min area ratio must be in [0, 1), got %v", c.MinAreaRatio)
	}
	if c.MaxAspectRatio <= 1 {
		return fmt.Errorf("max aspect ratio must be greater than 1, got %v", c.MaxAspectRatio)
	}
	if c.MinSeparationRatio < 0 {
		return fmt.Errorf("min separation ratio must not be negative, got %v", c.MinSeparationRatio)
	}
	if c.MaxRegions < 1 || c.MaxRegions > MaxPhotos {
		return fmt.Errorf("max regions must be between 1 and %d, got %d", MaxPhotos, c.MaxRegions)
	}
	return nil
}

// RegionFilter rejects boundaries that cannot be photos
type RegionFilter struct {
	config FilterConfig
}

// NewFilter creates a RegionFilter with default configuration
func NewFilter() *RegionFilter {
	return &RegionFilter{config: DefaultFilterConfig()}
}

// NewFilterWithConfig creates a RegionFilter with custom configuration
func NewFilterWithConfig(config FilterConfig) *RegionFilter {
	return &RegionFilter{config: config}
}

// Measure wraps a boundary with the values the filter works on
func Measure(b types.Boundary) types.CandidateRegion {
	bounds := b.Bounds()
	c := types.CandidateRegion{
		Boundary: b,
		Area:     geometry.PolygonArea(b),
		Bounds:   bounds,
	}
	long, short := bounds.Dx(), bounds.Dy()
	if short > long {
		long, short = short, long
	}
	if short > 0 {
		c.AspectRatio = float64(long) / float64(short)
	} else {
		c.AspectRatio = math.Inf(1)
	}
	return c
}

// Apply returns the boundaries of a width x height page that pass the area
// and aspect rules, with near-duplicates removed and capped at MaxRegions.
// The result is ordered by area, largest first.
func (f *RegionFilter) Apply(boundaries []types.Boundary, width, height int) []types.CandidateRegion {
	minArea := f.config.MinAreaRatio * float64(width) * float64(height)

	type indexed struct {
		types.CandidateRegion
		index int
	}
	var passed []indexed
	for i, b := range boundaries {
		c := Measure(b)
		if c.Area <= minArea {
			continue
		}
		if c.AspectRatio >= f.config.MaxAspectRatio {
			continue
		}
		passed = append(passed, indexed{c, i})
	}
	sort.SliceStable(passed, func(i, j int) bool {
		if passed[i].Area != passed[j].Area {
			return passed[i].Area > passed[j].Area
		}
		return passed[i].index < passed[j].index
	})

	candidates := make([]types.CandidateRegion, len(passed))
	for i, p := range passed {
		candidates[i] = p.CandidateRegion
	}
	candidates = f.dedupe(candidates)

	limit := f.config.MaxRegions
	if limit <= 0 || limit > MaxPhotos {
		limit = MaxPhotos
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// dedupe drops candidates whose center lies within the minimum separation of
// a larger one. Input must be sorted by area, largest first.
func (f *RegionFilter) dedupe(candidates []types.CandidateRegion) []types.CandidateRegion {
	if f.config.MinSeparationRatio <= 0 || len(candidates) < 2 {
		return candidates
	}
	smallest := math.Inf(1)
	for _, c := range candidates {
		smallest = math.Min(smallest, diagonal(c))
	}
	minSep := f.config.MinSeparationRatio * smallest

	kept := candidates[:0:0]
	for _, c := range candidates {
		cx, cy := center(c)
		duplicate := false
		for _, k := range kept {
			kx, ky := center(k)
			if math.Hypot(cx-kx, cy-ky) < minSep {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, c)
		}
	}
	return kept
}

func center(c types.CandidateRegion) (float64, float64) {
	b := c.Bounds
	return float64(b.Min.X+b.Max.X) / 2, float64(b.Min.Y+b.Max.Y) / 2
}

func diagonal(c types.CandidateRegion) float64 {
	return math.Hypot(float64(c.Bounds.Dx()), float64(c.Bounds.Dy()))
}
