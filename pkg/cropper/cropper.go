package cropper

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/menta2k/scan-splitter/pkg/types"
)

// ErrDegenerateRegion is returned when a region's crop box cannot be built
var ErrDegenerateRegion = errors.New("degenerate region geometry")

// maxDiagonalFactor bounds the output size relative to the page diagonal
const maxDiagonalFactor = 4

// Extractor straightens and crops photo regions out of a page
type Extractor struct {
	config CropConfig
}

// CropConfig holds configuration for photo extraction
type CropConfig struct {
	Padding    int         // pixels of page kept around each photo
	Background color.Color // fill for pixels that fall outside the page
	Workers    int         // parallel extractions; 0 or 1 runs sequentially
}

// DefaultCropConfig returns the standard extraction settings
func DefaultCropConfig() CropConfig {
	return CropConfig{
		Padding:    10,
		Background: color.White,
		Workers:    1,
	}
}

// New creates a new Extractor with default configuration
func New() *Extractor {
	return &Extractor{config: DefaultCropConfig()}
}

// NewWithConfig creates a new Extractor with custom configuration
func NewWithConfig(config CropConfig) *Extractor {
	if config.Background == nil {
		config.Background = color.White
	}
	return &Extractor{config: config}
}

// Failure records a region that could not be extracted
type Failure struct {
	Slot int
	Err  error
}

// CropSize returns the output dimensions for a region, or an error wrapping
// ErrDegenerateRegion when the geometry is unusable.
func (e *Extractor) CropSize(r types.RotatedRect, bounds image.Rectangle) (int, int, error) {
	for _, v := range []float64{r.Center.X, r.Center.Y, r.Width, r.Height, r.Angle} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, fmt.Errorf("%w: non-finite geometry", ErrDegenerateRegion)
		}
	}
	w := int(math.Round(r.Width)) + 2*e.config.Padding
	h := int(math.Round(r.Height)) + 2*e.config.Padding
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%w: crop box %dx%d", ErrDegenerateRegion, w, h)
	}
	limit := maxDiagonalFactor * math.Hypot(float64(bounds.Dx()), float64(bounds.Dy()))
	if float64(w) > limit || float64(h) > limit {
		return 0, 0, fmt.Errorf("%w: crop box %dx%d exceeds page", ErrDegenerateRegion, w, h)
	}
	return w, h, nil
}

// Extract rotates the page about the region center so the region becomes
// axis aligned, then cuts the padded region out of it.
func (e *Extractor) Extract(img image.Image, region types.SlottedRegion) (types.ExtractedPhoto, error) {
	bounds := img.Bounds()
	rect := region.Region.Rect
	w, h, err := e.CropSize(rect, bounds)
	if err != nil {
		return types.ExtractedPhoto{}, fmt.Errorf("failed to extract slot %d: %w", region.Slot, err)
	}

	dst := imaging.New(w, h, e.config.Background)

	// Boundary points are pixel indices; the sampler works on pixel centers.
	cx := rect.Center.X + 0.5 + float64(bounds.Min.X)
	cy := rect.Center.Y + 0.5 + float64(bounds.Min.Y)
	rad := rect.Angle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)

	// source -> destination: rotate by -angle about the center, then move the
	// center to the middle of the output.
	ox, oy := float64(w)/2, float64(h)/2
	s2d := f64.Aff3{
		cos, sin, ox - (cos*cx + sin*cy),
		-sin, cos, oy - (-sin*cx + cos*cy),
	}
	draw.BiLinear.Transform(dst, s2d, img, bounds, draw.Over, nil)

	return types.ExtractedPhoto{
		Image:   dst,
		Slot:    region.Slot,
		Region:  region.Region,
		Padding: e.config.Padding,
	}, nil
}

type indexedPhoto struct {
	index int
	photo types.ExtractedPhoto
	err   error
}

// ExtractAll extracts every region. Failed regions are reported and skipped;
// the photos keep the order of regions.
func (e *Extractor) ExtractAll(img image.Image, regions []types.SlottedRegion) ([]types.ExtractedPhoto, []Failure) {
	results := make([]indexedPhoto, 0, len(regions))
	if e.config.Workers <= 1 || len(regions) < 2 {
		for i, r := range regions {
			p, err := e.Extract(img, r)
			results = append(results, indexedPhoto{index: i, photo: p, err: err})
		}
	} else {
		results = e.extractParallel(img, regions)
	}

	var photos []types.ExtractedPhoto
	var failures []Failure
	for _, res := range results {
		if res.err != nil {
			failures = append(failures, Failure{Slot: regions[res.index].Slot, Err: res.err})
			continue
		}
		photos = append(photos, res.photo)
	}
	return photos, failures
}

// extractParallel extracts regions on a worker pool
func (e *Extractor) extractParallel(img image.Image, regions []types.SlottedRegion) []indexedPhoto {
	numWorkers := min(e.config.Workers, len(regions))
	jobs := make(chan int, len(regions))
	out := make(chan indexedPhoto, len(regions))

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				p, err := e.Extract(img, regions[idx])
				out <- indexedPhoto{index: idx, photo: p, err: err}
			}
		}()
	}

	for i := range regions {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(out)
	}()

	results := make([]indexedPhoto, 0, len(regions))
	for r := range out {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].index < results[j].index
	})
	return results
}
