// Package scansplitter finds the printed photos on a scanned page and cuts
// each one out as an upright image.
//
// A page holding up to four photos goes through a fixed pipeline: the page is
// reduced to an edge mask, the outer boundaries of blobs in that mask are
// traced, implausible blobs are filtered out, each remaining blob gets a
// minimum-area rectangle and rotation angle, the regions are numbered
// top-left to bottom-right and finally every region is rotated upright and
// cropped with a little padding. When nothing usable is found the page is
// cut into four equal quadrants instead, so a valid page always yields output.
//
// Basic usage:
//
//	package main
//
//	import (
//		"fmt"
//		"log"
//
//		scansplitter "github.com/menta2k/scan-splitter"
//		"github.com/menta2k/scan-splitter/pkg/analyzer"
//	)
//
//	func main() {
//		loader := analyzer.New()
//		page, err := loader.LoadImage("scan.png")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		result, err := scansplitter.DetectAndExtract(page, scansplitter.DefaultOptions())
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		for _, photo := range result.Photos {
//			name := fmt.Sprintf("scan_photo_%d.jpg", photo.Slot)
//			if err := loader.SaveImage(photo.Image, name, "jpg", 90, false); err != nil {
//				log.Fatal(err)
//			}
//		}
//	}
//
// The pipeline stages live in their own packages:
//
//  1. Preprocess (pkg/preprocess): luminance, bilateral smoothing, adaptive threshold, closing
//  2. Contour (pkg/contour): outer boundary tracing
//  3. Vision (pkg/vision): region filtering, orientation and slot ordering
//  4. Cropper (pkg/cropper): rotate-and-crop extraction and the quadrant fallback
//  5. Overlay (pkg/overlay): optional debug rendering
//
// Every run is a pure function of the image and Options; Splitter values
// hold no per-run state and may be shared between goroutines.
package scansplitter

import (
	"fmt"
	"image"

	"github.com/menta2k/scan-splitter/pkg/contour"
	"github.com/menta2k/scan-splitter/pkg/cropper"
	"github.com/menta2k/scan-splitter/pkg/logger"
	"github.com/menta2k/scan-splitter/pkg/overlay"
	"github.com/menta2k/scan-splitter/pkg/preprocess"
	"github.com/menta2k/scan-splitter/pkg/types"
	"github.com/menta2k/scan-splitter/pkg/vision"
)

// Version of the scan splitter library
const Version = "1.0.0"

// ErrInvalidInput is returned for missing or empty page images
var ErrInvalidInput = types.ErrInvalidInput

// RegionFailure describes a detected region that could not be extracted
type RegionFailure struct {
	Slot  int    `json:"slot"`
	Error string `json:"error"`
}

// PipelineResult is the outcome of one page
type PipelineResult struct {
	Photos           []types.ExtractedPhoto `json:"photos"`
	UsedGridFallback bool                   `json:"used_grid_fallback"`
	Skipped          int                    `json:"skipped"`
	Failures         []RegionFailure        `json:"failures,omitempty"`
	DebugImage       image.Image            `json:"-"`
}

// Splitter runs the detection pipeline with a fixed configuration
type Splitter struct {
	opts   Options
	logger logger.Logger
}

// New creates a Splitter with default options
func New() *Splitter {
	return NewWithConfig(DefaultOptions())
}

// NewWithConfig creates a Splitter with custom options
func NewWithConfig(opts Options) *Splitter {
	return &Splitter{opts: opts, logger: logger.NewNoop()}
}

// SetLogger sets the logger used for per-stage diagnostics
func (s *Splitter) SetLogger(l logger.Logger) {
	if l == nil {
		l = logger.NewNoop()
	}
	s.logger = l
}

// Options returns the options the Splitter runs with
func (s *Splitter) Options() Options {
	return s.opts
}

// DetectAndExtract finds and extracts the photos on a page, falling back to
// a quadrant split when no region is found.
func DetectAndExtract(img image.Image, opts Options) (*PipelineResult, error) {
	return NewWithConfig(opts).DetectAndExtract(img)
}

// GridSplit cuts a page into four quadrants without detection
func GridSplit(img image.Image) (*PipelineResult, error) {
	return New().GridSplit(img)
}

// DetectAndExtract finds and extracts the photos on a page
func (s *Splitter) DetectAndExtract(img image.Image) (*PipelineResult, error) {
	if err := validateInput(img); err != nil {
		return nil, err
	}
	if err := s.opts.Validate(); err != nil {
		return nil, err
	}
	log := s.logger.WithComponent("detect")

	regions := s.detect(img, log)
	if len(regions) == 0 {
		log.Info("No photo regions found, using grid split")
		return s.gridResult(img)
	}

	extractor := cropper.NewWithConfig(s.opts.cropConfig())
	photos, failures := extractor.ExtractAll(img, regions)
	result := &PipelineResult{Photos: photos, Skipped: len(failures)}
	for _, f := range failures {
		log.Warn("Skipped slot %d: %v", f.Slot, f.Err)
		result.Failures = append(result.Failures, RegionFailure{Slot: f.Slot, Error: f.Err.Error()})
	}

	if len(photos) == 0 {
		log.Info("No region could be extracted, using grid split")
		fallback, err := s.gridResult(img)
		if err != nil {
			return nil, err
		}
		fallback.Skipped = result.Skipped
		fallback.Failures = result.Failures
		return fallback, nil
	}
	log.Debug("Extracted %d photos, skipped %d", len(photos), result.Skipped)

	if s.opts.ProduceDebugImage {
		dbg, err := s.RenderDebug(img, overlay.MarksFromSlotted(regions))
		if err != nil {
			return nil, err
		}
		result.DebugImage = dbg
	}
	return result, nil
}

// DetectRegions runs detection only and returns the numbered regions
func (s *Splitter) DetectRegions(img image.Image) ([]types.SlottedRegion, error) {
	if err := validateInput(img); err != nil {
		return nil, err
	}
	if err := s.opts.Validate(); err != nil {
		return nil, err
	}
	return s.detect(img, s.logger.WithComponent("detect")), nil
}

func (s *Splitter) detect(img image.Image, log logger.Logger) []types.SlottedRegion {
	b := img.Bounds()
	mask := preprocess.NewWithConfig(s.opts.preprocessConfig()).Run(img)

	boundaries := contour.New().Trace(mask)
	log.Debug("Traced %d boundaries", len(boundaries))

	candidates := vision.NewFilterWithConfig(s.opts.filterConfig()).Apply(boundaries, b.Dx(), b.Dy())
	log.Debug("%d candidate regions passed filtering", len(candidates))

	oriented := vision.EstimateAll(candidates)
	for _, r := range oriented {
		log.Debug("Region at (%.0f, %.0f) size %.0fx%.0f angle %.2f",
			r.Rect.Center.X, r.Rect.Center.Y, r.Rect.Width, r.Rect.Height, r.Rect.Angle)
	}
	return vision.Order(oriented, b.Dy())
}

// GridSplit cuts a page into four quadrants without detection
func (s *Splitter) GridSplit(img image.Image) (*PipelineResult, error) {
	if err := validateInput(img); err != nil {
		return nil, err
	}
	return s.gridResult(img)
}

func (s *Splitter) gridResult(img image.Image) (*PipelineResult, error) {
	photos := cropper.NewGridWithConfig(s.opts.gridConfig()).Split(img)
	result := &PipelineResult{Photos: photos, UsedGridFallback: true}
	if s.opts.ProduceDebugImage {
		dbg, err := s.RenderDebug(img, overlay.MarksFromPhotos(photos))
		if err != nil {
			return nil, err
		}
		result.DebugImage = dbg
	}
	return result, nil
}

// RenderDebug draws marks over a copy of img
func (s *Splitter) RenderDebug(img image.Image, marks []overlay.Mark) (image.Image, error) {
	r, err := overlay.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create overlay renderer: %w", err)
	}
	dbg, err := r.Render(img, marks)
	if err != nil {
		return nil, fmt.Errorf("failed to render debug image: %w", err)
	}
	return dbg, nil
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}

func validateInput(img image.Image) error {
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidInput)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return fmt.Errorf("%w: %dx%d image", ErrInvalidInput, b.Dx(), b.Dy())
	}
	return nil
}
