package scansplitter

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/menta2k/scan-splitter/pkg/cropper"
	"github.com/menta2k/scan-splitter/pkg/preprocess"
	"github.com/menta2k/scan-splitter/pkg/vision"
)

// ErrInvalidOptions is returned when Options fail validation
var ErrInvalidOptions = errors.New("invalid options")

// Options tunes detection and extraction. Start from DefaultOptions.
type Options struct {
	// Region filtering
	MinAreaRatio       float64 `json:"min_area_ratio" yaml:"min_area_ratio"`
	MaxAspectRatio     float64 `json:"max_aspect_ratio" yaml:"max_aspect_ratio"`
	MinSeparationRatio float64 `json:"min_separation_ratio" yaml:"min_separation_ratio"`
	MaxRegions         int     `json:"max_regions" yaml:"max_regions"`

	// Extraction
	Padding int `json:"padding" yaml:"padding"`
	Workers int `json:"workers" yaml:"workers"`

	// Preprocessing
	ClosingKernelSize    int     `json:"closing_kernel_size" yaml:"closing_kernel_size"`
	ThresholdBlockSize   int     `json:"threshold_block_size" yaml:"threshold_block_size"`
	ThresholdConstant    float64 `json:"threshold_constant" yaml:"threshold_constant"`
	BilateralDiameter    int     `json:"bilateral_diameter" yaml:"bilateral_diameter"`
	BilateralSigmaColor  float64 `json:"bilateral_sigma_color" yaml:"bilateral_sigma_color"`
	BilateralSigmaSpace  float64 `json:"bilateral_sigma_space" yaml:"bilateral_sigma_space"`
	InvertDarkBackground bool    `json:"invert_dark_background" yaml:"invert_dark_background"`
	DarkBackgroundLevel  float64 `json:"dark_background_level" yaml:"dark_background_level"`

	// Grid fallback
	TrimGridMargins bool  `json:"trim_grid_margins" yaml:"trim_grid_margins"`
	MarginThreshold uint8 `json:"margin_threshold" yaml:"margin_threshold"`

	ProduceDebugImage bool `json:"produce_debug_image" yaml:"produce_debug_image"`

	// Background fills crop pixels outside the page; nil means white
	Background color.Color `json:"-" yaml:"-"`
}

// DefaultOptions returns the standard settings
func DefaultOptions() Options {
	pre := preprocess.DefaultConfig()
	filter := vision.DefaultFilterConfig()
	crop := cropper.DefaultCropConfig()
	grid := cropper.DefaultGridConfig()
	return Options{
		MinAreaRatio:         filter.MinAreaRatio,
		MaxAspectRatio:       filter.MaxAspectRatio,
		MinSeparationRatio:   filter.MinSeparationRatio,
		MaxRegions:           filter.MaxRegions,
		Padding:              crop.Padding,
		Workers:              crop.Workers,
		ClosingKernelSize:    pre.ClosingKernelSize,
		ThresholdBlockSize:   pre.ThresholdBlockSize,
		ThresholdConstant:    pre.ThresholdConstant,
		BilateralDiameter:    pre.BilateralDiameter,
		BilateralSigmaColor:  pre.BilateralSigmaColor,
		BilateralSigmaSpace:  pre.BilateralSigmaSpace,
		InvertDarkBackground: pre.InvertDarkBackground,
		DarkBackgroundLevel:  pre.DarkBackgroundLevel,
		TrimGridMargins:      grid.TrimMargins,
		MarginThreshold:      grid.MarginThreshold,
		ProduceDebugImage:    false,
		Background:           crop.Background,
	}
}

// Validate checks every option, returning an error wrapping ErrInvalidOptions
func (o Options) Validate() error {
	if err := o.preprocessConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if err := o.filterConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if o.Padding < 0 {
		return fmt.Errorf("%w: padding must not be negative, got %d", ErrInvalidOptions, o.Padding)
	}
	if o.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidOptions, o.Workers)
	}
	return nil
}

func (o Options) preprocessConfig() preprocess.Config {
	return preprocess.Config{
		BilateralDiameter:    o.BilateralDiameter,
		BilateralSigmaColor:  o.BilateralSigmaColor,
		BilateralSigmaSpace:  o.BilateralSigmaSpace,
		ThresholdBlockSize:   o.ThresholdBlockSize,
		ThresholdConstant:    o.ThresholdConstant,
		ClosingKernelSize:    o.ClosingKernelSize,
		InvertDarkBackground: o.InvertDarkBackground,
		DarkBackgroundLevel:  o.DarkBackgroundLevel,
	}
}

func (o Options) filterConfig() vision.FilterConfig {
	return vision.FilterConfig{
		MinAreaRatio:       o.MinAreaRatio,
		MaxAspectRatio:     o.MaxAspectRatio,
		MinSeparationRatio: o.MinSeparationRatio,
		MaxRegions:         o.MaxRegions,
	}
}

func (o Options) cropConfig() cropper.CropConfig {
	return cropper.CropConfig{
		Padding:    o.Padding,
		Background: o.Background,
		Workers:    o.Workers,
	}
}

func (o Options) gridConfig() cropper.GridConfig {
	return cropper.GridConfig{
		TrimMargins:     o.TrimGridMargins,
		MarginThreshold: o.MarginThreshold,
	}
}
