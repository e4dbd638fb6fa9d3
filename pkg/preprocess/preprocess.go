// Package preprocess turns a scanned page into a binary edge mask: luminance,
// edge-preserving smoothing, adaptive thresholding and morphological closing.
package preprocess

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Config holds the preprocessing parameters
type Config struct {
	BilateralDiameter    int
	BilateralSigmaColor  float64
	BilateralSigmaSpace  float64
	ThresholdBlockSize   int
	ThresholdConstant    float64
	ClosingKernelSize    int
	InvertDarkBackground bool
	DarkBackgroundLevel  float64
}

// DefaultConfig returns the standard preprocessing parameters
func DefaultConfig() Config {
	return Config{
		BilateralDiameter:    9,
		BilateralSigmaColor:  75,
		BilateralSigmaSpace:  75,
		ThresholdBlockSize:   11,
		ThresholdConstant:    2,
		ClosingKernelSize:    5,
		InvertDarkBackground: true,
		DarkBackgroundLevel:  100,
	}
}

// Validate checks that the parameters describe usable kernels
func (c Config) Validate() error {
	if c.BilateralDiameter < 1 {
		return fmt.Errorf("bilateral diameter must be positive, got %d", c.BilateralDiameter)
	}
	if c.BilateralSigmaColor <= 0 || c.BilateralSigmaSpace <= 0 {
		return fmt.Errorf("bilateral sigmas must be positive")
	}
	if c.ThresholdBlockSize < 3 || c.ThresholdBlockSize%2 == 0 {
		return fmt.Errorf("threshold block size must be odd and at least 3, got %d", c.ThresholdBlockSize)
	}
	if c.ClosingKernelSize < 1 || c.ClosingKernelSize%2 == 0 {
		return fmt.Errorf("closing kernel size must be odd and positive, got %d", c.ClosingKernelSize)
	}
	return nil
}

// Preprocessor produces binary masks from page images
type Preprocessor struct {
	config Config
}

// New creates a Preprocessor with default configuration
func New() *Preprocessor {
	return &Preprocessor{config: DefaultConfig()}
}

// NewWithConfig creates a Preprocessor with custom configuration
func NewWithConfig(config Config) *Preprocessor {
	return &Preprocessor{config: config}
}

// Run converts img into a mask where 255 marks edge pixels. The mask has the
// same size as img with its origin at (0,0).
func (p *Preprocessor) Run(img image.Image) *image.Gray {
	lum := Luminance(img)
	if p.config.InvertDarkBackground && isDarkBackground(lum, p.config.DarkBackgroundLevel) {
		invert(lum)
	}
	smooth := Bilateral(lum, p.config.BilateralDiameter, p.config.BilateralSigmaColor, p.config.BilateralSigmaSpace)
	mask := AdaptiveThreshold(smooth, p.config.ThresholdBlockSize, p.config.ThresholdConstant)
	return Close(mask, p.config.ClosingKernelSize)
}

// Luminance returns the single channel brightness of img
func Luminance(img image.Image) *image.Gray {
	nrgba := imaging.Grayscale(img)
	w, h := nrgba.Bounds().Dx(), nrgba.Bounds().Dy()
	gray := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		dst := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		for x := range dst {
			dst[x] = src[x*4]
		}
	}
	return gray
}

func invert(g *image.Gray) {
	for i, v := range g.Pix {
		g.Pix[i] = 255 - v
	}
}
