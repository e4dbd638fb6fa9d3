package analyzer

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/stat"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/scan-splitter/pkg/types"
)

// ImageAnalyzer loads, saves and inspects page images
type ImageAnalyzer struct {
	config Config
}

// Config holds configuration for the image analyzer
type Config struct {
	DefaultQuality   int
	SupportedFormats []string
	MinImageSize     int
}

// New creates a new ImageAnalyzer with default configuration
func New() *ImageAnalyzer {
	return &ImageAnalyzer{
		config: Config{
			DefaultQuality:   90,
			SupportedFormats: []string{"jpeg", "png", "webp", "tiff", "bmp", "gif"},
			MinImageSize:     1,
		},
	}
}

// NewWithConfig creates a new ImageAnalyzer with custom configuration
func NewWithConfig(config Config) *ImageAnalyzer {
	return &ImageAnalyzer{config: config}
}

// LoadImage loads an image from file, applying EXIF orientation
func (a *ImageAnalyzer) LoadImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	img, err := a.decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}

// LoadImageFromReader loads an image from an io.Reader
func (a *ImageAnalyzer) LoadImageFromReader(reader io.Reader) (image.Image, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return a.decode(data)
}

func (a *ImageAnalyzer) decode(data []byte) (image.Image, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err == nil && !a.isFormatSupported(format) {
		return nil, fmt.Errorf("unsupported image format: %s", format)
	}

	if img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true)); err == nil {
		return img, nil
	}

	// Fallback: explicit WebP decode
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, fmt.Errorf("image: unknown or unsupported format")
}

// SaveImage saves an image to path in the given format (jpg, png or webp).
// An empty format is taken from the file extension.
func (a *ImageAnalyzer) SaveImage(img image.Image, path, format string, quality int, lossless bool) error {
	if format == "" {
		format = path[strings.LastIndex(path, ".")+1:]
	}
	if quality <= 0 {
		quality = a.config.DefaultQuality
	}

	switch strings.ToLower(format) {
	case "webp":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		opts := &webp.Options{Lossless: lossless, Quality: float32(quality)}
		if err := webp.Encode(f, img, opts); err != nil {
			return fmt.Errorf("failed to encode webp: %w", err)
		}
		return nil
	case "png":
		if err := imaging.Save(img, path); err != nil {
			return fmt.Errorf("failed to save png: %w", err)
		}
		return nil
	case "jpg", "jpeg":
		if err := imaging.Save(img, path, imaging.JPEGQuality(quality)); err != nil {
			return fmt.Errorf("failed to save jpeg: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// Encode writes img to w in the given format
func (a *ImageAnalyzer) Encode(w io.Writer, img image.Image, format string, quality int, lossless bool) error {
	if quality <= 0 {
		quality = a.config.DefaultQuality
	}
	switch strings.ToLower(format) {
	case "webp":
		return webp.Encode(w, img, &webp.Options{Lossless: lossless, Quality: float32(quality)})
	case "png":
		return imaging.Encode(w, img, imaging.PNG)
	case "jpg", "jpeg":
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// ImageInfo contains basic image metadata
type ImageInfo struct {
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	AspectRatio    float64 `json:"aspect_ratio"`
	Area           int     `json:"area"`
	MeanLuminance  float64 `json:"mean_luminance"`
	LuminanceStdev float64 `json:"luminance_stdev"`
}

// infoSampleStep keeps GetImageInfo cheap on full page scans
const infoSampleStep = 4

// GetImageInfo returns size and brightness statistics for an image
func (a *ImageAnalyzer) GetImageInfo(img image.Image) ImageInfo {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	info := ImageInfo{
		Width:  width,
		Height: height,
		Area:   width * height,
	}
	if height > 0 {
		info.AspectRatio = float64(width) / float64(height)
	}
	if width == 0 || height == 0 {
		return info
	}

	gray := imaging.Grayscale(img)
	samples := make([]float64, 0, (width/infoSampleStep+1)*(height/infoSampleStep+1))
	for y := 0; y < height; y += infoSampleStep {
		for x := 0; x < width; x += infoSampleStep {
			samples = append(samples, float64(gray.Pix[y*gray.Stride+x*4]))
		}
	}
	info.MeanLuminance = stat.Mean(samples, nil)
	if len(samples) > 1 {
		info.LuminanceStdev = stat.StdDev(samples, nil)
	}
	return info
}

func (a *ImageAnalyzer) isFormatSupported(format string) bool {
	for _, supported := range a.config.SupportedFormats {
		if strings.EqualFold(format, supported) {
			return true
		}
	}
	return false
}

// ValidateImage checks if an image can be split. Errors wrap types.ErrInvalidInput.
func (a *ImageAnalyzer) ValidateImage(img image.Image) error {
	if img == nil {
		return fmt.Errorf("%w: nil image", types.ErrInvalidInput)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return fmt.Errorf("%w: empty image", types.ErrInvalidInput)
	}
	if bounds.Dx() < a.config.MinImageSize || bounds.Dy() < a.config.MinImageSize {
		return fmt.Errorf("%w: image too small: %dx%d (minimum: %d)",
			types.ErrInvalidInput, bounds.Dx(), bounds.Dy(), a.config.MinImageSize)
	}
	return nil
}
