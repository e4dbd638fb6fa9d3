package analyzer

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/menta2k/scan-splitter/pkg/types"
)

// createTestImage creates a simple test image
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	// Fill with a gradient pattern
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r := uint8((x * 255) / width)
			g := uint8((y * 255) / height)
			b := uint8(128)
			img.Set(x, y, color.RGBA{r, g, b, 255})
		}
	}

	return img
}

func TestNew(t *testing.T) {
	analyzer := New()
	if analyzer == nil {
		t.Fatal("New() returned nil")
	}

	if analyzer.config.DefaultQuality != 90 {
		t.Errorf("Expected default quality 90, got %d", analyzer.config.DefaultQuality)
	}
}

func TestNewWithConfig(t *testing.T) {
	cfg := Config{
		DefaultQuality:   95,
		SupportedFormats: []string{"png"},
		MinImageSize:     200,
	}

	analyzer := NewWithConfig(cfg)
	if analyzer.config.DefaultQuality != 95 {
		t.Errorf("Expected quality 95, got %d", analyzer.config.DefaultQuality)
	}

	if analyzer.config.MinImageSize != 200 {
		t.Errorf("Expected min size 200, got %d", analyzer.config.MinImageSize)
	}
}

func TestGetImageInfo(t *testing.T) {
	analyzer := New()
	img := createTestImage(400, 300)

	info := analyzer.GetImageInfo(img)

	if info.Width != 400 {
		t.Errorf("Expected width 400, got %d", info.Width)
	}

	if info.Height != 300 {
		t.Errorf("Expected height 300, got %d", info.Height)
	}

	expectedRatio := float64(400) / float64(300)
	if info.AspectRatio != expectedRatio {
		t.Errorf("Expected aspect ratio %f, got %f", expectedRatio, info.AspectRatio)
	}

	if info.Area != 120000 {
		t.Errorf("Expected area 120000, got %d", info.Area)
	}

	if info.MeanLuminance <= 0 || info.MeanLuminance >= 255 {
		t.Errorf("Expected mean luminance inside (0, 255), got %f", info.MeanLuminance)
	}
	if info.LuminanceStdev <= 0 {
		t.Errorf("Expected gradient to have spread, got stdev %f", info.LuminanceStdev)
	}
}

func TestGetImageInfoUniform(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for i := range img.Pix {
		img.Pix[i] = 200
	}

	info := New().GetImageInfo(img)
	if info.MeanLuminance != 200 {
		t.Errorf("Expected mean luminance 200, got %f", info.MeanLuminance)
	}
	if info.LuminanceStdev != 0 {
		t.Errorf("Expected zero stdev, got %f", info.LuminanceStdev)
	}
}

func TestValidateImage(t *testing.T) {
	analyzer := NewWithConfig(Config{DefaultQuality: 90, MinImageSize: 100})

	// Valid image
	validImg := createTestImage(200, 200)
	if err := analyzer.ValidateImage(validImg); err != nil {
		t.Errorf("Valid image should pass validation: %v", err)
	}

	// Invalid image (too small)
	invalidImg := createTestImage(50, 50)
	err := analyzer.ValidateImage(invalidImg)
	if err == nil {
		t.Fatal("Small image should fail validation")
	}
	if !errors.Is(err, types.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}

	if err := analyzer.ValidateImage(nil); !errors.Is(err, types.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil image, got %v", err)
	}

	empty := image.NewRGBA(image.Rect(0, 0, 0, 10))
	if err := analyzer.ValidateImage(empty); !errors.Is(err, types.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty image, got %v", err)
	}
}

func TestIsFormatSupported(t *testing.T) {
	analyzer := New()

	supportedFormats := []string{"jpeg", "png", "PNG", "webp", "tiff"}
	for _, format := range supportedFormats {
		if !analyzer.isFormatSupported(format) {
			t.Errorf("Format %s should be supported", format)
		}
	}

	if analyzer.isFormatSupported("svg") {
		t.Error("Format svg should not be supported")
	}
}

func TestSaveAndLoadPNG(t *testing.T) {
	analyzer := New()
	img := createTestImage(64, 48)
	path := filepath.Join(t.TempDir(), "page.png")

	if err := analyzer.SaveImage(img, path, "", 0, false); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}

	loaded, err := analyzer.LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	if loaded.Bounds().Dx() != 64 || loaded.Bounds().Dy() != 48 {
		t.Errorf("Expected 64x48, got %v", loaded.Bounds())
	}

	// png is lossless
	r1, g1, b1, _ := img.At(10, 20).RGBA()
	r2, g2, b2, _ := loaded.At(10, 20).RGBA()
	if r1>>8 != r2>>8 || g1>>8 != g2>>8 || b1>>8 != b2>>8 {
		t.Errorf("Pixel mismatch after round trip")
	}
}

func TestSaveJPEG(t *testing.T) {
	analyzer := New()
	path := filepath.Join(t.TempDir(), "photo.jpg")

	if err := analyzer.SaveImage(createTestImage(32, 32), path, "jpg", 80, false); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	st, err := os.Stat(path)
	if err != nil || st.Size() == 0 {
		t.Fatalf("Expected non-empty jpeg file, got %v", err)
	}
}

func TestSaveUnsupportedFormat(t *testing.T) {
	analyzer := New()
	path := filepath.Join(t.TempDir(), "photo.svg")
	if err := analyzer.SaveImage(createTestImage(8, 8), path, "svg", 0, false); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestLoadImageFromReader(t *testing.T) {
	analyzer := New()
	var buf bytes.Buffer
	if err := analyzer.Encode(&buf, createTestImage(20, 10), "png", 0, false); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	img, err := analyzer.LoadImageFromReader(&buf)
	if err != nil {
		t.Fatalf("LoadImageFromReader failed: %v", err)
	}
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 10 {
		t.Errorf("Expected 20x10, got %v", img.Bounds())
	}
}

func TestLoadImageRejectsGarbage(t *testing.T) {
	analyzer := New()
	if _, err := analyzer.LoadImageFromReader(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("Expected decode error")
	}

	if _, err := analyzer.LoadImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func BenchmarkGetImageInfo(b *testing.B) {
	analyzer := New()
	img := createTestImage(1920, 1080)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		analyzer.GetImageInfo(img)
	}
}
