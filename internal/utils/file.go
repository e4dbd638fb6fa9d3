package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// EnsureDir creates a directory if it doesn't exist
func EnsureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// GetFileExtension returns the file extension without the dot
func GetFileExtension(filename string) string {
	ext := filepath.Ext(filename)
	if len(ext) > 0 {
		return strings.ToLower(ext[1:])
	}
	return ""
}

// IsImageFile checks if a file has an image extension
func IsImageFile(filename string) bool {
	switch GetFileExtension(filename) {
	case "jpg", "jpeg", "png", "gif", "bmp", "tif", "tiff", "webp":
		return true
	}
	return false
}

// BaseName returns the file name without directory and extension
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// PhotoFilename returns <outputDir>/<prefix><base>_photo_<slot>.<format>.
// An empty format keeps the input extension, or jpg when there is none.
func PhotoFilename(inputFile, outputDir, prefix string, slot int, format string) string {
	if format == "" {
		format = GetFileExtension(inputFile)
		if format == "" {
			format = "jpg"
		}
	}
	name := fmt.Sprintf("%s%s_photo_%d.%s", prefix, BaseName(inputFile), slot, strings.ToLower(format))
	return filepath.Join(outputDir, name)
}

// DebugFilename returns the overlay image path for an input page
func DebugFilename(inputFile, outputDir, prefix, format string) string {
	if format == "" {
		format = "png"
	}
	return filepath.Join(outputDir, fmt.Sprintf("%s%s_debug.%s", prefix, BaseName(inputFile), strings.ToLower(format)))
}

// ResultFilename returns the JSON summary path for an input page
func ResultFilename(inputFile, outputDir, prefix string) string {
	return filepath.Join(outputDir, fmt.Sprintf("%s%s_result.json", prefix, BaseName(inputFile)))
}

// ListImageFiles recursively lists all image files in a directory, sorted
func ListImageFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && IsImageFile(path) {
			files = append(files, path)
		}

		return nil
	})

	sort.Strings(files)
	return files, err
}

// ExpandInputs turns a mix of files and directories into a list of image files
func ExpandInputs(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		if DirExists(p) {
			found, err := ListImageFiles(p)
			if err != nil {
				return nil, fmt.Errorf("failed to list %s: %w", p, err)
			}
			files = append(files, found...)
			continue
		}
		if !FileExists(p) {
			return nil, fmt.Errorf("input not found: %s", p)
		}
		files = append(files, p)
	}
	return files, nil
}

// FileExists checks if a file exists and is not a directory
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists checks if a directory exists
func DirExists(dirname string) bool {
	info, err := os.Stat(dirname)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// FormatFileSize formats file size in human-readable format
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}

	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
