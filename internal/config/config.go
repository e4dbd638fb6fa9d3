package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	scansplitter "github.com/menta2k/scan-splitter"
	"github.com/menta2k/scan-splitter/pkg/logger"
)

// Config holds the application configuration
type Config struct {
	Pipeline scansplitter.Options `json:"pipeline" yaml:"pipeline"`
	Output   OutputConfig         `json:"output" yaml:"output"`
	Debug    DebugConfig          `json:"debug" yaml:"debug"`
	Log      LogConfig            `json:"log" yaml:"log"`
}

// OutputConfig holds configuration for written photos
type OutputConfig struct {
	Format     string `json:"format" yaml:"format"`
	Quality    int    `json:"quality" yaml:"quality"`
	Lossless   bool   `json:"lossless" yaml:"lossless"`
	OutputDir  string `json:"output_dir" yaml:"output_dir"`
	Prefix     string `json:"prefix" yaml:"prefix"`
	Background string `json:"background" yaml:"background"` // hex fill outside the page, e.g. "#ffffff"
	WriteJSON  bool   `json:"write_json" yaml:"write_json"`
}

// DebugConfig holds configuration for the overlay image
type DebugConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Format  string `json:"format" yaml:"format"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Pipeline: scansplitter.DefaultOptions(),
		Output: OutputConfig{
			Format:     "jpg",
			Quality:    90,
			OutputDir:  "./output",
			Background: "#ffffff",
			WriteJSON:  true,
		},
		Debug: DebugConfig{
			Enabled: false,
			Format:  "png",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func isYAML(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".yaml" || ext == ".yml"
}

// LoadFromFile loads configuration from a JSON or YAML file. Keys missing
// from the file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if isYAML(filename) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	bg, err := ParseHexColor(config.Output.Background)
	if err != nil {
		return nil, fmt.Errorf("invalid output.background: %w", err)
	}
	config.Pipeline.Background = bg

	return config, nil
}

// SaveToFile saves configuration as YAML or JSON depending on the extension
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var data []byte
	var err error
	if isYAML(filename) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Pipeline.Validate(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	switch strings.ToLower(c.Output.Format) {
	case "jpg", "jpeg", "png", "webp":
	default:
		return fmt.Errorf("output.format must be jpg, png or webp, got %q", c.Output.Format)
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	if _, err := ParseHexColor(c.Output.Background); err != nil {
		return fmt.Errorf("output.background: %w", err)
	}

	switch strings.ToLower(c.Debug.Format) {
	case "jpg", "jpeg", "png", "webp":
	default:
		return fmt.Errorf("debug.format must be jpg, png or webp, got %q", c.Debug.Format)
	}

	if c.Log.Level != "" && logger.ParseLevel(c.Log.Level).String() != normalizeLevel(c.Log.Level) {
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error, quiet", c.Log.Level)
	}

	return nil
}

func normalizeLevel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		return "warn"
	}
	return s
}

// ParseHexColor parses "#rrggbb" or "rrggbb". An empty string is white.
func ParseHexColor(s string) (color.Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if s == "" {
		return color.White, nil
	}
	if len(s) != 6 {
		return nil, fmt.Errorf("expected 6 hex digits, got %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "scan-splitter", "config.json")
}
