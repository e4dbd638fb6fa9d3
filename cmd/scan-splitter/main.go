// Command scan-splitter cuts the photos out of scanned album pages.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	scansplitter "github.com/menta2k/scan-splitter"
	"github.com/menta2k/scan-splitter/internal/config"
	"github.com/menta2k/scan-splitter/internal/utils"
	"github.com/menta2k/scan-splitter/pkg/analyzer"
	"github.com/menta2k/scan-splitter/pkg/logger"
	"github.com/menta2k/scan-splitter/pkg/synth"
	"github.com/menta2k/scan-splitter/pkg/types"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "scan-splitter",
		Usage:   "find the photos on scanned pages and save each one upright",
		Version: scansplitter.GetVersion(),
		Commands: []*cli.Command{
			splitCommand(),
			infoCommand(),
			synthCommand(),
			configCommand(),
		},
	}
}

func splitCommand() *cli.Command {
	return &cli.Command{
		Name:      "split",
		Usage:     "split scanned pages into photos",
		ArgsUsage: "<page or directory>...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "config file (json or yaml)"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output directory"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "photo format: jpg, png or webp"},
			&cli.IntFlag{Name: "quality", Aliases: []string{"q"}, Usage: "jpg/webp quality (1-100)"},
			&cli.BoolFlag{Name: "lossless", Usage: "lossless webp"},
			&cli.StringFlag{Name: "prefix", Usage: "prefix for output file names"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "write a debug overlay per page"},
			&cli.BoolFlag{Name: "grid", Usage: "skip detection and cut every page into quadrants"},
			&cli.IntFlag{Name: "padding", Usage: "pixels kept around each photo"},
			&cli.Float64Flag{Name: "min-area-ratio", Usage: "smallest photo as a share of the page"},
			&cli.BoolFlag{Name: "trim-margins", Usage: "trim paper from quadrant fallback crops"},
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "parallel extractions per page"},
			&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Usage: "debug, info, warn, error or quiet"},
		},
		Action: runSplit,
	}
}

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "print size and brightness of a page",
		ArgsUsage: "<page>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("expected exactly one page")
			}
			loader := analyzer.New()
			img, err := loader.LoadImage(c.Args().First())
			if err != nil {
				return err
			}
			return writeJSON(c.App.Writer, loader.GetImageInfo(img))
		},
	}
}

func synthCommand() *cli.Command {
	return &cli.Command{
		Name:  "synth",
		Usage: "render a synthetic A4 page with four slightly rotated photos",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "synthetic_page.png", Usage: "output image"},
		},
		Action: func(c *cli.Context) error {
			log := logger.NewConsole(logger.LevelInfo)
			path := c.String("out")
			if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
				return err
			}
			if err := analyzer.New().SaveImage(synth.FourPhotoA4().Render(), path, "", 0, false); err != nil {
				return err
			}
			log.Info("Wrote synthetic page %s", path)
			return nil
		},
	}
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "manage the configuration file",
		Subcommands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "write the default configuration",
				ArgsUsage: "[path]",
				Action: func(c *cli.Context) error {
					path := c.Args().First()
					if path == "" {
						path = config.GetConfigPath()
					}
					if err := config.Default().SaveToFile(path); err != nil {
						return err
					}
					logger.NewConsole(logger.LevelInfo).Info("Config written to %s", path)
					return nil
				},
			},
			{
				Name:      "show",
				Usage:     "print the effective configuration",
				ArgsUsage: "[path]",
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c.Args().First())
					if err != nil {
						return err
					}
					return writeJSON(c.App.Writer, cfg)
				},
			},
		},
	}
}

// loadConfig reads path, or the default config file when it exists
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.GetConfigPath()
		if !utils.FileExists(path) {
			return config.Default(), nil
		}
	}
	return config.LoadFromFile(path)
}

// applyFlags overrides config values with the flags given on the command line
func applyFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("out") {
		cfg.Output.OutputDir = c.String("out")
	}
	if c.IsSet("format") {
		cfg.Output.Format = c.String("format")
	}
	if c.IsSet("quality") {
		cfg.Output.Quality = c.Int("quality")
	}
	if c.IsSet("lossless") {
		cfg.Output.Lossless = c.Bool("lossless")
	}
	if c.IsSet("prefix") {
		cfg.Output.Prefix = c.String("prefix")
	}
	if c.IsSet("debug") {
		cfg.Debug.Enabled = c.Bool("debug")
	}
	if c.IsSet("padding") {
		cfg.Pipeline.Padding = c.Int("padding")
	}
	if c.IsSet("min-area-ratio") {
		cfg.Pipeline.MinAreaRatio = c.Float64("min-area-ratio")
	}
	if c.IsSet("trim-margins") {
		cfg.Pipeline.TrimGridMargins = c.Bool("trim-margins")
	}
	if c.IsSet("workers") {
		cfg.Pipeline.Workers = c.Int("workers")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	cfg.Pipeline.ProduceDebugImage = cfg.Debug.Enabled
}

func runSplit(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("expected at least one page or directory")
	}
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return err
	}
	applyFlags(c, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.NewConsole(logger.ParseLevel(cfg.Log.Level))
	files, err := utils.ExpandInputs(c.Args().Slice())
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(cfg.Output.OutputDir); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	splitter := scansplitter.NewWithConfig(cfg.Pipeline)
	splitter.SetLogger(log)
	p := &pageRunner{
		cfg:      cfg,
		splitter: splitter,
		loader:   analyzer.NewWithConfig(analyzer.Config{DefaultQuality: cfg.Output.Quality, SupportedFormats: []string{"jpeg", "png", "webp", "tiff", "bmp", "gif"}, MinImageSize: 1}),
		log:      log,
		gridOnly: c.Bool("grid"),
	}

	failed := 0
	for i, file := range files {
		if err := c.Context.Err(); err != nil {
			if i > 0 {
				log.Warn("Interrupted, stopping after %s", files[i-1])
			}
			break
		}
		if err := p.process(file); err != nil {
			log.Error("Failed to process %s: %v", file, err)
			failed++
		}
	}
	log.Info("Processed %d files, %d failed", len(files), failed)
	if failed > 0 {
		return errors.New(l10n.F("%d of %d pages failed", failed, len(files)))
	}
	return nil
}

// pageRunner splits one page at a time and writes its outputs
type pageRunner struct {
	cfg      *config.Config
	splitter *scansplitter.Splitter
	loader   *analyzer.ImageAnalyzer
	log      logger.Logger
	gridOnly bool
}

// resultFile is the JSON summary written next to the photos
type resultFile struct {
	Input            string                       `json:"input"`
	Width            int                          `json:"width"`
	Height           int                          `json:"height"`
	UsedGridFallback bool                         `json:"used_grid_fallback"`
	Skipped          int                          `json:"skipped"`
	Failures         []scansplitter.RegionFailure `json:"failures,omitempty"`
	Photos           []photoEntry                 `json:"photos"`
}

type photoEntry struct {
	Slot   int                  `json:"slot"`
	File   string               `json:"file"`
	Width  int                  `json:"width"`
	Height int                  `json:"height"`
	Region types.OrientedRegion `json:"region"`
}

func (p *pageRunner) process(file string) error {
	p.log.Info("Processing %s", file)
	img, err := p.loader.LoadImage(file)
	if err != nil {
		return err
	}
	info := p.loader.GetImageInfo(img)
	p.log.Debug("Page %s: %dx%d", file, info.Width, info.Height)

	var result *scansplitter.PipelineResult
	if p.gridOnly {
		result, err = p.splitter.GridSplit(img)
	} else {
		result, err = p.splitter.DetectAndExtract(img)
	}
	if err != nil {
		if errors.Is(err, scansplitter.ErrInvalidInput) {
			return fmt.Errorf("unusable page: %w", err)
		}
		return err
	}
	if result.UsedGridFallback {
		p.log.Info("Grid fallback used for %s", file)
	} else {
		p.log.Info("Found %d photos in %s", len(result.Photos), file)
	}

	out := p.cfg.Output
	summary := resultFile{
		Input:            file,
		Width:            info.Width,
		Height:           info.Height,
		UsedGridFallback: result.UsedGridFallback,
		Skipped:          result.Skipped,
		Failures:         result.Failures,
	}
	for _, photo := range result.Photos {
		path := utils.PhotoFilename(file, out.OutputDir, out.Prefix, photo.Slot, out.Format)
		if err := p.loader.SaveImage(photo.Image, path, out.Format, out.Quality, out.Lossless); err != nil {
			return err
		}
		p.log.Info("Saved %s", path)
		b := photo.Image.Bounds()
		summary.Photos = append(summary.Photos, photoEntry{
			Slot:   photo.Slot,
			File:   filepath.Base(path),
			Width:  b.Dx(),
			Height: b.Dy(),
			Region: photo.Region,
		})
	}

	if result.DebugImage != nil {
		path := utils.DebugFilename(file, out.OutputDir, out.Prefix, p.cfg.Debug.Format)
		if err := p.loader.SaveImage(result.DebugImage, path, p.cfg.Debug.Format, out.Quality, out.Lossless); err != nil {
			return err
		}
		p.log.Info("Wrote debug image %s", path)
	}

	if out.WriteJSON {
		path := utils.ResultFilename(file, out.OutputDir, out.Prefix)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create result file: %w", err)
		}
		defer f.Close()
		if err := writeJSON(f, summary); err != nil {
			return err
		}
		p.log.Info("Wrote result %s", path)
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}
