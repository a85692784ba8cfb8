// Package pipeline ties the conversion core to the external video
// tools: extract frames, convert each one to glyph art, and re-encode
// the results.
package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	vid2ascii "github.com/wbrown/vid2ascii"
	"github.com/wbrown/vid2ascii/imageutil"
	"github.com/wbrown/vid2ascii/video"
)

var (
	// ErrInputNotFound means the input video path does not exist.
	ErrInputNotFound = errors.New("input file does not exist")

	// ErrMissingFFmpeg means ffmpeg or ffprobe is not on the PATH.
	ErrMissingFFmpeg = errors.New("ffmpeg and ffprobe must be installed and available on PATH")
)

// Config is the full conversion configuration for a single run.
type Config struct {
	// Input and Output are the source and destination video paths.
	Input  string
	Output string

	// Columns, Charset and Shades feed AsciiOptions; see the
	// normalization rules there.
	Columns int
	Charset string
	Shades  int

	// FPS overrides the output frame rate. Zero keeps the source
	// rate reported by ffprobe.
	FPS float64

	// FitWidth, when positive, downscales frames wider than this
	// before conversion.
	FitWidth int

	// FontPath selects a TTF to rasterize glyphs from. Empty uses
	// the builtin 8x8 font.
	FontPath string

	// Transparent switches output to alpha-matted WebP. BGColor is
	// the background brightness to matte out (-1 auto-detects from
	// the first frame) and Threshold is the matte tolerance: pixels
	// within +/- Threshold of the background become transparent.
	Transparent bool
	BGColor     int
	Threshold   uint8

	// Compare stacks the original above the converted video in the
	// final output.
	Compare bool

	// Workers bounds concurrent frame conversion. Zero means one
	// worker per CPU.
	Workers int
}

// Stats summarizes a completed run.
type Stats struct {
	FramesProcessed int
	OutputFPS       float64
}

// Run executes the full conversion. Frames are converted concurrently
// since they are independent; the auto-detected background color is
// computed before any worker starts and shared read-only afterwards.
func Run(cfg *Config) (Stats, error) {
	if _, err := os.Stat(cfg.Input); err != nil {
		return Stats{}, fmt.Errorf("%w: %s", ErrInputNotFound, cfg.Input)
	}
	if !video.ToolsAvailable() {
		return Stats{}, ErrMissingFFmpeg
	}

	meta, err := video.Probe(cfg.Input)
	if err != nil {
		return Stats{}, err
	}
	fps := cfg.FPS
	if fps <= 0 {
		fps = meta.FPS
	}

	fonts, err := loadFonts(cfg.FontPath)
	if err != nil {
		return Stats{}, err
	}

	tempDir, err := os.MkdirTemp("", "vid2ascii-")
	if err != nil {
		return Stats{}, err
	}
	defer os.RemoveAll(tempDir)

	extractedDir := filepath.Join(tempDir, "extracted")
	asciiDir := filepath.Join(tempDir, "ascii")

	frames, err := video.ExtractFrames(cfg.Input, extractedDir)
	if err != nil {
		return Stats{}, err
	}
	if err := os.MkdirAll(asciiDir, 0o755); err != nil {
		return Stats{}, err
	}

	opts := vid2ascii.NewAsciiOptions(cfg.Columns, cfg.Charset, cfg.Shades)

	bgColor := uint8(255)
	if cfg.Transparent {
		if cfg.BGColor >= 0 && cfg.BGColor <= 255 {
			bgColor = uint8(cfg.BGColor)
		} else {
			first, err := loadFrame(frames[0], cfg.FitWidth)
			if err != nil {
				return Stats{}, err
			}
			bgColor = vid2ascii.DetectBackgroundColor(first)
		}
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var group errgroup.Group
	group.SetLimit(workers)
	for index, framePath := range frames {
		index, framePath := index, framePath
		group.Go(func() error {
			return convertOne(cfg, framePath, asciiDir, index, fonts, opts, bgColor)
		})
	}
	if err := group.Wait(); err != nil {
		return Stats{}, err
	}

	if err := video.Encode(asciiDir, cfg.Input, fps, cfg.Output, cfg.Transparent); err != nil {
		return Stats{}, err
	}

	if cfg.Compare {
		if err := video.CreateComparison(cfg.Input, cfg.Output); err != nil {
			return Stats{}, err
		}
	}

	return Stats{
		FramesProcessed: len(frames),
		OutputFPS:       fps,
	}, nil
}

func loadFonts(fontPath string) (*vid2ascii.FontBitmaps, error) {
	if fontPath == "" {
		return vid2ascii.BuiltinFont(), nil
	}
	return vid2ascii.LoadFontBitmaps(fontPath)
}

// loadFrame reads one extracted frame as grayscale, downscaling to
// fitWidth when requested.
func loadFrame(path string, fitWidth int) (*imageutil.GrayImage, error) {
	gray, err := imageutil.LoadGrayImage(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load frame %s: %w", path, err)
	}
	if fitWidth > 0 && gray.Width() > fitWidth {
		gray = imageutil.ResizeGrayToWidth(gray, fitWidth, imageutil.InterpolationArea)
	}
	return gray, nil
}

// convertOne converts a single extracted frame and persists it under
// the same index in the converted-frames directory.
func convertOne(
	cfg *Config,
	framePath, asciiDir string,
	index int,
	fonts *vid2ascii.FontBitmaps,
	opts vid2ascii.AsciiOptions,
	bgColor uint8,
) error {
	gray, err := loadFrame(framePath, cfg.FitWidth)
	if err != nil {
		return err
	}

	ascii := vid2ascii.ConvertFrame(gray, fonts, opts)
	outputPath := filepath.Join(asciiDir, fmt.Sprintf(video.FramePattern, index))

	if cfg.Transparent {
		rgba := vid2ascii.ConvertToTransparent(ascii, bgColor, cfg.Threshold)
		return imageutil.SavePNG(rgba, outputPath)
	}
	return imageutil.SavePNG(ascii, outputPath)
}
