package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	vid2ascii "github.com/wbrown/vid2ascii"
	"github.com/wbrown/vid2ascii/imageutil"
	"github.com/wbrown/vid2ascii/video"
)

func TestRunRejectsMissingInput(t *testing.T) {
	cfg := &Config{
		Input:  filepath.Join(t.TempDir(), "missing.mp4"),
		Output: filepath.Join(t.TempDir(), "out.mp4"),
	}
	_, err := Run(cfg)
	if !errors.Is(err, ErrInputNotFound) {
		t.Errorf("Expected ErrInputNotFound, got %v", err)
	}
}

func TestLoadFontsDefaultsToBuiltin(t *testing.T) {
	fonts, err := loadFonts("")
	if err != nil {
		t.Fatalf("loadFonts failed: %v", err)
	}
	if fonts.Name() != "builtin8x8" {
		t.Errorf("Expected builtin font, got %q", fonts.Name())
	}
}

func TestLoadFontsMissingTTF(t *testing.T) {
	if _, err := loadFonts(filepath.Join(t.TempDir(), "missing.ttf")); err == nil {
		t.Error("Expected error for missing TTF")
	}
}

func TestConvertOneWritesFrame(t *testing.T) {
	frameDir := t.TempDir()
	framePath := filepath.Join(frameDir, fmt.Sprintf(video.FramePattern, 0))
	source := imageutil.CreateSolidGray(64, 32, 120)
	if err := imageutil.SavePNG(source, framePath); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}

	cfg := &Config{Charset: "# ", Shades: 1}
	fonts, err := loadFonts("")
	if err != nil {
		t.Fatalf("loadFonts failed: %v", err)
	}
	opts := vid2ascii.NewAsciiOptions(16, cfg.Charset, cfg.Shades)

	outDir := t.TempDir()
	if err := convertOne(cfg, framePath, outDir, 0, fonts, opts, 255); err != nil {
		t.Fatalf("convertOne failed: %v", err)
	}

	out, err := imageutil.LoadGrayImage(filepath.Join(outDir, fmt.Sprintf(video.FramePattern, 0)))
	if err != nil {
		t.Fatalf("Expected converted frame on disk: %v", err)
	}
	if out.Width() != 64 || out.Height() != 32 {
		t.Errorf("Expected 64x32 converted frame, got %dx%d", out.Width(), out.Height())
	}
}

func TestConvertOneTransparentFrame(t *testing.T) {
	frameDir := t.TempDir()
	framePath := filepath.Join(frameDir, fmt.Sprintf(video.FramePattern, 0))
	source := imageutil.CreateSolidGray(16, 16, 255)
	if err := imageutil.SavePNG(source, framePath); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}

	cfg := &Config{Charset: "# ", Shades: 1, Transparent: true}
	fonts, err := loadFonts("")
	if err != nil {
		t.Fatalf("loadFonts failed: %v", err)
	}
	opts := vid2ascii.NewAsciiOptions(2, cfg.Charset, cfg.Shades)

	outDir := t.TempDir()
	if err := convertOne(cfg, framePath, outDir, 0, fonts, opts, 255); err != nil {
		t.Fatalf("convertOne failed: %v", err)
	}

	// A white source maps every block to the lightest glyph (space),
	// so the whole frame is background and fully transparent.
	out, err := imageutil.LoadImage(filepath.Join(outDir, fmt.Sprintf(video.FramePattern, 0)))
	if err != nil {
		t.Fatalf("Expected converted frame on disk: %v", err)
	}
	if a := out.RGBAAt(0, 0).A; a != 0 {
		t.Errorf("Expected transparent background pixel, got alpha %d", a)
	}
}
