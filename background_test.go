package vid2ascii

import (
	"testing"

	"github.com/wbrown/vid2ascii/imageutil"
)

func TestDetectBackgroundColorDominantValue(t *testing.T) {
	img := imageutil.CreateSolidGray(16, 16, 37)
	// A few outliers don't change the mode.
	img.SetGrayValue(0, 0, 200)
	img.SetGrayValue(15, 15, 0)

	if got := DetectBackgroundColor(img); got != 37 {
		t.Errorf("Expected background 37, got %d", got)
	}
}

func TestDetectBackgroundColorTieKeepsFirstMax(t *testing.T) {
	// Equal counts for 10 and 200: the scan sets the max at 10 first
	// and 200 never exceeds it.
	img := imageutil.NewGrayImage(2, 1)
	img.SetGrayValue(0, 0, 200)
	img.SetGrayValue(1, 0, 10)

	if got := DetectBackgroundColor(img); got != 10 {
		t.Errorf("Expected tie to resolve to 10, got %d", got)
	}
}

func TestDetectBackgroundColorEmptyImage(t *testing.T) {
	img := imageutil.NewGrayImage(0, 0)
	if got := DetectBackgroundColor(img); got != 255 {
		t.Errorf("Expected 255 for empty image, got %d", got)
	}
}

func TestConvertToTransparentExactMatch(t *testing.T) {
	img := imageutil.NewGrayImage(4, 1)
	img.SetGrayValue(0, 0, 0)
	img.SetGrayValue(1, 0, 100)
	img.SetGrayValue(2, 0, 200)
	img.SetGrayValue(3, 0, 255)

	rgba := ConvertToTransparent(img, 255, 0)

	if a := rgba.RGBAAt(3, 0).A; a != 0 {
		t.Errorf("Expected pixel 255 transparent, got alpha %d", a)
	}
	for x := 0; x < 3; x++ {
		if a := rgba.RGBAAt(x, 0).A; a != 255 {
			t.Errorf("Expected pixel %d opaque, got alpha %d", x, a)
		}
	}
}

func TestConvertToTransparentThreshold(t *testing.T) {
	// bg=240, tolerance=20: values in [220, 255] become transparent.
	img := imageutil.NewGrayImage(4, 1)
	img.SetGrayValue(0, 0, 219) // difference 21, outside
	img.SetGrayValue(1, 0, 220) // difference exactly 20
	img.SetGrayValue(2, 0, 255) // difference 15
	img.SetGrayValue(3, 0, 100)

	rgba := ConvertToTransparent(img, 240, 20)

	if a := rgba.RGBAAt(0, 0).A; a != 255 {
		t.Errorf("219 should be opaque, got alpha %d", a)
	}
	if a := rgba.RGBAAt(1, 0).A; a != 0 {
		t.Errorf("220 should be transparent (|220-240|=20), got alpha %d", a)
	}
	if a := rgba.RGBAAt(2, 0).A; a != 0 {
		t.Errorf("255 should be transparent (|255-240|=15), got alpha %d", a)
	}
	if a := rgba.RGBAAt(3, 0).A; a != 255 {
		t.Errorf("100 should be opaque, got alpha %d", a)
	}
}

func TestConvertToTransparentOpaquePixelsKeepGrayscale(t *testing.T) {
	img := imageutil.CreateSolidGray(2, 2, 77)
	rgba := ConvertToTransparent(img, 255, 0)

	c := rgba.RGBAAt(1, 1)
	if c.R != 77 || c.G != 77 || c.B != 77 || c.A != 255 {
		t.Errorf("Expected opaque gray 77, got %+v", c)
	}
}

func TestConvertToTransparentDimensions(t *testing.T) {
	img := imageutil.NewGrayImage(13, 7)
	rgba := ConvertToTransparent(img, 0, 0)
	if rgba.Width() != 13 || rgba.Height() != 7 {
		t.Errorf("Expected 13x7 output, got %dx%d", rgba.Width(), rgba.Height())
	}
}
