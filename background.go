package vid2ascii

import (
	"image/color"

	"github.com/wbrown/vid2ascii/imageutil"
)

// DetectBackgroundColor returns the most frequent brightness value in
// the image, which is taken to be the background. Ties keep the first
// value that reached the maximum count during the 0..255 histogram
// scan. An empty image yields 255.
func DetectBackgroundColor(img *imageutil.GrayImage) uint8 {
	var histogram [256]int

	width, height := img.Width(), img.Height()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			histogram[img.GetGray(x, y)]++
		}
	}

	maxCount := 0
	bgColor := uint8(255)
	for value, count := range histogram {
		if count > maxCount {
			maxCount = count
			bgColor = uint8(value)
		}
	}

	return bgColor
}

// ConvertToTransparent converts a grayscale frame to RGBA with the
// background matted out. Pixels whose brightness is within tolerance
// of bgColor (|pixel - bgColor| <= tolerance) become fully
// transparent; everything else becomes opaque grayscale. Tolerance 0
// means exact match only.
func ConvertToTransparent(source *imageutil.GrayImage, bgColor, tolerance uint8) *imageutil.RGBAImage {
	width, height := source.Width(), source.Height()
	rgba := imageutil.NewRGBAImage(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			luma := source.GetGray(x, y)

			// Widened to int so the difference can't wrap around.
			diff := int(luma) - int(bgColor)
			if diff < 0 {
				diff = -diff
			}

			if diff <= int(tolerance) {
				rgba.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 0})
			} else {
				rgba.SetRGBA(x, y, color.RGBA{R: luma, G: luma, B: luma, A: 255})
			}
		}
	}

	return rgba
}
