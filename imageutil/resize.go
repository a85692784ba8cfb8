package imageutil

import (
	"image"

	"golang.org/x/image/draw"
)

// Interpolation specifies the interpolation method for resizing.
type Interpolation int

const (
	// InterpolationArea uses Catmull-Rom, a high-quality choice for
	// downscaling video frames.
	InterpolationArea Interpolation = iota

	// InterpolationLinear uses bilinear interpolation.
	InterpolationLinear

	// InterpolationNearest uses nearest-neighbor interpolation.
	// Fastest but lowest quality.
	InterpolationNearest
)

func scalerFor(interp Interpolation) draw.Scaler {
	switch interp {
	case InterpolationLinear:
		return draw.BiLinear
	case InterpolationNearest:
		return draw.NearestNeighbor
	default:
		return draw.CatmullRom
	}
}

// ResizeGray resizes a grayscale image to the specified dimensions
// using the given interpolation method.
func ResizeGray(img *GrayImage, width, height int, interp Interpolation) *GrayImage {
	dst := NewGrayImage(width, height)
	dstRect := image.Rect(0, 0, width, height)

	scalerFor(interp).Scale(dst.Gray, dstRect, img.Gray, img.Bounds(), draw.Over, nil)
	return dst
}

// ResizeGrayToWidth resizes a grayscale image to the specified width
// while maintaining aspect ratio.
func ResizeGrayToWidth(img *GrayImage, width int, interp Interpolation) *GrayImage {
	aspectRatio := float64(img.Width()) / float64(img.Height())
	height := int(float64(width) / aspectRatio)
	if height < 1 {
		height = 1
	}
	return ResizeGray(img, width, height, interp)
}
