package vid2ascii

import (
	"math"

	"github.com/wbrown/vid2ascii/imageutil"
)

// DefaultCharset is the dark-to-light gradient used when no charset
// is configured.
const DefaultCharset = "@#*+=-:. "

// AsciiOptions holds the per-run conversion configuration. Values are
// normalized by NewAsciiOptions and the struct is treated as read-only
// afterwards, so it is safe to share across frame workers.
type AsciiOptions struct {
	// Columns is the advertised character column count. It is clamped
	// to at least 1, but the tiling is derived from the frame
	// dimensions and the fixed 8x8 glyph cell, so the value does not
	// currently influence the output.
	Columns int

	// Charset is the glyph gradient, index 0 darkest.
	Charset []rune

	// Shades is the number of grayscale levels used when painting
	// glyph ink: 1 renders pure black on white, 2 thresholds at
	// mid-gray, 3..256 quantize the block brightness.
	Shades int
}

// NewAsciiOptions builds a normalized AsciiOptions. An empty charset
// falls back to DefaultCharset, columns is clamped to >= 1, and shades
// is clamped to [1, 256].
func NewAsciiOptions(columns int, charset string, shades int) AsciiOptions {
	chars := []rune(charset)
	if len(chars) == 0 {
		chars = []rune(DefaultCharset)
	}
	if columns < 1 {
		columns = 1
	}
	if shades < 1 {
		shades = 1
	} else if shades > 256 {
		shades = 256
	}
	return AsciiOptions{
		Columns: columns,
		Charset: chars,
		Shades:  shades,
	}
}

// renderMode determines the pixel value painted for glyph ink. The
// mode is selected once per frame from the shade count so the
// per-block loop never branches on a raw shade integer.
type renderMode interface {
	inkValue(brightness uint8) uint8
}

// modeBlackWhite paints ink pure black regardless of brightness.
type modeBlackWhite struct{}

func (modeBlackWhite) inkValue(uint8) uint8 { return 0 }

// modeGraded quantizes the block brightness into a fixed number of
// shades. Two shades are special-cased to a mid-gray threshold for
// maximum contrast instead of the generic quantization.
type modeGraded struct {
	shades int
}

func (m modeGraded) inkValue(brightness uint8) uint8 {
	if m.shades == 2 {
		if brightness < 128 {
			return 0
		}
		return 255
	}
	step := 255.0 / float64(m.shades-1)
	index := math.Round(float64(brightness) / step)
	if index < 0 {
		index = 0
	}
	if index > float64(m.shades-1) {
		index = float64(m.shades - 1)
	}
	return uint8(math.Round(index * 255.0 / float64(m.shades-1)))
}

func modeForShades(shades int) renderMode {
	if shades <= 1 {
		return modeBlackWhite{}
	}
	return modeGraded{shades: shades}
}

// ConvertFrame renders a grayscale frame as a grid of glyphs. The
// frame is tiled into 8x8 blocks; each block's average brightness is
// contrast-stretched, mapped to a charset glyph, and painted into the
// output at the block's position. Partial blocks at the right and
// bottom edges are dropped, so the output is 8*floor(w/8) by
// 8*floor(h/8) pixels, initialized white.
func ConvertFrame(source *imageutil.GrayImage, fonts *FontBitmaps, opts AsciiOptions) *imageutil.GrayImage {
	columns := source.Width() / GlyphWidth
	rows := source.Height() / GlyphHeight

	output := imageutil.NewGrayImage(columns*GlyphWidth, rows*GlyphHeight)
	output.Fill(255)

	charset := opts.Charset
	if len(charset) == 0 {
		charset = []rune(DefaultCharset)
	}
	mode := modeForShades(opts.Shades)

	for row := 0; row < rows; row++ {
		y0 := row * GlyphHeight
		for col := 0; col < columns; col++ {
			x0 := col * GlyphWidth

			luma := averageLuma(source, x0, x0+GlyphWidth, y0, y0+GlyphHeight)
			enhanced := enhanceContrast(luma)
			ch := mapLumaToChar(enhanced, charset)
			fonts.PaintGlyph(output, x0, y0, ch, mode.inkValue(enhanced))
		}
	}

	return output
}

// averageLuma returns the integer mean brightness over the half-open
// region [x0,x1) x [y0,y1), clamped to the image bounds. An empty
// clamped region yields 0.
func averageLuma(img *imageutil.GrayImage, x0, x1, y0, y1 int) uint8 {
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if w := img.Width(); x1 > w {
		x1 = w
	}
	if h := img.Height(); y1 > h {
		y1 = h
	}

	var sum, count uint64
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			sum += uint64(img.GetGray(x, y))
			count++
		}
	}

	if count == 0 {
		return 0
	}
	return uint8(sum / count)
}

// enhanceContrast applies a fixed linear stretch centered at mid-gray
// with slope 1.5, clamped to the byte range. Midtone blocks spread
// further apart so more of the charset gradient gets exercised.
func enhanceContrast(luma uint8) uint8 {
	f := float64(luma) / 255.0
	enhanced := (f-0.5)*1.5 + 0.5
	if enhanced < 0 {
		enhanced = 0
	}
	if enhanced > 1 {
		enhanced = 1
	}
	return uint8(enhanced * 255.0)
}

// mapLumaToChar maps a brightness byte onto the charset gradient.
// Brightness 0 selects the first (darkest) glyph and 255 the last.
func mapLumaToChar(luma uint8, charset []rune) rune {
	last := len(charset) - 1
	if last <= 0 {
		return charset[0]
	}
	return charset[int(luma)*last/255]
}
