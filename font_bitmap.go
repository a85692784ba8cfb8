package vid2ascii

import (
	"fmt"
	"image"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/wbrown/vid2ascii/imageutil"
)

const (
	// GlyphWidth and GlyphHeight define the fixed character cell size.
	// Frame tiling and glyph bitmaps share this 8x8 geometry.
	GlyphWidth  = 8
	GlyphHeight = 8
)

// GlyphBitmap represents an 8x8 character as a 64-bit integer.
// Each bit represents a pixel: 1 = ink, 0 = paper. Within a row the
// low bit is the leftmost pixel.
type GlyphBitmap uint64

// FontBitmaps holds pre-rendered character bitmaps keyed by rune.
// Lookups fall back to '?' for unknown characters, and to the blank
// bitmap if even '?' is absent, so rendering never fails.
type FontBitmaps struct {
	glyphs map[rune]GlyphBitmap
	name   string
}

// getBit checks if a specific bit is set in the bitmap
func (g GlyphBitmap) getBit(x, y int) bool {
	if x < 0 || x >= GlyphWidth || y < 0 || y >= GlyphHeight {
		return false
	}
	return g&(1<<(y*GlyphWidth+x)) != 0
}

// setBit sets a specific bit in the bitmap
func (g *GlyphBitmap) setBit(x, y int, value bool) {
	if x < 0 || x >= GlyphWidth || y < 0 || y >= GlyphHeight {
		return
	}
	pos := y*GlyphWidth + x
	if value {
		*g |= 1 << pos
	} else {
		*g &= ^(1 << pos)
	}
}

// glyphFromRows packs eight row bytes into a GlyphBitmap. Row bytes
// use the classic bitmap-font convention: bit n of a row is the pixel
// at x = n.
func glyphFromRows(rows [8]byte) GlyphBitmap {
	var bitmap GlyphBitmap
	for y := 0; y < GlyphHeight; y++ {
		for x := 0; x < GlyphWidth; x++ {
			if rows[y]>>x&1 == 1 {
				bitmap.setBit(x, y, true)
			}
		}
	}
	return bitmap
}

// BuiltinFont returns the compiled-in 8x8 bitmap font covering
// printable ASCII. This is the default glyph source; TTF fonts loaded
// through LoadFontBitmaps satisfy the same lookup contract.
func BuiltinFont() *FontBitmaps {
	fb := &FontBitmaps{
		glyphs: make(map[rune]GlyphBitmap, len(basicFontRows)),
		name:   "builtin8x8",
	}
	for r, rows := range basicFontRows {
		fb.glyphs[r] = glyphFromRows(rows)
	}
	return fb
}

// Name returns the font's identifier (builtin name or TTF path).
func (fb *FontBitmaps) Name() string {
	return fb.name
}

// Glyph returns the bitmap for a character. Unknown characters map to
// the '?' glyph; if the font has no '?' either, the blank bitmap is
// returned.
func (fb *FontBitmaps) Glyph(r rune) GlyphBitmap {
	if bitmap, ok := fb.glyphs[r]; ok {
		return bitmap
	}
	if bitmap, ok := fb.glyphs['?']; ok {
		return bitmap
	}
	return 0
}

// PaintGlyph paints a character's 8x8 bitmap into a grayscale image at
// the given top-left coordinate. Ink bits are painted with the given
// value, paper bits with white. The caller guarantees the cell fits
// inside the image.
func (fb *FontBitmaps) PaintGlyph(dst *imageutil.GrayImage, x, y int, r rune, ink uint8) {
	bitmap := fb.Glyph(r)
	for gy := 0; gy < GlyphHeight; gy++ {
		for gx := 0; gx < GlyphWidth; gx++ {
			value := uint8(255)
			if bitmap.getBit(gx, gy) {
				value = ink
			}
			dst.SetGrayValue(x+gx, y+gy, value)
		}
	}
}

// LoadFontBitmaps pre-renders a TrueType font to 8x8 bitmaps covering
// printable ASCII. It exists so a terminal-style TTF can replace the
// builtin font behind the same lookup contract.
func LoadFontBitmaps(ttfPath string) (*FontBitmaps, error) {
	ttfFont, err := loadFont(ttfPath)
	if err != nil {
		return nil, err
	}

	fb := &FontBitmaps{
		glyphs: make(map[rune]GlyphBitmap),
		name:   ttfPath,
	}
	for r := rune(32); r <= rune(126); r++ {
		fb.glyphs[r] = renderGlyphToBitmap(ttfFont, r)
	}
	return fb, nil
}

// loadFont loads a TrueType font from file
func loadFont(path string) (*truetype.Font, error) {
	fontBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font %s: %w", path, err)
	}

	ttf, err := freetype.ParseFont(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", path, err)
	}

	return ttf, nil
}

// renderGlyphToBitmap renders a single glyph to an 8x8 bitmap.
//
// The glyph is drawn into an alpha image because TrueType rendering is
// anti-aliased; the alpha channel is the pixel coverage. A 25%
// threshold (64/255) keeps thin strokes and serifs that a 50%
// threshold would lose. The baseline is positioned from the font's
// ascent/descent metrics so descenders are not clipped.
func renderGlyphToBitmap(ttfFont *truetype.Font, r rune) GlyphBitmap {
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    float64(GlyphHeight),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()

	img := image.NewAlpha(image.Rect(0, 0, GlyphWidth, GlyphHeight))

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(ttfFont)
	ctx.SetFontSize(float64(GlyphHeight))
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.White)
	ctx.SetHinting(font.HintingFull)

	metrics := face.Metrics()
	ascent := metrics.Ascent >> 6
	descent := metrics.Descent >> 6
	baselineY := (GlyphHeight + int(ascent) - int(descent)) / 2

	pt := freetype.Pt(0, baselineY)
	if _, err := ctx.DrawString(string(r), pt); err != nil {
		return 0
	}

	var bitmap GlyphBitmap
	for y := 0; y < GlyphHeight; y++ {
		for x := 0; x < GlyphWidth; x++ {
			if img.AlphaAt(x, y).A > 64 {
				bitmap.setBit(x, y, true)
			}
		}
	}

	return bitmap
}
