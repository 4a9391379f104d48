// Package imageops adapts the external image library to the narrow set
// of primitives the optimizer needs: rectangular slicing, horizontal
// concatenation, exact-size resampling, constant fill and sub-region
// paste. Keeping them behind one package keeps the transform logic
// independent of the concrete library.
//
// All ranges are half-open [start, end). Every function returns a
// freshly allocated *image.NRGBA; inputs are never mutated.
package imageops

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Black is the fill constant used for padding.
var Black = color.NRGBA{0, 0, 0, 255}

// Size returns the pixel dimensions of an image.
func Size(img image.Image) (width, height int) {
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

// ByteSize returns the in-memory pixel footprint of a buffer. Used for
// accounting, not correctness.
func ByteSize(img *image.NRGBA) int {
	if img == nil {
		return 0
	}
	return len(img.Pix)
}

// Region returns a deep copy of the sub-rectangle
// [x0, x1) x [y0, y1) of img.
func Region(img image.Image, x0, y0, x1, y1 int) (*image.NRGBA, error) {
	w, h := Size(img)
	if x0 < 0 || y0 < 0 || x1 > w || y1 > h || x0 > x1 || y0 > y1 {
		return nil, fmt.Errorf("region [%d,%d)x[%d,%d) out of bounds for %dx%d image",
			x0, x1, y0, y1, w, h)
	}
	return imaging.Crop(img, image.Rect(x0, y0, x1, y1)), nil
}

// HConcat2 joins two images left to right. Both must share the same
// height; a zero-width part is permitted and contributes nothing.
func HConcat2(a, b *image.NRGBA) (*image.NRGBA, error) {
	return hconcat(a, b)
}

// HConcat3 joins three images left to right under the same rules as
// HConcat2.
func HConcat3(a, b, c *image.NRGBA) (*image.NRGBA, error) {
	return hconcat(a, b, c)
}

func hconcat(parts ...*image.NRGBA) (*image.NRGBA, error) {
	height := -1
	totalWidth := 0
	for _, p := range parts {
		w, h := Size(p)
		if w == 0 {
			continue
		}
		if height == -1 {
			height = h
		} else if h != height {
			return nil, fmt.Errorf("hconcat: mismatched heights %d and %d", height, h)
		}
		totalWidth += w
	}
	if height == -1 {
		return nil, fmt.Errorf("hconcat: all parts are empty")
	}

	out := imaging.New(totalWidth, height, Black)
	x := 0
	for _, p := range parts {
		w, _ := Size(p)
		if w == 0 {
			continue
		}
		out = imaging.Paste(out, p, image.Pt(x, 0))
		x += w
	}
	return out, nil
}

// Resize resamples img to exactly width x height. A linear filter is
// used in both directions; downsampling and then upsampling by the
// same factor is the low-pass the optimizer relies on.
func Resize(img image.Image, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("resize: invalid target %dx%d", width, height)
	}
	return imaging.Resize(img, width, height, imaging.Linear), nil
}

// Fill returns a width x height buffer with every pixel set to c.
func Fill(width, height int, c color.Color) *image.NRGBA {
	return imaging.New(width, height, c)
}

// Paste overwrites the sub-region of dst at (x, y) with src and
// returns the result as a new buffer. src must fit inside dst.
func Paste(dst, src *image.NRGBA, x, y int) (*image.NRGBA, error) {
	dw, dh := Size(dst)
	sw, sh := Size(src)
	if x < 0 || y < 0 || x+sw > dw || y+sh > dh {
		return nil, fmt.Errorf("paste: %dx%d at (%d,%d) does not fit in %dx%d",
			sw, sh, x, y, dw, dh)
	}
	return imaging.Paste(dst, src, image.Pt(x, y)), nil
}

// Clone returns a deep copy of img as *image.NRGBA.
func Clone(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}
