package optimizer

import (
	"image"

	"github.com/menta2k/pano-optimizer/pkg/imageops"
)

// OptimizedImage is the reduced representation of a panorama: a small
// full-resolution patch around the viewing direction, a coarse version
// of the 180-degree crop it sits in, and the geometry needed to place
// both back into a full-size frame.
//
// The value is immutable: the constructor deep-copies both buffers, so
// an OptimizedImage never aliases the panorama it was built from and
// is safe to hold, pass between goroutines, or persist. Callers must
// not write through the buffers returned by Focused and Blurred.
type OptimizedImage struct {
	focused *image.NRGBA
	blurred *image.NRGBA

	focusRow int
	focusCol int

	fullSize   image.Point
	leftBuffer int
}

func newOptimizedImage(focused, blurred *image.NRGBA, focusRow, focusCol int, fullSize image.Point, leftBuffer int) *OptimizedImage {
	return &OptimizedImage{
		focused:    imageops.Clone(focused),
		blurred:    imageops.Clone(blurred),
		focusRow:   focusRow,
		focusCol:   focusCol,
		fullSize:   fullSize,
		leftBuffer: leftBuffer,
	}
}

// Focused returns the full-resolution focus patch. Read-only.
func (o *OptimizedImage) Focused() *image.NRGBA { return o.focused }

// Blurred returns the coarse background crop. Read-only.
func (o *OptimizedImage) Blurred() *image.NRGBA { return o.blurred }

// FocusRow returns the row of the focus patch's top-left corner within
// the blurred crop.
func (o *OptimizedImage) FocusRow() int { return o.focusRow }

// FocusCol returns the column of the focus patch's top-left corner
// within the blurred crop.
func (o *OptimizedImage) FocusCol() int { return o.focusCol }

// FullSize returns the dimensions of the original panorama.
func (o *OptimizedImage) FullSize() image.Point { return o.fullSize }

// LeftBuffer returns the original panorama column at which the crop
// window begins.
func (o *OptimizedImage) LeftBuffer() int { return o.leftBuffer }

// Size returns the byte footprint of the representation: the focus
// patch plus the blurred crop.
func (o *OptimizedImage) Size() int {
	return imageops.ByteSize(o.focused) + imageops.ByteSize(o.blurred)
}
