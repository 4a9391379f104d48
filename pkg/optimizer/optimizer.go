// Package optimizer implements viewport-adaptive transcoding of a
// single equirectangular panorama. Given a viewing direction it keeps
// a small window around that direction at full resolution, replaces
// the rest of a 180-degree crop with a heavily downsampled stand-in,
// and can later reconstruct a full-size frame from the reduced
// representation.
//
// OptimizeImage is the forward transform, ExtractImage the inverse,
// and ProcessImage the round trip. All three are pure functions: they
// never mutate their inputs and every output is freshly allocated.
package optimizer

import (
	"fmt"
	"image"

	"github.com/menta2k/pano-optimizer/pkg/geometry"
	"github.com/menta2k/pano-optimizer/pkg/imageops"
)

// Transcoding policy. These are fixed knobs, not user configuration:
// the inverse transform's geometry depends on them matching the
// forward pass exactly.
const (
	// CropAngle is the total horizontal field kept, in degrees.
	CropAngle = 180
	// HFocusAngle is the horizontal field kept at full resolution.
	HFocusAngle = 30
	// VFocusAngle is the vertical field kept at full resolution.
	VFocusAngle = 30
	// BlurFactor is the downsample ratio for the background.
	BlurFactor = 3
)

// OptimizeImage reduces a panorama to an OptimizedImage focused on the
// viewing direction (angle, vAngle), both in degrees. angle is the
// horizontal direction and may be any integer; it is wrapped into
// [0, 360). vAngle selects the vertical placement of the focus patch
// and is clamped so the patch stays inside the frame.
//
// The returned value owns deep copies of its buffers; the panorama is
// not retained. Errors indicate contract violations (a degenerate
// panorama size produced out-of-range geometry), never recoverable
// conditions.
func OptimizeImage(panorama image.Image, angle, vAngle int) (*OptimizedImage, error) {
	if HFocusAngle >= CropAngle {
		return nil, fmt.Errorf("optimizer: focus angle %d must be narrower than crop angle %d",
			HFocusAngle, CropAngle)
	}

	width, height := imageops.Size(panorama)
	if err := validatePanoramaSize(width, height); err != nil {
		return nil, err
	}

	angle = geometry.NormalizeAngle(angle)
	m := geometry.NewMapping(width, height)

	leftAngle := geometry.NormalizeAngle(angle - CropAngle/2)
	rightAngle := geometry.NormalizeAngle(angle + CropAngle/2)
	leftCol := m.ColumnOf(leftAngle)
	rightCol := m.ColumnOf(rightAngle)
	if leftCol < 0 || leftCol >= width || rightCol < 0 || rightCol >= width {
		return nil, fmt.Errorf("optimizer: crop columns [%d, %d) out of range for width %d",
			leftCol, rightCol, width)
	}

	cropped, err := cropWrapped(panorama, leftCol, rightCol)
	if err != nil {
		return nil, err
	}
	cropWidth, cropHeight := imageops.Size(cropped)

	// The focus window is centered in the crop because the crop itself
	// is centered on the viewing angle.
	focusWidth := m.SpanColumns(HFocusAngle)
	focusLeft := cropWidth/2 - focusWidth/2
	focusRight := cropWidth/2 + focusWidth/2
	if focusLeft < 0 || focusLeft > focusRight || focusRight >= cropWidth {
		return nil, fmt.Errorf("optimizer: focus columns [%d, %d) out of range for crop width %d",
			focusLeft, focusRight, cropWidth)
	}

	focusHeight := m.SpanRows(VFocusAngle)
	focusMiddleRow := geometry.Clamp(m.RowOf(vAngle), focusHeight/2, height-focusHeight/2)
	focusTop := focusMiddleRow - focusHeight/2
	focusBottom := focusMiddleRow + focusHeight/2

	focused, err := imageops.Region(cropped, focusLeft, focusTop, focusRight, focusBottom)
	if err != nil {
		return nil, fmt.Errorf("optimizer: extracting focus patch: %w", err)
	}

	small, err := imageops.Resize(cropped, cropWidth/BlurFactor, cropHeight/BlurFactor)
	if err != nil {
		return nil, fmt.Errorf("optimizer: downsampling crop: %w", err)
	}
	blurred, err := imageops.Resize(small, cropWidth, cropHeight)
	if err != nil {
		return nil, fmt.Errorf("optimizer: upsampling crop: %w", err)
	}

	return newOptimizedImage(focused, blurred,
		focusTop, focusLeft,
		image.Pt(width, height), leftCol), nil
}

// ExtractImage reconstructs a full-size frame from an OptimizedImage.
// The focus patch is pasted pixel-exact over the blurred crop, and the
// result is re-anchored at its original position; the 180 degrees the
// forward transform discarded come back as black padding. The output
// always has exactly the original panorama's dimensions.
func ExtractImage(opt *OptimizedImage) (*image.NRGBA, error) {
	composited, err := imageops.Paste(opt.Blurred(), opt.Focused(), opt.FocusCol(), opt.FocusRow())
	if err != nil {
		return nil, fmt.Errorf("optimizer: compositing focus patch: %w", err)
	}

	full, err := uncropWrapped(composited, opt.FullSize().X, opt.LeftBuffer())
	if err != nil {
		return nil, err
	}

	w, h := imageops.Size(full)
	if w != opt.FullSize().X || h != opt.FullSize().Y {
		return nil, fmt.Errorf("optimizer: reconstructed %dx%d, want %dx%d",
			w, h, opt.FullSize().X, opt.FullSize().Y)
	}
	return full, nil
}

// ProcessImage is the forward and inverse transform back to back. It
// yields what a receiver would see after transmission: full resolution
// inside the focus patch, a blurred 180-degree surround, black
// elsewhere.
//
// ProcessImage is not idempotent. Applying it to its own output
// re-derives the crop from the padded frame, so black padding can land
// inside the new crop window.
func ProcessImage(panorama image.Image, angle, vAngle int) (*image.NRGBA, error) {
	opt, err := OptimizeImage(panorama, angle, vAngle)
	if err != nil {
		return nil, err
	}
	return ExtractImage(opt)
}

// cropWrapped crops image columns [leftCol, rightCol), treating the
// panorama as cyclic. When the window straddles the 0/360 seam
// (leftCol > rightCol) the crop is assembled from the tail and head of
// the image, joined left to right.
func cropWrapped(img image.Image, leftCol, rightCol int) (*image.NRGBA, error) {
	width, height := imageops.Size(img)

	if leftCol < rightCol {
		return imageops.Region(img, leftCol, 0, rightCol, height)
	}
	if leftCol == rightCol {
		return nil, fmt.Errorf("optimizer: degenerate crop at column %d", leftCol)
	}

	left, err := imageops.Region(img, leftCol, 0, width, height)
	if err != nil {
		return nil, err
	}
	right, err := imageops.Region(img, 0, 0, rightCol, height)
	if err != nil {
		return nil, err
	}
	return imageops.HConcat2(left, right)
}

// uncropWrapped places a cropped image back into a fullWidth-wide
// frame. leftBuffer is the original column of the crop's first pixel.
// Columns the crop does not cover are filled with black. Exact inverse
// of cropWrapped for the same leftBuffer.
func uncropWrapped(cropped *image.NRGBA, fullWidth, leftBuffer int) (*image.NRGBA, error) {
	cropWidth, height := imageops.Size(cropped)

	if cropWidth+leftBuffer >= fullWidth {
		// The crop wrapped around the seam: its first columns belong at
		// the right edge of the frame, the remainder at the left edge.
		rightEnd := fullWidth - leftBuffer
		if rightEnd < 0 || rightEnd > cropWidth {
			return nil, fmt.Errorf("optimizer: left buffer %d inconsistent with crop width %d and full width %d",
				leftBuffer, cropWidth, fullWidth)
		}
		fullRight, err := imageops.Region(cropped, 0, 0, rightEnd, height)
		if err != nil {
			return nil, err
		}
		fullLeft, err := imageops.Region(cropped, rightEnd, 0, cropWidth, height)
		if err != nil {
			return nil, err
		}
		centerCols := fullWidth - cropWidth
		if centerCols < 0 {
			return nil, fmt.Errorf("optimizer: crop width %d exceeds full width %d", cropWidth, fullWidth)
		}
		fullCenter := imageops.Fill(centerCols, height, imageops.Black)
		return imageops.HConcat3(fullLeft, fullCenter, fullRight)
	}

	rightCols := fullWidth - leftBuffer - cropWidth
	fullLeft := imageops.Fill(leftBuffer, height, imageops.Black)
	fullRight := imageops.Fill(rightCols, height, imageops.Black)
	return imageops.HConcat3(fullLeft, cropped, fullRight)
}

// validatePanoramaSize rejects sizes too small to carry the geometry:
// the focus window and the downsampled background must both span at
// least one pixel in each direction.
func validatePanoramaSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("optimizer: empty panorama %dx%d", width, height)
	}
	m := geometry.NewMapping(width, height)
	if m.SpanColumns(HFocusAngle) < 1 || m.SpanRows(VFocusAngle) < 1 {
		return fmt.Errorf("optimizer: panorama %dx%d too small for a %dx%d degree focus window",
			width, height, HFocusAngle, VFocusAngle)
	}
	if m.SpanColumns(CropAngle)/BlurFactor < 1 || height/BlurFactor < 1 {
		return fmt.Errorf("optimizer: panorama %dx%d too small to downsample by %d",
			width, height, BlurFactor)
	}
	return nil
}
