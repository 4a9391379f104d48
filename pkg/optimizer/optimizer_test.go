package optimizer

import (
	"image"
	"image/color"
	"testing"

	"github.com/menta2k/pano-optimizer/pkg/imageops"
)

// createTestPanorama creates a panorama whose pixels encode their own
// coordinates, so any relocation or loss is detectable exactly.
func createTestPanorama(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x % 256),
				G: uint8(y % 256),
				B: uint8(x / 256),
				A: 255,
			})
		}
	}
	return img
}

var black = color.NRGBA{0, 0, 0, 255}

func TestOptimizeImageBasicGeometry(t *testing.T) {
	pano := createTestPanorama(720, 360)

	opt, err := OptimizeImage(pano, 90, 90)
	if err != nil {
		t.Fatalf("OptimizeImage failed: %v", err)
	}

	bw, bh := imageops.Size(opt.Blurred())
	if bw != 360 || bh != 360 {
		t.Errorf("blurred crop is %dx%d, want 360x360", bw, bh)
	}

	fw, fh := imageops.Size(opt.Focused())
	if fw != 60 || fh != 60 {
		t.Errorf("focus patch is %dx%d, want 60x60", fw, fh)
	}

	// angle 90 - 90 = 0 degrees -> column 0
	if opt.LeftBuffer() != 0 {
		t.Errorf("left buffer = %d, want 0", opt.LeftBuffer())
	}
	if opt.FocusCol() != 360/2-60/2 {
		t.Errorf("focus col = %d, want %d", opt.FocusCol(), 360/2-60/2)
	}
	if opt.FullSize() != image.Pt(720, 360) {
		t.Errorf("full size = %v, want (720,360)", opt.FullSize())
	}

	if opt.FocusCol() < 0 || opt.FocusCol()+fw > bw {
		t.Errorf("focus window [%d,%d) escapes blurred width %d", opt.FocusCol(), opt.FocusCol()+fw, bw)
	}
	if opt.FocusRow() < 0 || opt.FocusRow()+fh > bh {
		t.Errorf("focus window rows [%d,%d) escape blurred height %d", opt.FocusRow(), opt.FocusRow()+fh, bh)
	}
}

func TestCropWidthInvariant(t *testing.T) {
	sizes := [][2]int{{360, 180}, {720, 360}, {1440, 720}, {1000, 500}}
	angles := []int{0, 1, 45, 90, 135, 179, 180, 225, 270, 315, 359}

	for _, sz := range sizes {
		pano := createTestPanorama(sz[0], sz[1])
		want := sz[0] * CropAngle / 360
		for _, angle := range angles {
			opt, err := OptimizeImage(pano, angle, 90)
			if err != nil {
				t.Fatalf("OptimizeImage(%dx%d, angle=%d) failed: %v", sz[0], sz[1], angle, err)
			}
			got, _ := imageops.Size(opt.Blurred())
			if got < want-1 || got > want+1 {
				t.Errorf("crop width at %dx%d angle=%d is %d, want %d±1", sz[0], sz[1], angle, got, want)
			}
		}
	}
}

func TestAngleWraparoundIdentity(t *testing.T) {
	pano := createTestPanorama(720, 360)

	pairs := [][2]int{{0, 360}, {90, 450}, {-90, 270}, {10, -350}}
	for _, pair := range pairs {
		a, err := OptimizeImage(pano, pair[0], 90)
		if err != nil {
			t.Fatalf("OptimizeImage(angle=%d) failed: %v", pair[0], err)
		}
		b, err := OptimizeImage(pano, pair[1], 90)
		if err != nil {
			t.Fatalf("OptimizeImage(angle=%d) failed: %v", pair[1], err)
		}

		if a.LeftBuffer() != b.LeftBuffer() {
			t.Errorf("angles %d and %d: left buffers %d and %d differ", pair[0], pair[1], a.LeftBuffer(), b.LeftBuffer())
		}
		if !samePixels(a.Focused(), b.Focused()) {
			t.Errorf("angles %d and %d: focus patches differ", pair[0], pair[1])
		}
		if !samePixels(a.Blurred(), b.Blurred()) {
			t.Errorf("angles %d and %d: blurred crops differ", pair[0], pair[1])
		}
	}
}

func TestRoundTripShapeIdentity(t *testing.T) {
	sizes := [][2]int{{360, 180}, {720, 360}, {1440, 720}}
	angles := []int{0, 90, 180, 270, 359, -45}
	vAngles := []int{0, 45, 90, 180}

	for _, sz := range sizes {
		pano := createTestPanorama(sz[0], sz[1])
		for _, angle := range angles {
			for _, vAngle := range vAngles {
				out, err := ProcessImage(pano, angle, vAngle)
				if err != nil {
					t.Fatalf("ProcessImage(%dx%d, %d, %d) failed: %v", sz[0], sz[1], angle, vAngle, err)
				}
				w, h := imageops.Size(out)
				if w != sz[0] || h != sz[1] {
					t.Errorf("ProcessImage(%dx%d, %d, %d) returned %dx%d", sz[0], sz[1], angle, vAngle, w, h)
				}
			}
		}
	}
}

func TestFocusRegionRoundTripExact(t *testing.T) {
	pano := createTestPanorama(720, 360)
	width := 720

	angles := []int{0, 90, 200, 359}
	vAngles := []int{0, 90, 180}

	for _, angle := range angles {
		for _, vAngle := range vAngles {
			opt, err := OptimizeImage(pano, angle, vAngle)
			if err != nil {
				t.Fatalf("OptimizeImage(%d, %d) failed: %v", angle, vAngle, err)
			}
			out, err := ExtractImage(opt)
			if err != nil {
				t.Fatalf("ExtractImage(%d, %d) failed: %v", angle, vAngle, err)
			}

			fw, fh := imageops.Size(opt.Focused())
			for dy := 0; dy < fh; dy++ {
				for dx := 0; dx < fw; dx++ {
					outX := (opt.LeftBuffer() + opt.FocusCol() + dx) % width
					outY := opt.FocusRow() + dy
					got := out.NRGBAAt(outX, outY)
					want := pano.NRGBAAt(outX, outY)
					if got != want {
						t.Fatalf("angle=%d vAngle=%d: focus pixel (%d,%d) = %v, want %v",
							angle, vAngle, outX, outY, got, want)
					}
				}
			}
		}
	}
}

func TestPaddingIsBlack(t *testing.T) {
	// Non-wrap case: crop covers columns [0, 360), padding [360, 720).
	pano := createTestPanorama(720, 360)
	out, err := ProcessImage(pano, 90, 90)
	if err != nil {
		t.Fatalf("ProcessImage failed: %v", err)
	}
	for y := 0; y < 360; y += 7 {
		for x := 360; x < 720; x++ {
			if got := out.NRGBAAt(x, y); got != black {
				t.Fatalf("padding pixel (%d,%d) = %v, want black", x, y, got)
			}
		}
	}
}

func TestScenarioWrapAtSeam(t *testing.T) {
	// 360x180 panorama viewed at angle 0: the crop wraps, covering
	// columns [270, 360) then [0, 90). The reconstruction carries real
	// content in that band and black in the opposite one.
	pano := createTestPanorama(360, 180)

	opt, err := OptimizeImage(pano, 0, 90)
	if err != nil {
		t.Fatalf("OptimizeImage failed: %v", err)
	}
	if opt.LeftBuffer() != 270 {
		t.Errorf("left buffer = %d, want 270", opt.LeftBuffer())
	}
	bw, _ := imageops.Size(opt.Blurred())
	if bw != 180 {
		t.Errorf("crop width = %d, want 180", bw)
	}
	if opt.FocusCol() != 75 {
		t.Errorf("focus col = %d, want 75", opt.FocusCol())
	}
	fw, fh := imageops.Size(opt.Focused())
	if fw != 30 || fh != 30 {
		t.Errorf("focus patch is %dx%d, want 30x30", fw, fh)
	}

	out, err := ExtractImage(opt)
	if err != nil {
		t.Fatalf("ExtractImage failed: %v", err)
	}
	w, h := imageops.Size(out)
	if w != 360 || h != 180 {
		t.Fatalf("reconstructed %dx%d, want 360x180", w, h)
	}

	// Opposite band is black, content band is not all black.
	for y := 0; y < 180; y += 5 {
		for x := 90; x < 270; x++ {
			if got := out.NRGBAAt(x, y); got != black {
				t.Fatalf("pixel (%d,%d) = %v inside discarded band, want black", x, y, got)
			}
		}
	}
	content := false
	for x := 270; x < 360 && !content; x++ {
		if out.NRGBAAt(x, 90) != black {
			content = true
		}
	}
	if !content {
		t.Error("content band [270,360) is entirely black")
	}
}

func TestScenarioNoWrap(t *testing.T) {
	// 720x360 panorama viewed at angle 90: crop columns [0, 360), no
	// seam crossing, black padding outside the crop.
	pano := createTestPanorama(720, 360)

	opt, err := OptimizeImage(pano, 90, 90)
	if err != nil {
		t.Fatalf("OptimizeImage failed: %v", err)
	}
	if opt.LeftBuffer() != 0 {
		t.Errorf("left buffer = %d, want 0", opt.LeftBuffer())
	}

	out, err := ExtractImage(opt)
	if err != nil {
		t.Fatalf("ExtractImage failed: %v", err)
	}
	for y := 0; y < 360; y += 9 {
		for x := 360; x < 720; x++ {
			if got := out.NRGBAAt(x, y); got != black {
				t.Fatalf("pixel (%d,%d) = %v outside crop, want black", x, y, got)
			}
		}
	}
}

func TestVerticalClamping(t *testing.T) {
	pano := createTestPanorama(720, 360)

	// vAngle 0 clamps the focus window to the top edge, 180 to the
	// bottom edge.
	top, err := OptimizeImage(pano, 90, 0)
	if err != nil {
		t.Fatalf("OptimizeImage(vAngle=0) failed: %v", err)
	}
	if top.FocusRow() != 0 {
		t.Errorf("focus row at vAngle=0 is %d, want 0", top.FocusRow())
	}

	bottom, err := OptimizeImage(pano, 90, 180)
	if err != nil {
		t.Fatalf("OptimizeImage(vAngle=180) failed: %v", err)
	}
	_, fh := imageops.Size(bottom.Focused())
	if bottom.FocusRow()+fh != 360 {
		t.Errorf("focus window at vAngle=180 ends at row %d, want 360", bottom.FocusRow()+fh)
	}
}

func TestOptimizedImageOwnsItsBuffers(t *testing.T) {
	pano := createTestPanorama(360, 180)
	opt, err := OptimizeImage(pano, 45, 90)
	if err != nil {
		t.Fatalf("OptimizeImage failed: %v", err)
	}

	before := opt.Focused().NRGBAAt(0, 0)

	// Scribble over the source panorama; the optimized buffers must
	// not change.
	for i := range pano.Pix {
		pano.Pix[i] = 0xAA
	}

	if after := opt.Focused().NRGBAAt(0, 0); after != before {
		t.Errorf("focus patch aliases the panorama: pixel changed from %v to %v", before, after)
	}
}

func TestOptimizedImageSize(t *testing.T) {
	pano := createTestPanorama(360, 180)
	opt, err := OptimizeImage(pano, 0, 90)
	if err != nil {
		t.Fatalf("OptimizeImage failed: %v", err)
	}

	want := imageops.ByteSize(opt.Focused()) + imageops.ByteSize(opt.Blurred())
	if opt.Size() != want {
		t.Errorf("Size() = %d, want %d", opt.Size(), want)
	}
	full := 360 * 180 * 4
	if opt.Size() >= full {
		t.Errorf("optimized size %d is not smaller than the original %d", opt.Size(), full)
	}
}

func TestDegeneratePanoramaRejected(t *testing.T) {
	cases := []struct {
		name string
		w, h int
	}{
		{"empty", 0, 0},
		{"one pixel", 1, 1},
		{"too narrow for focus", 10, 180},
		{"too short for focus", 360, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pano := image.NewNRGBA(image.Rect(0, 0, tc.w, tc.h))
			if _, err := OptimizeImage(pano, 0, 90); err == nil {
				t.Errorf("OptimizeImage accepted a %dx%d panorama", tc.w, tc.h)
			}
		})
	}
}

func samePixels(a, b *image.NRGBA) bool {
	if a.Rect != b.Rect || len(a.Pix) != len(b.Pix) {
		return false
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			return false
		}
	}
	return true
}

func BenchmarkOptimizeImage(b *testing.B) {
	pano := createTestPanorama(3840, 1920)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := OptimizeImage(pano, 90, 90); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkProcessImage(b *testing.B) {
	pano := createTestPanorama(3840, 1920)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ProcessImage(pano, 0, 90); err != nil {
			b.Fatal(err)
		}
	}
}
