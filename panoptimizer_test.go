package panoptimizer

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"
)

func createTestPanorama(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x % 256), uint8(y % 256), uint8(x / 256), 255})
		}
	}
	return img
}

func TestNew(t *testing.T) {
	if New() == nil {
		t.Fatal("New() returned nil")
	}
}

func TestOptimizeExtractRoundTrip(t *testing.T) {
	po := New()
	pano := createTestPanorama(720, 360)

	opt, err := po.Optimize(pano, 45, 90)
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if opt.Size() <= 0 {
		t.Error("optimized representation has no bytes")
	}

	frame, err := po.Extract(opt)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if b := frame.Bounds(); b.Dx() != 720 || b.Dy() != 360 {
		t.Errorf("reconstructed %dx%d, want 720x360", b.Dx(), b.Dy())
	}
}

func TestProcess(t *testing.T) {
	po := New()
	pano := createTestPanorama(360, 180)

	frame, err := po.Process(pano, 0, 90)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if b := frame.Bounds(); b.Dx() != 360 || b.Dy() != 180 {
		t.Errorf("reconstructed %dx%d, want 360x180", b.Dx(), b.Dy())
	}
}

func TestSaveAndLoadPanorama(t *testing.T) {
	po := New()
	pano := createTestPanorama(720, 360)
	path := filepath.Join(t.TempDir(), "pano.png")

	if err := po.SavePNG(pano, path); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}

	loaded, err := po.LoadPanorama(path)
	if err != nil {
		t.Fatalf("LoadPanorama failed: %v", err)
	}
	if b := loaded.Bounds(); b.Dx() != 720 || b.Dy() != 360 {
		t.Errorf("loaded %dx%d, want 720x360", b.Dx(), b.Dy())
	}
}

func TestLoadPanoramaRejectsNonPanorama(t *testing.T) {
	po := New()
	path := filepath.Join(t.TempDir(), "square.png")
	if err := po.SavePNG(createTestPanorama(300, 300), path); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}
	if _, err := po.LoadPanorama(path); err == nil {
		t.Error("LoadPanorama accepted a square image")
	}
}

func TestGetVersion(t *testing.T) {
	if GetVersion() != Version {
		t.Errorf("GetVersion() = %q, want %q", GetVersion(), Version)
	}
}
