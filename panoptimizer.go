// Package panoptimizer provides viewport-adaptive transcoding of
// equirectangular panoramas.
//
// Given a full 360°×180° panorama and a viewing direction, the
// optimizer produces a reduced representation that keeps a 30° window
// around the viewing direction at full resolution, carries the
// surrounding 180° crop only as a heavily downsampled background, and
// discards the rest. The reduced representation can be expanded back
// into a full-size frame, with black padding standing in for the
// discarded half of the panorama. In a 360° video pipeline this ships
// a fraction of the data per frame while the viewer's line of sight
// stays sharp.
//
// Basic usage:
//
//	package main
//
//	import (
//		"log"
//
//		panoptimizer "github.com/menta2k/pano-optimizer"
//	)
//
//	func main() {
//		po := panoptimizer.New()
//
//		pano, err := po.LoadPanorama("pano.jpg")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		// Viewer looking at 45° yaw, 90° pitch (the horizon).
//		opt, err := po.Optimize(pano, 45, 90)
//		if err != nil {
//			log.Fatal(err)
//		}
//		log.Printf("reduced to %d bytes", opt.Size())
//
//		frame, err := po.Extract(opt)
//		if err != nil {
//			log.Fatal(err)
//		}
//		if err := po.SavePNG(frame, "frame.png"); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The package consists of four main components:
//
// 1. Optimizer (pkg/optimizer): The forward and inverse geometric transforms
// 2. Geometry (pkg/geometry): Angle normalization and angle-to-pixel mapping
// 3. Imageops (pkg/imageops): The adapter over the external image library
// 4. Processing (pkg/processing): Panorama loading, validation and saving
//
// The optimizer itself decides nothing about where to look: the caller
// supplies the viewing direction, typically from head tracking.
package panoptimizer

import (
	"fmt"
	"image"

	"github.com/menta2k/pano-optimizer/pkg/optimizer"
	"github.com/menta2k/pano-optimizer/pkg/processing"
)

// Version of the pano-optimizer library
const Version = "1.0.0"

// PanoOptimizer bundles panorama I/O with the geometric transforms.
type PanoOptimizer struct {
	proc *processing.Processor
}

// New creates a PanoOptimizer with default settings.
func New() *PanoOptimizer {
	return &PanoOptimizer{proc: processing.NewProcessor()}
}

// LoadPanorama loads a panorama from a file path or HTTP(S) URL and
// validates that it has equirectangular proportions.
func (po *PanoOptimizer) LoadPanorama(source string) (image.Image, error) {
	img, err := po.proc.LoadImageSmart(source)
	if err != nil {
		return nil, fmt.Errorf("failed to load panorama: %w", err)
	}
	if err := po.proc.ValidatePanorama(img); err != nil {
		return nil, fmt.Errorf("panorama validation failed: %w", err)
	}
	return img, nil
}

// Optimize reduces a panorama to the representation focused on
// (angle, vAngle), both in degrees.
func (po *PanoOptimizer) Optimize(panorama image.Image, angle, vAngle int) (*optimizer.OptimizedImage, error) {
	return optimizer.OptimizeImage(panorama, angle, vAngle)
}

// Extract reconstructs a full-size frame from a reduced representation.
func (po *PanoOptimizer) Extract(opt *optimizer.OptimizedImage) (*image.NRGBA, error) {
	return optimizer.ExtractImage(opt)
}

// Process round-trips a panorama through the optimizer, yielding the
// frame a receiver would reconstruct after transmission.
func (po *PanoOptimizer) Process(panorama image.Image, angle, vAngle int) (*image.NRGBA, error) {
	return optimizer.ProcessImage(panorama, angle, vAngle)
}

// SaveImage saves an image with an explicit format and quality.
func (po *PanoOptimizer) SaveImage(img image.Image, path, format string, quality int, lossless bool) error {
	return po.proc.SaveImage(img, path, format, quality, lossless)
}

// SavePNG saves an image as PNG.
func (po *PanoOptimizer) SavePNG(img image.Image, path string) error {
	return po.proc.SaveImage(img, path, "png", 100, false)
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
