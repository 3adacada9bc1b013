// Package trace turns a raster sketch into colored vector structures.
package trace

import (
	"image"

	"sketchgetdp/pkg/geometry"

	"gocv.io/x/gocv"
)

// DetectionOptions configures binarization and contour extraction.
type DetectionOptions struct {
	BlockSize       int     // adaptive threshold neighbourhood, odd
	C               float64 // adaptive threshold offset
	KernelSize      int     // morphology kernel edge
	CloseIterations int
	OpenIterations  int
}

// DefaultDetectionOptions returns the settings used for hand-drawn sketches.
func DefaultDetectionOptions() DetectionOptions {
	return DetectionOptions{
		BlockSize:       15,
		C:               5,
		KernelSize:      3,
		CloseIterations: 2,
		OpenIterations:  1,
	}
}

// ContourDetector extracts stroke outlines from a BGR image.
type ContourDetector struct {
	opts DetectionOptions
}

// NewContourDetector creates a detector.
func NewContourDetector(opts DetectionOptions) *ContourDetector {
	if opts.BlockSize < 3 {
		opts.BlockSize = 3
	}
	if opts.BlockSize%2 == 0 {
		opts.BlockSize++
	}
	if opts.KernelSize < 1 {
		opts.KernelSize = 3
	}
	return &ContourDetector{opts: opts}
}

// Binarize returns the cleaned ink mask: adaptive Gaussian and Otsu
// thresholds combined, then closed and opened. The caller closes it.
func (d *ContourDetector) Binarize(img gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	adaptive := gocv.NewMat()
	defer adaptive.Close()
	gocv.AdaptiveThreshold(gray, &adaptive, 255, gocv.AdaptiveThresholdGaussian,
		gocv.ThresholdBinaryInv, d.opts.BlockSize, float32(d.opts.C))

	otsu := gocv.NewMat()
	defer otsu.Close()
	gocv.Threshold(gray, &otsu, 0, 255, gocv.ThresholdBinaryInv|gocv.ThresholdOtsu)

	combined := gocv.NewMat()
	gocv.BitwiseOr(adaptive, otsu, &combined)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{d.opts.KernelSize, d.opts.KernelSize})
	defer kernel.Close()

	for i := 0; i < d.opts.CloseIterations; i++ {
		gocv.MorphologyEx(combined, &combined, gocv.MorphClose, kernel)
	}
	for i := 0; i < d.opts.OpenIterations; i++ {
		gocv.MorphologyEx(combined, &combined, gocv.MorphOpen, kernel)
	}
	return combined
}

// Detect returns every contour of the ink mask, nested ones included.
func (d *ContourDetector) Detect(img gocv.Mat) [][]geometry.Point {
	if img.Empty() {
		return nil
	}
	mask := d.Binarize(img)
	defer mask.Close()

	contours := gocv.FindContours(mask, gocv.RetrievalTree, gocv.ChainApproxTC89KCOS)
	defer contours.Close()

	out := make([][]geometry.Point, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		pts := contours.At(i).ToPoints()
		poly := make([]geometry.Point, len(pts))
		for j, p := range pts {
			poly[j] = geometry.Pt(float64(p.X), float64(p.Y))
		}
		out = append(out, poly)
	}
	return out
}
