package trace

import (
	"image"
	"image/color"
	"math"

	"sketchgetdp/pkg/colorutil"
	"sketchgetdp/pkg/geometry"

	"gocv.io/x/gocv"
)

// strokeSampleWidth is the thickness of the band sampled along a contour.
const strokeSampleWidth = 2

// DominantColor returns the most frequent primary color along the contour
// outline in img.
func DominantColor(img gocv.Mat, contour []geometry.Point) (colorutil.Category, bool) {
	pixels := StrokePixels(img, contour)
	return colorutil.Dominant(pixels)
}

// StrokePixels samples the image under a thin band drawn along contour.
func StrokePixels(img gocv.Mat, contour []geometry.Point) []colorutil.BGR {
	if img.Empty() || len(contour) == 0 {
		return nil
	}
	pts := make([]image.Point, len(contour))
	for i, p := range contour {
		pts[i] = image.Point{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
	}
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{pts})
	defer pv.Close()

	mask := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), img.Rows(), img.Cols(), gocv.MatTypeCV8U)
	defer mask.Close()
	gocv.DrawContours(&mask, pv, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255}, strokeSampleWidth)

	var pixels []colorutil.BGR
	for y := 0; y < mask.Rows(); y++ {
		for x := 0; x < mask.Cols(); x++ {
			if mask.GetUCharAt(y, x) == 0 {
				continue
			}
			v := img.GetVecbAt(y, x)
			pixels = append(pixels, colorutil.BGR{B: v[0], G: v[1], R: v[2]})
		}
	}
	return pixels
}
