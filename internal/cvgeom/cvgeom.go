// Package cvgeom measures and simplifies pixel contours with OpenCV.
// Coordinates are rounded to whole pixels on the way in.
package cvgeom

import (
	"image"
	"math"

	"sketchgetdp/pkg/geometry"

	"gocv.io/x/gocv"
)

// PointVector converts points to an OpenCV point vector. The caller closes it.
func PointVector(points []geometry.Point) gocv.PointVector {
	pts := make([]image.Point, len(points))
	for i, p := range points {
		pts[i] = pixel(p)
	}
	return gocv.NewPointVectorFromPoints(pts)
}

// FromPointVector converts an OpenCV point vector back to points.
func FromPointVector(pv gocv.PointVector) []geometry.Point {
	pts := pv.ToPoints()
	out := make([]geometry.Point, len(pts))
	for i, p := range pts {
		out[i] = geometry.Pt(float64(p.X), float64(p.Y))
	}
	return out
}

// Area returns the absolute contour area, 0 for fewer than 3 points.
func Area(points []geometry.Point) float64 {
	if len(points) < 3 {
		return 0
	}
	pv := PointVector(points)
	defer pv.Close()
	return gocv.ContourArea(pv)
}

// Perimeter returns the closed arc length, 0 for fewer than 3 points.
func Perimeter(points []geometry.Point) float64 {
	if len(points) < 3 {
		return 0
	}
	pv := PointVector(points)
	defer pv.Close()
	return gocv.ArcLength(pv, true)
}

// Centroid returns m10/m00 and m01/m00 of the contour moments. It reports
// false for fewer than 3 points or a contour without area.
func Centroid(points []geometry.Point) (geometry.Point, bool) {
	if len(points) < 3 {
		return geometry.Point{}, false
	}
	// An N x 2 CV_32S matrix is read by cv::moments as a contour.
	mat := gocv.NewMatWithSize(len(points), 2, gocv.MatTypeCV32S)
	defer mat.Close()
	for i, p := range points {
		px := pixel(p)
		mat.SetIntAt(i, 0, int32(px.X))
		mat.SetIntAt(i, 1, int32(px.Y))
	}

	m := gocv.Moments(mat, false)
	m00 := m["m00"]
	if math.Abs(m00) < 1e-9 {
		return geometry.Point{}, false
	}
	return geometry.Pt(m["m10"]/m00, m["m01"]/m00), true
}

// ApproxPolyDP simplifies the contour with Douglas-Peucker at epsilon pixels.
func ApproxPolyDP(points []geometry.Point, epsilon float64, closed bool) []geometry.Point {
	if len(points) == 0 {
		return nil
	}
	pv := PointVector(points)
	defer pv.Close()
	approx := gocv.ApproxPolyDP(pv, epsilon, closed)
	defer approx.Close()
	return FromPointVector(approx)
}

func pixel(p geometry.Point) image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}
