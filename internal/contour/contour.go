// Package contour provides the closed-contour entity and the closure service
// that repairs raster contours whose endpoints do not meet.
package contour

import (
	"math"

	"sketchgetdp/internal/cvgeom"
	"sketchgetdp/pkg/geometry"
)

// ClosedContour is an ordered point sequence with its closure state. The
// points are copied on construction and never exposed for mutation.
type ClosedContour struct {
	points     []geometry.Point
	isClosed   bool
	closureGap float64
}

// New builds a ClosedContour from a copy of points.
func New(points []geometry.Point, isClosed bool, closureGap float64) ClosedContour {
	return ClosedContour{
		points:     clonePoints(points),
		isClosed:   isClosed,
		closureGap: closureGap,
	}
}

// Points returns a copy of the contour points in traversal order.
func (c ClosedContour) Points() []geometry.Point {
	return clonePoints(c.points)
}

// Len returns the number of points.
func (c ClosedContour) Len() int { return len(c.points) }

// IsClosed reports whether the source points met within tolerance.
func (c ClosedContour) IsClosed() bool { return c.isClosed }

// ClosureGap is the distance between the last and first source point.
func (c ClosedContour) ClosureGap() float64 { return c.closureGap }

// SignedArea returns the shoelace area keeping the orientation sign.
func (c ClosedContour) SignedArea() float64 {
	return geometry.SignedArea(c.points)
}

// Area returns the absolute contour area, 0 for fewer than 3 points.
func (c ClosedContour) Area() float64 {
	return cvgeom.Area(c.points)
}

// Perimeter is the closed arc length, 0 for fewer than 3 points.
func (c ClosedContour) Perimeter() float64 {
	return cvgeom.Perimeter(c.points)
}

// Circularity is 4*pi*area/perimeter^2, 0 when the perimeter is 0.
func (c ClosedContour) Circularity() float64 {
	p := c.Perimeter()
	if p == 0 {
		return 0
	}
	return 4 * math.Pi * c.Area() / (p * p)
}

// Centroid returns the moments centroid; false without area.
func (c ClosedContour) Centroid() (geometry.Point, bool) {
	return cvgeom.Centroid(c.points)
}

// Bounds returns the axis-aligned bounding box.
func (c ClosedContour) Bounds() geometry.Rect {
	return geometry.BoundingBox(c.points)
}

// Equal reports whether two contours hold the same points and closure state.
func (c ClosedContour) Equal(other ClosedContour) bool {
	if c.isClosed != other.isClosed || c.closureGap != other.closureGap || len(c.points) != len(other.points) {
		return false
	}
	for i := range c.points {
		if c.points[i] != other.points[i] {
			return false
		}
	}
	return true
}

func clonePoints(points []geometry.Point) []geometry.Point {
	if points == nil {
		return nil
	}
	out := make([]geometry.Point, len(points))
	copy(out, points)
	return out
}
