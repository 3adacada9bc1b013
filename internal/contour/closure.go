package contour

import (
	"math"

	"sketchgetdp/internal/cvgeom"
	"sketchgetdp/pkg/geometry"
)

// DefaultTolerance is the closure tolerance in pixels used by the tracer.
const DefaultTolerance = 5.0

// Report summarizes the closure state of a point sequence.
type Report struct {
	IsClosed     bool    `json:"is_closed"`
	ClosureGap   float64 `json:"closure_gap"`
	PointCount   int     `json:"point_count"`
	NeedsClosure bool    `json:"needs_closure"`
	Area         float64 `json:"area"`
	Perimeter    float64 `json:"perimeter"`
}

// Service detects and repairs open contours. The zero value is ready to use.
type Service struct{}

// EnsureClosure returns a copy of points with the first point appended when
// the endpoint gap exceeds tolerance. Fewer than three points are returned
// unchanged.
func (Service) EnsureClosure(points []geometry.Point, tolerance float64) []geometry.Point {
	out := clonePoints(points)
	if len(out) < 3 {
		return out
	}
	if out[0].Distance(out[len(out)-1]) > tolerance {
		out = append(out, out[0])
	}
	return out
}

// IsClosed reports whether there are at least three points and the endpoint
// gap is within tolerance.
func (s Service) IsClosed(points []geometry.Point, tolerance float64) bool {
	return len(points) >= 3 && s.ClosureGap(points) <= tolerance
}

// ClosureGap returns the distance between the last and first point, or +Inf
// for fewer than two points.
func (Service) ClosureGap(points []geometry.Point) float64 {
	if len(points) < 2 {
		return math.Inf(1)
	}
	return points[0].Distance(points[len(points)-1])
}

// CreateClosedContour repairs points and wraps them in a ClosedContour. The
// closure flag and gap describe the points before repair.
func (s Service) CreateClosedContour(points []geometry.Point, tolerance float64) ClosedContour {
	return New(s.EnsureClosure(points, tolerance), s.IsClosed(points, tolerance), s.ClosureGap(points))
}

// Analyze reports closure diagnostics for points.
func (s Service) Analyze(points []geometry.Point, tolerance float64) Report {
	closed := s.IsClosed(points, tolerance)
	return Report{
		IsClosed:     closed,
		ClosureGap:   s.ClosureGap(points),
		PointCount:   len(points),
		NeedsClosure: !closed,
		Area:         cvgeom.Area(points),
		Perimeter:    cvgeom.Perimeter(points),
	}
}
