package mesh

import (
	"errors"
	"fmt"

	"sketchgetdp/pkg/geometry"
)

// ErrTooFewPoints is returned when an operation needs more points.
var ErrTooFewPoints = errors.New("mesh: too few points")

// Segment is a Bézier segment of degree len(Points)-1. A degree 1 segment
// is a straight line.
type Segment struct {
	Points []geometry.Point
}

// NewSegment copies the control points. At least two are required.
func NewSegment(points ...geometry.Point) (Segment, error) {
	if len(points) < 2 {
		return Segment{}, fmt.Errorf("%w: segment needs 2 control points, got %d", ErrTooFewPoints, len(points))
	}
	return Segment{Points: append([]geometry.Point(nil), points...)}, nil
}

// Degree returns the polynomial degree.
func (s Segment) Degree() int { return len(s.Points) - 1 }

// Start returns the first control point.
func (s Segment) Start() geometry.Point { return s.Points[0] }

// End returns the last control point.
func (s Segment) End() geometry.Point { return s.Points[len(s.Points)-1] }

// IsLine reports whether the segment is degree 1.
func (s Segment) IsLine() bool { return s.Degree() == 1 }

// Evaluate returns the point at parameter t in [0, 1] using de Casteljau.
func (s Segment) Evaluate(t float64) geometry.Point {
	work := append([]geometry.Point(nil), s.Points...)
	for n := len(work) - 1; n > 0; n-- {
		for i := 0; i < n; i++ {
			work[i] = lerp(work[i], work[i+1], t)
		}
	}
	return work[0]
}

// Derivative returns the tangent vector at t.
func (s Segment) Derivative(t float64) geometry.Point {
	n := s.Degree()
	if n < 1 {
		return geometry.Point{}
	}
	hodograph := make([]geometry.Point, n)
	for i := 0; i < n; i++ {
		hodograph[i] = s.Points[i+1].Sub(s.Points[i]).Scale(float64(n))
	}
	return Segment{Points: hodograph}.Evaluate(t)
}

// Sample returns n+1 points evenly spaced in parameter, including both ends.
func (s Segment) Sample(n int) []geometry.Point {
	if n < 1 {
		n = 1
	}
	out := make([]geometry.Point, n+1)
	for i := 0; i <= n; i++ {
		out[i] = s.Evaluate(float64(i) / float64(n))
	}
	return out
}

// Bernstein returns the i-th Bernstein basis polynomial of degree n at t.
func Bernstein(i, n int, t float64) float64 {
	if i < 0 || i > n {
		return 0
	}
	b := float64(binomial(n, i))
	for k := 0; k < i; k++ {
		b *= t
	}
	for k := 0; k < n-i; k++ {
		b *= 1 - t
	}
	return b
}

func binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	r := 1
	for i := 1; i <= k; i++ {
		r = r * (n - k + i) / i
	}
	return r
}

func lerp(a, b geometry.Point, t float64) geometry.Point {
	return geometry.Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}
