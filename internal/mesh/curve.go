package mesh

import (
	"fmt"

	"sketchgetdp/pkg/geometry"
)

// BoundaryCurve is a piecewise Bézier boundary with its detected corners and
// sketch color.
type BoundaryCurve struct {
	Segments []Segment
	Corners  []geometry.Point
	Color    Color
	Closed   bool
}

// NewBoundaryCurve requires at least one segment.
func NewBoundaryCurve(segments []Segment, corners []geometry.Point, color Color, closed bool) (BoundaryCurve, error) {
	if len(segments) == 0 {
		return BoundaryCurve{}, fmt.Errorf("%w: boundary curve needs a segment", ErrTooFewPoints)
	}
	return BoundaryCurve{
		Segments: append([]Segment(nil), segments...),
		Corners:  append([]geometry.Point(nil), corners...),
		Color:    color,
		Closed:   closed,
	}, nil
}

// ControlPoints returns every control point including the duplicates shared
// by adjacent segments.
func (c BoundaryCurve) ControlPoints() []geometry.Point {
	var out []geometry.Point
	for _, s := range c.Segments {
		out = append(out, s.Points...)
	}
	return out
}

// UniqueControlPoints drops the first control point of every segment after
// the first, since it repeats the previous segment's end.
func (c BoundaryCurve) UniqueControlPoints() []geometry.Point {
	var out []geometry.Point
	for i, s := range c.Segments {
		if i == 0 {
			out = append(out, s.Points...)
			continue
		}
		out = append(out, s.Points[1:]...)
	}
	return out
}

// locate maps a global parameter onto a segment index and local parameter.
func (c BoundaryCurve) locate(t float64) (int, float64) {
	n := len(c.Segments)
	idx := int(t * float64(n))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx, t*float64(n) - float64(idx)
}

// Evaluate returns the point at global parameter t in [0, 1].
func (c BoundaryCurve) Evaluate(t float64) (geometry.Point, error) {
	if t < 0 || t > 1 {
		return geometry.Point{}, fmt.Errorf("mesh: parameter %v outside [0,1]", t)
	}
	i, local := c.locate(t)
	return c.Segments[i].Evaluate(local), nil
}

// Derivative returns the tangent at global parameter t, scaled by the
// segment count for the global parametrization.
func (c BoundaryCurve) Derivative(t float64) (geometry.Point, error) {
	if t < 0 || t > 1 {
		return geometry.Point{}, fmt.Errorf("mesh: parameter %v outside [0,1]", t)
	}
	i, local := c.locate(t)
	return c.Segments[i].Derivative(local).Scale(float64(len(c.Segments))), nil
}

// Sample returns perSegment points from every segment, without repeating
// shared endpoints. Closed curves omit the final point, which equals the
// first.
func (c BoundaryCurve) Sample(perSegment int) []geometry.Point {
	if perSegment < 1 {
		perSegment = 1
	}
	var out []geometry.Point
	for i, s := range c.Segments {
		pts := s.Sample(perSegment)
		if i > 0 {
			pts = pts[1:]
		}
		out = append(out, pts...)
	}
	if c.Closed && len(out) > 1 && out[0].Distance(out[len(out)-1]) < 1e-9 {
		out = out[:len(out)-1]
	}
	return out
}

// Bounds returns the bounding box of the control points.
func (c BoundaryCurve) Bounds() geometry.Rect {
	return geometry.BoundingBox(c.ControlPoints())
}

// Area is the enclosed area of the sampled outline, 0 for open curves.
func (c BoundaryCurve) Area() float64 {
	if !c.Closed {
		return 0
	}
	return geometry.Area(c.Sample(16))
}

// Contains reports whether other lies inside c. Both curves must be closed.
func (c BoundaryCurve) Contains(other BoundaryCurve) bool {
	if !c.Closed || !other.Closed {
		return false
	}
	return geometry.PolygonInPolygon(other.Sample(4), c.Sample(16))
}
