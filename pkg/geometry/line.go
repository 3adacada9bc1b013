package geometry

import (
	"errors"
	"fmt"
	"math"
)

// ErrVerticalLine is returned when the slope of a vertical line is requested.
var ErrVerticalLine = errors.New("geometry: slope undefined for vertical line")

// lineTolerance is the absolute tolerance used for line predicates.
const lineTolerance = 1e-9

// Line is an immutable segment between two points.
type Line struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// NewLine validates both endpoints and returns a Line.
func NewLine(start, end Point) (Line, error) {
	if !finite(start.X) || !finite(start.Y) || !finite(end.X) || !finite(end.Y) {
		return Line{}, fmt.Errorf("new line: %w", ErrInvalidCoordinate)
	}
	return Line{Start: start, End: end}, nil
}

// Length returns the segment length.
func (l Line) Length() float64 {
	return l.Start.Distance(l.End)
}

// Midpoint returns the point halfway between the endpoints.
func (l Line) Midpoint() Point {
	return Point{X: (l.Start.X + l.End.X) / 2, Y: (l.Start.Y + l.End.Y) / 2}
}

// Slope returns dy/dx, or ErrVerticalLine.
func (l Line) Slope() (float64, error) {
	if l.IsVertical() {
		return 0, ErrVerticalLine
	}
	return (l.End.Y - l.Start.Y) / (l.End.X - l.Start.X), nil
}

// IsVertical reports whether both endpoints share an x coordinate.
func (l Line) IsVertical() bool {
	return math.Abs(l.End.X-l.Start.X) <= lineTolerance
}

// IsHorizontal reports whether both endpoints share a y coordinate.
func (l Line) IsHorizontal() bool {
	return math.Abs(l.End.Y-l.Start.Y) <= lineTolerance
}

// Contains reports whether p lies on the segment.
func (l Line) Contains(p Point) bool {
	if math.Abs(crossProduct(l.Start, l.End, p)) > lineTolerance*math.Max(1, l.Length()) {
		return false
	}
	return p.X >= math.Min(l.Start.X, l.End.X)-lineTolerance &&
		p.X <= math.Max(l.Start.X, l.End.X)+lineTolerance &&
		p.Y >= math.Min(l.Start.Y, l.End.Y)-lineTolerance &&
		p.Y <= math.Max(l.Start.Y, l.End.Y)+lineTolerance
}

// IsParallel reports whether two lines have the same direction.
func (l Line) IsParallel(other Line) bool {
	d1 := l.End.Sub(l.Start)
	d2 := other.End.Sub(other.Start)
	cross := d1.X*d2.Y - d1.Y*d2.X
	return math.Abs(cross) <= lineTolerance*math.Max(1, d1.Norm()*d2.Norm())
}

// Reversed returns the line with swapped endpoints.
func (l Line) Reversed() Line {
	return Line{Start: l.End, End: l.Start}
}
