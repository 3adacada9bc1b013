// Package geometry provides 2D geometry primitives shared by the tracing and
// meshing pipelines.
package geometry

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	// ErrInvalidCoordinate is returned when a coordinate is NaN or infinite.
	ErrInvalidCoordinate = errors.New("geometry: coordinate must be a finite number")
	// ErrInvalidRadius is returned for a negative or non-finite radius.
	ErrInvalidRadius = errors.New("geometry: radius must be a finite number >= 0")
)

// Point represents an immutable 2D coordinate. Points compare by value and
// can be used as map keys.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// NewPoint creates a Point, rejecting NaN and infinite coordinates.
func NewPoint(x, y float64) (Point, error) {
	if !finite(x) || !finite(y) {
		return Point{}, fmt.Errorf("%w: (%v, %v)", ErrInvalidCoordinate, x, y)
	}
	return Point{X: x, Y: y}, nil
}

// Pt is shorthand for Point{X: x, Y: y} without validation.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Distance returns the Euclidean distance between two points.
func (p Point) Distance(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// DistanceToOrigin returns the distance from the point to (0, 0).
func (p Point) DistanceToOrigin() float64 {
	return math.Hypot(p.X, p.Y)
}

// XY returns the coordinates as a pair.
func (p Point) XY() (float64, float64) {
	return p.X, p.Y
}

// Add returns the sum of two points.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Scale returns the point scaled by a factor.
func (p Point) Scale(factor float64) Point {
	return Point{X: p.X * factor, Y: p.Y * factor}
}

// Dot returns the dot product of p and other treated as vectors.
func (p Point) Dot(other Point) float64 {
	return p.X*other.X + p.Y*other.Y
}

// Norm returns the length of p treated as a vector.
func (p Point) Norm() float64 {
	return p.DistanceToOrigin()
}

// String formats the point as "x,y" using the shortest decimal form.
func (p Point) String() string {
	return FormatCoord(p.X) + "," + FormatCoord(p.Y)
}

// FormatCoord formats a coordinate with the shortest representation that
// round-trips, so integral values print without a fractional part.
func FormatCoord(v float64) string {
	if v == 0 {
		v = 0 // normalize -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// PointData is a Point carrying detection metadata.
type PointData struct {
	Point        Point   `json:"point"`
	Radius       float64 `json:"radius"`
	IsSmallPoint bool    `json:"is_small_point"`
}

// NewPointData validates the radius and returns a PointData.
func NewPointData(p Point, radius float64, small bool) (PointData, error) {
	if !finite(radius) || radius < 0 {
		return PointData{}, fmt.Errorf("%w: %v", ErrInvalidRadius, radius)
	}
	return PointData{Point: p, Radius: radius, IsSmallPoint: small}, nil
}

// Center returns the bare coordinates without metadata.
func (d PointData) Center() Point {
	return d.Point
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
