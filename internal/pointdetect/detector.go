// Package pointdetect classifies small closed contours as point markers
// (electrodes and dots) rather than full shapes.
package pointdetect

import (
	"sync"

	"sketchgetdp/internal/cvgeom"
	"sketchgetdp/pkg/geometry"
)

// DefaultMarkerRadius is used by Marker when no positive radius is given.
const DefaultMarkerRadius = 3.0

// Config holds the size gate for point markers.
type Config struct {
	MaxArea      float64 `yaml:"point_max_area" json:"point_max_area"`
	MaxPerimeter float64 `yaml:"point_max_perimeter" json:"point_max_perimeter"`
}

// DefaultConfig returns the default size gate.
func DefaultConfig() Config {
	return Config{MaxArea: 100, MaxPerimeter: 80}
}

// ConfigUpdate carries optional overrides. Nil fields keep the current value.
type ConfigUpdate struct {
	MaxArea      *float64 `yaml:"point_max_area" json:"point_max_area"`
	MaxPerimeter *float64 `yaml:"point_max_perimeter" json:"point_max_perimeter"`
}

// Marker is a renderable circle descriptor.
type Marker struct {
	Type string  `json:"type"`
	CX   float64 `json:"cx"`
	CY   float64 `json:"cy"`
	R    float64 `json:"r"`
}

// Detector finds point markers among contours. Its configuration may be
// updated while other goroutines read it.
type Detector struct {
	mu  sync.RWMutex
	cfg Config
}

// New creates a detector with the given configuration.
func New(cfg Config) *Detector {
	return &Detector{cfg: cfg}
}

// Config returns a copy of the current configuration.
func (d *Detector) Config() Config {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cfg
}

// UpdateConfig overwrites only the fields set in u.
func (d *Detector) UpdateConfig(u ConfigUpdate) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if u.MaxArea != nil {
		d.cfg.MaxArea = *u.MaxArea
	}
	if u.MaxPerimeter != nil {
		d.cfg.MaxPerimeter = *u.MaxPerimeter
	}
}

// IsPoint reports whether the contour has at least 3 points and its area and
// closed arc length are within the configured limits.
func (d *Detector) IsPoint(contour []geometry.Point) bool {
	if len(contour) < 3 {
		return false
	}
	cfg := d.Config()
	return cvgeom.Area(contour) <= cfg.MaxArea &&
		cvgeom.Perimeter(contour) <= cfg.MaxPerimeter
}

// Center returns the moments centroid. It reports false for fewer than 3
// points or a zero-area contour.
func (d *Detector) Center(contour []geometry.Point) (geometry.Point, bool) {
	return cvgeom.Centroid(contour)
}

// DetectPoint returns the contour center when the contour is a point marker.
func (d *Detector) DetectPoint(contour []geometry.Point) (geometry.Point, bool) {
	if !d.IsPoint(contour) {
		return geometry.Point{}, false
	}
	return d.Center(contour)
}

// ContourCenter returns the centroid of any contour regardless of size. A
// contour without area falls back to the mean of its points.
func (d *Detector) ContourCenter(contour []geometry.Point) (geometry.Point, bool) {
	if c, ok := d.Center(contour); ok {
		return c, true
	}
	return geometry.Centroid(contour)
}

// Marker builds a circle descriptor at center.
func (d *Detector) Marker(center geometry.Point, radius float64) Marker {
	if radius <= 0 {
		radius = DefaultMarkerRadius
	}
	return Marker{Type: "circle", CX: center.X, CY: center.Y, R: radius}
}
