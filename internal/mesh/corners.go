package mesh

import (
	"fmt"
	"sort"

	"sketchgetdp/pkg/geometry"
)

// minCornerChange is the absolute direction change a corner must exceed in
// addition to the configured threshold.
const minCornerChange = 0.8

// CornerDetector finds corners from the change in average direction between
// the windows before and after each point.
type CornerDetector struct {
	WindowSize        int     `yaml:"window_size" json:"window_size"`
	Threshold         float64 `yaml:"threshold" json:"threshold"`
	MinCornerDistance int     `yaml:"min_corner_distance" json:"min_corner_distance"`
	// PointsPerCorner bounds the corner count to max(3, n/PointsPerCorner).
	PointsPerCorner int `yaml:"points_per_corner" json:"points_per_corner"`
}

// DefaultCornerDetector returns conservative settings for hand-drawn input.
func DefaultCornerDetector() CornerDetector {
	return CornerDetector{
		WindowSize:        8,
		Threshold:         0.3,
		MinCornerDistance: 20,
		PointsPerCorner:   80,
	}
}

// Detect returns the corner points of a boundary in traversal order.
func (d CornerDetector) Detect(points []geometry.Point) ([]geometry.Point, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("%w: corner detection needs 3 points, got %d", ErrTooFewPoints, len(points))
	}
	pts := dedupeConsecutive(points)
	if len(pts) < 3 || len(pts) < d.WindowSize*2 {
		return nil, nil
	}

	n := len(pts)
	changes := make([]float64, n)
	for i := 0; i < n; i++ {
		left := windowDirection(pts, max(0, i-d.WindowSize), i)
		right := windowDirection(pts, i, min(n, i+d.WindowSize+1))
		if left.Norm() > 1e-10 && right.Norm() > 1e-10 {
			changes[i] = left.Distance(right)
		}
	}

	var candidates []int
	for i := d.WindowSize; i < n-d.WindowSize; i++ {
		c := changes[i]
		if c > d.Threshold && c > minCornerChange && c >= changes[i-1] && c >= changes[i+1] {
			candidates = append(candidates, i)
		}
	}

	var corners []geometry.Point
	for _, idx := range d.selectCandidates(candidates, changes, n) {
		corners = append(corners, pts[idx])
	}
	return corners, nil
}

// selectCandidates keeps the strongest candidates that are at least
// MinCornerDistance apart, returned in index order.
func (d CornerDetector) selectCandidates(candidates []int, changes []float64, n int) []int {
	if len(candidates) == 0 {
		return nil
	}
	ranked := append([]int(nil), candidates...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return changes[ranked[i]] > changes[ranked[j]]
	})

	perCorner := d.PointsPerCorner
	if perCorner <= 0 {
		perCorner = 80
	}
	limit := max(3, n/perCorner)

	var selected []int
	for _, idx := range ranked {
		if len(selected) >= limit {
			break
		}
		tooClose := false
		for _, s := range selected {
			if abs(idx-s) < d.MinCornerDistance {
				tooClose = true
				break
			}
		}
		if !tooClose {
			selected = append(selected, idx)
		}
	}
	sort.Ints(selected)
	return selected
}

// windowDirection returns the normalized mean of the unit steps in
// pts[start:end], or the zero vector when undefined.
func windowDirection(pts []geometry.Point, start, end int) geometry.Point {
	if end-start < 2 {
		return geometry.Point{}
	}
	var sum geometry.Point
	count := 0
	for i := start; i < end-1; i++ {
		step := pts[i+1].Sub(pts[i])
		if norm := step.Norm(); norm > 1e-10 {
			sum = sum.Add(step.Scale(1 / norm))
			count++
		}
	}
	if count == 0 {
		return geometry.Point{}
	}
	if norm := sum.Norm(); norm > 1e-10 {
		return sum.Scale(1 / norm)
	}
	return geometry.Point{}
}

func dedupeConsecutive(points []geometry.Point) []geometry.Point {
	if len(points) == 0 {
		return nil
	}
	out := []geometry.Point{points[0]}
	for _, p := range points[1:] {
		last := out[len(out)-1]
		if abs64(p.X-last.X) > 1e-10 || abs64(p.Y-last.Y) > 1e-10 {
			out = append(out, p)
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func abs64(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
