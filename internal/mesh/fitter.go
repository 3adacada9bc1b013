package mesh

import (
	"fmt"
	"sort"

	"sketchgetdp/pkg/geometry"

	"gonum.org/v1/gonum/mat"
)

// cornerMatchTolerance is how close a corner must be to a boundary point to
// split the boundary there.
const cornerMatchTolerance = 1e-6

// Fitter converts ordered boundary points into piecewise Bézier curves.
type Fitter struct {
	Degree              int `yaml:"degree" json:"degree"`
	MinPointsPerSegment int `yaml:"min_points_per_segment" json:"min_points_per_segment"`
}

// DefaultFitter returns a quadratic fitter.
func DefaultFitter() Fitter {
	return Fitter{Degree: 2, MinPointsPerSegment: 5}
}

// Fit builds a BoundaryCurve through points, splitting at corners. Each run
// between split points is fitted with its endpoints fixed, so adjacent
// segments share endpoints. A closed curve ends exactly at its start.
func (f Fitter) Fit(points, corners []geometry.Point, color Color, closed bool) (BoundaryCurve, error) {
	if len(points) < 3 {
		return BoundaryCurve{}, fmt.Errorf("%w: boundary curve needs 3 points, got %d", ErrTooFewPoints, len(points))
	}
	pts := dedupeConsecutive(points)
	if len(pts) < 3 {
		pts = append([]geometry.Point(nil), points[:3]...)
	}

	// Fit in a unit frame for conditioning, then map back.
	toUnit := unitFrame(pts)
	fromUnit, ok := toUnit.Inverse()
	if !ok {
		return BoundaryCurve{}, fmt.Errorf("mesh: degenerate boundary frame")
	}
	unit := make([]geometry.Point, len(pts))
	for i, p := range pts {
		unit[i] = toUnit.Apply(p)
	}

	breaks := f.segmentBreaks(pts, corners)
	segments := make([]Segment, 0, len(breaks)-1)
	for i := 0; i+1 < len(breaks); i++ {
		seg := f.fitRun(unit[breaks[i] : breaks[i+1]+1])
		for j, p := range seg.Points {
			seg.Points[j] = fromUnit.Apply(p)
		}
		// Snap shared endpoints so the round trip through the unit frame
		// leaves no gap.
		seg.Points[0] = pts[breaks[i]]
		seg.Points[len(seg.Points)-1] = pts[breaks[i+1]]
		segments = append(segments, seg)
	}

	if closed {
		last := &segments[len(segments)-1]
		last.Points[len(last.Points)-1] = segments[0].Start()
	}
	return NewBoundaryCurve(segments, corners, color, closed)
}

// segmentBreaks returns the point indices where segments start and end.
func (f Fitter) segmentBreaks(pts, corners []geometry.Point) []int {
	n := len(pts)
	var idx []int
	for _, c := range corners {
		for i, p := range pts {
			if abs64(p.X-c.X) < cornerMatchTolerance && abs64(p.Y-c.Y) < cornerMatchTolerance {
				idx = append(idx, i)
				break
			}
		}
	}
	if len(idx) == 0 {
		return f.uniformBreaks(n)
	}

	seen := map[int]bool{0: true, n - 1: true}
	breaks := []int{0}
	for _, i := range sortedUnique(idx) {
		if !seen[i] {
			breaks = append(breaks, i)
			seen[i] = true
		}
	}
	return append(breaks, n-1)
}

// uniformBreaks splits n points into runs of roughly MinPointsPerSegment.
func (f Fitter) uniformBreaks(n int) []int {
	per := f.MinPointsPerSegment
	if per < 2 {
		per = 2
	}
	if n <= per*2 {
		return []int{0, n - 1}
	}
	size := max(per, n/max(1, n/per))
	var breaks []int
	for i := 0; i < n; i += size {
		breaks = append(breaks, i)
	}
	if breaks[len(breaks)-1] != n-1 {
		breaks = append(breaks, n-1)
	}
	return breaks
}

// fitRun fits one segment with fixed endpoints.
func (f Fitter) fitRun(run []geometry.Point) Segment {
	degree := f.Degree
	if degree < 1 {
		degree = 1
	}
	start, end := run[0], run[len(run)-1]
	if degree == 1 || len(run) == 2 {
		return Segment{Points: []geometry.Point{start, end}}
	}
	if len(run) <= 3 || len(run) <= degree {
		return directQuadratic(run)
	}

	ctrl, err := leastSquaresInterior(run, degree)
	if err != nil {
		return directQuadratic([]geometry.Point{start, run[len(run)/2], end})
	}
	points := make([]geometry.Point, 0, degree+1)
	points = append(points, start)
	points = append(points, ctrl...)
	points = append(points, end)
	return Segment{Points: points}
}

// leastSquaresInterior solves for the interior control points of a Bézier
// of the given degree whose endpoints are the first and last run points.
// Parameters are spaced uniformly along the run.
func leastSquaresInterior(run []geometry.Point, degree int) ([]geometry.Point, error) {
	m := len(run)
	k := degree - 1
	start, end := run[0], run[m-1]

	A := mat.NewDense(m, k, nil)
	B := mat.NewDense(m, 2, nil)
	for i, p := range run {
		t := float64(i) / float64(m-1)
		for j := 0; j < k; j++ {
			A.Set(i, j, Bernstein(j+1, degree, t))
		}
		b0 := Bernstein(0, degree, t)
		bn := Bernstein(degree, degree, t)
		B.Set(i, 0, p.X-b0*start.X-bn*end.X)
		B.Set(i, 1, p.Y-b0*start.Y-bn*end.Y)
	}

	var qr mat.QR
	qr.Factorize(A)

	var X mat.Dense
	if err := qr.SolveTo(&X, false, B); err != nil {
		return nil, fmt.Errorf("failed to solve control points: %w", err)
	}

	ctrl := make([]geometry.Point, k)
	for j := 0; j < k; j++ {
		ctrl[j] = geometry.Point{X: X.At(j, 0), Y: X.At(j, 1)}
	}
	return ctrl, nil
}

// directQuadratic returns the quadratic through the first, middle and last
// point of a short run, passing through the middle point at t = 0.5.
func directQuadratic(run []geometry.Point) Segment {
	start, end := run[0], run[len(run)-1]
	if len(run) < 3 {
		return Segment{Points: []geometry.Point{start, end}}
	}
	mid := run[len(run)/2]
	ctrl := mid.Scale(2).Sub(start.Add(end).Scale(0.5))
	return Segment{Points: []geometry.Point{start, ctrl, end}}
}

// unitFrame maps the bounding box of pts onto the unit square. Degenerate
// extents use a unit span.
func unitFrame(pts []geometry.Point) geometry.AffineTransform {
	box := geometry.BoundingBox(pts)
	w, h := box.Width, box.Height
	if w == 0 {
		w = 1
	}
	if h == 0 {
		h = 1
	}
	return geometry.Scale(1/w, 1/h).Compose(geometry.Translation(-box.X, -box.Y))
}

func sortedUnique(v []int) []int {
	seen := make(map[int]bool, len(v))
	var out []int
	for _, x := range v {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	sort.Ints(out)
	return out
}
