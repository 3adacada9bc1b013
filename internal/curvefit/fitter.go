// Package curvefit turns dense raster contours into compact SVG paths,
// keeping sharp corners as line joins and rendering gentle turns as
// quadratic curves.
package curvefit

import (
	"log/slog"
	"math"
	"strings"

	"sketchgetdp/internal/cvgeom"
	"sketchgetdp/internal/logging"
	"sketchgetdp/pkg/geometry"
)

// Fitter simplifies contours and emits SVG path data.
type Fitter struct {
	opts Options
	log  *slog.Logger
}

// New creates a Fitter. A nil logger discards output.
func New(opts Options, logger *slog.Logger) *Fitter {
	return &Fitter{opts: opts, log: logging.OrDiscard(logger)}
}

// Options returns the fitter configuration.
func (f *Fitter) Options() Options { return f.opts }

// Simplify reduces the closed contour with approxPolyDP at a tolerance of
// epsilonFactor times its perimeter. It returns nil for fewer than 3 input
// points or when fewer than 3 points survive.
func (f *Fitter) Simplify(points []geometry.Point, epsilonFactor float64) []geometry.Point {
	if len(points) < 3 {
		return nil
	}
	epsilon := epsilonFactor * cvgeom.Perimeter(points)
	simplified := cvgeom.ApproxPolyDP(points, epsilon, true)
	if len(simplified) < 3 {
		return nil
	}
	return simplified
}

// EnsureClosure appends the start point when the endpoints are farther apart
// than the closure threshold. The returned flag is true once the path closes.
func (f *Fitter) EnsureClosure(points []geometry.Point) ([]geometry.Point, bool) {
	out := append([]geometry.Point(nil), points...)
	if len(out) == 0 {
		return out, false
	}
	gap := out[0].Distance(out[len(out)-1])
	if gap > f.opts.ClosureThreshold {
		f.log.Debug("forcing closure on simplified contour", "gap", gap)
		out = append(out, out[0])
	}
	return out, true
}

// SegmentAngle returns the interior angle at curr in degrees (0-180). It
// reports false when either neighbor coincides with curr.
func SegmentAngle(prev, curr, next geometry.Point) (float64, bool) {
	toPrev := prev.Sub(curr)
	toNext := next.Sub(curr)
	pm, nm := toPrev.Norm(), toNext.Norm()
	if pm == 0 || nm == 0 {
		return 0, false
	}
	cos := toPrev.Dot(toNext) / (pm * nm)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi, true
}

// ShouldUseCurveFitting reports whether the vertex at index has two real
// neighbors. Closed paths wrap around; the ends of open paths do not.
func ShouldUseCurveFitting(index, total int, closed bool) bool {
	return index < total-1 || (closed && total > 3)
}

// isCurve classifies an interior angle. The deflection from a straight run
// must lie within [AngleThreshold, MinCurveAngle].
func (f *Fitter) isCurve(interior float64) bool {
	deflection := 180 - interior
	return deflection >= f.opts.AngleThreshold && deflection <= f.opts.MinCurveAngle
}

// FitCurve simplifies the contour, closes it and emits SVG path data. It
// returns false when the contour has fewer than 3 points before or after
// simplification.
func (f *Fitter) FitCurve(points []geometry.Point, epsilonFactor float64) (string, bool) {
	if len(points) < 3 {
		return "", false
	}
	simplified := f.Simplify(points, epsilonFactor)
	if simplified == nil {
		return "", false
	}
	closedPoints, closed := f.EnsureClosure(simplified)
	return f.GenerateSVGPath(closedPoints, closed), true
}

// GenerateSVGPath emits "M x,y" followed by one L or Q command per vertex and
// a trailing Z for closed paths. A Q command uses the vertex as control point
// and the following vertex as end point. A closed path always returns to its
// first point; its last vertex is only dropped when it repeats the first.
func (f *Fitter) GenerateSVGPath(points []geometry.Point, closed bool) string {
	if len(points) == 0 {
		return ""
	}
	if closed && len(points) > 1 && points[len(points)-1] != points[0] {
		points = append(append([]geometry.Point(nil), points...), points[0])
	}

	var b strings.Builder
	b.WriteString("M ")
	b.WriteString(points[0].String())

	n := len(points)
	for i := 1; i < n; {
		curr := points[i]

		if i == n-1 && closed {
			b.WriteString(" L ")
			b.WriteString(points[0].String())
			break
		}

		if ShouldUseCurveFitting(i, n, closed) {
			next := points[(i+1)%n]
			if angle, ok := SegmentAngle(points[i-1], curr, next); ok && f.isCurve(angle) {
				b.WriteString(" Q ")
				b.WriteString(curr.String())
				b.WriteByte(' ')
				b.WriteString(next.String())
				i += 2
				continue
			}
		}

		b.WriteString(" L ")
		b.WriteString(curr.String())
		i++
	}

	if closed {
		b.WriteString(" Z")
	}
	return b.String()
}
