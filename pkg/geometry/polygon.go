package geometry

import "math"

// SignedArea returns the shoelace area of the polygon. The sign is positive
// for counter-clockwise vertex order in a y-up frame. Polygons with fewer than
// three points have zero area.
func SignedArea(polygon []Point) float64 {
	n := len(polygon)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += polygon[i].X*polygon[j].Y - polygon[j].X*polygon[i].Y
	}
	return sum / 2
}

// Area returns the absolute shoelace area of the polygon.
func Area(polygon []Point) float64 {
	return math.Abs(SignedArea(polygon))
}

// PointInPolygon tests if a point is inside a polygon using ray casting.
func PointInPolygon(p Point, polygon []Point) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

// PolygonInPolygon reports whether every vertex of inner lies inside outer.
func PolygonInPolygon(inner, outer []Point) bool {
	if len(inner) == 0 || len(outer) < 3 {
		return false
	}
	if !BoundingBox(outer).ContainsRect(BoundingBox(inner)) {
		return false
	}
	for _, p := range inner {
		if !PointInPolygon(p, outer) {
			return false
		}
	}
	return true
}

// crossProduct computes the cross product of vectors OA and OB.
func crossProduct(o, a, b Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}
