package mesh

import (
	"fmt"
	"log/slog"
	"sort"

	"sketchgetdp/internal/contour"
	"sketchgetdp/internal/logging"
	"sketchgetdp/pkg/geometry"
)

// RawBoundary is an ordered point sequence read from a sketch.
type RawBoundary struct {
	Points []geometry.Point
	Color  Color
	Closed bool
}

// Marker is a small colored dot read from a sketch.
type Marker struct {
	Center geometry.Point
	Radius float64
	Color  Color
}

// GroupedCurve is a fitted boundary with its holes and physical groups.
type GroupedCurve struct {
	Curve  BoundaryCurve
	Role   Role
	Holes  []int // indices of directly contained curves
	Groups []PhysicalGroup
}

// Grouping is the result of Grouper.Group.
type Grouping struct {
	Curves     []GroupedCurve
	Electrodes []PointElectrode
}

// Grouper turns colored raw boundaries into grouped boundary curves and
// point electrodes.
type Grouper struct {
	Roles            map[string]Role
	ClosureTolerance float64
	Corners          CornerDetector
	Fitter           Fitter

	log     *slog.Logger
	closure contour.Service
}

// NewGrouper creates a Grouper with default corner detection and fitting.
// Nil roles fall back to DefaultRoles.
func NewGrouper(roles map[string]Role, closureTolerance float64, logger *slog.Logger) *Grouper {
	if roles == nil {
		roles = DefaultRoles()
	}
	return &Grouper{
		Roles:            roles,
		ClosureTolerance: closureTolerance,
		Corners:          DefaultCornerDetector(),
		Fitter:           DefaultFitter(),
		log:              logging.OrDiscard(logger),
	}
}

// Group fits every boundary whose color has a role and assigns physical
// groups from containment. Red boundaries and all markers become point
// electrodes at their center.
func (g *Grouper) Group(boundaries []RawBoundary, markers []Marker) (*Grouping, error) {
	result := &Grouping{}

	for _, m := range markers {
		result.Electrodes = append(result.Electrodes, PointElectrode{Point: m.Center, Color: m.Color})
	}

	for i, b := range boundaries {
		if b.Color.Is(Red) {
			if c, ok := geometry.Centroid(b.Points); ok {
				result.Electrodes = append(result.Electrodes, PointElectrode{Point: c, Color: b.Color})
			}
			continue
		}
		role, ok := g.Roles[b.Color.Name()]
		if !ok {
			return nil, fmt.Errorf("%w: no role for color %q (boundary %d)", ErrInvalidGroup, b.Color.Name(), i)
		}

		curve, err := g.fit(b)
		if err != nil {
			return nil, fmt.Errorf("failed to fit boundary %d: %w", i, err)
		}
		result.Curves = append(result.Curves, GroupedCurve{Curve: curve, Role: role})
	}

	if err := g.assignGroups(result.Curves); err != nil {
		return nil, err
	}
	g.log.Debug("grouped boundaries", "curves", len(result.Curves), "electrodes", len(result.Electrodes))
	return result, nil
}

func (g *Grouper) fit(b RawBoundary) (BoundaryCurve, error) {
	pts := b.Points
	if b.Closed {
		pts = g.closure.EnsureClosure(pts, g.ClosureTolerance)
	}
	corners, err := g.Corners.Detect(pts)
	if err != nil {
		return BoundaryCurve{}, err
	}
	return g.Fitter.Fit(pts, corners, b.Color, b.Closed)
}

// assignGroups fills Holes and Groups for every curve.
func (g *Grouper) assignGroups(curves []GroupedCurve) error {
	if len(curves) == 0 {
		return nil
	}
	holes, parent := ContainmentHierarchy(curves)

	outermost, bestArea := -1, -1.0
	for i := range curves {
		if parent[i] >= 0 {
			continue
		}
		if a := curves[i].Curve.Area(); a > bestArea {
			outermost, bestArea = i, a
		}
	}

	for i := range curves {
		c := &curves[i]
		c.Holes = holes[i]

		domain, err := c.Role.Domain()
		if err != nil {
			return err
		}
		if c.Role == RoleVa && g.insideVi(curves, i) {
			c.Groups = append(c.Groups, BoundaryGamma)
		}
		c.Groups = append(c.Groups, domain)
		if i == outermost {
			c.Groups = append(c.Groups, BoundaryOut)
		}
	}
	return nil
}

func (g *Grouper) insideVi(curves []GroupedCurve, i int) bool {
	for j := range curves {
		if i != j && curves[j].Role.IsVi() && curves[j].Curve.Contains(curves[i].Curve) {
			return true
		}
	}
	return false
}

// ContainmentHierarchy returns, for every curve, the indices of the curves
// it directly contains, and the index of its direct parent (-1 if none).
// Candidates are checked from the largest enclosed area down.
func ContainmentHierarchy(curves []GroupedCurve) (holes [][]int, parent []int) {
	n := len(curves)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return curves[order[a]].Curve.Area() > curves[order[b]].Curve.Area()
	})

	holes = make([][]int, n)
	parent = make([]int, n)
	for i := range parent {
		parent[i] = -1
	}

	// The smallest container of each curve is its direct parent.
	for a := 0; a < n; a++ {
		inner := order[a]
		for b := a - 1; b >= 0; b-- {
			outer := order[b]
			if curves[outer].Curve.Contains(curves[inner].Curve) {
				parent[inner] = outer
				break
			}
		}
	}
	for a := 0; a < n; a++ {
		inner := order[a]
		if p := parent[inner]; p >= 0 {
			holes[p] = append(holes[p], inner)
		}
	}
	return holes, parent
}
