package mesh

import (
	"errors"
	"math"
	"testing"

	"sketchgetdp/pkg/geometry"

	"github.com/google/go-cmp/cmp"
)

// squareOutline walks a square with unit steps, starting at (x, y).
func squareOutline(x, y float64, size int) []geometry.Point {
	var out []geometry.Point
	s := float64(size)
	for i := 0; i < size; i++ {
		out = append(out, geometry.Pt(x+float64(i), y))
	}
	for i := 0; i < size; i++ {
		out = append(out, geometry.Pt(x+s, y+float64(i)))
	}
	for i := size; i > 0; i-- {
		out = append(out, geometry.Pt(x+float64(i), y+s))
	}
	for i := size; i > 0; i-- {
		out = append(out, geometry.Pt(x, y+float64(i)))
	}
	return out
}

func circleOutline(cx, cy, r float64, n int) []geometry.Point {
	return geometry.GenerateCirclePoints(geometry.Pt(cx, cy), r, n)
}

func TestCornerDetector_Square(t *testing.T) {
	corners, err := DefaultCornerDetector().Detect(squareOutline(0, 0, 40))
	if err != nil {
		t.Fatal(err)
	}
	want := []geometry.Point{geometry.Pt(40, 0), geometry.Pt(40, 40), geometry.Pt(0, 40)}
	if diff := cmp.Diff(want, corners); diff != "" {
		t.Errorf("corners (-want +got):\n%s", diff)
	}
}

func TestCornerDetector_SmoothCircleHasNone(t *testing.T) {
	corners, err := DefaultCornerDetector().Detect(circleOutline(0, 0, 50, 200))
	if err != nil {
		t.Fatal(err)
	}
	if len(corners) != 0 {
		t.Errorf("circle corners = %v", corners)
	}
}

func TestCornerDetector_Errors(t *testing.T) {
	if _, err := DefaultCornerDetector().Detect([]geometry.Point{geometry.Pt(0, 0)}); !errors.Is(err, ErrTooFewPoints) {
		t.Errorf("err = %v", err)
	}
	short, err := DefaultCornerDetector().Detect(squareOutline(0, 0, 2))
	if err != nil || short != nil {
		t.Errorf("short boundary = %v, %v", short, err)
	}
}

func TestFitter_ContinuityAndClosure(t *testing.T) {
	pts := squareOutline(10, 10, 40)
	corners := []geometry.Point{geometry.Pt(50, 10), geometry.Pt(50, 50), geometry.Pt(10, 50)}
	curve, err := DefaultFitter().Fit(pts, corners, Blue, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(curve.Segments) != 4 {
		t.Fatalf("segments = %d, want 4", len(curve.Segments))
	}
	for i := 1; i < len(curve.Segments); i++ {
		if curve.Segments[i-1].End() != curve.Segments[i].Start() {
			t.Errorf("gap between segment %d and %d", i-1, i)
		}
	}
	if curve.Segments[3].End() != curve.Segments[0].Start() {
		t.Error("closed curve does not end at its start")
	}
	// Straight sides fit to control points on the side.
	mid := curve.Segments[0].Points[1]
	if math.Abs(mid.Y-10) > 1e-6 {
		t.Errorf("first side control point = %v, want y=10", mid)
	}
}

func TestFitter_CircleStaysOnCircle(t *testing.T) {
	pts := circleOutline(0, 0, 20, 60)
	curve, err := DefaultFitter().Fit(pts, nil, Green, true)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range curve.Sample(8) {
		if r := p.DistanceToOrigin(); math.Abs(r-20) > 0.5 {
			t.Fatalf("sample %v at radius %v", p, r)
		}
	}
}

func TestFitter_TooFewPoints(t *testing.T) {
	if _, err := DefaultFitter().Fit([]geometry.Point{geometry.Pt(0, 0), geometry.Pt(1, 1)}, nil, Red, false); !errors.Is(err, ErrTooFewPoints) {
		t.Errorf("err = %v", err)
	}
}

func groupNames(groups []PhysicalGroup) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g.Name)
	}
	return out
}

func TestGrouper_HolesAndRoles(t *testing.T) {
	g := NewGrouper(nil, 5, nil)
	boundaries := []RawBoundary{
		{Points: circleOutline(50, 50, 10, 80), Color: Blue, Closed: true},
		{Points: squareOutline(0, 0, 100), Color: Green, Closed: true},
		{Points: circleOutline(20, 20, 3, 40), Color: Red, Closed: true},
	}
	markers := []Marker{{Center: geometry.Pt(80, 80), Radius: 4, Color: Red}}

	got, err := g.Group(boundaries, markers)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Curves) != 2 {
		t.Fatalf("curves = %d, want 2", len(got.Curves))
	}
	iron, air := got.Curves[0], got.Curves[1]
	if diff := cmp.Diff([]string{"domain_Vi_iron"}, groupNames(iron.Groups)); diff != "" {
		t.Errorf("iron groups (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"domain_Vi_air", "boundary_out"}, groupNames(air.Groups)); diff != "" {
		t.Errorf("air groups (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0}, air.Holes); diff != "" {
		t.Errorf("air holes (-want +got):\n%s", diff)
	}
	if len(iron.Holes) != 0 {
		t.Errorf("iron holes = %v", iron.Holes)
	}

	if len(got.Electrodes) != 2 {
		t.Fatalf("electrodes = %d, want 2", len(got.Electrodes))
	}
	c := got.Electrodes[1].Point
	if math.Abs(c.X-20) > 1e-6 || math.Abs(c.Y-20) > 1e-6 {
		t.Errorf("red boundary electrode at %v", c)
	}
}

func TestGrouper_VaInsideViGetsGamma(t *testing.T) {
	roles := map[string]Role{"blue": RoleViIron, "green": RoleVa}
	g := NewGrouper(roles, 5, nil)
	got, err := g.Group([]RawBoundary{
		{Points: squareOutline(0, 0, 100), Color: Blue, Closed: true},
		{Points: circleOutline(50, 50, 15, 90), Color: Green, Closed: true},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"boundary_gamma", "domain_Va"}, groupNames(got.Curves[1].Groups)); diff != "" {
		t.Errorf("va groups (-want +got):\n%s", diff)
	}
}

func TestGrouper_UnknownColor(t *testing.T) {
	g := NewGrouper(map[string]Role{"blue": RoleViIron}, 5, nil)
	_, err := g.Group([]RawBoundary{{Points: squareOutline(0, 0, 30), Color: Green, Closed: true}}, nil)
	if !errors.Is(err, ErrInvalidGroup) {
		t.Errorf("err = %v", err)
	}
}

func TestGrouper_ShadedRedIsElectrode(t *testing.T) {
	dark, err := NewColor("red", [3]int{200, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	roles := map[string]Role{"blue": RoleViIron, "red": RoleVa}
	got, err := NewGrouper(roles, 5, nil).Group([]RawBoundary{
		{Points: squareOutline(0, 0, 100), Color: Blue, Closed: true},
		{Points: circleOutline(30, 40, 3, 40), Color: dark, Closed: true},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Curves) != 1 || len(got.Electrodes) != 1 {
		t.Fatalf("curves = %d, electrodes = %d; want 1, 1", len(got.Curves), len(got.Electrodes))
	}
	if e := got.Electrodes[0]; e.Color != dark || e.Point.Distance(geometry.Pt(30, 40)) > 1e-6 {
		t.Errorf("electrode = %+v", e)
	}
}

func TestContainmentHierarchy_DirectParentOnly(t *testing.T) {
	g := NewGrouper(nil, 5, nil)
	got, err := g.Group([]RawBoundary{
		{Points: circleOutline(50, 50, 5, 40), Color: Blue, Closed: true},
		{Points: squareOutline(0, 0, 100), Color: Green, Closed: true},
		{Points: circleOutline(50, 50, 20, 90), Color: Green, Closed: true},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	holes, parent := ContainmentHierarchy(got.Curves)
	if diff := cmp.Diff([][]int{nil, {2}, {0}}, holes); diff != "" {
		t.Errorf("holes (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{2, -1, 1}, parent); diff != "" {
		t.Errorf("parent (-want +got):\n%s", diff)
	}
}

func TestAssignCoils(t *testing.T) {
	electrodes := []PointElectrode{
		{Point: geometry.Pt(5, 0), Color: Red},
		{Point: geometry.Pt(1, 10), Color: Red},
		{Point: geometry.Pt(0, 0), Color: Red},
	}
	got, err := AssignCoils(electrodes, map[string]int{"coil_1": 1, "coil_2": -1, "coil_3": 1})
	if err != nil {
		t.Fatal(err)
	}
	wantOrder := []geometry.Point{geometry.Pt(1, 10), geometry.Pt(0, 0), geometry.Pt(5, 0)}
	for i, e := range got {
		if e.Point != wantOrder[i] || e.Name != CoilName(i) {
			t.Errorf("electrode %d = %+v", i, e)
		}
	}
	if got[1].Group.Name != DomainCoilNegative.Name || got[0].Group.Tag != 101 {
		t.Errorf("groups = %s, %s", got[0].Group.Name, got[1].Group.Name)
	}

	if _, err := AssignCoils(electrodes, map[string]int{"coil_1": 1}); !errors.Is(err, ErrInvalidGroup) {
		t.Errorf("missing sign err = %v", err)
	}
	if _, err := AssignCoils(electrodes[:1], map[string]int{"coil_1": 0}); !errors.Is(err, ErrInvalidGroup) {
		t.Errorf("zero sign err = %v", err)
	}
}
