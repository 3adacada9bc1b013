package geo

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sketchgetdp/internal/mesh"
	"sketchgetdp/pkg/geometry"

	"github.com/google/go-cmp/cmp"
)

func square(t *testing.T, x, y, size float64, color mesh.Color) mesh.BoundaryCurve {
	t.Helper()
	corners := []geometry.Point{
		geometry.Pt(x, y), geometry.Pt(x+size, y), geometry.Pt(x+size, y+size), geometry.Pt(x, y+size),
	}
	var segs []mesh.Segment
	for i := range corners {
		segs = append(segs, mesh.Segment{Points: []geometry.Point{corners[i], corners[(i+1)%4]}})
	}
	c, err := mesh.NewBoundaryCurve(segs, corners, color, true)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func sampleGrouping(t *testing.T) *mesh.Grouping {
	return &mesh.Grouping{
		Curves: []mesh.GroupedCurve{
			{
				Curve:  square(t, 0, 0, 10, mesh.Green),
				Role:   mesh.RoleViAir,
				Holes:  []int{1},
				Groups: []mesh.PhysicalGroup{mesh.DomainViAir, mesh.BoundaryOut},
			},
			{
				Curve:  square(t, 2, 2, 2, mesh.Blue),
				Role:   mesh.RoleViIron,
				Groups: []mesh.PhysicalGroup{mesh.DomainViIron},
			},
		},
		Electrodes: []mesh.PointElectrode{
			{Point: geometry.Pt(7, 7), Color: mesh.Red, Name: "coil_1", Group: mesh.DomainCoilPositive},
		},
	}
}

func TestBuild_HolesFirst(t *testing.T) {
	s, err := NewBuilder(0.2, nil).Build(sampleGrouping(t))
	if err != nil {
		t.Fatal(err)
	}
	// The hole is laid out first, so it owns loop and surface 1.
	want := []Surface{{Tag: 1, Loops: []int{1}}, {Tag: 2, Loops: []int{2, 1}}}
	if diff := cmp.Diff(want, s.Surfaces); diff != "" {
		t.Errorf("surfaces (-want +got):\n%s", diff)
	}
	if len(s.Points) != 9 {
		t.Errorf("points = %d, want 8 corners + 1 electrode", len(s.Points))
	}
	if diff := cmp.Diff([]Embed{{Point: 9, Surface: 2}}, s.Embeds); diff != "" {
		t.Errorf("embeds (-want +got):\n%s", diff)
	}

	wantPhys := []Physical{
		{Dim: 2, Name: "domain_Vi_iron", Tag: 2, Entities: []int{1}},
		{Dim: 2, Name: "domain_Vi_air", Tag: 3, Entities: []int{2}},
		{Dim: 1, Name: "boundary_out", Tag: 12, Entities: []int{5, 6, 7, 8}},
		{Dim: 0, Name: "domain_coil_positive", Tag: 101, Entities: []int{9}},
	}
	if diff := cmp.Diff(wantPhys, s.Physicals); diff != "" {
		t.Errorf("physicals (-want +got):\n%s", diff)
	}
}

func TestBuild_SharedPointsAreDeduplicated(t *testing.T) {
	g := &mesh.Grouping{Curves: []mesh.GroupedCurve{
		{Curve: square(t, 0, 0, 1, mesh.Blue), Groups: []mesh.PhysicalGroup{mesh.DomainViIron}},
		{Curve: square(t, 1, 0, 1, mesh.Blue), Groups: []mesh.PhysicalGroup{mesh.DomainViIron}},
	}}
	s, err := NewBuilder(0, nil).Build(g)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Points) != 6 {
		t.Errorf("points = %d, want 6", len(s.Points))
	}
	if s.MeshSize != DefaultMeshSize {
		t.Errorf("mesh size = %v", s.MeshSize)
	}
	if diff := cmp.Diff([]int{1, 2}, s.Physicals[0].Entities); diff != "" {
		t.Errorf("iron surfaces (-want +got):\n%s", diff)
	}
}

func TestBuild_ElectrodesShareCurvePoints(t *testing.T) {
	g := sampleGrouping(t)
	g.Electrodes = []mesh.PointElectrode{
		{Point: geometry.Pt(0, 0), Color: mesh.Red, Name: "coil_1", Group: mesh.DomainCoilPositive},
		{Point: geometry.Pt(7, 7), Color: mesh.Red, Name: "coil_2", Group: mesh.DomainCoilNegative},
		{Point: geometry.Pt(7, 7), Color: mesh.Red},
	}
	s, err := NewBuilder(0.2, nil).Build(g)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Points) != 9 {
		t.Fatalf("points = %d, want 8 corners + 1 electrode", len(s.Points))
	}
	// (0, 0) is the first corner of the outer square.
	if diff := cmp.Diff(Point{Tag: 5, P: geometry.Pt(0, 0), Size: 0.2}, s.Points[4]); diff != "" {
		t.Errorf("shared point (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Embed{{Point: 9, Surface: 2}}, s.Embeds); diff != "" {
		t.Errorf("embeds (-want +got):\n%s", diff)
	}
	wantPhys := []Physical{
		{Dim: 0, Name: "domain_coil_positive", Tag: 101, Entities: []int{5}},
		{Dim: 0, Name: "domain_coil_negative", Tag: 102, Entities: []int{9}},
	}
	if diff := cmp.Diff(wantPhys, s.Physicals[len(s.Physicals)-2:]); diff != "" {
		t.Errorf("electrode physicals (-want +got):\n%s", diff)
	}
}

func TestBuild_CycleFallsBackToInputOrder(t *testing.T) {
	g := sampleGrouping(t)
	g.Curves[1].Holes = []int{0}
	b := NewBuilder(0.1, nil)
	if got := b.processingOrder(g.Curves); !cmp.Equal(got, []int{0, 1}) {
		t.Errorf("order = %v", got)
	}
}

func TestBuild_Empty(t *testing.T) {
	if _, err := NewBuilder(0.1, nil).Build(&mesh.Grouping{}); !errors.Is(err, ErrEmptyGeometry) {
		t.Errorf("err = %v", err)
	}
}

func TestWriteTo(t *testing.T) {
	s, err := NewBuilder(0.2, nil).Build(sampleGrouping(t))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	n, err := s.WriteTo(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("n = %d, wrote %d", n, buf.Len())
	}
	out := buf.String()
	for _, line := range []string{
		"Point(1) = {2, 2, 0};",
		"Line(1) = {1, 2};",
		"Curve Loop(2) = {5, 6, 7, 8};",
		"Plane Surface(2) = {2, 1};",
		"Point(9) = {7, 7, 0, 0.2};",
		"Point{9} In Surface{2};",
		`Physical Surface("domain_Vi_air", 3) = {2};`,
		`Physical Curve("boundary_out", 12) = {5, 6, 7, 8};`,
		`Physical Point("domain_coil_positive", 101) = {9};`,
		"Mesh.CharacteristicLengthFactor = 0.2;",
	} {
		if !strings.Contains(out, line+"\n") {
			t.Errorf("output is missing %q:\n%s", line, out)
		}
	}
}

func TestWriteTo_Bezier(t *testing.T) {
	c := Curve{Tag: 3, Points: []int{1, 2, 3}}
	if c.Kind() != "Bezier" {
		t.Errorf("kind = %s", c.Kind())
	}
}

func TestWriteFile(t *testing.T) {
	s, err := NewBuilder(0.1, nil).Build(sampleGrouping(t))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "out.geo")
	if err := s.WriteFile(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "// Generated by svg2gmsh") {
		t.Errorf("unexpected header: %q", string(data[:30]))
	}
}
