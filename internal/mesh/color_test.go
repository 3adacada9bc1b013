package mesh

import (
	"errors"
	"testing"
)

func TestNewColor(t *testing.T) {
	c, err := NewColor("red", [3]int{255, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	if c.Hex() != "#ff0000" {
		t.Errorf("Hex = %q", c.Hex())
	}
	if c != Red {
		t.Error("validated red should equal the predefined instance")
	}
	if n := Blue.Normalized(); n != [3]float64{0, 0, 1} {
		t.Errorf("Normalized = %v", n)
	}

	bad := []struct {
		name string
		rgb  [3]int
	}{
		{"RED", [3]int{255, 0, 0}},
		{"black", [3]int{0, 0, 0}},
		{"", [3]int{0, 0, 0}},
		{"green", [3]int{0, 256, 0}},
		{"blue", [3]int{0, 0, -1}},
	}
	for _, b := range bad {
		if _, err := NewColor(b.name, b.rgb); !errors.Is(err, ErrInvalidColor) {
			t.Errorf("NewColor(%q, %v) err = %v", b.name, b.rgb, err)
		}
	}
}

func TestColorByName(t *testing.T) {
	if c, err := ColorByName("green"); err != nil || c != Green {
		t.Errorf("ColorByName(green) = %v, %v", c, err)
	}
	if _, err := ColorByName("Green"); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("ColorByName is case-insensitive: %v", err)
	}
}

func TestPhysicalGroupValidation(t *testing.T) {
	for _, g := range []PhysicalGroup{DomainVa, DomainViIron, DomainViAir, DomainCoilPositive, DomainCoilNegative, BoundaryGamma, BoundaryOut} {
		if err := g.Validate(); err != nil {
			t.Errorf("%s: %v", g.Name, err)
		}
	}
	if !DomainCoilNegative.IsCoil() || DomainViAir.IsCoil() || !BoundaryOut.IsBoundary() {
		t.Error("group predicates wrong")
	}

	cases := []struct {
		name  string
		color Color
		sign  int
	}{
		{"domain_coil_x", Red, 0},
		{"domain_coil_x", Blue, 1},
		{"domain_iron", Blue, 1},
		{"domain_coil_x", Red, 2},
	}
	for _, c := range cases {
		if _, err := NewPhysicalGroup(c.name, "", KindDomain, 1, c.color, c.sign); !errors.Is(err, ErrInvalidGroup) {
			t.Errorf("NewPhysicalGroup(%q, %v, %d) err = %v", c.name, c.color, c.sign, err)
		}
	}
}

func TestColorIs(t *testing.T) {
	dark, err := NewColor("red", [3]int{180, 10, 10})
	if err != nil {
		t.Fatal(err)
	}
	if !dark.Is(Red) || dark == Red || dark.Is(Green) {
		t.Errorf("Is compares by name: %v", dark)
	}
	if _, err := NewPhysicalGroup("domain_coil_x", "", KindDomain, 1, dark, 1); err != nil {
		t.Errorf("shaded red coil rejected: %v", err)
	}
}
