package geo

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"sketchgetdp/pkg/geometry"
)

var physicalKind = map[int]string{0: "Point", 1: "Curve", 2: "Surface"}

// WriteTo writes the script in gmsh .geo syntax.
func (s *Script) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	b.WriteString("// Generated by svg2gmsh\n")
	b.WriteString("SetFactory(\"Built-in\");\n\n")

	for _, p := range s.Points {
		if p.Size > 0 {
			fmt.Fprintf(&b, "Point(%d) = {%s, %s, 0, %s};\n", p.Tag, geometry.FormatCoord(p.P.X), geometry.FormatCoord(p.P.Y), geometry.FormatCoord(p.Size))
		} else {
			fmt.Fprintf(&b, "Point(%d) = {%s, %s, 0};\n", p.Tag, geometry.FormatCoord(p.P.X), geometry.FormatCoord(p.P.Y))
		}
	}
	if len(s.Curves) > 0 {
		b.WriteByte('\n')
	}
	for _, c := range s.Curves {
		fmt.Fprintf(&b, "%s(%d) = {%s};\n", c.Kind(), c.Tag, joinInts(c.Points))
	}
	if len(s.Loops) > 0 {
		b.WriteByte('\n')
	}
	for _, l := range s.Loops {
		fmt.Fprintf(&b, "Curve Loop(%d) = {%s};\n", l.Tag, joinInts(l.Curves))
	}
	for _, sf := range s.Surfaces {
		fmt.Fprintf(&b, "Plane Surface(%d) = {%s};\n", sf.Tag, joinInts(sf.Loops))
	}
	for _, e := range s.Embeds {
		fmt.Fprintf(&b, "Point{%d} In Surface{%d};\n", e.Point, e.Surface)
	}
	if len(s.Physicals) > 0 {
		b.WriteByte('\n')
	}
	for _, p := range s.Physicals {
		fmt.Fprintf(&b, "Physical %s(\"%s\", %d) = {%s};\n", physicalKind[p.Dim], p.Name, p.Tag, joinInts(p.Entities))
	}
	fmt.Fprintf(&b, "\nMesh.CharacteristicLengthFactor = %s;\n", geometry.FormatCoord(s.MeshSize))

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// WriteFile writes the script to path.
func (s *Script) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create geo file: %w", err)
	}
	if _, err := s.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write geo file: %w", err)
	}
	return f.Close()
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ", ")
}
