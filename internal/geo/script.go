// Package geo writes grouped boundary curves as a gmsh .geo script.
package geo

import (
	"errors"
	"fmt"
	"log/slog"

	"sketchgetdp/internal/logging"
	"sketchgetdp/internal/mesh"
	"sketchgetdp/pkg/geometry"
)

// ErrEmptyGeometry is returned when there is nothing to write.
var ErrEmptyGeometry = errors.New("geo: no curves or electrodes")

// DefaultMeshSize is the default Mesh.CharacteristicLengthFactor.
const DefaultMeshSize = 0.1

// Point is a geometry point entity.
type Point struct {
	Tag  int
	P    geometry.Point
	Size float64 // 0 omits the characteristic length
}

// Curve is a Line (two points) or a Bezier (three or more points).
type Curve struct {
	Tag    int
	Points []int
}

// Kind returns the gmsh entity keyword.
func (c Curve) Kind() string {
	if len(c.Points) == 2 {
		return "Line"
	}
	return "Bezier"
}

// Loop is a closed chain of curves.
type Loop struct {
	Tag    int
	Curves []int
}

// Surface is a plane surface bounded by its first loop, with the remaining
// loops as holes.
type Surface struct {
	Tag   int
	Loops []int
}

// Physical is a named physical group of entities of one dimension.
type Physical struct {
	Dim      int
	Name     string
	Tag      int
	Entities []int
}

// Embed places a point inside a surface.
type Embed struct {
	Point   int
	Surface int
}

// Script is a complete .geo description.
type Script struct {
	Points    []Point
	Curves    []Curve
	Loops     []Loop
	Surfaces  []Surface
	Embeds    []Embed
	Physicals []Physical
	MeshSize  float64
}

// Builder converts a mesh.Grouping into a Script.
type Builder struct {
	MeshSize  float64
	PointSize float64 // characteristic length of electrode points

	log *slog.Logger
}

// NewBuilder creates a Builder. A non-positive meshSize uses DefaultMeshSize.
func NewBuilder(meshSize float64, logger *slog.Logger) *Builder {
	if meshSize <= 0 {
		meshSize = DefaultMeshSize
	}
	return &Builder{MeshSize: meshSize, PointSize: meshSize, log: logging.OrDiscard(logger)}
}

type state struct {
	script   *Script
	pointTag map[geometry.Point]int
	curves   [][]int // curve tags per grouped curve
	loops    []int   // loop tag per grouped curve, 0 if open
	surfaces []int   // surface tag per grouped curve, 0 if none
	physical map[int]int
}

// Build lays out entities for every curve, holes before the surfaces that
// contain them, followed by electrodes and physical groups.
func (b *Builder) Build(g *mesh.Grouping) (*Script, error) {
	if g == nil || (len(g.Curves) == 0 && len(g.Electrodes) == 0) {
		return nil, ErrEmptyGeometry
	}
	n := len(g.Curves)
	s := &state{
		script:   &Script{MeshSize: b.MeshSize},
		pointTag: make(map[geometry.Point]int),
		curves:   make([][]int, n),
		loops:    make([]int, n),
		surfaces: make([]int, n),
		physical: make(map[int]int),
	}

	order := b.processingOrder(g.Curves)
	for _, i := range order {
		if err := b.addCurve(s, g.Curves, i); err != nil {
			return nil, err
		}
	}
	for _, i := range order {
		for _, pg := range g.Curves[i].Groups {
			switch {
			case pg.IsBoundary():
				s.addPhysical(1, pg, s.curves[i]...)
			case pg.IsDomain() && s.surfaces[i] != 0:
				s.addPhysical(2, pg, s.surfaces[i])
			}
		}
	}

	for _, e := range g.Electrodes {
		existing := len(s.script.Points)
		tag := s.point(e.Point)
		s.script.Points[tag-1].Size = b.PointSize
		if tag > existing {
			if surf := innermostSurface(s, g.Curves, e.Point); surf != 0 {
				s.script.Embeds = append(s.script.Embeds, Embed{Point: tag, Surface: surf})
			}
		}
		if e.Group.Name != "" {
			s.addPhysical(0, e.Group, tag)
		}
	}

	b.log.Debug("built geo script",
		"points", len(s.script.Points),
		"curves", len(s.script.Curves),
		"surfaces", len(s.script.Surfaces),
		"physicals", len(s.script.Physicals))
	return s.script, nil
}

// processingOrder returns curve indices with every hole before its
// container (Kahn's algorithm). A cycle falls back to input order.
func (b *Builder) processingOrder(curves []mesh.GroupedCurve) []int {
	n := len(curves)
	containers := make([][]int, n)
	inDegree := make([]int, n)
	for i, c := range curves {
		for _, h := range c.Holes {
			if h >= 0 && h < n {
				containers[h] = append(containers[h], i)
				inDegree[i]++
			}
		}
	}

	var queue, order []int
	for i := 0; i < n; i++ {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		order = append(order, cur)
		for _, next := range containers[cur] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	if len(order) != n {
		b.log.Warn("hole graph has a cycle, using input order")
		order = order[:0]
		for i := 0; i < n; i++ {
			order = append(order, i)
		}
	}
	return order
}

func (b *Builder) addCurve(s *state, curves []mesh.GroupedCurve, i int) error {
	c := curves[i]
	for _, seg := range c.Curve.Segments {
		tags := make([]int, len(seg.Points))
		for j, p := range seg.Points {
			tags[j] = s.point(p)
		}
		tag := len(s.script.Curves) + 1
		s.script.Curves = append(s.script.Curves, Curve{Tag: tag, Points: tags})
		s.curves[i] = append(s.curves[i], tag)
	}
	if !c.Curve.Closed {
		return nil
	}

	loop := len(s.script.Loops) + 1
	s.script.Loops = append(s.script.Loops, Loop{Tag: loop, Curves: s.curves[i]})
	s.loops[i] = loop

	loops := []int{loop}
	for _, h := range c.Holes {
		if s.loops[h] == 0 {
			if !curves[h].Curve.Closed {
				continue
			}
			return fmt.Errorf("geo: hole %d of curve %d has not been laid out", h, i)
		}
		loops = append(loops, s.loops[h])
	}
	surf := len(s.script.Surfaces) + 1
	s.script.Surfaces = append(s.script.Surfaces, Surface{Tag: surf, Loops: loops})
	s.surfaces[i] = surf
	return nil
}

func (s *state) point(p geometry.Point) int {
	if tag, ok := s.pointTag[p]; ok {
		return tag
	}
	tag := len(s.script.Points) + 1
	s.script.Points = append(s.script.Points, Point{Tag: tag, P: p})
	s.pointTag[p] = tag
	return tag
}

// addPhysical appends entities to the group with pg's tag, creating it on
// first use.
func (s *state) addPhysical(dim int, pg mesh.PhysicalGroup, entities ...int) {
	key := dim*100000 + pg.Tag
	if idx, ok := s.physical[key]; ok {
		s.script.Physicals[idx].Entities = append(s.script.Physicals[idx].Entities, entities...)
		return
	}
	s.physical[key] = len(s.script.Physicals)
	s.script.Physicals = append(s.script.Physicals, Physical{
		Dim:      dim,
		Name:     pg.Name,
		Tag:      pg.Tag,
		Entities: append([]int(nil), entities...),
	})
}

// innermostSurface returns the surface of the smallest closed curve around
// p, or 0.
func innermostSurface(s *state, curves []mesh.GroupedCurve, p geometry.Point) int {
	best, bestArea := 0, 0.0
	for i, c := range curves {
		if s.surfaces[i] == 0 {
			continue
		}
		if !geometry.PointInPolygon(p, c.Curve.Sample(16)) {
			continue
		}
		if a := c.Curve.Area(); best == 0 || a < bestArea {
			best, bestArea = s.surfaces[i], a
		}
	}
	return best
}
