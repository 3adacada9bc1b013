// Package svgparse reads colored boundary sketches from SVG files.
//
// Every path, rect, circle, ellipse, polygon and polyline with a stroke (or,
// failing that, a fill) becomes a raw boundary of the nearest of red, green
// and blue. Small red circles become point markers instead. Coordinates are
// mapped into the unit square of the viewBox and flipped so y points up.
package svgparse

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"sketchgetdp/internal/logging"
	"sketchgetdp/internal/mesh"
	"sketchgetdp/pkg/geometry"
)

// ErrInvalidSVG is returned when the document cannot be decoded.
var ErrInvalidSVG = errors.New("svgparse: invalid svg")

// Options controls coordinate mapping and curve flattening.
type Options struct {
	// Normalize maps the viewBox (or width/height) onto [0,1]x[0,1].
	Normalize bool `yaml:"normalize" json:"normalize"`
	// FlipY turns the y-down SVG frame into a y-up frame.
	FlipY bool `yaml:"flip_y" json:"flip_y"`
	// CurveSamples is the number of line steps per Bézier path segment.
	CurveSamples int `yaml:"curve_samples" json:"curve_samples"`
	// CircleSegments is the polygon resolution of circles and ellipses.
	CircleSegments int `yaml:"circle_segments" json:"circle_segments"`
	// MarkerMaxRadius is the largest red circle read as a point marker,
	// in SVG user units. Zero disables markers.
	MarkerMaxRadius float64 `yaml:"marker_max_radius" json:"marker_max_radius"`
}

// DefaultOptions returns the settings used by svg2gmsh.
func DefaultOptions() Options {
	return Options{
		Normalize:       true,
		FlipY:           true,
		CurveSamples:    8,
		CircleSegments:  32,
		MarkerMaxRadius: 10,
	}
}

// Document is the parsed content of an SVG sketch.
type Document struct {
	Width, Height float64
	ViewBox       geometry.Rect
	Boundaries    []mesh.RawBoundary
	Markers       []mesh.Marker
}

// Parser converts SVG documents into raw boundaries and markers.
type Parser struct {
	opts Options
	log  *slog.Logger
}

// New creates a Parser.
func New(opts Options, logger *slog.Logger) *Parser {
	if opts.CurveSamples < 1 {
		opts.CurveSamples = 1
	}
	if opts.CircleSegments < 3 {
		opts.CircleSegments = 32
	}
	return &Parser{opts: opts, log: logging.OrDiscard(logger)}
}

// ParseFile parses the SVG file at path.
func (p *Parser) ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open svg: %w", err)
	}
	defer f.Close()
	return p.Parse(f)
}

// element is a shape start tag with its inherited paint.
type element struct {
	name   string
	attrs  map[string]string
	stroke string
	fill   string
}

// Parse reads an SVG document from r.
func (p *Parser) Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	var (
		doc      *Document
		elements []element
		// paint stack of enclosing groups
		strokes = []string{""}
		fills   = []string{""}
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSVG, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			attrs := attrMap(t.Attr)
			stroke, fill := paint(attrs, strokes[len(strokes)-1], fills[len(fills)-1])
			switch t.Name.Local {
			case "svg":
				if doc == nil {
					doc = newDocument(attrs)
				}
			case "path", "rect", "circle", "ellipse", "polygon", "polyline":
				elements = append(elements, element{name: t.Name.Local, attrs: attrs, stroke: stroke, fill: fill})
			}
			strokes = append(strokes, stroke)
			fills = append(fills, fill)
		case xml.EndElement:
			if len(strokes) > 1 {
				strokes = strokes[:len(strokes)-1]
				fills = fills[:len(fills)-1]
			}
		}
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: no <svg> root element", ErrInvalidSVG)
	}

	tr := p.transform(doc)
	for i, el := range elements {
		color := elementColor(el)
		if err := p.addElement(doc, el, color, tr); err != nil {
			p.log.Warn("skipping svg element", "index", i, "element", el.name, "error", err)
		}
	}
	p.log.Debug("parsed svg", "boundaries", len(doc.Boundaries), "markers", len(doc.Markers))
	return doc, nil
}

func (p *Parser) addElement(doc *Document, el element, color mesh.Color, tr geometry.AffineTransform) error {
	a := el.attrs
	switch el.name {
	case "path":
		subpaths, err := ParsePathData(a["d"], p.opts.CurveSamples)
		if err != nil {
			return err
		}
		for _, sp := range subpaths {
			p.addBoundary(doc, sp.Points, color, sp.Closed, tr)
		}
	case "rect":
		x, y, w, h := num(a["x"]), num(a["y"]), num(a["width"]), num(a["height"])
		if w <= 0 || h <= 0 {
			return fmt.Errorf("degenerate rect %gx%g", w, h)
		}
		p.addBoundary(doc, []geometry.Point{
			geometry.Pt(x, y), geometry.Pt(x+w, y), geometry.Pt(x+w, y+h), geometry.Pt(x, y+h), geometry.Pt(x, y),
		}, color, true, tr)
	case "circle":
		c, r := geometry.Pt(num(a["cx"]), num(a["cy"])), num(a["r"])
		if r <= 0 {
			return fmt.Errorf("circle radius %g", r)
		}
		if color.Is(mesh.Red) && r <= p.opts.MarkerMaxRadius {
			doc.Markers = append(doc.Markers, mesh.Marker{Center: tr.Apply(c), Radius: r * math.Abs(tr.A), Color: color})
			return nil
		}
		p.addBoundary(doc, p.ellipse(c, r, r), color, true, tr)
	case "ellipse":
		c, rx, ry := geometry.Pt(num(a["cx"]), num(a["cy"])), num(a["rx"]), num(a["ry"])
		if rx <= 0 || ry <= 0 {
			return fmt.Errorf("ellipse radii %g,%g", rx, ry)
		}
		p.addBoundary(doc, p.ellipse(c, rx, ry), color, true, tr)
	case "polygon", "polyline":
		pts, err := parsePoints(a["points"])
		if err != nil {
			return err
		}
		closed := el.name == "polygon"
		if closed && len(pts) > 2 && pts[0] != pts[len(pts)-1] {
			pts = append(pts, pts[0])
		}
		p.addBoundary(doc, pts, color, closed, tr)
	}
	return nil
}

// addBoundary maps pts into the output frame and keeps boundaries with at
// least three points.
func (p *Parser) addBoundary(doc *Document, pts []geometry.Point, color mesh.Color, closed bool, tr geometry.AffineTransform) {
	if len(pts) < 3 {
		p.log.Debug("dropping short boundary", "points", len(pts), "color", color.Name())
		return
	}
	mapped := make([]geometry.Point, len(pts))
	for i, pt := range pts {
		mapped[i] = tr.Apply(pt)
	}
	doc.Boundaries = append(doc.Boundaries, mesh.RawBoundary{Points: mapped, Color: color, Closed: closed})
}

// ellipse stretches the unit circle onto the radii and repeats the first
// point at the end.
func (p *Parser) ellipse(c geometry.Point, rx, ry float64) []geometry.Point {
	t := geometry.Translation(c.X, c.Y).Compose(geometry.Scale(rx, ry))
	unit := geometry.GenerateCirclePoints(geometry.Pt(0, 0), 1, p.opts.CircleSegments)
	pts := make([]geometry.Point, 0, len(unit)+1)
	for _, u := range unit {
		pts = append(pts, t.Apply(u))
	}
	return append(pts, pts[0])
}

// transform maps SVG user units onto the output frame.
func (p *Parser) transform(doc *Document) geometry.AffineTransform {
	frame := doc.ViewBox
	if frame.Width <= 0 || frame.Height <= 0 {
		frame = geometry.Rect{Width: doc.Width, Height: doc.Height}
	}
	t := geometry.Identity()
	height := frame.Y + frame.Height
	if p.opts.Normalize && frame.Width > 0 && frame.Height > 0 {
		t = geometry.Scale(1/frame.Width, 1/frame.Height).Compose(geometry.Translation(-frame.X, -frame.Y))
		height = 1
	}
	if p.opts.FlipY {
		t = geometry.FlipY(height).Compose(t)
	}
	return t
}

func newDocument(attrs map[string]string) *Document {
	doc := &Document{Width: length(attrs["width"], 100), Height: length(attrs["height"], 100)}
	if vb, err := parseNumbers(attrs["viewBox"]); err == nil && len(vb) == 4 {
		doc.ViewBox = geometry.Rect{X: vb[0], Y: vb[1], Width: vb[2], Height: vb[3]}
	}
	return doc
}

func attrMap(attrs []xml.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Name.Local] = a.Value
	}
	return m
}

// paint resolves stroke and fill from attributes and the style property,
// falling back to the inherited values.
func paint(attrs map[string]string, stroke, fill string) (string, string) {
	if v, ok := attrs["stroke"]; ok {
		stroke = v
	}
	if v, ok := attrs["fill"]; ok {
		fill = v
	}
	for _, decl := range strings.Split(attrs["style"], ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		switch strings.TrimSpace(k) {
		case "stroke":
			stroke = strings.TrimSpace(v)
		case "fill":
			fill = strings.TrimSpace(v)
		}
	}
	return stroke, fill
}

// elementColor uses the stroke, then the fill, then red.
func elementColor(el element) mesh.Color {
	if c, ok := ParseColor(el.stroke); ok {
		return c
	}
	if c, ok := ParseColor(el.fill); ok {
		return c
	}
	return mesh.Red
}

var unitSuffix = regexp.MustCompile(`[a-z%]+$`)

// length parses an SVG length, dropping any unit.
func length(s string, fallback float64) float64 {
	s = unitSuffix.ReplaceAllString(strings.TrimSpace(strings.ToLower(s)), "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func num(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}

func parseNumbers(s string) ([]float64, error) {
	l := &pathLexer{s: s}
	var out []float64
	for l.hasNumber() {
		v, err := l.number()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if l.pos < len(l.s) {
		return nil, fmt.Errorf("%w: unexpected %q", ErrInvalidPath, l.s[l.pos])
	}
	return out, nil
}

func parsePoints(s string) ([]geometry.Point, error) {
	v, err := parseNumbers(s)
	if err != nil {
		return nil, err
	}
	pts := make([]geometry.Point, 0, len(v)/2)
	for i := 0; i+1 < len(v); i += 2 {
		pts = append(pts, geometry.Pt(v[i], v[i+1]))
	}
	return pts, nil
}
