// Package svgdoc renders traced structures as an SVG document.
package svgdoc

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"sketchgetdp/pkg/geometry"
)

// Style sets stroke colors and sizes.
type Style struct {
	PointRadius float64
	StrokeWidth float64
	BlueColor   string
	RedColor    string
	GreenColor  string
}

// DefaultStyle matches the colors used for detection.
func DefaultStyle() Style {
	return Style{
		PointRadius: 4,
		StrokeWidth: 2,
		BlueColor:   "#0000FF",
		RedColor:    "#FF0000",
		GreenColor:  "#00FF00",
	}
}

// Document is a flat SVG made of stroked paths and filled circles.
type Document struct {
	XMLName xml.Name `xml:"svg"`
	Xmlns   string   `xml:"xmlns,attr"`
	Width   int      `xml:"width,attr"`
	Height  int      `xml:"height,attr"`
	ViewBox string   `xml:"viewBox,attr"`
	Paths   []Path   `xml:"path"`
	Circles []Circle `xml:"circle"`
}

// Path is an unfilled stroke.
type Path struct {
	D              string  `xml:"d,attr"`
	Stroke         string  `xml:"stroke,attr"`
	Fill           string  `xml:"fill,attr"`
	StrokeWidth    float64 `xml:"stroke-width,attr"`
	StrokeLinecap  string  `xml:"stroke-linecap,attr"`
	StrokeLinejoin string  `xml:"stroke-linejoin,attr"`
}

// Circle is a filled point marker.
type Circle struct {
	CX   float64 `xml:"cx,attr"`
	CY   float64 `xml:"cy,attr"`
	R    float64 `xml:"r,attr"`
	Fill string  `xml:"fill,attr"`
}

// New returns an empty document of the given pixel size.
func New(width, height int) *Document {
	return &Document{
		Xmlns:   "http://www.w3.org/2000/svg",
		Width:   width,
		Height:  height,
		ViewBox: fmt.Sprintf("0 0 %d %d", width, height),
	}
}

// AddPaths appends path data drawn in color.
func (d *Document) AddPaths(paths []string, color string, style Style) {
	for _, p := range paths {
		d.Paths = append(d.Paths, Path{
			D:              p,
			Stroke:         color,
			Fill:           "none",
			StrokeWidth:    style.StrokeWidth,
			StrokeLinecap:  "round",
			StrokeLinejoin: "round",
		})
	}
}

// AddPoints appends one circle per point in the red color.
func (d *Document) AddPoints(points []geometry.PointData, style Style) {
	for _, p := range points {
		r := style.PointRadius
		if r <= 0 {
			r = p.Radius
		}
		d.Circles = append(d.Circles, Circle{CX: p.Point.X, CY: p.Point.Y, R: r, Fill: style.RedColor})
	}
}

// Elements is the number of drawn paths and circles.
func (d *Document) Elements() int {
	return len(d.Paths) + len(d.Circles)
}

// WriteTo encodes the document with an XML header.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	if _, err := io.WriteString(cw, xml.Header); err != nil {
		return cw.n, err
	}
	enc := xml.NewEncoder(cw)
	enc.Indent("", "  ")
	if err := enc.Encode(d); err != nil {
		return cw.n, fmt.Errorf("failed to encode svg: %w", err)
	}
	if _, err := io.WriteString(cw, "\n"); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// WriteFile writes the document to path.
func (d *Document) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create svg: %w", err)
	}
	if _, err := d.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
