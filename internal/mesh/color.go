// Package mesh holds the svg-to-gmsh domain: colored boundary curves built
// from Bézier segments, their grouping into physical domains and
// boundaries, and point electrodes.
package mesh

import (
	"errors"
	"fmt"
)

// ErrInvalidColor is returned for an unknown color name or bad components.
var ErrInvalidColor = errors.New("mesh: invalid color")

// Color is one of the three sketch colors recognised by the mesher.
type Color struct {
	name string
	rgb  [3]int
}

// Predefined colors.
var (
	Red   = Color{name: "red", rgb: [3]int{255, 0, 0}}
	Green = Color{name: "green", rgb: [3]int{0, 255, 0}}
	Blue  = Color{name: "blue", rgb: [3]int{0, 0, 255}}
)

// NewColor validates name (exactly "red", "green" or "blue") and the RGB
// components (0-255).
func NewColor(name string, rgb [3]int) (Color, error) {
	switch name {
	case "red", "green", "blue":
	default:
		return Color{}, fmt.Errorf("%w: name %q", ErrInvalidColor, name)
	}
	for _, v := range rgb {
		if v < 0 || v > 255 {
			return Color{}, fmt.Errorf("%w: component %d out of range", ErrInvalidColor, v)
		}
	}
	return Color{name: name, rgb: rgb}, nil
}

// ColorByName returns the predefined color with the given name.
func ColorByName(name string) (Color, error) {
	switch name {
	case "red":
		return Red, nil
	case "green":
		return Green, nil
	case "blue":
		return Blue, nil
	}
	return Color{}, fmt.Errorf("%w: name %q", ErrInvalidColor, name)
}

// Name returns the color name.
func (c Color) Name() string { return c.name }

// Is reports whether c and o are the same sketch color. Components are not
// compared.
func (c Color) Is(o Color) bool { return c.name == o.name }

// RGB returns the components.
func (c Color) RGB() [3]int { return c.rgb }

// IsZero reports whether c is the zero Color.
func (c Color) IsZero() bool { return c.name == "" }

// Hex returns the lowercase "#rrggbb" form.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.rgb[0], c.rgb[1], c.rgb[2])
}

// Normalized returns the components scaled to 0-1.
func (c Color) Normalized() [3]float64 {
	return [3]float64{float64(c.rgb[0]) / 255, float64(c.rgb[1]) / 255, float64(c.rgb[2]) / 255}
}

func (c Color) String() string { return c.name }
