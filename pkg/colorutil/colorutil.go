// Package colorutil provides color conversion and the bitmap-side color
// categorization used when sampling traced sketch strokes.
package colorutil

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidHex is returned by FromHex for malformed input.
var ErrInvalidHex = errors.New("colorutil: invalid hex color")

// DominanceMargin is how far a channel must exceed both others to dominate.
const DominanceMargin = 20

// HSV thresholds (OpenCV ranges) separating paper and ink from colored strokes.
const (
	whiteMinValue      = 200
	whiteMaxSaturation = 50
	blackMaxValue      = 50
)

// Category is the coarse classification of a sampled pixel color.
type Category int

const (
	CategoryOther Category = iota
	CategoryBlue
	CategoryRed
	CategoryGreen
	CategoryWhite
	CategoryBlack
)

func (c Category) String() string {
	switch c {
	case CategoryBlue:
		return "BLUE"
	case CategoryRed:
		return "RED"
	case CategoryGreen:
		return "GREEN"
	case CategoryWhite:
		return "WHITE"
	case CategoryBlack:
		return "BLACK"
	default:
		return "OTHER"
	}
}

// Hex returns the canonical hex string of a primary category.
func (c Category) Hex() (string, bool) {
	switch c {
	case CategoryBlue:
		return "#0000FF", true
	case CategoryRed:
		return "#FF0000", true
	case CategoryGreen:
		return "#00FF00", true
	default:
		return "", false
	}
}

// IsPrimary reports whether c is BLUE, RED or GREEN.
func (c Category) IsPrimary() bool {
	return c == CategoryBlue || c == CategoryRed || c == CategoryGreen
}

// BGR is an immutable pixel color in OpenCV channel order.
type BGR struct {
	B, G, R uint8
}

// FromRGB builds a BGR from RGB components.
func FromRGB(r, g, b uint8) BGR {
	return BGR{B: b, G: g, R: r}
}

// FromHex parses "#RRGGBB", "#RGB" or either without the hash.
func FromHex(s string) (BGR, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return BGR{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return BGR{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	return FromRGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

// ToHex formats the color as "#RRGGBB".
func (c BGR) ToHex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// RGBA converts to the standard library color type.
func (c BGR) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Categorize classifies the color. Near-white and near-black pixels are
// recognised first in HSV space; otherwise a channel that exceeds both others
// by more than DominanceMargin decides the category.
func (c BGR) Categorize() Category {
	_, s, v := RGBToHSV(float64(c.R), float64(c.G), float64(c.B))
	if v > whiteMinValue && s < whiteMaxSaturation {
		return CategoryWhite
	}
	if v < blackMaxValue {
		return CategoryBlack
	}

	b, g, r := int(c.B), int(c.G), int(c.R)
	switch {
	case b > g+DominanceMargin && b > r+DominanceMargin:
		return CategoryBlue
	case r > g+DominanceMargin && r > b+DominanceMargin:
		return CategoryRed
	case g > r+DominanceMargin && g > b+DominanceMargin:
		return CategoryGreen
	}
	return CategoryOther
}

// IsPrimary reports whether the color categorizes as BLUE, RED or GREEN.
func (c BGR) IsPrimary() bool {
	return c.Categorize().IsPrimary()
}

// IsIgnored reports whether the color categorizes as WHITE, BLACK or OTHER.
func (c BGR) IsIgnored() bool {
	return !c.IsPrimary()
}

// Dominant returns the most frequent primary category among pixels. Ties
// resolve in the order BLUE, RED, GREEN. The second result is false when no
// pixel is primary.
func Dominant(pixels []BGR) (Category, bool) {
	counts := make(map[Category]int, 3)
	for _, p := range pixels {
		if c := p.Categorize(); c.IsPrimary() {
			counts[c]++
		}
	}
	best, bestCount := CategoryOther, 0
	for _, c := range []Category{CategoryBlue, CategoryRed, CategoryGreen} {
		if counts[c] > bestCount {
			best, bestCount = c, counts[c]
		}
	}
	return best, bestCount > 0
}

// RGBToHSV converts RGB (0-255) to HSV (OpenCV convention: H 0-180, S 0-255, V 0-255).
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	r /= 255.0
	g /= 255.0
	b /= 255.0

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	diff := maxC - minC

	v = maxC * 255.0 // V in 0-255

	if maxC == 0 {
		s = 0
	} else {
		s = (diff / maxC) * 255.0 // S in 0-255
	}

	if diff == 0 {
		h = 0
	} else if maxC == r {
		h = 60 * math.Mod((g-b)/diff, 6)
	} else if maxC == g {
		h = 60 * ((b-r)/diff + 2)
	} else {
		h = 60 * ((r-g)/diff + 4)
	}

	if h < 0 {
		h += 360
	}

	h = h / 2 // Convert to OpenCV's 0-180 range

	return h, s, v
}
