package svgparse

import (
	"image/color"
	"math"
	"regexp"
	"strconv"
	"strings"

	"sketchgetdp/internal/mesh"

	"golang.org/x/image/colornames"
)

var rgbFunc = regexp.MustCompile(`^rgb\(\s*([\d.]+%?)\s*,\s*([\d.]+%?)\s*,\s*([\d.]+%?)\s*\)$`)

// ParseColor maps an SVG paint value onto the nearest of the three boundary
// colors. The second result is false for "none", empty and unparsable
// values.
func ParseColor(value string) (mesh.Color, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" || v == "none" || v == "transparent" {
		return mesh.Color{}, false
	}
	rgb, ok := parsePaint(v)
	if !ok {
		return mesh.Color{}, false
	}
	return nearestPrimary(rgb), true
}

func parsePaint(v string) (color.RGBA, bool) {
	if strings.HasPrefix(v, "#") {
		return parseHex(v[1:])
	}
	if m := rgbFunc.FindStringSubmatch(v); m != nil {
		var c [3]uint8
		for i := 0; i < 3; i++ {
			n, ok := parseChannel(m[i+1])
			if !ok {
				return color.RGBA{}, false
			}
			c[i] = n
		}
		return color.RGBA{R: c[0], G: c[1], B: c[2], A: 255}, true
	}
	if c, ok := colornames.Map[v]; ok {
		return c, true
	}
	return color.RGBA{}, false
}

func parseHex(h string) (color.RGBA, bool) {
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, true
}

func parseChannel(s string) (uint8, bool) {
	pct := strings.HasSuffix(s, "%")
	f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, false
	}
	if pct {
		f = f * 255 / 100
	}
	return uint8(math.Round(math.Max(0, math.Min(255, f)))), true
}

// nearestPrimary picks the boundary color closest in RGB space. Ties go to
// red, then green.
func nearestPrimary(c color.RGBA) mesh.Color {
	best, bestDist := mesh.Red, math.Inf(1)
	for _, p := range []mesh.Color{mesh.Red, mesh.Green, mesh.Blue} {
		rgb := p.RGB()
		dr := float64(int(c.R) - rgb[0])
		dg := float64(int(c.G) - rgb[1])
		db := float64(int(c.B) - rgb[2])
		if d := dr*dr + dg*dg + db*db; d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}
