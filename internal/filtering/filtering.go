// Package filtering limits, ranks and filters traced structures.
package filtering

import (
	"fmt"
	"log/slog"
	"reflect"
	"sort"

	"sketchgetdp/internal/contour"
	"sketchgetdp/internal/logging"
	"sketchgetdp/pkg/geometry"
)

// Structure categories produced by the tracer.
const (
	KeyRedPoints       = "red_points"
	KeyBlueStructures  = "blue_structures"
	KeyGreenStructures = "green_structures"
)

// Keys lists the recognised categories in output order.
var Keys = []string{KeyRedPoints, KeyBlueStructures, KeyGreenStructures}

// Limits caps how many structures of each category are kept. Zero means
// unlimited.
type Limits struct {
	RedDots    int `yaml:"red_dots" json:"red_dots"`
	BluePaths  int `yaml:"blue_paths" json:"blue_paths"`
	GreenPaths int `yaml:"green_paths" json:"green_paths"`
}

func (l Limits) forKey(key string) int {
	switch key {
	case KeyRedPoints:
		return l.RedDots
	case KeyBlueStructures:
		return l.BluePaths
	case KeyGreenStructures:
		return l.GreenPaths
	}
	return 0
}

// Filter applies per-category limits to structure collections.
type Filter struct {
	log *slog.Logger
}

// New creates a Filter. A nil logger discards output.
func New(logger *slog.Logger) *Filter {
	return &Filter{log: logging.OrDiscard(logger)}
}

// Execute truncates each recognised category to its limit, keeping input
// order. Values may be slices of any element type; the element type is
// preserved. The result always holds exactly the three recognised keys.
// Missing or non-slice values yield an empty slice, and a failure while
// processing yields empty slices for every category. Execute never panics.
func (f *Filter) Execute(structures map[string]any, limits Limits) (result map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			f.log.Error("structure filtering failed, returning empty result", "error", fmt.Sprint(r))
			result = emptyResult()
		}
	}()

	for key := range structures {
		if !isKnownKey(key) {
			f.log.Warn("ignoring unrecognised structure category", "key", key)
		}
	}

	result = make(map[string]any, len(Keys))
	for _, key := range Keys {
		value, ok := structures[key]
		if !ok || value == nil {
			result[key] = []any{}
			continue
		}
		v := reflect.ValueOf(value)
		if v.Kind() != reflect.Slice {
			f.log.Error("malformed structure category", "key", key, "type", v.Type().String())
			result[key] = []any{}
			continue
		}
		limit := limits.forKey(key)
		if limit > 0 && v.Len() > limit {
			f.log.Debug("limiting structures", "key", key, "from", v.Len(), "to", limit)
			v = v.Slice(0, limit)
		}
		result[key] = v.Interface()
	}
	return result
}

// Take returns s[key] as a []T, or nil when absent or of another type.
func Take[T any](s map[string]any, key string) []T {
	items, _ := s[key].([]T)
	return items
}

func isKnownKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

func emptyResult() map[string]any {
	out := make(map[string]any, len(Keys))
	for _, k := range Keys {
		out[k] = []any{}
	}
	return out
}

// FilterStructuresByArea returns the first maxCount items. Callers rank
// items by area beforehand. A non-positive maxCount returns an empty slice.
func FilterStructuresByArea[T any](items []T, maxCount int) []T {
	if maxCount <= 0 {
		return []T{}
	}
	if len(items) > maxCount {
		items = items[:maxCount]
	}
	return append([]T(nil), items...)
}

// FilterContoursBySize keeps contours with minArea <= area <= maxArea.
func FilterContoursBySize(contours []contour.ClosedContour, minArea, maxArea float64) []contour.ClosedContour {
	var out []contour.ClosedContour
	for _, c := range contours {
		if a := c.Area(); a >= minArea && a <= maxArea {
			out = append(out, c)
		}
	}
	return out
}

// FilterByCircularity keeps contours with circularity >= minCircularity.
// Contours without perimeter only pass when minCircularity is 0.
func FilterByCircularity(contours []contour.ClosedContour, minCircularity float64) []contour.ClosedContour {
	var out []contour.ClosedContour
	for _, c := range contours {
		if c.Perimeter() == 0 && minCircularity > 0 {
			continue
		}
		if c.Circularity() >= minCircularity {
			out = append(out, c)
		}
	}
	return out
}

// SortContoursByArea returns a stably sorted copy of contours.
func SortContoursByArea(contours []contour.ClosedContour, descending bool) []contour.ClosedContour {
	out := append([]contour.ClosedContour(nil), contours...)
	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return out[i].Area() > out[j].Area()
		}
		return out[i].Area() < out[j].Area()
	})
	return out
}

// FilterTopLevelContours drops contours lying entirely inside another
// contour, such as the inner edge of a thick stroke.
func FilterTopLevelContours(contours []contour.ClosedContour) []contour.ClosedContour {
	if len(contours) < 2 {
		return append([]contour.ClosedContour(nil), contours...)
	}
	polys := make([][]geometry.Point, len(contours))
	for i, c := range contours {
		polys[i] = c.Points()
	}
	var out []contour.ClosedContour
	for i, c := range contours {
		nested := false
		for j := range contours {
			if i != j && contours[j].Area() > c.Area() && geometry.PolygonInPolygon(polys[i], polys[j]) {
				nested = true
				break
			}
		}
		if !nested {
			out = append(out, c)
		}
	}
	return out
}

// CategorizeStructuresByColor groups items by the category name returned by
// categoryOf, keeping input order within each group.
func CategorizeStructuresByColor[T any](items []T, categoryOf func(T) string) map[string][]T {
	out := make(map[string][]T)
	for _, it := range items {
		key := categoryOf(it)
		out[key] = append(out[key], it)
	}
	return out
}
