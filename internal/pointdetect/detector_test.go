package pointdetect

import (
	"sync"
	"testing"

	"sketchgetdp/pkg/geometry"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func rect(x, y, w, h float64) []geometry.Point {
	return []geometry.Point{
		geometry.Pt(x, y), geometry.Pt(x+w, y), geometry.Pt(x+w, y+h), geometry.Pt(x, y+h),
	}
}

func near(a, b geometry.Point) bool {
	return cmp.Equal(a, b, cmpopts.EquateApprox(0, 1e-9))
}

func TestIsPoint(t *testing.T) {
	d := New(DefaultConfig())
	tests := []struct {
		name    string
		contour []geometry.Point
		want    bool
	}{
		{"small square", rect(0, 0, 5, 5), true},
		{"limits inclusive", rect(0, 0, 10, 10), true},
		{"too large", rect(0, 0, 20, 20), false},
		{"long thin", rect(0, 0, 39, 1), true},
		{"perimeter over limit", rect(0, 0, 41, 1), false},
		{"two points", rect(0, 0, 1, 1)[:2], false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.IsPoint(tt.contour); got != tt.want {
				t.Errorf("IsPoint = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCenter(t *testing.T) {
	d := New(DefaultConfig())
	c, ok := d.Center(rect(10, 20, 4, 6))
	if !ok || !near(c, geometry.Pt(12, 23)) {
		t.Errorf("Center = %v, %v", c, ok)
	}

	flat := []geometry.Point{geometry.Pt(0, 0), geometry.Pt(5, 0), geometry.Pt(10, 0)}
	if _, ok := d.Center(flat); ok {
		t.Error("zero-area contour should have no moment center")
	}
	if c, ok := d.ContourCenter(flat); !ok || c != geometry.Pt(5, 0) {
		t.Errorf("ContourCenter(flat) = %v, %v", c, ok)
	}
	if _, ok := d.ContourCenter(nil); ok {
		t.Error("ContourCenter(nil) should fail")
	}
}

func TestDetectPoint(t *testing.T) {
	d := New(DefaultConfig())
	if c, ok := d.DetectPoint(rect(0, 0, 4, 4)); !ok || !near(c, geometry.Pt(2, 2)) {
		t.Errorf("DetectPoint(small) = %v, %v", c, ok)
	}
	if _, ok := d.DetectPoint(rect(0, 0, 50, 50)); ok {
		t.Error("DetectPoint accepted a large contour")
	}
	if c, ok := d.ContourCenter(rect(0, 0, 50, 50)); !ok || !near(c, geometry.Pt(25, 25)) {
		t.Errorf("ContourCenter(large) = %v, %v", c, ok)
	}
}

func TestUpdateConfig_MergesPresentKeys(t *testing.T) {
	d := New(DefaultConfig())
	area := 400.0
	d.UpdateConfig(ConfigUpdate{MaxArea: &area})
	want := Config{MaxArea: 400, MaxPerimeter: 80}
	if diff := cmp.Diff(want, d.Config()); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
	d.UpdateConfig(ConfigUpdate{})
	if diff := cmp.Diff(want, d.Config()); diff != "" {
		t.Errorf("empty update changed config:\n%s", diff)
	}
	if !d.IsPoint(rect(0, 0, 15, 15)) {
		t.Error("updated area limit not applied")
	}
}

func TestUpdateConfig_Concurrent(t *testing.T) {
	d := New(DefaultConfig())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(v float64) {
			defer wg.Done()
			d.UpdateConfig(ConfigUpdate{MaxPerimeter: &v})
		}(float64(80 + i))
		go func() {
			defer wg.Done()
			d.IsPoint(rect(0, 0, 3, 3))
		}()
	}
	wg.Wait()
}

func TestMarker(t *testing.T) {
	d := New(DefaultConfig())
	want := Marker{Type: "circle", CX: 1.5, CY: 2, R: DefaultMarkerRadius}
	if diff := cmp.Diff(want, d.Marker(geometry.Pt(1.5, 2), 0)); diff != "" {
		t.Errorf("Marker (-want +got):\n%s", diff)
	}
	if m := d.Marker(geometry.Pt(0, 0), 4); m.R != 4 {
		t.Errorf("Marker radius = %v", m.R)
	}
}
