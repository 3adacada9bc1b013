package trace

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"sketchgetdp/pkg/colorutil"
	"sketchgetdp/pkg/geometry"

	"gocv.io/x/gocv"
)

var (
	blue  = color.RGBA{B: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
	red   = color.RGBA{R: 255, A: 255}
)

// sketch draws a blue square outline, a green circle outline and a small
// filled red dot on white paper.
func sketch(t *testing.T) gocv.Mat {
	t.Helper()
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), 300, 300, gocv.MatTypeCV8UC3)
	gocv.Rectangle(&img, image.Rect(20, 20, 140, 140), blue, 4)
	gocv.Circle(&img, image.Pt(220, 80), 40, green, 4)
	gocv.Circle(&img, image.Pt(220, 220), 4, red, -1)
	return img
}

func square(x, y, size float64) []geometry.Point {
	return []geometry.Point{
		geometry.Pt(x, y), geometry.Pt(x+size, y), geometry.Pt(x+size, y+size), geometry.Pt(x, y+size),
	}
}

func TestBinarize(t *testing.T) {
	img := sketch(t)
	defer img.Close()

	mask := NewContourDetector(DefaultDetectionOptions()).Binarize(img)
	defer mask.Close()

	if mask.Rows() != 300 || mask.Cols() != 300 {
		t.Fatalf("mask size = %dx%d", mask.Cols(), mask.Rows())
	}
	if v := mask.GetUCharAt(5, 5); v != 0 {
		t.Errorf("paper pixel = %d, want 0", v)
	}
	if v := mask.GetUCharAt(20, 80); v == 0 {
		t.Error("blue stroke pixel is not ink")
	}
	if v := mask.GetUCharAt(220, 220); v == 0 {
		t.Error("red dot pixel is not ink")
	}
}

func TestDetect_FindsStrokeEdges(t *testing.T) {
	img := sketch(t)
	defer img.Close()

	contours := NewContourDetector(DefaultDetectionOptions()).Detect(img)
	// outer and inner edge of both outlines, plus the dot
	if len(contours) < 5 {
		t.Fatalf("Detect found %d contours, want at least 5", len(contours))
	}
	for i, c := range contours {
		if len(c) == 0 {
			t.Errorf("contour %d is empty", i)
		}
	}

	empty := gocv.NewMat()
	defer empty.Close()
	if got := NewContourDetector(DefaultDetectionOptions()).Detect(empty); got != nil {
		t.Errorf("Detect(empty) = %v", got)
	}
}

func TestNewContourDetector_NormalizesOptions(t *testing.T) {
	d := NewContourDetector(DetectionOptions{BlockSize: 8, KernelSize: 0})
	if d.opts.BlockSize != 9 || d.opts.KernelSize != 3 {
		t.Errorf("opts = %+v", d.opts)
	}
}

func TestDominantColor(t *testing.T) {
	img := sketch(t)
	defer img.Close()

	tests := []struct {
		name    string
		contour []geometry.Point
		want    colorutil.Category
		ok      bool
	}{
		{"blue square", square(20, 20, 120), colorutil.CategoryBlue, true},
		{"red dot", square(217, 217, 6), colorutil.CategoryRed, true},
		{"bare paper", square(160, 160, 20), colorutil.CategoryOther, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DominantColor(img, tt.contour)
			if got != tt.want || ok != tt.ok {
				t.Errorf("DominantColor = %v, %v; want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
	if px := StrokePixels(img, nil); px != nil {
		t.Errorf("StrokePixels(nil) = %v", px)
	}
}

func TestTracer_Sketch(t *testing.T) {
	img := sketch(t)
	defer img.Close()

	res, err := NewTracer(DefaultOptions(), nil).Trace(img)
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if res.Width != 300 || res.Height != 300 {
		t.Errorf("size = %dx%d", res.Width, res.Height)
	}

	s := res.Structures
	if len(s.BluePaths) != 1 || len(s.GreenPaths) != 1 || len(s.RedPoints) != 1 {
		t.Fatalf("blue=%d green=%d red=%d, want 1 each", len(s.BluePaths), len(s.GreenPaths), len(s.RedPoints))
	}
	if p := s.RedPoints[0]; !p.IsSmallPoint || p.Point.Distance(geometry.Pt(220, 220)) > 1.5 {
		t.Errorf("red point = %+v", p)
	}
	if s.BluePaths[0].Category != colorutil.CategoryBlue || s.BluePaths[0].D == "" {
		t.Errorf("blue path = %+v", s.BluePaths[0])
	}
	if s.GreenPaths[0].Category != colorutil.CategoryGreen {
		t.Errorf("green path = %+v", s.GreenPaths[0])
	}

	st := res.Stats
	if st.Kept != 3 || st.TotalStructures() != 3 {
		t.Errorf("stats = %+v", st)
	}
	if st.Kept+st.Skipped != st.TotalContours {
		t.Errorf("kept %d + skipped %d != total %d", st.Kept, st.Skipped, st.TotalContours)
	}
}

func TestTracer_SmallRedDotIgnoresMinArea(t *testing.T) {
	img := sketch(t)
	defer img.Close()

	opts := DefaultOptions()
	opts.MinArea = 1e6
	res, err := NewTracer(opts, nil).Trace(img)
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if n := len(res.Structures.BluePaths) + len(res.Structures.GreenPaths); n != 0 {
		t.Errorf("%d paths survived the size filter", n)
	}
	if len(res.Structures.RedPoints) != 1 {
		t.Errorf("small red dot should bypass the size filter, got %d", len(res.Structures.RedPoints))
	}
}

func TestTracer_EmptyImage(t *testing.T) {
	empty := gocv.NewMat()
	defer empty.Close()
	if _, err := NewTracer(DefaultOptions(), nil).Trace(empty); err == nil {
		t.Error("expected error for an empty image")
	}
}

func TestLoadImageAndImageToMat(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, red)
	src.Set(1, 0, blue)

	path := filepath.Join(t.TempDir(), "dots.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, src); err != nil {
		t.Fatal(err)
	}
	f.Close()

	img, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	mat := ImageToMat(img)
	defer mat.Close()

	if v := mat.GetVecbAt(0, 0); v[0] != 0 || v[1] != 0 || v[2] != 255 {
		t.Errorf("pixel 0 BGR = %v, want [0 0 255]", v)
	}
	if v := mat.GetVecbAt(0, 1); v[0] != 255 || v[2] != 0 {
		t.Errorf("pixel 1 BGR = %v, want [255 0 0]", v)
	}

	if _, err := LoadImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for a missing file")
	}
}
