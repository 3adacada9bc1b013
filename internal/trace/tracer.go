package trace

import (
	"fmt"
	"log/slog"
	"sort"

	"sketchgetdp/internal/contour"
	"sketchgetdp/internal/curvefit"
	"sketchgetdp/internal/filtering"
	"sketchgetdp/internal/logging"
	"sketchgetdp/internal/pointdetect"
	"sketchgetdp/pkg/colorutil"
	"sketchgetdp/pkg/geometry"

	"gocv.io/x/gocv"
)

// Options configures a Tracer.
type Options struct {
	MinArea              float64
	MaxAreaRatio         float64 // of the image area
	ClosureTolerance     float64
	CircularityThreshold float64
	PointRadius          float64

	Detection DetectionOptions
	Curves    curvefit.Options
	Points    pointdetect.Config
	Limits    filtering.Limits
}

// DefaultOptions returns the default tracing settings.
func DefaultOptions() Options {
	return Options{
		MinArea:              150,
		MaxAreaRatio:         0.8,
		ClosureTolerance:     contour.DefaultTolerance,
		CircularityThreshold: 0.01,
		PointRadius:          4,
		Detection:            DefaultDetectionOptions(),
		Curves:               curvefit.DefaultOptions(),
		Points:               pointdetect.DefaultConfig(),
	}
}

// Path is a traced stroke in SVG path syntax.
type Path struct {
	D               string             `json:"d"`
	Category        colorutil.Category `json:"-"`
	Area            float64            `json:"area"`
	InitiallyClosed bool               `json:"initially_closed"`
}

// Structures holds the traced output per color.
type Structures struct {
	RedPoints  []geometry.PointData `json:"red_points"`
	BluePaths  []Path               `json:"blue_paths"`
	GreenPaths []Path               `json:"green_paths"`
}

// Statistics counts what happened to the detected contours.
type Statistics struct {
	TotalContours   int `json:"total_contours"`
	Kept            int `json:"kept"`
	Skipped         int `json:"skipped"`
	NaturallyClosed int `json:"naturally_closed"`
	ForcedClosed    int `json:"forced_closed"`
	RedPoints       int `json:"red_points"`
	BluePaths       int `json:"blue_paths"`
	GreenPaths      int `json:"green_paths"`
}

// TotalStructures is the number of emitted points and paths.
func (s Statistics) TotalStructures() int {
	return s.RedPoints + s.BluePaths + s.GreenPaths
}

// Result is the outcome of tracing one image.
type Result struct {
	Width      int
	Height     int
	Structures Structures
	Stats      Statistics
}

// Tracer runs the bitmap tracing pipeline: contour detection, closure,
// stroke color, point and path extraction, filtering and limits.
type Tracer struct {
	opts     Options
	detector *ContourDetector
	closure  contour.Service
	fitter   *curvefit.Fitter
	points   *pointdetect.Detector
	filter   *filtering.Filter
	log      *slog.Logger
}

// NewTracer creates a Tracer. A nil logger discards output.
func NewTracer(opts Options, logger *slog.Logger) *Tracer {
	log := logging.OrDiscard(logger)
	return &Tracer{
		opts:     opts,
		detector: NewContourDetector(opts.Detection),
		fitter:   curvefit.New(opts.Curves, log),
		points:   pointdetect.New(opts.Points),
		filter:   filtering.New(log),
		log:      log,
	}
}

// TraceFile loads and traces the image at path.
func (t *Tracer) TraceFile(path string) (*Result, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	mat := ImageToMat(img)
	defer mat.Close()
	return t.Trace(mat)
}

type candidate struct {
	c        contour.ClosedContour
	category colorutil.Category
}

type rankedPoint struct {
	point geometry.PointData
	area  float64
}

// Trace runs the pipeline on a BGR image.
func (t *Tracer) Trace(img gocv.Mat) (*Result, error) {
	if img.Empty() {
		return nil, fmt.Errorf("trace: empty image")
	}
	res := &Result{Width: img.Cols(), Height: img.Rows()}
	stats := &res.Stats

	raw := t.detector.Detect(img)
	stats.TotalContours = len(raw)
	t.log.Info("detected contours", "count", len(raw), "width", res.Width, "height", res.Height)

	var candidates []candidate
	for i, pts := range raw {
		if len(pts) < 3 {
			stats.Skipped++
			continue
		}
		category, ok := DominantColor(img, pts)
		if !ok {
			t.log.Debug("skipping contour without stroke color", "index", i)
			stats.Skipped++
			continue
		}
		cc := t.closure.CreateClosedContour(pts, t.opts.ClosureTolerance)
		candidates = append(candidates, candidate{c: cc, category: category})
	}

	// Nesting is only checked within one color so that the inner edge of a
	// stroke is dropped while dots drawn inside a shape survive.
	byColor := filtering.CategorizeStructuresByColor(candidates, func(c candidate) string {
		return c.category.String()
	})
	maxArea := t.opts.MaxAreaRatio * float64(res.Width*res.Height)

	var red []rankedPoint
	var blue, green []Path
	for _, category := range []colorutil.Category{colorutil.CategoryRed, colorutil.CategoryBlue, colorutil.CategoryGreen} {
		group := byColor[category.String()]
		contours := make([]contour.ClosedContour, len(group))
		for i, g := range group {
			contours[i] = g.c
		}
		top := filtering.FilterTopLevelContours(contours)
		stats.Skipped += len(contours) - len(top)

		if category == colorutil.CategoryRed {
			red = append(red, t.redPoints(top, maxArea, stats)...)
			continue
		}
		paths := t.paths(top, category, maxArea, stats)
		if category == colorutil.CategoryBlue {
			blue = paths
		} else {
			green = paths
		}
	}

	sort.SliceStable(red, func(i, j int) bool { return red[i].area > red[j].area })
	points := make([]geometry.PointData, len(red))
	for i, r := range red {
		points[i] = r.point
	}

	filtered := t.filter.Execute(map[string]any{
		filtering.KeyRedPoints:       points,
		filtering.KeyBlueStructures:  blue,
		filtering.KeyGreenStructures: green,
	}, t.opts.Limits)

	res.Structures = Structures{
		RedPoints:  filtering.Take[geometry.PointData](filtered, filtering.KeyRedPoints),
		BluePaths:  filtering.Take[Path](filtered, filtering.KeyBlueStructures),
		GreenPaths: filtering.Take[Path](filtered, filtering.KeyGreenStructures),
	}
	stats.RedPoints = len(res.Structures.RedPoints)
	stats.BluePaths = len(res.Structures.BluePaths)
	stats.GreenPaths = len(res.Structures.GreenPaths)

	t.log.Info("traced image",
		"kept", stats.Kept,
		"skipped", stats.Skipped,
		"forced_closed", stats.ForcedClosed,
		"red_points", stats.RedPoints,
		"blue_paths", stats.BluePaths,
		"green_paths", stats.GreenPaths)
	return res, nil
}

// redPoints turns red contours into point markers. Small contours are
// point markers; larger ones within the size range mark their centroid.
func (t *Tracer) redPoints(contours []contour.ClosedContour, maxArea float64, stats *Statistics) []rankedPoint {
	var out []rankedPoint
	for _, c := range contours {
		pts := c.Points()
		small := t.points.IsPoint(pts)
		if !small && (c.Area() < t.opts.MinArea || c.Area() > maxArea) {
			stats.Skipped++
			continue
		}
		center, ok := t.points.ContourCenter(pts)
		if !ok {
			stats.Skipped++
			continue
		}
		pd, err := geometry.NewPointData(center, t.opts.PointRadius, small)
		if err != nil {
			t.log.Warn("skipping red point", "error", err)
			stats.Skipped++
			continue
		}
		t.countKept(c, stats)
		out = append(out, rankedPoint{point: pd, area: c.Area()})
	}
	return out
}

// paths vectorizes blue or green contours, largest first.
func (t *Tracer) paths(contours []contour.ClosedContour, category colorutil.Category, maxArea float64, stats *Statistics) []Path {
	sized := filtering.FilterContoursBySize(contours, t.opts.MinArea, maxArea)
	solid := filtering.FilterByCircularity(sized, t.opts.CircularityThreshold)
	stats.Skipped += len(contours) - len(solid)

	var out []Path
	for _, c := range filtering.SortContoursByArea(solid, true) {
		d, ok := t.fitter.FitCurve(c.Points(), t.opts.Curves.EpsilonFactor)
		if !ok {
			t.log.Debug("curve fitting failed", "category", category.String(), "points", c.Len())
			stats.Skipped++
			continue
		}
		t.countKept(c, stats)
		out = append(out, Path{D: d, Category: category, Area: c.Area(), InitiallyClosed: c.IsClosed()})
	}
	return out
}

func (t *Tracer) countKept(c contour.ClosedContour, stats *Statistics) {
	stats.Kept++
	if c.IsClosed() {
		stats.NaturallyClosed++
	} else {
		stats.ForcedClosed++
	}
}
