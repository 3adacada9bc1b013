// Command bitmaptracer converts a colored hand-drawn sketch into an SVG of
// blue and green paths and red point markers.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"sketchgetdp/internal/config"
	"sketchgetdp/internal/logging"
	"sketchgetdp/internal/report"
	"sketchgetdp/internal/svgdoc"
	"sketchgetdp/internal/trace"
	"sketchgetdp/internal/version"
)

func main() {
	imagePath := flag.String("image", "", "Path to sketch image (PNG, JPEG, TIFF, BMP or WebP)")
	configPath := flag.String("config", "config.yaml", "Path to YAML configuration")
	outPath := flag.String("o", "", "Output SVG path (default: <image>.svg)")
	reportPath := flag.String("report", "", "Optional JSON report path")
	verbose := flag.Bool("v", false, "Verbose logging")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("bitmaptracer"))
		return
	}
	if *imagePath == "" {
		fmt.Println("Usage: bitmaptracer -image <path> [-config config.yaml] [-o out.svg] [-report out.json] [-v]")
		os.Exit(1)
	}
	if *outPath == "" {
		*outPath = strings.TrimSuffix(*imagePath, filepath.Ext(*imagePath)) + ".svg"
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := logging.New(level)

	rep := report.New("bitmaptracer", *imagePath)
	if err := run(*imagePath, *configPath, *outPath, *reportPath, rep, log); err != nil {
		fmt.Fprintf(os.Stderr, "Tracing failed: %v\n", err)
		rep.Fail(err)
		saveReport(rep, *reportPath)
		os.Exit(1)
	}
	saveReport(rep, *reportPath)
}

func run(imagePath, configPath, outPath, reportPath string, rep *report.Report, log *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	tracer := trace.NewTracer(traceOptions(cfg), log)
	fmt.Printf("Tracing %s...\n", imagePath)
	res, err := tracer.TraceFile(imagePath)
	if err != nil {
		return err
	}
	fmt.Printf("Image: %dx%d pixels, %d contours\n", res.Width, res.Height, res.Stats.TotalContours)

	style := svgdoc.Style{
		PointRadius: cfg.SVG.PointRadius,
		StrokeWidth: cfg.SVG.StrokeWidth,
		BlueColor:   cfg.SVG.BlueColor,
		RedColor:    cfg.SVG.RedColor,
		GreenColor:  cfg.SVG.GreenColor,
	}
	doc := svgdoc.New(res.Width, res.Height)
	doc.AddPaths(pathData(res.Structures.BluePaths), style.BlueColor, style)
	doc.AddPaths(pathData(res.Structures.GreenPaths), style.GreenColor, style)
	doc.AddPoints(res.Structures.RedPoints, style)
	if err := doc.WriteFile(outPath); err != nil {
		return err
	}

	s := res.Stats
	fmt.Printf("\nWrote %s\n", outPath)
	fmt.Printf("  Red points:  %d\n", s.RedPoints)
	fmt.Printf("  Blue paths:  %d\n", s.BluePaths)
	fmt.Printf("  Green paths: %d\n", s.GreenPaths)
	fmt.Printf("  Contours kept %d, skipped %d, force-closed %d\n", s.Kept, s.Skipped, s.ForcedClosed)

	limits := cfg.StructureLimits()
	rep.Succeed(report.NewStatistics(s.RedPoints, s.BluePaths, s.GreenPaths))
	rep.Metadata = report.Metadata{
		ImageSize:    fmt.Sprintf("%dx%d", res.Width, res.Height),
		ConfigLimits: &limits,
	}
	rep.Contours = &report.ContourStats{
		Total:           s.TotalContours,
		Kept:            s.Kept,
		Skipped:         s.Skipped,
		NaturallyClosed: s.NaturallyClosed,
		ForcedClosed:    s.ForcedClosed,
	}
	if reportPath != "" {
		rep.SetOutput(reportPath, outPath)
	}
	return nil
}

func traceOptions(cfg *config.Config) trace.Options {
	return trace.Options{
		MinArea:              cfg.Contours.MinArea,
		MaxAreaRatio:         cfg.Contours.MaxAreaRatio,
		ClosureTolerance:     cfg.Contours.ClosureTolerance,
		CircularityThreshold: cfg.Contours.CircularityThreshold,
		PointRadius:          cfg.SVG.PointRadius,
		Detection: trace.DetectionOptions{
			BlockSize:       cfg.Detection.BlockSize,
			C:               cfg.Detection.C,
			KernelSize:      cfg.Detection.KernelSize,
			CloseIterations: cfg.Detection.CloseIterations,
			OpenIterations:  cfg.Detection.OpenIterations,
		},
		Curves: cfg.CurveOptions(),
		Points: cfg.PointConfig(),
		Limits: cfg.StructureLimits(),
	}
}

func pathData(paths []trace.Path) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = p.D
	}
	return out
}

func saveReport(rep *report.Report, path string) {
	if path == "" {
		return
	}
	if err := rep.Save(path); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save report: %v\n", err)
		return
	}
	fmt.Printf("Report saved to %s\n", path)
}
