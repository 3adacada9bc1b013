// Command svg2gmsh converts a colored SVG sketch into a gmsh .geo script
// with physical groups for the magnetostatic domains and coils.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"sketchgetdp/internal/config"
	"sketchgetdp/internal/geo"
	"sketchgetdp/internal/logging"
	"sketchgetdp/internal/mesh"
	"sketchgetdp/internal/report"
	"sketchgetdp/internal/svgparse"
	"sketchgetdp/internal/version"
)

func main() {
	svgPath := flag.String("svg", "", "Path to colored SVG sketch")
	configPath := flag.String("config", "config.yaml", "Path to YAML configuration")
	outPath := flag.String("o", "", "Output .geo path (default: <svg>.geo)")
	reportPath := flag.String("report", "", "Optional JSON report path")
	verbose := flag.Bool("v", false, "Verbose logging")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("svg2gmsh"))
		return
	}
	if *svgPath == "" {
		fmt.Println("Usage: svg2gmsh -svg <path> [-config config.yaml] [-o out.geo] [-report out.json] [-v]")
		os.Exit(1)
	}
	if *outPath == "" {
		*outPath = strings.TrimSuffix(*svgPath, filepath.Ext(*svgPath)) + ".geo"
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := logging.New(level)

	rep := report.New("svg2gmsh", *svgPath)
	if err := run(*svgPath, *configPath, *outPath, *reportPath, rep, log); err != nil {
		fmt.Fprintf(os.Stderr, "Conversion failed: %v\n", err)
		rep.Fail(err)
		saveReport(rep, *reportPath)
		os.Exit(1)
	}
	saveReport(rep, *reportPath)
}

func run(svgPath, configPath, outPath, reportPath string, rep *report.Report, log *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	doc, err := svgparse.New(cfg.Mesh.SVG, log).ParseFile(svgPath)
	if err != nil {
		return err
	}
	fmt.Printf("Parsed %s: %d boundaries, %d markers\n", svgPath, len(doc.Boundaries), len(doc.Markers))

	grouper := mesh.NewGrouper(cfg.Mesh.Roles, cfg.Mesh.ClosureTolerance, log)
	grouper.Corners = cfg.Mesh.Corners
	grouper.Fitter = cfg.Mesh.Fitter
	grouping, err := grouper.Group(doc.Boundaries, doc.Markers)
	if err != nil {
		return err
	}
	grouping.Electrodes, err = mesh.AssignCoils(grouping.Electrodes, cfg.CoilCurrents)
	if err != nil {
		return err
	}

	fmt.Printf("\nBoundaries:\n")
	for i, gc := range grouping.Curves {
		fmt.Printf("  %2d %-6s %-10s segments=%d holes=%v groups=%s\n",
			i, gc.Curve.Color, gc.Role, len(gc.Curve.Segments), gc.Holes, groupNames(gc.Groups))
	}
	for _, e := range grouping.Electrodes {
		fmt.Printf("  %s at (%.4f, %.4f) -> %s\n", e.Name, e.Point.X, e.Point.Y, e.Group.Name)
	}

	script, err := geo.NewBuilder(cfg.Mesh.MeshSize, log).Build(grouping)
	if err != nil {
		return err
	}
	if err := script.WriteFile(outPath); err != nil {
		return err
	}
	fmt.Printf("\nWrote %s: %d points, %d curves, %d surfaces, %d physical groups\n",
		outPath, len(script.Points), len(script.Curves), len(script.Surfaces), len(script.Physicals))

	rep.Succeed(statistics(doc))
	rep.Metadata = report.Metadata{MeshSize: script.MeshSize}
	rep.Mesh = summarize(doc, grouping, script)
	if reportPath != "" {
		rep.SetOutput(reportPath, outPath)
	}
	return nil
}

// statistics counts boundaries per primary color and markers as red points.
func statistics(doc *svgparse.Document) report.Statistics {
	red := len(doc.Markers)
	var blue, green int
	for _, b := range doc.Boundaries {
		switch b.Color {
		case mesh.Red:
			red++
		case mesh.Blue:
			blue++
		case mesh.Green:
			green++
		}
	}
	return report.NewStatistics(red, blue, green)
}

func summarize(doc *svgparse.Document, g *mesh.Grouping, s *geo.Script) *report.MeshSummary {
	sum := &report.MeshSummary{
		Colors:     map[string]report.ColorSummary{},
		Electrodes: len(g.Electrodes),
		Points:     len(s.Points),
		Curves:     len(s.Curves),
		Surfaces:   len(s.Surfaces),
	}
	for _, b := range doc.Boundaries {
		cs := sum.Colors[b.Color.Name()]
		cs.Boundaries++
		cs.Points += len(b.Points)
		if b.Closed {
			cs.Closed++
		}
		sum.Colors[b.Color.Name()] = cs
	}
	for _, p := range s.Physicals {
		sum.Physicals = append(sum.Physicals, p.Name)
	}
	return sum
}

func groupNames(groups []mesh.PhysicalGroup) string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}
	return "[" + strings.Join(names, " ") + "]"
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
