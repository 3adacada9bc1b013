// Package report provides the JSON run report written next to CLI output.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sketchgetdp/internal/filtering"

	"github.com/google/uuid"
)

// FormatVersion is the current report layout.
const FormatVersion = 1

// Report describes one bitmaptracer or svg2gmsh run.
type Report struct {
	Version    int       `json:"version"`
	ID         string    `json:"id"`
	Tool       string    `json:"tool"`
	Created    time.Time `json:"created"`
	Input      string    `json:"input"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	OutputPath string    `json:"output_path,omitempty"`

	Statistics Statistics `json:"statistics"`
	Metadata   Metadata   `json:"metadata"`

	Contours *ContourStats `json:"contours,omitempty"`
	Mesh     *MeshSummary  `json:"mesh,omitempty"`
}

// Statistics counts emitted structures.
type Statistics struct {
	RedPoints       int `json:"red_points"`
	BluePaths       int `json:"blue_paths"`
	GreenPaths      int `json:"green_paths"`
	TotalStructures int `json:"total_structures"`
}

// NewStatistics fills in the total.
func NewStatistics(red, blue, green int) Statistics {
	return Statistics{RedPoints: red, BluePaths: blue, GreenPaths: green, TotalStructures: red + blue + green}
}

// Metadata records the run settings.
type Metadata struct {
	ImageSize    string            `json:"image_size,omitempty"`
	ConfigLimits *filtering.Limits `json:"config_limits,omitempty"`
	MeshSize     float64           `json:"mesh_size,omitempty"`
}

// ContourStats mirrors the tracer's per-contour bookkeeping.
type ContourStats struct {
	Total           int `json:"total"`
	Kept            int `json:"kept"`
	Skipped         int `json:"skipped"`
	NaturallyClosed int `json:"naturally_closed"`
	ForcedClosed    int `json:"forced_closed"`
}

// MeshSummary describes a grouped SVG and the generated geometry.
type MeshSummary struct {
	Colors     map[string]ColorSummary `json:"colors"`
	Electrodes int                     `json:"electrodes"`
	Points     int                     `json:"points"`
	Curves     int                     `json:"curves"`
	Surfaces   int                     `json:"surfaces"`
	Physicals  []string                `json:"physicals"`
}

// ColorSummary counts boundaries of one color.
type ColorSummary struct {
	Boundaries int `json:"boundaries"`
	Points     int `json:"points"`
	Closed     int `json:"closed"`
}

// New starts a report for tool reading input.
func New(tool, input string) *Report {
	return &Report{
		Version: FormatVersion,
		ID:      uuid.NewString(),
		Tool:    tool,
		Created: time.Now().UTC(),
		Input:   input,
	}
}

// Succeed marks the run successful.
func (r *Report) Succeed(stats Statistics) {
	r.Success = true
	r.Error = ""
	r.Statistics = stats
}

// Fail marks the run failed and clears the statistics.
func (r *Report) Fail(err error) {
	r.Success = false
	r.Error = err.Error()
	r.Statistics = Statistics{}
}

// SetOutput records outputPath relative to the report file.
func (r *Report) SetOutput(reportPath, outputPath string) {
	rel, err := filepath.Rel(filepath.Dir(reportPath), outputPath)
	if err != nil {
		r.OutputPath = outputPath
		return
	}
	r.OutputPath = rel
}

// Output returns the output path resolved against the report file.
func (r *Report) Output(reportPath string) string {
	if r.OutputPath == "" || filepath.IsAbs(r.OutputPath) {
		return r.OutputPath
	}
	return filepath.Join(filepath.Dir(reportPath), r.OutputPath)
}

// Load reads a report file.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	if r.Version > FormatVersion {
		return nil, fmt.Errorf("report version %d is newer than supported %d", r.Version, FormatVersion)
	}
	return &r, nil
}

// Save writes the report as indented JSON.
func (r *Report) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
