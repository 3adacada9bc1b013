// Package config loads the YAML configuration shared by bitmaptracer and
// svg2gmsh.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"sketchgetdp/internal/curvefit"
	"sketchgetdp/internal/filtering"
	"sketchgetdp/internal/mesh"
	"sketchgetdp/internal/pointdetect"
	"sketchgetdp/internal/svgparse"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid value")

// ContourConfig filters detected contours before vectorization.
type ContourConfig struct {
	MinArea              float64 `yaml:"min_area"`
	MaxAreaRatio         float64 `yaml:"max_area_ratio"`
	ClosureTolerance     float64 `yaml:"closure_tolerance"`
	CircularityThreshold float64 `yaml:"circularity_threshold"`
}

// SVGConfig styles the traced SVG document.
type SVGConfig struct {
	PointRadius float64 `yaml:"point_radius"`
	StrokeWidth float64 `yaml:"stroke_width"`
	BlueColor   string  `yaml:"blue_color"`
	RedColor    string  `yaml:"red_color"`
	GreenColor  string  `yaml:"green_color"`
}

// DetectionConfig drives raster contour detection.
type DetectionConfig struct {
	BlockSize       int     `yaml:"block_size"`
	C               float64 `yaml:"c"`
	KernelSize      int     `yaml:"kernel_size"`
	CloseIterations int     `yaml:"close_iterations"`
	OpenIterations  int     `yaml:"open_iterations"`
}

// MeshConfig drives svg2gmsh.
type MeshConfig struct {
	MeshSize         float64              `yaml:"mesh_size"`
	ClosureTolerance float64              `yaml:"closure_tolerance"`
	Roles            map[string]mesh.Role `yaml:"roles"`
	Corners          mesh.CornerDetector  `yaml:"corners"`
	Fitter           mesh.Fitter          `yaml:"fitter"`
	SVG              svgparse.Options     `yaml:"svg"`
}

// Config is the root document. Bitmap tracing keys live at the top level.
type Config struct {
	Contours  ContourConfig      `yaml:",inline"`
	Points    pointdetect.Config `yaml:",inline"`
	Curves    curvefit.Options   `yaml:",inline"`
	Limits    filtering.Limits   `yaml:",inline"`
	SVG       SVGConfig          `yaml:",inline"`
	Detection DetectionConfig    `yaml:"detection"`
	Mesh      MeshConfig         `yaml:"mesh"`

	// CoilCurrents maps coil_1, coil_2, ... to +1 or -1.
	CoilCurrents map[string]int `yaml:"coil_currents"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Contours: ContourConfig{
			MinArea:              150,
			MaxAreaRatio:         0.8,
			ClosureTolerance:     5,
			CircularityThreshold: 0.01,
		},
		Points: pointdetect.DefaultConfig(),
		Curves: curvefit.DefaultOptions(),
		SVG: SVGConfig{
			PointRadius: 4,
			StrokeWidth: 2,
			BlueColor:   "#0000FF",
			RedColor:    "#FF0000",
			GreenColor:  "#00FF00",
		},
		Detection: DetectionConfig{
			BlockSize:       15,
			C:               5,
			KernelSize:      3,
			CloseIterations: 2,
			OpenIterations:  1,
		},
		Mesh: MeshConfig{
			MeshSize:         0.1,
			ClosureTolerance: 5,
			Roles:            mesh.DefaultRoles(),
			Corners:          mesh.DefaultCornerDetector(),
			Fitter:           mesh.DefaultFitter(),
			SVG:              svgparse.DefaultOptions(),
		},
		CoilCurrents: map[string]int{},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first out-of-range value.
func (c *Config) Validate() error {
	switch {
	case c.Contours.MinArea < 0:
		return fmt.Errorf("%w: min_area %g", ErrInvalidConfig, c.Contours.MinArea)
	case c.Contours.MaxAreaRatio <= 0 || c.Contours.MaxAreaRatio > 1:
		return fmt.Errorf("%w: max_area_ratio %g", ErrInvalidConfig, c.Contours.MaxAreaRatio)
	case c.Contours.ClosureTolerance < 0:
		return fmt.Errorf("%w: closure_tolerance %g", ErrInvalidConfig, c.Contours.ClosureTolerance)
	case c.Curves.AngleThreshold < 0 || c.Curves.MinCurveAngle > 180 || c.Curves.AngleThreshold > c.Curves.MinCurveAngle:
		return fmt.Errorf("%w: angle_threshold %g / min_curve_angle %g", ErrInvalidConfig, c.Curves.AngleThreshold, c.Curves.MinCurveAngle)
	case c.Curves.EpsilonFactor < 0:
		return fmt.Errorf("%w: epsilon_factor %g", ErrInvalidConfig, c.Curves.EpsilonFactor)
	case c.Limits.RedDots < 0 || c.Limits.BluePaths < 0 || c.Limits.GreenPaths < 0:
		return fmt.Errorf("%w: structure limits must not be negative", ErrInvalidConfig)
	case c.Detection.BlockSize < 3 || c.Detection.BlockSize%2 == 0:
		return fmt.Errorf("%w: detection.block_size %d must be odd and >= 3", ErrInvalidConfig, c.Detection.BlockSize)
	case c.Detection.KernelSize < 1:
		return fmt.Errorf("%w: detection.kernel_size %d", ErrInvalidConfig, c.Detection.KernelSize)
	case c.Mesh.MeshSize <= 0:
		return fmt.Errorf("%w: mesh.mesh_size %g", ErrInvalidConfig, c.Mesh.MeshSize)
	case c.Mesh.Fitter.Degree < 1:
		return fmt.Errorf("%w: mesh.fitter.degree %d", ErrInvalidConfig, c.Mesh.Fitter.Degree)
	}
	for color, role := range c.Mesh.Roles {
		col, err := mesh.ColorByName(color)
		if err != nil {
			return fmt.Errorf("%w: mesh.roles: %v", ErrInvalidConfig, err)
		}
		if col.Is(mesh.Red) {
			return fmt.Errorf("%w: mesh.roles.red: red marks electrodes and takes no domain role", ErrInvalidConfig)
		}
		if _, err := role.Domain(); err != nil {
			return fmt.Errorf("%w: mesh.roles.%s: %v", ErrInvalidConfig, color, err)
		}
	}
	for name, sign := range c.CoilCurrents {
		if sign != 1 && sign != -1 {
			return fmt.Errorf("%w: coil_currents.%s = %d, want 1 or -1", ErrInvalidConfig, name, sign)
		}
	}
	return nil
}

// CurveOptions returns the curve fitter settings.
func (c *Config) CurveOptions() curvefit.Options { return c.Curves }

// PointConfig returns the point detector settings.
func (c *Config) PointConfig() pointdetect.Config { return c.Points }

// StructureLimits returns the per-color structure limits.
func (c *Config) StructureLimits() filtering.Limits { return c.Limits }

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
