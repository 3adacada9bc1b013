package curvefit

// Options configures the curve fitter.
type Options struct {
	// AngleThreshold is the smallest vertex deflection (degrees) rendered as a
	// curve. Smaller deflections are treated as straight runs.
	AngleThreshold float64 `yaml:"angle_threshold" json:"angle_threshold"`
	// MinCurveAngle is the largest deflection (degrees) still rendered as a
	// curve. Sharper turns are kept as corners.
	MinCurveAngle float64 `yaml:"min_curve_angle" json:"min_curve_angle"`
	// EpsilonFactor scales the contour perimeter into the simplification
	// tolerance.
	EpsilonFactor float64 `yaml:"epsilon_factor" json:"epsilon_factor"`
	// ClosureThreshold is the endpoint gap (pixels) above which a simplified
	// contour is force-closed.
	ClosureThreshold float64 `yaml:"closure_threshold" json:"closure_threshold"`
}

// DefaultOptions returns the tuned defaults for hand-drawn sketches.
func DefaultOptions() Options {
	return Options{
		AngleThreshold:   25,
		MinCurveAngle:    120,
		EpsilonFactor:    0.0015,
		ClosureThreshold: 10,
	}
}

// WithAngles returns a copy of the options with new angle bounds.
func (o Options) WithAngles(threshold, minCurve float64) Options {
	o.AngleThreshold = threshold
	o.MinCurveAngle = minCurve
	return o
}

// WithEpsilonFactor returns a copy of the options with a new simplification factor.
func (o Options) WithEpsilonFactor(f float64) Options {
	o.EpsilonFactor = f
	return o
}

// WithClosureThreshold returns a copy of the options with a new closure threshold.
func (o Options) WithClosureThreshold(px float64) Options {
	o.ClosureThreshold = px
	return o
}
