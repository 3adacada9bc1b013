package mesh

import (
	"fmt"
	"sort"

	"sketchgetdp/pkg/geometry"
)

// PointElectrode is an isolated colored marker. Name and Group are set by
// AssignCoils.
type PointElectrode struct {
	Point geometry.Point
	Color Color
	Name  string
	Group PhysicalGroup
}

// SortElectrodes returns a copy ordered top to bottom (descending y in a
// y-up frame), then left to right.
func SortElectrodes(electrodes []PointElectrode) []PointElectrode {
	out := append([]PointElectrode(nil), electrodes...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Point, out[j].Point
		if a.Y != b.Y {
			return a.Y > b.Y
		}
		return a.X < b.X
	})
	return out
}

// CoilName returns the configuration key of the i-th electrode (0-based).
func CoilName(i int) string {
	return fmt.Sprintf("coil_%d", i+1)
}

// AssignCoils sorts the electrodes and labels each one as a positive or
// negative coil from currents, keyed by CoilName. Every electrode needs a
// sign of +1 or -1.
func AssignCoils(electrodes []PointElectrode, currents map[string]int) ([]PointElectrode, error) {
	out := SortElectrodes(electrodes)
	for i := range out {
		name := CoilName(i)
		sign, ok := currents[name]
		if !ok {
			return nil, fmt.Errorf("%w: no current sign configured for %s", ErrInvalidGroup, name)
		}
		switch sign {
		case 1:
			out[i].Group = DomainCoilPositive
		case -1:
			out[i].Group = DomainCoilNegative
		default:
			return nil, fmt.Errorf("%w: invalid current sign %d for %s", ErrInvalidGroup, sign, name)
		}
		out[i].Name = name
	}
	return out, nil
}
