package mesh

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidGroup is returned when a physical group violates its rules.
var ErrInvalidGroup = errors.New("mesh: invalid physical group")

// GroupKind distinguishes surfaces from curves in the mesh.
type GroupKind int

const (
	KindDomain GroupKind = iota
	KindBoundary
)

func (k GroupKind) String() string {
	switch k {
	case KindDomain:
		return "domain"
	case KindBoundary:
		return "boundary"
	default:
		return "unknown"
	}
}

// PhysicalGroup labels a set of mesh entities for the solver.
type PhysicalGroup struct {
	Name        string
	Description string
	Kind        GroupKind
	Tag         int
	Color       Color // zero when the group is not tied to a sketch color
	CurrentSign int   // +1 or -1 for coils, 0 otherwise
}

// NewPhysicalGroup validates the coil rules: coil domains carry a current
// sign and are red, every other group has no sign.
func NewPhysicalGroup(name, description string, kind GroupKind, tag int, color Color, sign int) (PhysicalGroup, error) {
	g := PhysicalGroup{Name: name, Description: description, Kind: kind, Tag: tag, Color: color, CurrentSign: sign}
	if err := g.Validate(); err != nil {
		return PhysicalGroup{}, err
	}
	return g, nil
}

// Validate checks the group invariants.
func (g PhysicalGroup) Validate() error {
	if g.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidGroup)
	}
	if g.Kind != KindDomain && g.Kind != KindBoundary {
		return fmt.Errorf("%w: %s has unknown kind", ErrInvalidGroup, g.Name)
	}
	if g.CurrentSign != 0 && g.CurrentSign != 1 && g.CurrentSign != -1 {
		return fmt.Errorf("%w: %s has current sign %d", ErrInvalidGroup, g.Name, g.CurrentSign)
	}
	if strings.Contains(g.Name, "coil") {
		if g.CurrentSign == 0 {
			return fmt.Errorf("%w: coil %s needs a current sign", ErrInvalidGroup, g.Name)
		}
		if !g.Color.Is(Red) {
			return fmt.Errorf("%w: coil %s must be red", ErrInvalidGroup, g.Name)
		}
	} else if g.CurrentSign != 0 {
		return fmt.Errorf("%w: only coils carry a current sign, got %s", ErrInvalidGroup, g.Name)
	}
	return nil
}

// IsCoil reports whether g is a coil domain.
func (g PhysicalGroup) IsCoil() bool {
	return g.Kind == KindDomain && strings.Contains(g.Name, "coil")
}

// IsDomain reports whether g labels surfaces.
func (g PhysicalGroup) IsDomain() bool { return g.Kind == KindDomain }

// IsBoundary reports whether g labels curves.
func (g PhysicalGroup) IsBoundary() bool { return g.Kind == KindBoundary }

// The fixed set of physical groups understood by the solver templates.
var (
	DomainVa = PhysicalGroup{
		Name: "domain_Va", Description: "Va domain", Kind: KindDomain, Tag: 1,
	}
	DomainViIron = PhysicalGroup{
		Name: "domain_Vi_iron", Description: "Iron domain in Vi region", Kind: KindDomain, Tag: 2, Color: Blue,
	}
	DomainViAir = PhysicalGroup{
		Name: "domain_Vi_air", Description: "Air domain in Vi region", Kind: KindDomain, Tag: 3, Color: Green,
	}
	DomainCoilPositive = PhysicalGroup{
		Name: "domain_coil_positive", Description: "Coil domain with positive current", Kind: KindDomain, Tag: 101, Color: Red, CurrentSign: 1,
	}
	DomainCoilNegative = PhysicalGroup{
		Name: "domain_coil_negative", Description: "Coil domain with negative current", Kind: KindDomain, Tag: 102, Color: Red, CurrentSign: -1,
	}
	BoundaryGamma = PhysicalGroup{
		Name: "boundary_gamma", Description: "Interface boundary between Vi and Va regions", Kind: KindBoundary, Tag: 11,
	}
	BoundaryOut = PhysicalGroup{
		Name: "boundary_out", Description: "Outermost boundary", Kind: KindBoundary, Tag: 12,
	}
)

// Role is the domain classification assigned to a colored boundary.
type Role string

const (
	RoleVa     Role = "va"
	RoleViIron Role = "vi_iron"
	RoleViAir  Role = "vi_air"
)

// Domain returns the physical group of the role.
func (r Role) Domain() (PhysicalGroup, error) {
	switch r {
	case RoleVa:
		return DomainVa, nil
	case RoleViIron:
		return DomainViIron, nil
	case RoleViAir:
		return DomainViAir, nil
	}
	return PhysicalGroup{}, fmt.Errorf("%w: unknown role %q", ErrInvalidGroup, string(r))
}

// IsVi reports whether the role is one of the Vi regions.
func (r Role) IsVi() bool { return r == RoleViIron || r == RoleViAir }

// DefaultRoles maps sketch colors to domain roles. Red marks electrodes and
// has no domain role.
func DefaultRoles() map[string]Role {
	return map[string]Role{
		"blue":  RoleViIron,
		"green": RoleViAir,
	}
}
