package scene

import (
	"fmt"

	"github.com/chazu/suntools/pkg/analysis"
	"github.com/chazu/suntools/pkg/geom"
	"github.com/chazu/suntools/pkg/solar"
	"gonum.org/v1/gonum/spatial/r3"
)

// Role says how a named item participates in analyses.
type Role int

const (
	RolePanel  Role = iota // receiving surface
	RoleSource             // shade device, light source or obstruction
)

func (r Role) String() string {
	switch r {
	case RolePanel:
		return "panel"
	case RoleSource:
		return "source"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// ShapeKind distinguishes mesh items from curve items.
type ShapeKind int

const (
	ShapeMesh ShapeKind = iota
	ShapeCurve
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeMesh:
		return "mesh"
	case ShapeCurve:
		return "curve"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
}

// Item is a named piece of geometry. Exactly one of Mesh and Curve is set,
// matching Shape.
type Item struct {
	Name  string        `json:"name"`
	Role  Role          `json:"role"`
	Shape ShapeKind     `json:"shape"`
	Mesh  *geom.Mesh    `json:"mesh,omitempty"`
	Curve geom.Polyline `json:"curve,omitempty"`
}

// Analysis is one requested analysis. Which fields are used depends on Kind:
//
//	shade        Panels[0], Sources (shade meshes), Suns
//	glare        Panels, Sources (source meshes), Suns
//	view         Panels, Sources (obstruction curves), Suns
//	region-diff  Sources (A curves), Against (B curve), Plane
//	region-inter as region-diff
type Analysis struct {
	Name    string        `json:"name"`
	Kind    analysis.Kind `json:"kind"`
	Panels  []string      `json:"panels,omitempty"`
	Sources []string      `json:"sources,omitempty"`
	Against string        `json:"against,omitempty"`
	Plane   *geom.Plane   `json:"plane,omitempty"`
	Suns    []r3.Vec      `json:"suns,omitempty"`
}

// Scene is the immutable result of evaluating a scene script. Each
// evaluation produces a new Scene.
type Scene struct {
	Items     []*Item           `json:"items"`
	NameIndex map[string]int    `json:"-"`
	Analyses  []*Analysis       `json:"analyses"`
	Tol       *solar.Tolerances `json:"tolerances,omitempty"`
}

// New creates an empty Scene.
func New() *Scene {
	return &Scene{NameIndex: make(map[string]int)}
}

// AddItem appends an item. It does not check for duplicates; a later item
// shadows an earlier one of the same name in Lookup and validation reports
// the clash.
func (s *Scene) AddItem(it *Item) {
	s.NameIndex[it.Name] = len(s.Items)
	s.Items = append(s.Items, it)
}

// AddAnalysis appends an analysis request.
func (s *Scene) AddAnalysis(a *Analysis) {
	s.Analyses = append(s.Analyses, a)
}

// Lookup returns the item with the given name, or nil.
func (s *Scene) Lookup(name string) *Item {
	i, ok := s.NameIndex[name]
	if !ok {
		return nil
	}
	return s.Items[i]
}

// MustLookup returns the item with the given name, or panics.
func (s *Scene) MustLookup(name string) *Item {
	it := s.Lookup(name)
	if it == nil {
		panic(fmt.Sprintf("scene: no item named %q", name))
	}
	return it
}

// Panels returns the panel items in definition order.
func (s *Scene) Panels() []*Item {
	return s.byRole(RolePanel)
}

// Sources returns the source items in definition order.
func (s *Scene) Sources() []*Item {
	return s.byRole(RoleSource)
}

func (s *Scene) byRole(r Role) []*Item {
	var out []*Item
	for _, it := range s.Items {
		if it.Role == r {
			out = append(out, it)
		}
	}
	return out
}

// Tolerances returns the scene override, or base when the scene sets none.
func (s *Scene) Tolerances(base solar.Tolerances) solar.Tolerances {
	if s.Tol == nil {
		return base
	}
	return *s.Tol
}
