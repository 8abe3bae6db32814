package scene

import (
	"errors"
	"fmt"

	"github.com/chazu/suntools/pkg/analysis"
	"github.com/chazu/suntools/pkg/geom"
	"github.com/chazu/suntools/pkg/solar"
	"gonum.org/v1/gonum/spatial/r3"
)

// Builder provides a fluent API for building scenes from Go code. Unlike
// AddItem, it rejects a name that is already defined. Errors are collected
// and reported together by Build.
type Builder struct {
	scene *Scene
	errs  []error
}

// NewBuilder creates a builder over an empty scene.
func NewBuilder() *Builder {
	return &Builder{scene: New()}
}

func (b *Builder) add(it *Item) *Builder {
	if it.Name == "" {
		b.errs = append(b.errs, errors.New("scene: item name is empty"))
		return b
	}
	if b.scene.Lookup(it.Name) != nil {
		b.errs = append(b.errs, fmt.Errorf("scene: item %q already defined", it.Name))
		return b
	}
	b.scene.AddItem(it)
	return b
}

// Panel adds a panel mesh.
func (b *Builder) Panel(name string, m *geom.Mesh) *Builder {
	return b.add(&Item{Name: name, Role: RolePanel, Shape: ShapeMesh, Mesh: m})
}

// Source adds a source mesh: a shade, glare source or obstruction.
func (b *Builder) Source(name string, m *geom.Mesh) *Builder {
	return b.add(&Item{Name: name, Role: RoleSource, Shape: ShapeMesh, Mesh: m})
}

// Curve adds a source curve for view and region analyses.
func (b *Builder) Curve(name string, c geom.Polyline) *Builder {
	return b.add(&Item{Name: name, Role: RoleSource, Shape: ShapeCurve, Curve: c})
}

// Tolerances overrides the run tolerances for this scene.
func (b *Builder) Tolerances(t solar.Tolerances) *Builder {
	b.scene.Tol = &t
	return b
}

// Shade adds a shade analysis of panel by shades.
func (b *Builder) Shade(name, panel string, shades []string, suns ...r3.Vec) *Builder {
	b.scene.AddAnalysis(&Analysis{Name: name, Kind: analysis.KindShade, Panels: []string{panel}, Sources: shades, Suns: suns})
	return b
}

// Glare adds a glare analysis of every source on every panel.
func (b *Builder) Glare(name string, panels, sources []string, suns ...r3.Vec) *Builder {
	b.scene.AddAnalysis(&Analysis{Name: name, Kind: analysis.KindGlare, Panels: panels, Sources: sources, Suns: suns})
	return b
}

// View adds a view analysis of every panel past every obstruction.
func (b *Builder) View(name string, panels, obstructions []string, suns ...r3.Vec) *Builder {
	b.scene.AddAnalysis(&Analysis{Name: name, Kind: analysis.KindView, Panels: panels, Sources: obstructions, Suns: suns})
	return b
}

// Region adds a region-diff or region-inter analysis of each curve in a
// against the curve named against. A nil plane is fitted through against.
func (b *Builder) Region(name string, kind analysis.Kind, a []string, against string, plane *geom.Plane) *Builder {
	if kind != analysis.KindRegionDiff && kind != analysis.KindRegionInter {
		b.errs = append(b.errs, fmt.Errorf("scene: %q is not a region kind", kind))
		return b
	}
	b.scene.AddAnalysis(&Analysis{Name: name, Kind: kind, Sources: a, Against: against, Plane: plane})
	return b
}

// Build validates the scene structurally and returns it. Builder errors and
// validation errors are joined into one error.
func (b *Builder) Build() (*Scene, error) {
	errs := append([]error(nil), b.errs...)
	for _, ve := range Validate(b.scene) {
		errs = append(errs, ve)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return b.scene, nil
}
