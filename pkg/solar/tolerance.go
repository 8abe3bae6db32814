package solar

import "fmt"

// Tolerances collects the tolerances threaded through the engine.
type Tolerances struct {
	// CurveTolerance is the coplanarity, closure and contact tolerance for
	// curve classification and region algebra.
	CurveTolerance float64 `yaml:"curve" json:"curve"`
	// MeshSplitTolerance welds vertices and extracts naked edges of meshes.
	MeshSplitTolerance float64 `yaml:"mesh_split" json:"mesh_split"`
	// HullClosureTolerance decides whether a hull chain needs closing.
	HullClosureTolerance float64 `yaml:"hull_closure" json:"hull_closure"`
	// CutterThickness is the depth of the slab used to split panels.
	CutterThickness float64 `yaml:"cutter_thickness" json:"cutter_thickness"`
}

// DefaultTolerances returns the stock tolerance set.
func DefaultTolerances() Tolerances {
	return Tolerances{
		CurveTolerance:       1e-3,
		MeshSplitTolerance:   1e-4,
		HullClosureTolerance: 1e-2,
		CutterThickness:      1.0,
	}
}

// Validate rejects non-positive values.
func (t Tolerances) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"curve", t.CurveTolerance},
		{"mesh_split", t.MeshSplitTolerance},
		{"hull_closure", t.HullClosureTolerance},
		{"cutter_thickness", t.CutterThickness},
	} {
		if !(f.v > 0) {
			return fmt.Errorf("solar: tolerance %s must be positive, got %g", f.name, f.v)
		}
	}
	return nil
}
