package scene

import (
	"fmt"
	"math"

	"github.com/chazu/suntools/pkg/analysis"
	"github.com/chazu/suntools/pkg/kernel"
	"github.com/chazu/suntools/pkg/solar"
	"gonum.org/v1/gonum/spatial/r3"
)

// smallPanelFactor scales CurveTolerance² into the area below which a panel
// is reported as suspiciously small.
const smallPanelFactor = 100

// ---------------------------------------------------------------------------
// Tier 2: Geometric validation (errors + warnings)
// ---------------------------------------------------------------------------

// validateGeometry runs all Tier 2 geometric checks.
// Returns errors (blocking) and warnings (advisory) separately.
func validateGeometry(s *Scene, k kernel.Kernel, tol solar.Tolerances) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	meshErrs, meshWarnings := validateMeshes(s, k, tol)
	errs = append(errs, meshErrs...)
	warnings = append(warnings, meshWarnings...)

	curveErrs, curveWarnings := validateCurves(s, tol)
	errs = append(errs, curveErrs...)
	warnings = append(warnings, curveWarnings...)

	errs = append(errs, validateVectors(s)...)
	return errs, warnings
}

// boundedSources returns the names of source meshes whose outline is
// projected directly, which requires a single boundary loop.
func boundedSources(s *Scene) map[string]bool {
	out := make(map[string]bool)
	for _, a := range s.Analyses {
		if a.Kind != analysis.KindGlare {
			continue
		}
		for _, name := range a.Sources {
			out[name] = true
		}
	}
	return out
}

// validateMeshes checks mesh validity, degenerate faces and the boundary
// loop count of panels and glare sources.
func validateMeshes(s *Scene, k kernel.Kernel, tol solar.Tolerances) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning
	bounded := boundedSources(s)

	for _, it := range s.Items {
		if it.Shape != ShapeMesh || it.Mesh == nil {
			continue
		}
		if err := it.Mesh.Validate(); err != nil {
			errs = append(errs, ValidationError{Name: it.Name, Message: err.Error(), Severity: SeverityError})
			continue
		}

		degenerate := 0
		for i := range it.Mesh.Faces {
			if it.Mesh.FaceArea(i) <= tol.CurveTolerance*tol.CurveTolerance {
				degenerate++
			}
		}
		if degenerate > 0 {
			warnings = append(warnings, ValidationWarning{
				Name:    it.Name,
				Message: fmt.Sprintf("%d of %d faces are degenerate", degenerate, len(it.Mesh.Faces)),
			})
		}

		if it.Role == RolePanel || bounded[it.Name] {
			loops := k.NakedEdges(it.Mesh, tol.MeshSplitTolerance)
			if len(loops) != 1 {
				errs = append(errs, ValidationError{
					Name:     it.Name,
					Message:  fmt.Sprintf("%s has %d naked edge loops, want 1", it.Role, len(loops)),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs, warnings
}

// validateCurves requires at least three distinct corners and warns about
// open curves, which are closed implicitly.
func validateCurves(s *Scene, tol solar.Tolerances) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning
	for _, it := range s.Items {
		if it.Shape != ShapeCurve || len(it.Curve) == 0 {
			continue
		}
		corners := it.Curve.Open(tol.CurveTolerance)
		if len(corners) < 3 {
			errs = append(errs, ValidationError{
				Name:     it.Name,
				Message:  fmt.Sprintf("curve has %d distinct points, want at least 3", len(corners)),
				Severity: SeverityError,
			})
			continue
		}
		if !it.Curve.IsClosed(tol.CurveTolerance) {
			warnings = append(warnings, ValidationWarning{
				Name:    it.Name,
				Message: "curve is open and will be treated as closed",
			})
		}
	}
	return errs, warnings
}

// validateVectors rejects zero or non-finite sun vectors and region planes
// without a normal.
func validateVectors(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, a := range s.Analyses {
		for i, v := range a.Suns {
			n := r3.Norm(v)
			if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
				errs = append(errs, ValidationError{
					Name:     a.Name,
					Message:  fmt.Sprintf("sun vector %d is zero or not finite", i),
					Severity: SeverityError,
				})
			}
		}
		if a.Plane != nil && r3.Norm(a.Plane.Normal) == 0 {
			errs = append(errs, ValidationError{
				Name:     a.Name,
				Message:  "plane normal has zero length",
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// ---------------------------------------------------------------------------
// Tier 3: Exposure advisories (warnings only)
// ---------------------------------------------------------------------------

// validateExposure warns about suns that reach a panel from behind or run
// parallel to it, and about panels too small to analyse meaningfully.
func validateExposure(s *Scene, k kernel.Kernel, tol solar.Tolerances) []ValidationWarning {
	var warnings []ValidationWarning

	for _, it := range s.Panels() {
		if it.Shape != ShapeMesh || it.Mesh == nil {
			continue
		}
		area, _ := k.MeshAreaCentroid(it.Mesh)
		if limit := smallPanelFactor * tol.CurveTolerance * tol.CurveTolerance; area < limit {
			warnings = append(warnings, ValidationWarning{
				Name:    it.Name,
				Message: fmt.Sprintf("panel area %.3g is below %.3g", area, limit),
			})
		}
	}

	for _, a := range s.Analyses {
		for _, name := range a.Panels {
			it := s.Lookup(name)
			if it == nil || it.Mesh == nil {
				continue
			}
			n := it.Mesh.Normal()
			for i, sun := range a.Suns {
				d := r3.Dot(r3.Unit(sun), n)
				switch {
				case math.Abs(d) <= tol.CurveTolerance:
					warnings = append(warnings, ValidationWarning{
						Name:    a.Name,
						Message: fmt.Sprintf("sun vector %d runs parallel to panel %q, its cells will be empty", i, name),
					})
				case d > 0:
					warnings = append(warnings, ValidationWarning{
						Name:    a.Name,
						Message: fmt.Sprintf("sun vector %d reaches panel %q from behind", i, name),
					})
				}
			}
		}
	}
	return warnings
}
