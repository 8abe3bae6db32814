package scene

import (
	"fmt"

	"github.com/chazu/suntools/pkg/analysis"
	"github.com/chazu/suntools/pkg/kernel"
	"github.com/chazu/suntools/pkg/solar"
)

// ValidationSeverity indicates whether a validation finding blocks
// evaluation or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks evaluation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Name     string             // item or analysis with the problem, empty if scene-level
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] %q: %s", e.Severity, e.Name, e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	Name    string
	Message string
}

// ValidationResult bundles errors (blocking) and warnings (advisory)
// from all validation tiers.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether no blocking errors were found.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate runs the Tier 1 structural checks and returns every finding. An
// empty slice means the scene is structurally sound. Validate never mutates
// the scene.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateNames(s)...)
	errs = append(errs, validateItems(s)...)
	errs = append(errs, validateAnalyses(s)...)
	return errs
}

// ValidateAll runs all tiers (structural, geometric, advisory). Geometric
// checks use k and the effective tolerances.
func ValidateAll(s *Scene, k kernel.Kernel, tol solar.Tolerances) ValidationResult {
	// Tier 1: structural.
	tier1 := Validate(s)

	var result ValidationResult
	for _, e := range tier1 {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, ValidationWarning{Name: e.Name, Message: e.Message})
		} else {
			result.Errors = append(result.Errors, e)
		}
	}
	if s.Tol != nil {
		if err := s.Tol.Validate(); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Message:  err.Error(),
				Severity: SeverityError,
			})
			return result
		}
	}

	// Tier 2: geometric.
	tier2Errs, tier2Warnings := validateGeometry(s, k, tol)
	result.Errors = append(result.Errors, tier2Errs...)
	result.Warnings = append(result.Warnings, tier2Warnings...)

	// Tier 3: advisory. Skipped when the geometry is broken since the
	// checks need panel planes.
	if len(tier2Errs) == 0 {
		result.Warnings = append(result.Warnings, validateExposure(s, k, tol)...)
	}
	return result
}

// validateNames checks that every item has a name and no two items or
// analyses share one.
func validateNames(s *Scene) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool)
	for _, it := range s.Items {
		if it.Name == "" {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("%s defined without a name", it.Role),
				Severity: SeverityError,
			})
			continue
		}
		if seen[it.Name] {
			errs = append(errs, ValidationError{
				Name:     it.Name,
				Message:  "duplicate name",
				Severity: SeverityError,
			})
		}
		seen[it.Name] = true
	}

	seenA := make(map[string]bool)
	for _, a := range s.Analyses {
		if a.Name == "" {
			continue
		}
		if seenA[a.Name] {
			errs = append(errs, ValidationError{
				Name:     a.Name,
				Message:  "duplicate analysis name",
				Severity: SeverityError,
			})
		}
		seenA[a.Name] = true
	}
	return errs
}

// validateItems checks that each item carries the geometry its shape says.
func validateItems(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, it := range s.Items {
		switch it.Shape {
		case ShapeMesh:
			if it.Mesh == nil {
				errs = append(errs, ValidationError{Name: it.Name, Message: "mesh item has no mesh", Severity: SeverityError})
			}
		case ShapeCurve:
			if len(it.Curve) == 0 {
				errs = append(errs, ValidationError{Name: it.Name, Message: "curve item has no points", Severity: SeverityError})
			}
		default:
			errs = append(errs, ValidationError{Name: it.Name, Message: fmt.Sprintf("unknown shape %v", it.Shape), Severity: SeverityError})
		}
	}
	return errs
}

// requirement describes what an analysis kind expects of its references.
type requirement struct {
	panelShape   ShapeKind
	sourceShape  ShapeKind
	singlePanel  bool
	needsPanels  bool
	needsSuns    bool
	needsAgainst bool
}

var requirements = map[analysis.Kind]requirement{
	analysis.KindShade:       {panelShape: ShapeMesh, sourceShape: ShapeMesh, singlePanel: true, needsPanels: true, needsSuns: true},
	analysis.KindGlare:       {panelShape: ShapeMesh, sourceShape: ShapeMesh, needsPanels: true, needsSuns: true},
	analysis.KindView:        {panelShape: ShapeMesh, sourceShape: ShapeCurve, needsPanels: true, needsSuns: true},
	analysis.KindRegionDiff:  {sourceShape: ShapeCurve, needsAgainst: true},
	analysis.KindRegionInter: {sourceShape: ShapeCurve, needsAgainst: true},
}

// validateAnalyses checks every analysis for unknown kinds, empty lists and
// dangling or mistyped references.
func validateAnalyses(s *Scene) []ValidationError {
	var errs []ValidationError
	bad := func(a *Analysis, format string, args ...any) {
		errs = append(errs, ValidationError{
			Name:     a.Name,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}

	for _, a := range s.Analyses {
		req, ok := requirements[a.Kind]
		if !ok {
			bad(a, "unknown analysis kind %q", a.Kind)
			continue
		}

		if req.needsPanels {
			switch {
			case len(a.Panels) == 0:
				bad(a, "%s analysis has no panels", a.Kind)
			case req.singlePanel && len(a.Panels) != 1:
				bad(a, "%s analysis takes exactly one panel, got %d", a.Kind, len(a.Panels))
			}
			for _, name := range a.Panels {
				errs = append(errs, checkRef(s, a, name, RolePanel, req.panelShape)...)
			}
		}

		if len(a.Sources) == 0 {
			bad(a, "%s analysis has no sources", a.Kind)
		}
		for _, name := range a.Sources {
			errs = append(errs, checkRef(s, a, name, RoleSource, req.sourceShape)...)
		}

		if req.needsSuns && len(a.Suns) == 0 {
			bad(a, "%s analysis has no sun vectors", a.Kind)
		}

		if req.needsAgainst {
			if a.Against == "" {
				bad(a, "%s analysis has no curve to combine with", a.Kind)
			} else {
				// The B curve may be any curve item regardless of role.
				it := s.Lookup(a.Against)
				switch {
				case it == nil:
					bad(a, "references undefined item %q", a.Against)
				case it.Shape != ShapeCurve:
					bad(a, "item %q is a %s, want a curve", a.Against, it.Shape)
				}
			}
		}
	}
	return errs
}

// checkRef reports a dangling name or a role/shape mismatch. Region
// analyses accept curves of either role.
func checkRef(s *Scene, a *Analysis, name string, role Role, shape ShapeKind) []ValidationError {
	it := s.Lookup(name)
	if it == nil {
		return []ValidationError{{
			Name:     a.Name,
			Message:  fmt.Sprintf("references undefined item %q", name),
			Severity: SeverityError,
		}}
	}
	region := a.Kind == analysis.KindRegionDiff || a.Kind == analysis.KindRegionInter
	var errs []ValidationError
	if it.Role != role && !region {
		errs = append(errs, ValidationError{
			Name:     a.Name,
			Message:  fmt.Sprintf("item %q is a %s, want a %s", name, it.Role, role),
			Severity: SeverityError,
		})
	}
	if it.Shape != shape {
		errs = append(errs, ValidationError{
			Name:     a.Name,
			Message:  fmt.Sprintf("item %q is a %s, want a %s", name, it.Shape, shape),
			Severity: SeverityError,
		})
	}
	return errs
}
