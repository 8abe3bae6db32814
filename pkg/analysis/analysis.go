// Package analysis runs the solar engine over batches of panels, sources and
// sun vectors. Every analysis (shade, glare, view and the two region
// utilities) is expressed as a list of independent cells evaluated by one
// core, tagged with the kind of source geometry it projects.
//
// Each cell owns one path in every output tree, so geometry, areas and
// comments stay aligned even when a cell fails or yields nothing.
package analysis

import (
	"github.com/chazu/suntools/pkg/datatree"
	"github.com/chazu/suntools/pkg/geom"
	"github.com/chazu/suntools/pkg/kernel"
	"github.com/chazu/suntools/pkg/solar"
)

// SourceKind tags the geometry a cell projects.
type SourceKind int

const (
	// CurveSource cells combine outlines with the region algebra.
	CurveSource SourceKind = iota
	// MeshSource cells split the panel mesh.
	MeshSource
)

func (k SourceKind) String() string {
	if k == MeshSource {
		return "mesh"
	}
	return "curve"
}

// Op selects the region operation of curve cells.
type Op int

const (
	Difference Op = iota
	Intersection
)

func (o Op) String() string {
	if o == Intersection {
		return "intersection"
	}
	return "difference"
}

// BatchPolicy decides what a cell-level kernel failure does to the batch.
type BatchPolicy int

const (
	// AbortOnError returns the first cell error and no result.
	AbortOnError BatchPolicy = iota
	// SkipCell records the failure in the cell comment and continues.
	SkipCell
)

func (p BatchPolicy) String() string {
	if p == SkipCell {
		return "skip"
	}
	return "abort"
}

// Kind names the analysis that produced a result.
type Kind string

const (
	KindShade       Kind = "shade"
	KindGlare       Kind = "glare"
	KindView        Kind = "view"
	KindRegionDiff  Kind = "region-diff"
	KindRegionInter Kind = "region-inter"
)

// Cell is the outcome of one (source, target, sun) combination.
type Cell struct {
	Path datatree.Path `json:"path"`
	// Curves holds curve results; Mesh holds mesh results.
	Curves []geom.Polyline `json:"-"`
	Mesh   *geom.Mesh      `json:"-"`
	// Area is nil when undefined.
	Area *float64 `json:"area"`
	// Exposed is the target area left over, for shade and view cells.
	Exposed *float64 `json:"exposed,omitempty"`
	// ExposedCurves outlines the unshaded part of the panel in mesh cells.
	ExposedCurves []geom.Polyline    `json:"-"`
	Relationship  solar.Relationship `json:"-"`
	Case          string             `json:"case,omitempty"`
	Comment       string             `json:"comment"`
	// Degenerate is set for projections along the target plane.
	Degenerate bool `json:"degenerate,omitempty"`
	// Skipped is set when a failure was absorbed by SkipCell.
	Skipped              bool         `json:"skipped,omitempty"`
	ReconciliationFailed bool         `json:"reconciliation_failed,omitempty"`
	Cutter               *kernel.Mesh `json:"-"`
}

// Result is a finished analysis.
type Result struct {
	Name  string
	Kind  Kind
	Cells []Cell

	Curves   *datatree.Tree[geom.Polyline]
	Meshes   *datatree.Tree[*geom.Mesh]
	Areas    *datatree.Tree[*float64]
	Comments *datatree.Tree[string]
	// Exposed holds the exposed outlines of mesh cells.
	Exposed *datatree.Tree[geom.Polyline]
	// Cutters holds debug cutter meshes when Runner.DebugCutters is set.
	Cutters *datatree.Tree[*kernel.Mesh]
}

func newResult(name string, kind Kind, cells []Cell) *Result {
	r := &Result{
		Name:     name,
		Kind:     kind,
		Cells:    cells,
		Curves:   datatree.New[geom.Polyline](),
		Meshes:   datatree.New[*geom.Mesh](),
		Areas:    datatree.New[*float64](),
		Comments: datatree.New[string](),
		Exposed:  datatree.New[geom.Polyline](),
		Cutters:  datatree.New[*kernel.Mesh](),
	}
	for _, c := range cells {
		r.Curves.Append(c.Path, c.Curves...)
		if c.Mesh != nil {
			r.Meshes.Append(c.Path, c.Mesh)
		} else {
			r.Meshes.EnsurePath(c.Path)
		}
		r.Areas.Append(c.Path, c.Area)
		r.Comments.Append(c.Path, c.Comment)
		if len(c.ExposedCurves) > 0 {
			r.Exposed.Append(c.Path, c.ExposedCurves...)
		}
		if c.Cutter != nil {
			r.Cutters.Append(c.Path, c.Cutter)
		}
	}
	return r
}

// TotalArea sums the defined cell areas.
func (r *Result) TotalArea() float64 {
	var sum float64
	for _, c := range r.Cells {
		if c.Area != nil {
			sum += *c.Area
		}
	}
	return sum
}
