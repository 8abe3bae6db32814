package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/chazu/suntools/pkg/analysis"
	"github.com/chazu/suntools/pkg/config"
	"github.com/chazu/suntools/pkg/engine"
	"github.com/chazu/suntools/pkg/kernel"
	"github.com/chazu/suntools/pkg/kernel/planar"
	"github.com/chazu/suntools/pkg/plotout"
	"github.com/chazu/suntools/pkg/scene"
	"github.com/chazu/suntools/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to meshes.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App runs scene scripts end to end: evaluate, validate, analyse and
// tessellate. The CLI is a thin shell over it.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	cfg    config.Config
}

// MeshData is the JSON-serializable mesh format.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Label    string    `json:"label"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
	Name    string `json:"name,omitempty"`
}

// CellData is one analysis cell in JSON form.
type CellData struct {
	Path                 string   `json:"path"`
	Relationship         string   `json:"relationship"`
	Case                 string   `json:"case,omitempty"`
	Area                 *float64 `json:"area"`
	Exposed              *float64 `json:"exposed,omitempty"`
	Comment              string   `json:"comment"`
	Degenerate           bool     `json:"degenerate,omitempty"`
	Skipped              bool     `json:"skipped,omitempty"`
	ReconciliationFailed bool     `json:"reconciliationFailed,omitempty"`
}

// ResultData is one finished analysis in JSON form.
type ResultData struct {
	Name      string     `json:"name"`
	Kind      string     `json:"kind"`
	TotalArea float64    `json:"totalArea"`
	Cells     []CellData `json:"cells"`
}

// EvalResult is the full output of one run.
type EvalResult struct {
	Results  []ResultData    `json:"results"`
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`

	scene    *scene.Scene
	analyses []*analysis.Result
}

// Analyses returns the raw results behind Results, in scene order.
func (r EvalResult) Analyses() []*analysis.Result { return r.analyses }

// NewApp creates an App with the planar kernel and cfg.
func NewApp(cfg config.Config) *App {
	return &App{
		engine: engine.NewEngine(),
		kernel: planar.New(),
		cfg:    cfg,
	}
}

// Evaluate takes scene source and returns results, meshes and errors.
func (a *App) Evaluate(source string) EvalResult {
	return a.EvaluateContext(context.Background(), source)
}

// EvaluateContext is Evaluate with a context that cancels the analyses.
func (a *App) EvaluateContext(ctx context.Context, source string) EvalResult {
	result := EvalResult{
		Results:  []ResultData{},
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate and validate the source into a scene.
	ev, err := a.engine.EvaluateAll(ctx, source, a.kernel, a.cfg.Tolerances)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	for _, w := range ev.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{
			Line:    w.Line,
			Col:     w.Col,
			Message: w.Message,
			Name:    w.Name,
		})
	}

	// Step 2: Convert eval and validation errors.
	if len(ev.Errors) > 0 {
		for _, e := range ev.Errors {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}
	sc := ev.Scene
	result.scene = sc

	// Step 3: Run every analysis with the scene's tolerances.
	tol := sc.Tolerances(a.cfg.Tolerances)
	runner := a.cfg.Runner(a.kernel)
	runner.Tol = tol
	analyses, err := sc.Run(ctx, runner)
	if err != nil {
		log.Printf("Run error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: "analysis failed: " + err.Error()})
		return result
	}
	result.analyses = analyses
	for _, res := range analyses {
		result.Results = append(result.Results, resultData(res))
	}

	// Step 4: Tessellate the scene and the result cells.
	meshes, err := tessellate.Scene(sc, a.kernel, tol)
	if err != nil {
		log.Printf("Tessellate error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: "tessellation failed: " + err.Error()})
		return result
	}
	for _, res := range analyses {
		meshes = append(meshes, tessellate.Result(res)...)
	}
	for i, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Label:    m.Label,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}

	return result
}

func resultData(res *analysis.Result) ResultData {
	rd := ResultData{
		Name:      res.Name,
		Kind:      string(res.Kind),
		TotalArea: res.TotalArea(),
		Cells:     make([]CellData, 0, len(res.Cells)),
	}
	for _, c := range res.Cells {
		rd.Cells = append(rd.Cells, CellData{
			Path:                 c.Path.String(),
			Relationship:         c.Relationship.String(),
			Case:                 c.Case,
			Area:                 c.Area,
			Exposed:              c.Exposed,
			Comment:              c.Comment,
			Degenerate:           c.Degenerate,
			Skipped:              c.Skipped,
			ReconciliationFailed: c.ReconciliationFailed,
		})
	}
	return rd
}

// SavePlots writes one plot per region analysis of r into dir and returns
// the paths written. The curves the analysis referenced are drawn as context.
func (a *App) SavePlots(dir string, r EvalResult) ([]string, error) {
	if r.scene == nil {
		return nil, nil
	}
	var paths []string
	for i, res := range r.analyses {
		if res.Kind != analysis.KindRegionDiff && res.Kind != analysis.KindRegionInter {
			continue
		}
		ctxCurves := r.scene.ContextCurves(r.scene.Analyses[i])
		p, err := plotout.Save(dir, res, a.kernel, a.cfg.Plot, ctxCurves...)
		if errors.Is(err, plotout.ErrEmpty) {
			log.Printf("plot %q: nothing to draw", res.Name)
			continue
		}
		if err != nil {
			return paths, fmt.Errorf("plot %q: %w", res.Name, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
