package main

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/suntools/pkg/config"
)

func newTestApp() *App {
	return NewApp(config.Default())
}

func evalFile(t *testing.T, app *App, path string) EvalResult {
	t.Helper()
	source, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	result := app.Evaluate(string(source))
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
	return result
}

// TestE2ECourtyardExample exercises the full pipeline: Lisp source → engine
// → scene → analyses → tessellate.
func TestE2ECourtyardExample(t *testing.T) {
	result := evalFile(t, newTestApp(), "examples/courtyard.sun")

	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
	if len(result.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(result.Results))
	}

	tests := []struct {
		name  string
		kind  string
		cells int
		total float64
	}{
		// The canopy covers x in [0,1] at noon and [0,1.2] with the low sun.
		{"window-shade", "shade", 2, 2 + 2.4},
		{"opening-lit", "region-inter", 1, 0.25},
		{"opening-dark", "region-diff", 1, 0.75},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := result.Results[i]
			if r.Name != tt.name || r.Kind != tt.kind {
				t.Errorf("result = %s/%s, want %s/%s", r.Name, r.Kind, tt.name, tt.kind)
			}
			if len(r.Cells) != tt.cells {
				t.Errorf("cells = %d, want %d", len(r.Cells), tt.cells)
			}
			if math.Abs(r.TotalArea-tt.total) > 1e-3 {
				t.Errorf("total area = %f, want %f", r.TotalArea, tt.total)
			}
		})
	}

	// One mesh per scene item, plus one per shaded cell.
	labels := map[string]bool{}
	for _, m := range result.Meshes {
		labels[m.Label] = true
		if len(m.Vertices) == 0 || len(m.Indices) == 0 {
			t.Errorf("mesh %q: no geometry", m.Label)
		}
		if m.Color == "" {
			t.Errorf("mesh %q: no color assigned", m.Label)
		}
	}
	for _, want := range []string{"window", "canopy", "opening", "well", "window-shade {0;0}", "window-shade {0;1}"} {
		if !labels[want] {
			t.Errorf("missing mesh %q (have %v)", want, labels)
		}
	}
}

// TestE2EFacadeExample checks the cell layout of glare and view analyses
// over two panels and two suns.
func TestE2EFacadeExample(t *testing.T) {
	result := evalFile(t, newTestApp(), "examples/facade.sun")

	if len(result.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(result.Results))
	}
	for _, r := range result.Results {
		if len(r.Cells) != 4 {
			t.Errorf("%s: cells = %d, want 4", r.Name, len(r.Cells))
		}
		for _, c := range r.Cells {
			if c.Comment == "" {
				t.Errorf("%s %s: empty comment", r.Name, c.Path)
			}
		}
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	result := newTestApp().Evaluate("")

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if len(result.Meshes) != 0 || len(result.Results) != 0 {
		t.Errorf("expected nothing for empty source, got %d meshes, %d results",
			len(result.Meshes), len(result.Results))
	}
}

// TestE2ESyntaxError ensures eval errors are reported, not fatal errors.
func TestE2ESyntaxError(t *testing.T) {
	result := newTestApp().Evaluate(`(defpanel "test"`)

	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on error, got %d", len(result.Meshes))
	}
}

func TestE2EJSONUsesEmptyArrays(t *testing.T) {
	data, err := json.Marshal(newTestApp().Evaluate(""))
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	for _, key := range []string{`"results":[]`, `"meshes":[]`, `"errors":[]`, `"warnings":[]`} {
		if !strings.Contains(got, key) {
			t.Errorf("JSON missing %s: %s", key, got)
		}
	}
}

func TestSavePlots(t *testing.T) {
	app := newTestApp()
	result := evalFile(t, app, "examples/courtyard.sun")

	dir := t.TempDir()
	paths, err := app.SavePlots(dir, result)
	if err != nil {
		t.Fatalf("SavePlots failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("plots = %v, want one per region analysis", paths)
	}
	for _, p := range paths {
		if filepath.Dir(p) != dir || filepath.Ext(p) != ".png" {
			t.Errorf("unexpected plot path %q", p)
		}
		if fi, err := os.Stat(p); err != nil || fi.Size() == 0 {
			t.Errorf("plot %q not written: %v", p, err)
		}
	}
}

func TestSavePlotsWithoutScene(t *testing.T) {
	app := newTestApp()
	paths, err := app.SavePlots(t.TempDir(), app.Evaluate(`(defpanel "x"`))
	if err != nil || len(paths) != 0 {
		t.Errorf("paths = %v, err = %v", paths, err)
	}
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
		check   func(options) bool
	}{
		{"source only", []string{"a.sun"}, false, func(o options) bool { return o.source == "a.sun" && !o.jsonOut }},
		{"all flags", []string{"-json", "-plot", "out", "-workers", "4", "-skip-errors", "a.sun"}, false,
			func(o options) bool { return o.jsonOut && o.plotDir == "out" && o.workers == 4 && o.skipErrors }},
		{"no source", nil, true, nil},
		{"two sources", []string{"a.sun", "b.sun"}, true, nil},
		{"unknown flag", []string{"-nope", "a.sun"}, true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := parseFlags(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(o) {
				t.Errorf("options = %+v", o)
			}
		})
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte("workers: 2\nplot:\n  format: svg\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(options{configPath: path, workers: 8, skipErrors: true})
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Workers != 8 || cfg.Policy != "skip" || cfg.Plot.Format != "svg" {
		t.Errorf("config = %+v", cfg)
	}

	if _, err := loadConfig(options{workers: -1}); err != nil {
		t.Errorf("negative workers flag should be ignored: %v", err)
	}
	if _, err := loadConfig(options{configPath: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Error("expected error for missing config file")
	}
}
