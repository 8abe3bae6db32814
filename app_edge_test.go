package main

import (
	"strings"
	"testing"

	"github.com/chazu/suntools/pkg/config"
)

// ---------------------------------------------------------------------------
// 1. Empty editor: empty, whitespace and comment-only sources produce
//    nothing, and every slice is non-nil so JSON shows [] not null.
// ---------------------------------------------------------------------------

func TestE2EBlankSources(t *testing.T) {
	app := newTestApp()
	for _, source := range []string{"", "   \n\t\n", ";; just a comment\n;; and another"} {
		result := app.Evaluate(source)
		if len(result.Errors) != 0 || len(result.Warnings) != 0 {
			t.Errorf("source %q: errors %v, warnings %v", source, result.Errors, result.Warnings)
		}
		if len(result.Meshes) != 0 || len(result.Results) != 0 {
			t.Errorf("source %q: expected no output", source)
		}
		if result.Meshes == nil || result.Results == nil || result.Errors == nil || result.Warnings == nil {
			t.Errorf("source %q: slices should be non-nil", source)
		}
	}
}

// ---------------------------------------------------------------------------
// 2. Syntax errors carry a message and, where zygomys reports one, a line.
// ---------------------------------------------------------------------------

func TestE2ESyntaxErrorWithLineInfo(t *testing.T) {
	// Valid code on line 1, broken code on line 2 so line info is meaningful.
	source := "(+ 1 2)\n(defpanel \"test\""
	result := newTestApp().Evaluate(source)

	if len(result.Errors) == 0 {
		t.Fatal("expected at least one eval error for unmatched parens")
	}
	e := result.Errors[0]
	if e.Message == "" {
		t.Error("syntax error should have a non-empty message")
	}
	if e.Line < 0 {
		t.Errorf("line = %d, want >= 0", e.Line)
	}
}

// ---------------------------------------------------------------------------
// 3. Scene validation: dangling and mistyped references block the run.
// ---------------------------------------------------------------------------

func TestE2EValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			"undefined shade",
			`(defpanel "w" (quad (vec3 0 0 0) (vec3 1 0 0) (vec3 1 1 0) (vec3 0 1 0)))
(shade-assess "s" :panel "w" :shades (list "ghost") :suns (vec3 0 0 -1))`,
			"ghost",
		},
		{
			"curve panel",
			`(defpanel "w" (rect :width 1 :height 1))
(defsource "c" (quad (vec3 0 0 1) (vec3 1 0 1) (vec3 1 1 1) (vec3 0 1 1)))
(shade-assess "s" :panel "w" :shades "c" :suns (vec3 0 0 -1))`,
			"want a mesh",
		},
		{
			"zero sun",
			`(defpanel "w" (quad (vec3 0 0 0) (vec3 1 0 0) (vec3 1 1 0) (vec3 0 1 0)))
(defsource "c" (quad (vec3 0 0 1) (vec3 1 0 1) (vec3 1 1 1) (vec3 0 1 1)))
(shade-assess "s" :panel "w" :shades "c" :suns (vec3 0 0 0))`,
			"zero or not finite",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := newTestApp().Evaluate(tt.source)
			if len(result.Errors) == 0 {
				t.Fatal("expected validation errors")
			}
			found := false
			for _, e := range result.Errors {
				found = found || strings.Contains(e.Message, tt.want)
			}
			if !found {
				t.Errorf("errors %v do not mention %q", result.Errors, tt.want)
			}
			if len(result.Results) != 0 || len(result.Meshes) != 0 {
				t.Error("invalid scene should not be analysed")
			}
		})
	}
}

// ---------------------------------------------------------------------------
// 4. Degenerate geometry in builtins is an eval error, not a panic.
// ---------------------------------------------------------------------------

func TestE2EDegenerateBuiltins(t *testing.T) {
	for _, source := range []string{
		`(defsource "r" (rect :width 0 :height 1))`,
		`(defsource "r" (rect :width -2 :height 1))`,
		`(defpanel "m" (mesh :vertices (list (vec3 0 0 0)) :faces (list (list 0 1 2))))`,
	} {
		result := newTestApp().Evaluate(source)
		if len(result.Errors) == 0 {
			t.Errorf("source %q: expected an error", source)
		}
	}
}

// ---------------------------------------------------------------------------
// 5. A sun parallel to the panel yields a degenerate cell with a comment;
//    the other cells of the batch still succeed.
// ---------------------------------------------------------------------------

const grazingSource = `
(defpanel "w" (quad (vec3 0 0 0) (vec3 2 0 0) (vec3 2 2 0) (vec3 0 2 0)))
(defsource "c" (quad (vec3 -1 -1 1) (vec3 1 -1 1) (vec3 1 3 1) (vec3 -1 3 1)))
(shade-assess "s" :panel "w" :shades "c" :suns (suns (vec3 1 0 0) (vec3 0 0 -1)))
`

func TestE2EGrazingSun(t *testing.T) {
	result := newTestApp().Evaluate(grazingSource)
	if len(result.Errors) != 0 {
		t.Fatalf("errors: %v", result.Errors)
	}
	if len(result.Warnings) == 0 || !strings.Contains(result.Warnings[0].Message, "parallel") {
		t.Errorf("warnings = %v, want a parallel-sun advisory", result.Warnings)
	}

	cells := result.Results[0].Cells
	if len(cells) != 2 {
		t.Fatalf("cells = %d, want 2", len(cells))
	}
	if !cells[0].Degenerate || cells[0].Area != nil || cells[0].Comment == "" {
		t.Errorf("grazing cell = %+v", cells[0])
	}
	if cells[1].Degenerate || cells[1].Area == nil {
		t.Errorf("overhead cell = %+v", cells[1])
	}
}

// ---------------------------------------------------------------------------
// 6. Tolerances from the scene override the configuration.
// ---------------------------------------------------------------------------

func TestE2ESceneToleranceOverride(t *testing.T) {
	cfg := config.Default()
	cfg.Tolerances.CurveTolerance = 1 // would swallow the whole scene
	app := NewApp(cfg)

	source := "(tolerance :curve 0.0001)\n" + grazingSource
	result := app.Evaluate(source)
	if len(result.Errors) != 0 {
		t.Fatalf("errors: %v", result.Errors)
	}
	if len(result.Results) != 1 || len(result.Results[0].Cells) != 2 {
		t.Errorf("results = %+v", result.Results)
	}
}

// ---------------------------------------------------------------------------
// 7. Rapid evaluation: sequential calls on one App never panic and the
//    engine recovers cleanly between error and success states.
// ---------------------------------------------------------------------------

func TestE2ERapidEvaluationAlternating(t *testing.T) {
	app := newTestApp()

	sources := []string{
		grazingSource,
		`(defpanel "broken"`,
		``,
		`(shade-assess "s" :panel "missing" :shades "none" :suns (vec3 0 0 -1))`,
		`(+ 1 2)`,
		`;; just a comment`,
		`(undefined-func 1 2 3)`,
		grazingSource,
	}

	for i, source := range sources {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("iteration %d panicked on source %q: %v", i, source, r)
				}
			}()
			_ = app.Evaluate(source)
		}()
	}

	final := app.Evaluate(grazingSource)
	if len(final.Errors) != 0 || len(final.Results) != 1 {
		t.Errorf("engine did not recover: %+v", final.Errors)
	}
}

// ---------------------------------------------------------------------------
// 8. Palette colours wrap around when there are more meshes than colours.
// ---------------------------------------------------------------------------

func TestE2EColorPaletteWrapping(t *testing.T) {
	var b strings.Builder
	for i := 0; i < len(colorPalette)+2; i++ {
		b.WriteString(`(defsource "s`)
		b.WriteByte(byte('a' + i))
		b.WriteString(`" (quad (vec3 0 0 0) (vec3 1 0 0) (vec3 1 1 0) (vec3 0 1 0)))` + "\n")
	}
	result := newTestApp().Evaluate(b.String())
	if len(result.Errors) != 0 {
		t.Fatalf("errors: %v", result.Errors)
	}
	if len(result.Meshes) != len(colorPalette)+2 {
		t.Fatalf("meshes = %d, want %d", len(result.Meshes), len(colorPalette)+2)
	}
	if result.Meshes[0].Color != result.Meshes[len(colorPalette)].Color {
		t.Error("palette should wrap around")
	}
}
