// Package config loads run settings from YAML: tolerances, parallelism,
// the batch failure policy and plot output options.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chazu/suntools/pkg/analysis"
	"github.com/chazu/suntools/pkg/kernel"
	"github.com/chazu/suntools/pkg/solar"
	"gopkg.in/yaml.v3"
)

// Plot formats accepted by PlotConfig.Format.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
	FormatPDF = "pdf"
)

// PlotConfig controls region plot output.
type PlotConfig struct {
	// Width and Height are in centimetres.
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Format string  `yaml:"format"`
}

// Config is the on-disk run configuration.
type Config struct {
	Tolerances   solar.Tolerances `yaml:"tolerances"`
	Workers      int              `yaml:"workers"`
	Policy       string           `yaml:"policy"` // "abort" or "skip"
	DebugCutters bool             `yaml:"debug_cutters"`
	Plot         PlotConfig       `yaml:"plot"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Tolerances: solar.DefaultTolerances(),
		Workers:    1,
		Policy:     analysis.AbortOnError.String(),
		Plot: PlotConfig{
			Width:  12,
			Height: 12,
			Format: FormatPNG,
		},
	}
}

// Load reads and validates the YAML file at path. Keys missing from the file
// keep their defaults.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse is Decode over a byte slice.
func Parse(data []byte) (Config, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads YAML from r over the defaults and validates the result.
// Unknown keys are rejected. An empty document yields the defaults.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if err := c.Tolerances.Validate(); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: workers must be at least 1, got %d", c.Workers)
	}
	if _, err := ParsePolicy(c.Policy); err != nil {
		return err
	}
	if !(c.Plot.Width > 0 && c.Plot.Height > 0) {
		return fmt.Errorf("config: plot size must be positive, got %gx%g", c.Plot.Width, c.Plot.Height)
	}
	switch c.Plot.Format {
	case FormatPNG, FormatSVG, FormatPDF:
	default:
		return fmt.Errorf("config: unknown plot format %q", c.Plot.Format)
	}
	return nil
}

// ParsePolicy maps "abort" and "skip" onto batch policies. The empty
// string means abort.
func ParsePolicy(s string) (analysis.BatchPolicy, error) {
	switch s {
	case "", analysis.AbortOnError.String():
		return analysis.AbortOnError, nil
	case analysis.SkipCell.String():
		return analysis.SkipCell, nil
	}
	return 0, fmt.Errorf("config: unknown policy %q, want abort or skip", s)
}

// Runner builds an analysis runner for k from the configuration.
func (c Config) Runner(k kernel.Kernel) *analysis.Runner {
	r := analysis.NewRunner(k)
	r.Tol = c.Tolerances
	r.Workers = c.Workers
	r.Policy, _ = ParsePolicy(c.Policy)
	r.DebugCutters = c.DebugCutters
	return r
}
