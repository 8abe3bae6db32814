// Command suntools evaluates a scene script and reports its solar-access
// analyses: shade, glare, view and planar region results.
//
// Usage:
//
//	suntools [flags] scene.sun
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/chazu/suntools/pkg/analysis"
	"github.com/chazu/suntools/pkg/config"
	"github.com/chazu/suntools/pkg/report"
)

// options holds the parsed command line.
type options struct {
	jsonOut    bool
	plotDir    string
	tui        bool
	configPath string
	workers    int
	skipErrors bool
	source     string
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("suntools: ")

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts); err != nil {
		log.Fatal(err)
	}
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("suntools", flag.ContinueOnError)
	fs.BoolVar(&o.jsonOut, "json", false, "print results and meshes as JSON")
	fs.StringVar(&o.plotDir, "plot", "", "write region plots into `dir`")
	fs.BoolVar(&o.tui, "tui", false, "browse results interactively")
	fs.StringVar(&o.configPath, "config", "", "YAML configuration `file`")
	fs.IntVar(&o.workers, "workers", 0, "number of cells evaluated in parallel (overrides the config)")
	fs.BoolVar(&o.skipErrors, "skip-errors", false, "record failing cells as skipped instead of aborting")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: suntools [flags] scene.sun\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return o, errors.New("expected exactly one scene file")
	}
	o.source = fs.Arg(0)
	return o, nil
}

// loadConfig reads the configuration file, if any, and applies the command
// line overrides on top of it.
func loadConfig(o options) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return cfg, err
		}
	}
	if o.workers > 0 {
		cfg.Workers = o.workers
	}
	if o.skipErrors {
		cfg.Policy = analysis.SkipCell.String()
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, o options) error {
	cfg, err := loadConfig(o)
	if err != nil {
		return err
	}
	src, err := os.ReadFile(o.source)
	if err != nil {
		return err
	}

	app := NewApp(cfg)
	res := app.EvaluateContext(ctx, string(src))
	for _, w := range res.Warnings {
		if w.Name != "" {
			log.Printf("warning: %q: %s", w.Name, w.Message)
		} else {
			log.Printf("warning: %s", w.Message)
		}
	}
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			if e.Line > 0 {
				log.Printf("%s:%d: %s", o.source, e.Line, e.Message)
			} else {
				log.Printf("%s: %s", o.source, e.Message)
			}
		}
		return fmt.Errorf("%d errors in %s", len(res.Errors), o.source)
	}

	if o.plotDir != "" {
		if err := os.MkdirAll(o.plotDir, 0o755); err != nil {
			return err
		}
		paths, err := app.SavePlots(o.plotDir, res)
		if err != nil {
			return err
		}
		for _, p := range paths {
			log.Printf("wrote %s", p)
		}
	}

	switch {
	case o.jsonOut:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case o.tui:
		return report.Browse(res.Analyses())
	default:
		fmt.Println(report.Summary(res.Analyses()))
		return nil
	}
}
