// Package plotout draws analysis results as 2D region plots in the plane of
// their target, using gonum/plot.
package plotout

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/chazu/suntools/pkg/analysis"
	"github.com/chazu/suntools/pkg/config"
	"github.com/chazu/suntools/pkg/geom"
	"github.com/chazu/suntools/pkg/kernel"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// ErrEmpty is returned when neither the result nor the context carries any
// geometry to fit a plot plane through.
var ErrEmpty = errors.New("plotout: nothing to plot")

// fillAlpha is the opacity of cell regions so overlapping cells stay
// readable.
const fillAlpha = 140

// Plot draws every cell of res that has geometry, one colour per cell, over
// the context outlines (typically the panel outline). Geometry is expressed
// in a plane fitted through the context, or through the result when no
// context is given.
func Plot(res *analysis.Result, k kernel.Kernel, context ...geom.Polyline) (*plot.Plot, error) {
	pl, err := plotPlane(res, k, context)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%s)", res.Name, res.Kind)
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewGrid())

	for _, c := range context {
		line, err := plotter.NewLine(ringXYs(c.Closed(0).ToLocal(pl)))
		if err != nil {
			return nil, fmt.Errorf("plotout: context: %w", err)
		}
		line.LineStyle.Color = color.Gray{Y: 96}
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
	}

	polys, labels, err := cellPolygons(res, pl)
	if err != nil {
		return nil, err
	}
	for i, poly := range polys {
		p.Add(poly)
		p.Legend.Add(labels[i], poly)
	}
	return p, nil
}

// Write renders p to w in the configured size and format.
func Write(w io.Writer, p *plot.Plot, cfg config.PlotConfig) error {
	wt, err := p.WriterTo(vg.Length(cfg.Width)*vg.Centimeter, vg.Length(cfg.Height)*vg.Centimeter, cfg.Format)
	if err != nil {
		return fmt.Errorf("plotout: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("plotout: %w", err)
	}
	return nil
}

// Save plots res into dir as "<name>.<format>" and returns the file path.
func Save(dir string, res *analysis.Result, k kernel.Kernel, cfg config.PlotConfig, context ...geom.Polyline) (string, error) {
	p, err := Plot(res, k, context...)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s.%s", fileName(res), cfg.Format))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("plotout: %w", err)
	}
	if err := Write(f, p, cfg); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("plotout: %w", err)
	}
	return path, nil
}

// plotPlane fits the drawing plane through the first context outline, or
// the first cell geometry.
func plotPlane(res *analysis.Result, k kernel.Kernel, context []geom.Polyline) (geom.Plane, error) {
	var pts geom.Polyline
	for _, c := range context {
		pts = append(pts, c...)
	}
	if len(pts) == 0 && res != nil {
		for _, c := range res.Cells {
			for _, cv := range c.Curves {
				pts = append(pts, cv...)
			}
			if c.Mesh != nil {
				pts = append(pts, c.Mesh.Vertices...)
			}
			if len(pts) >= 3 {
				break
			}
		}
	}
	if len(pts) < 3 {
		return geom.Plane{}, ErrEmpty
	}
	pl, err := k.FitPlane(pts)
	if err != nil {
		return geom.Plane{}, fmt.Errorf("plotout: %w", err)
	}
	return pl, nil
}

// cellPolygons builds one filled polygon per cell with geometry, with its
// legend label.
func cellPolygons(res *analysis.Result, pl geom.Plane) ([]*plotter.Polygon, []string, error) {
	var polys []*plotter.Polygon
	var labels []string
	for i, c := range res.Cells {
		rings := cellRings(c, pl)
		if len(rings) == 0 {
			continue
		}
		poly, err := plotter.NewPolygon(rings...)
		if err != nil {
			return nil, nil, fmt.Errorf("plotout: cell %v: %w", c.Path, err)
		}
		poly.Color = translucent(plotutil.Color(i))
		poly.LineStyle.Color = plotutil.Color(i)
		poly.LineStyle.Width = vg.Points(0.5)
		polys = append(polys, poly)
		labels = append(labels, cellLabel(c))
	}
	return polys, labels, nil
}

// cellRings returns the cell's curves, or the triangles of its mesh, in
// plane coordinates.
func cellRings(c analysis.Cell, pl geom.Plane) []plotter.XYer {
	var out []plotter.XYer
	for _, cv := range c.Curves {
		if len(cv) >= 3 {
			out = append(out, ringXYs(cv.ToLocal(pl)))
		}
	}
	if c.Mesh != nil {
		for _, f := range c.Mesh.Faces {
			tri := geom.Polyline{c.Mesh.Vertices[f[0]], c.Mesh.Vertices[f[1]], c.Mesh.Vertices[f[2]]}
			out = append(out, ringXYs(tri.ToLocal(pl)))
		}
	}
	return out
}

func ringXYs(r geom.Ring) plotter.XYs {
	xys := make(plotter.XYs, len(r))
	for i, p := range r {
		xys[i].X = p.X
		xys[i].Y = p.Y
	}
	return xys
}

func cellLabel(c analysis.Cell) string {
	if c.Area == nil {
		return c.Path.String()
	}
	return fmt.Sprintf("%s %.3g", c.Path, *c.Area)
}

func translucent(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: fillAlpha}
}

// fileName keeps result names usable as file names.
func fileName(res *analysis.Result) string {
	name := res.Name
	if name == "" {
		name = string(res.Kind)
	}
	out := []rune(name)
	for i, r := range out {
		switch r {
		case '/', '\\', ':', ' ':
			out[i] = '_'
		}
	}
	return string(out)
}
