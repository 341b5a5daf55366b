// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sweepplot draws Pareto charts of aggregated sweep results.
package sweepplot

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tpg-expe/sweepstat/pareto"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Options configures a chart.
type Options struct {
	// X and Y are the indexes of the objectives on each axis.
	X, Y int

	// Title is the chart title. If empty, it is derived from the
	// objective names.
	Title string

	// Dominance is the rule used for the per-family envelopes.
	Dominance pareto.Dominance

	// Front marks the points of the global front. If nil, the
	// front is computed over all objectives of the points.
	Front []bool
}

const pointRad = 3

func lightBlue(alpha uint8) color.Color {
	return color.NRGBA{0x90, 0xc0, 0xe0, alpha}
}

func red(alpha uint8) color.Color {
	return color.NRGBA{0xd0, 0x20, 0x20, alpha}
}

// Chart plots points on objectives opts.X and opts.Y. Dominated points
// are drawn light, points on the global front are drawn red, and each
// family's 2-D front is drawn as a dashed envelope.
func Chart(points []pareto.Point, objs []pareto.Objective, opts Options) (*plot.Plot, error) {
	if opts.X < 0 || opts.X >= len(objs) || opts.Y < 0 || opts.Y >= len(objs) {
		return nil, fmt.Errorf("axis objectives %d, %d out of range [0, %d)", opts.X, opts.Y, len(objs))
	}
	front := opts.Front
	if front == nil {
		front = pareto.Mask(points, pareto.Strict)
	}
	if len(front) != len(points) {
		return nil, fmt.Errorf("front mask has %d entries for %d points", len(front), len(points))
	}

	xy := func(p pareto.Point) plotter.XY {
		return plotter.XY{X: p.Value(objs, opts.X), Y: p.Value(objs, opts.Y)}
	}

	pl := plot.New()
	pl.Title.Text = opts.Title
	if pl.Title.Text == "" {
		pl.Title.Text = objs[opts.Y].Name + " vs " + objs[opts.X].Name
	}
	pl.X.Label.Text = objs[opts.X].Name
	pl.Y.Label.Text = objs[opts.Y].Name
	pl.Legend.Top = true

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	pl.Add(grid)

	var dominated, efficient plotter.XYs
	for i, p := range points {
		if front[i] {
			efficient = append(efficient, xy(p))
		} else {
			dominated = append(dominated, xy(p))
		}
	}
	if len(dominated) > 0 {
		s, err := plotter.NewScatter(dominated)
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Color = lightBlue(0xc0)
		s.GlyphStyle.Radius = vg.Points(pointRad)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		pl.Add(s)
		pl.Legend.Add("dominated", s)
	}
	if len(efficient) > 0 {
		s, err := plotter.NewScatter(efficient)
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Color = red(0xff)
		s.GlyphStyle.Radius = vg.Points(pointRad + 1)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		pl.Add(s)
		pl.Legend.Add("Pareto front", s)
	}

	for i, ff := range pareto.FamilyFronts(points, opts.X, opts.Y, opts.Dominance) {
		if len(ff.Points) < 2 {
			continue
		}
		env := make(plotter.XYs, len(ff.Points))
		for k, p := range ff.Points {
			env[k] = xy(p)
		}
		l, err := plotter.NewLine(env)
		if err != nil {
			return nil, err
		}
		l.LineStyle.Color = plotutil.Color(i)
		l.LineStyle.Width = vg.Points(1)
		l.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		pl.Add(l)
		pl.Legend.Add(ff.Family.String(), l)
	}
	return pl, nil
}

// Write renders pl to w in the given format ("png", "svg", "pdf",
// ...).
func Write(w io.Writer, pl *plot.Plot, width, height vg.Length, format string) error {
	wt, err := pl.WriterTo(width, height, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// Save renders pl to path, choosing the format from the file
// extension. It creates the parent directory if needed.
func Save(path string, pl *plot.Plot, width, height vg.Length) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format == "" {
		return fmt.Errorf("%s: no file extension to choose a format", path)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0777); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, pl, width, height, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
