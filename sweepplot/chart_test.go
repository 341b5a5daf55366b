// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweepplot

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tpg-expe/sweepstat/pareto"
	"github.com/tpg-expe/sweepstat/sweepagg"
	"github.com/tpg-expe/sweepstat/sweepfmt"
	"gonum.org/v1/plot/vg"
)

func testPoints(t *testing.T) ([]pareto.Point, []pareto.Objective) {
	t.Helper()
	m := make(sweepagg.Map)
	add := func(iset, uarch string, lat, cost float64) {
		f := sweepagg.Family{ISet: iset, DType: sweepfmt.Float}
		g := &sweepagg.ArchGroup{Family: f, UArch: uarch, ISA: "rv32im",
			Seeds: []sweepagg.SeedResult{{Mean: lat}}, NormalizedCost: &cost}
		if m[f] == nil {
			m[f] = make(map[string]map[string]*sweepagg.ArchGroup)
		}
		m[f][uarch] = map[string]*sweepagg.ArchGroup{"rv32im": g}
	}
	add("{>,-,+}", "e20_i", 300, 100)
	add("{>,-,+}", "e40p", 100, 250)
	add("{>,-,+}", "e40x_im", 200, 200)
	add("{trig,>,-,+}", "e20_i", 500, 100)
	add("{trig,>,-,+}", "e40p", 150, 250)

	objs, err := pareto.Builtins("cost", "latency")
	if err != nil {
		t.Fatal(err)
	}
	ps, _ := pareto.Points(m, objs)
	return ps, objs
}

func TestChart(t *testing.T) {
	ps, objs := testPoints(t)
	pl, err := Chart(ps, objs, Options{X: 0, Y: 1})
	if err != nil {
		t.Fatal(err)
	}
	if pl.Title.Text != "latency vs cost" {
		t.Errorf("title %q", pl.Title.Text)
	}

	var buf bytes.Buffer
	if err := Write(&buf, pl, 4*vg.Inch, 3*vg.Inch, "svg"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Errorf("output is not SVG: %.100q", buf.String())
	}

	path := filepath.Join(t.TempDir(), "charts", "front.png")
	if err := Save(path, pl, 4*vg.Inch, 3*vg.Inch); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Errorf("%s is not a PNG", path)
	}
}

func TestChartErrors(t *testing.T) {
	ps, objs := testPoints(t)
	if _, err := Chart(ps, objs, Options{X: 0, Y: 2}); err == nil {
		t.Errorf("Chart with out of range axis succeeded")
	}
	if _, err := Chart(ps, objs, Options{X: 0, Y: 1, Front: []bool{true}}); err == nil {
		t.Errorf("Chart with short front mask succeeded")
	}
	pl, err := Chart(ps, objs, Options{X: 0, Y: 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := Save(filepath.Join(t.TempDir(), "noext"), pl, vg.Inch, vg.Inch); err == nil {
		t.Errorf("Save without extension succeeded")
	}
}
