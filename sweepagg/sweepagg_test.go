// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweepagg

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/tpg-expe/sweepstat/canon"
	"github.com/tpg-expe/sweepstat/sweepfmt"
)

const (
	trigID  = "useInstrTrig-True_useInstrLogExp-False_useInstrExpensiveArithmetic-True_seed-%d_instrType-float"
	trigSet = "{trig,*,/,>,-,+}"
	baseID  = "useInstrTrig-False_seed-%d_instrType-float"
	baseSet = "{>,-,+}"
)

func rec(id string, seed int, uarch, isa string, mean, stddev float64) *sweepfmt.Record {
	return &sweepfmt.Record{
		Simulator:     uarch,
		ISA:           isa,
		ABI:           "ilp32",
		DType:         sweepfmt.Float,
		MeanLatency:   mean,
		StddevLatency: stddev,
		Source:        "src",
		Identifier:    fmt.Sprintf(id, seed),
	}
}

func build(t *testing.T, recs ...*sweepfmt.Record) *Builder {
	t.Helper()
	b := NewBuilder(canon.Default())
	for _, r := range recs {
		if err := b.Add(r); err != nil {
			t.Fatal(err)
		}
	}
	return b
}

func TestBuildMergesSeeds(t *testing.T) {
	b := build(t,
		rec(trigID, 1, "cv32e40p", "rv32im_zicsr", 10, 1),
		rec(trigID, 2, "cv32e40p", "rv32im_zicsr", 20, 3),
	)
	m := b.Map()
	if m.Len() != 1 {
		t.Fatalf("got %d groups, want 1", m.Len())
	}
	f := Family{trigSet, sweepfmt.Float}
	g := m.Lookup(f, "e40p", "rv32im")
	if g == nil {
		t.Fatalf("no group for %s e40p rv32im; have %v", f, m.Groups())
	}
	if len(g.Seeds) != 2 || g.Seeds[0].Seed != 1 || g.Seeds[1].Seed != 2 {
		t.Errorf("seeds = %+v", g.Seeds)
	}
	if g.Seeds[0].Config != g.Seeds[1].Config {
		t.Errorf("seed configs differ: %q vs %q", g.Seeds[0].Config, g.Seeds[1].Config)
	}

	s, ok := g.Summarize()
	if !ok {
		t.Fatal("Summarize reported no seeds")
	}
	if s.MeanLatencyAvg != 15 || s.MeanLatencyStddev != 2 || s.N != 2 {
		t.Errorf("Summarize = %+v, want avg 15, stddev 2, n 2", s)
	}
}

func TestBuildNoSeed(t *testing.T) {
	b := NewBuilder(canon.Default())
	err := b.Add(&sweepfmt.Record{Identifier: "useInstrTrig-True_instrType-float", DType: sweepfmt.Float})
	if !errors.Is(err, canon.ErrNoSeed) {
		t.Errorf("Add = %v, want ErrNoSeed", err)
	}
	if b.Map().Len() != 0 {
		t.Errorf("failed Add created a group")
	}
}

func TestBuildItems(t *testing.T) {
	items := []sweepfmt.Item{
		rec(baseID, 1, "cv32e20_im1", "rv32im_zicsr", 5, 1),
		&sweepfmt.RecordError{Source: "bad.json", Msg: "failed to load JSON"},
		rec(baseID, 2, "cv32e20_im1", "rv32im_zicsr", 7, 1),
	}
	b, err := Build(canon.Default(), items)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Skipped) != 1 || b.Skipped[0].Source != "bad.json" {
		t.Errorf("Skipped = %v", b.Skipped)
	}
	g := b.Map().Lookup(Family{baseSet, sweepfmt.Float}, "e20_im-slow", "rv32im")
	if g == nil || len(g.Seeds) != 2 {
		t.Fatalf("unexpected groups %v", b.Map().Groups())
	}
}

func TestBuildWarnings(t *testing.T) {
	r1 := rec(baseID, 1, "cv32e40p", "rv32im_zicsr", 5, 1)
	r2 := rec(baseID, 2, "cv32e40p", "rv32im_zicsr", 5, 1)
	r2.ABI = "ilp32e"
	r3 := rec(baseID, 3, "cv32e40p", "rv32im_zicsr", 5, 1)
	r3.DType = sweepfmt.Double
	b := build(t, r1, r2, r3)
	if len(b.Warnings) != 2 {
		t.Errorf("got warnings %v, want 2", b.Warnings)
	}
	// The record's own dtype decides the family.
	if b.Map().Lookup(Family{baseSet, sweepfmt.Double}, "e40p", "rv32im") == nil {
		t.Errorf("double record not grouped under its own dtype")
	}
}

func TestSummarizeEmpty(t *testing.T) {
	var g ArchGroup
	if _, ok := g.Summarize(); ok {
		t.Errorf("Summarize of empty group succeeded")
	}
}

func TestSelectBestISA(t *testing.T) {
	b := build(t,
		// Trig family: compressed is faster on e40p.
		rec(trigID, 1, "cv32e40p", "rv32im_zicsr", 100, 1),
		rec(trigID, 1, "cv32e40p", "rv32imc_zicsr", 90, 1),
		// Base family: uncompressed is faster on e40p.
		rec(baseID, 1, "cv32e40p", "rv32im_zicsr", 10, 1),
		rec(baseID, 1, "cv32e40p", "rv32imc_zicsr", 11, 1),
		// A tie on e20.
		rec(baseID, 1, "cv32e20_im1", "rv32imc_zicsr", 50, 1),
		rec(baseID, 1, "cv32e20_im1", "rv32im_zicsr", 50, 1),
	)
	m := b.Map()
	trig, base := Family{trigSet, sweepfmt.Float}, Family{baseSet, sweepfmt.Float}

	check := func(p ISAPolicy, want map[Family]map[string]string) {
		t.Helper()
		got := make(map[Family]map[string]string)
		for _, g := range SelectBestISA(m, p).Groups() {
			if got[g.Family] == nil {
				got[g.Family] = make(map[string]string)
			}
			if old, ok := got[g.Family][g.UArch]; ok {
				t.Errorf("%s: %s %s kept both %s and %s", p, g.Family, g.UArch, old, g.ISA)
			}
			got[g.Family][g.UArch] = g.ISA
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s: got %v, want %v", p, got, want)
		}
	}
	check(PerFamily, map[Family]map[string]string{
		trig: {"e40p": "rv32imc"},
		base: {"e40p": "rv32im", "e20_im-slow": "rv32im"},
	})
	// Across families, rv32imc averages (90+11)/2 = 50.5 on e40p
	// against (100+10)/2 = 55 for rv32im.
	check(Global, map[Family]map[string]string{
		trig: {"e40p": "rv32imc"},
		base: {"e40p": "rv32imc", "e20_im-slow": "rv32im"},
	})

	// The input map is left alone.
	if m.Len() != 6 {
		t.Errorf("SelectBestISA modified its input: %d groups", m.Len())
	}
}

func TestParseISAPolicy(t *testing.T) {
	for _, p := range []ISAPolicy{PerFamily, Global} {
		got, err := ParseISAPolicy(p.String())
		if err != nil || got != p {
			t.Errorf("ParseISAPolicy(%q) = %v, %v", p.String(), got, err)
		}
	}
	if _, err := ParseISAPolicy("best"); err == nil {
		t.Errorf("ParseISAPolicy(best) succeeded")
	}
}

func TestISAPairs(t *testing.T) {
	b := build(t,
		rec(baseID, 1, "cv32e40p", "rv32im_zicsr", 10, 1),
		rec(baseID, 1, "cv32e40p", "rv32imc_zicsr", 5, 1),
		rec(baseID, 1, "cv32e20_im1", "rv32im_zicsr", 10, 1),
		rec(trigID, 1, "cv32e40p", "rv32imc_zicsr", 10, 1),
		rec(trigID, 1, "cv32e40p", "rv32imfc_zicsr", 10, 1),
	)
	m := b.Map()

	vs := ValidateISAPairs(m)
	if len(vs) != 1 || vs[0].UArch != "e20_im-slow" || !reflect.DeepEqual(vs[0].ISAs, []string{"rv32im"}) {
		t.Fatalf("ValidateISAPairs = %v", vs)
	}
	if vs[0].Error() == "" {
		t.Errorf("empty violation message")
	}

	ps, vs2 := CompressionPairs(m, canon.Default())
	if !reflect.DeepEqual(vs, vs2) {
		t.Errorf("CompressionPairs violations %v, want %v", vs2, vs)
	}
	if len(ps) != 2 {
		t.Fatalf("got %d pairs, want 2", len(ps))
	}
	// Sorted by family: {>,-,+} sorts before {trig,...}.
	p := ps[0]
	if !p.Ordered || p.Compressed.ISA != "rv32imc" || p.Base.ISA != "rv32im" {
		t.Errorf("pair 0 = %s/%s ordered=%v", p.Compressed.ISA, p.Base.ISA, p.Ordered)
	}
	if r, ok := p.Ratio(); !ok || r != 0.5 {
		t.Errorf("Ratio = %v, %v; want 0.5", r, ok)
	}
	// Both ISAs end in "c" and neither has the infix: unordered.
	p = ps[1]
	if p.Ordered {
		t.Errorf("pair 1 (%s, %s) reported ordered", p.Compressed.ISA, p.Base.ISA)
	}
}

type lookup map[[2]string]float64

func (l lookup) Lookup(dtype, iset string) (float64, bool) {
	v, ok := l[[2]string{dtype, iset}]
	return v, ok
}

func TestRowsAndAccuracy(t *testing.T) {
	b := build(t,
		rec(trigID, 2, "cv32e40p", "rv32im_zicsr", 20, 3),
		rec(trigID, 1, "cv32e40p", "rv32im_zicsr", 10, 1),
		rec(baseID, 1, "cv32e40p", "rv32im_zicsr", 8, 2),
	)
	m := b.Map()
	unmatched := AttachAccuracy(m, lookup{{"float", baseSet}: 0.75})
	if unmatched != 1 {
		t.Errorf("AttachAccuracy unmatched = %d, want 1", unmatched)
	}

	seedRows := Rows(m, true)
	var seeds []int
	for _, r := range seedRows {
		seeds = append(seeds, r.Seed)
	}
	// Base family first, then the trig seeds in insertion order.
	if !reflect.DeepEqual(seeds, []int{1, 2, 1}) {
		t.Errorf("per-seed rows have seeds %v", seeds)
	}

	sum := Rows(m, false)
	if len(sum) != 2 {
		t.Fatalf("got %d summary rows, want 2", len(sum))
	}
	if sum[0].Accuracy != 0.75 || !math.IsNaN(sum[1].Accuracy) {
		t.Errorf("accuracies %v, %v", sum[0].Accuracy, sum[1].Accuracy)
	}
	if sum[1].Mean != 15 || sum[1].Stddev != 2 || sum[1].Seed != -1 {
		t.Errorf("trig summary row = %+v", sum[1])
	}

	tab := Table(sum, false)
	want := []string{ColISet, ColDType, ColUArch, ColISA, ColABI, ColAvg, ColAvgSD, ColAccuracy, ColCost}
	if !reflect.DeepEqual(tab.Columns(), want) {
		t.Errorf("summary columns %v, want %v", tab.Columns(), want)
	}
	if tab.Len() != 2 {
		t.Errorf("summary table has %d rows", tab.Len())
	}
	tab = Table(seedRows, true)
	if got := tab.MustColumn(ColSeed).([]int); !reflect.DeepEqual(got, seeds) {
		t.Errorf("seed column %v", got)
	}
}
