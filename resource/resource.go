// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resource attaches FPGA resource usage to aggregated sweep
// results and scores it against a baseline microarchitecture.
package resource

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/goccy/go-json"
	"github.com/samber/lo"
	"github.com/tpg-expe/sweepstat/sweepagg"
)

// Keys of a resource table entry. Each holds a list of counts of
// which only the first is used.
const (
	KeyDSP = "DSPs"
	KeyLUT = "Slice LUTs"
	KeyReg = "Slice Registers"
)

// ErrDegenerateBaseline is returned when the baseline has no LUTs or
// no registers, so no cost can be normalized against it.
var ErrDegenerateBaseline = errors.New("degenerate resource baseline")

// A Table maps a microarchitecture nickname to its resource usage.
type Table map[string]sweepagg.Resources

// ReadTable reads a JSON resource table keyed by raw
// microarchitecture name, converting each key with nick. Entries
// whose nicknames collide must agree; otherwise ReadTable fails.
func ReadTable(r io.Reader, nick func(string) string) (Table, error) {
	var raw map[string]map[string][]json.Number
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("reading resource table: %w", err)
	}
	t := make(Table)
	for _, name := range lo.Keys(raw) {
		entry := raw[name]
		var res sweepagg.Resources
		for _, f := range []struct {
			key string
			dst *int
		}{{KeyDSP, &res.DSP}, {KeyLUT, &res.LUT}, {KeyReg, &res.Reg}} {
			vals := entry[f.key]
			if len(vals) == 0 {
				return nil, fmt.Errorf("resource table: %s: missing %q", name, f.key)
			}
			n, err := vals[0].Int64()
			if err != nil || n < 0 {
				return nil, fmt.Errorf("resource table: %s: bad %q value %s", name, f.key, vals[0])
			}
			*f.dst = int(n)
		}
		if nick != nil {
			name = nick(name)
		}
		if old, ok := t[name]; ok && old != res {
			return nil, fmt.Errorf("resource table: conflicting entries for %s", name)
		}
		t[name] = res
	}
	return t, nil
}

// Assign sets the Resources of every group in m whose
// microarchitecture is in t. It returns the number of groups left
// without resources.
func Assign(m sweepagg.Map, t Table) (unmatched int) {
	for _, g := range m.Groups() {
		res, ok := t[g.UArch]
		if !ok {
			unmatched++
			continue
		}
		g.Resources = &res
	}
	return unmatched
}

// A Baseline is the resource usage that normalized costs are
// relative to.
type Baseline struct {
	sweepagg.Resources
	UArch string
}

// FindBaseline returns the resources of the annotated group with the
// fewest LUTs. Its DSP and register counts come from that same group.
// Ties go to the first group in sorted order. It returns false if no
// group has resources.
func FindBaseline(m sweepagg.Map) (Baseline, bool) {
	var b Baseline
	found := false
	for _, g := range m.Groups() {
		if g.Resources == nil {
			continue
		}
		if !found || g.Resources.LUT < b.LUT {
			b = Baseline{*g.Resources, g.UArch}
			found = true
		}
	}
	return b, found
}

// Weights weighs resource counts into a single cost.
type Weights struct {
	LUT float64 `yaml:"lut"`
	Reg float64 `yaml:"reg"`

	// DSPEquivalence is the number of LUT/register units one DSP
	// block is worth. The DSP weight is (LUT+Reg)*DSPEquivalence.
	DSPEquivalence float64 `yaml:"dsp_equivalence"`
}

// DefaultWeights weighs LUTs and registers equally and counts a DSP
// block as 100 of either.
func DefaultWeights() Weights {
	return Weights{LUT: 0.5, Reg: 0.5, DSPEquivalence: 100}
}

// DSP returns the weight of one DSP block.
func (w Weights) DSP() float64 {
	return (w.LUT + w.Reg) * w.DSPEquivalence
}

// Cost returns the weighted cost of r.
func (w Weights) Cost(r sweepagg.Resources) float64 {
	return w.LUT*float64(r.LUT) + w.Reg*float64(r.Reg) + w.DSP()*float64(r.DSP)
}

// A Normalizer scores groups relative to a baseline.
type Normalizer struct {
	Weights Weights
}

// Normalize sets the NormalizedCost of every annotated group in m to
// 100 times its cost divided by the baseline cost, so the baseline
// itself scores exactly 100.
//
// If the baseline has no LUTs or no registers, Normalize returns an
// error wrapping ErrDegenerateBaseline and modifies no group.
func (n *Normalizer) Normalize(m sweepagg.Map, base Baseline) error {
	if base.LUT == 0 || base.Reg == 0 {
		return fmt.Errorf("%w: %s has %d LUTs, %d registers", ErrDegenerateBaseline, base.UArch, base.LUT, base.Reg)
	}
	baseCost := n.Weights.Cost(base.Resources)
	if baseCost <= 0 || math.IsNaN(baseCost) || math.IsInf(baseCost, 0) {
		return fmt.Errorf("%w: %s has cost %v", ErrDegenerateBaseline, base.UArch, baseCost)
	}
	for _, g := range m.Groups() {
		if g.Resources == nil {
			continue
		}
		var v float64
		if *g.Resources == base.Resources {
			v = 100
		} else {
			v = 100 * n.Weights.Cost(*g.Resources) / baseCost
		}
		g.NormalizedCost = &v
	}
	return nil
}

// Run assigns t to m, finds the baseline, and normalizes. It returns
// the baseline and the number of groups without resources.
func (n *Normalizer) Run(m sweepagg.Map, t Table) (Baseline, int, error) {
	unmatched := Assign(m, t)
	base, ok := FindBaseline(m)
	if !ok {
		return base, unmatched, fmt.Errorf("no group has resource data")
	}
	return base, unmatched, n.Normalize(m, base)
}

// Names returns the nicknames in t in sorted order.
func (t Table) Names() []string {
	names := lo.Keys(t)
	sort.Strings(names)
	return names
}
