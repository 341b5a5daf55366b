// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pareto

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/tpg-expe/sweepstat/sweepagg"
)

// An Objective extracts one value from a group.
type Objective struct {
	Name string

	// Maximize indicates that higher values are better. Such
	// values are negated in Point.Objectives.
	Maximize bool

	// Value returns the objective value of g, or false if g does
	// not have one.
	Value func(g *sweepagg.ArchGroup) (float64, bool)
}

var builtins = []Objective{
	{Name: "latency", Value: func(g *sweepagg.ArchGroup) (float64, bool) {
		s, ok := g.Summarize()
		return s.MeanLatencyAvg, ok
	}},
	{Name: "stddev", Value: func(g *sweepagg.ArchGroup) (float64, bool) {
		s, ok := g.Summarize()
		return s.MeanLatencyStddev, ok
	}},
	{Name: "cost", Value: func(g *sweepagg.ArchGroup) (float64, bool) {
		if g.NormalizedCost == nil {
			return 0, false
		}
		return *g.NormalizedCost, true
	}},
	{Name: "accuracy", Maximize: true, Value: accuracy},
	// distance is an error metric imported through the accuracy
	// table, so lower is better.
	{Name: "distance", Value: accuracy},
}

func accuracy(g *sweepagg.ArchGroup) (float64, bool) {
	if g.Accuracy == nil {
		return 0, false
	}
	return *g.Accuracy, true
}

// Builtin returns the built-in objective with the given name:
// "latency", "stddev", "cost", "accuracy", or "distance".
func Builtin(name string) (Objective, error) {
	for _, o := range builtins {
		if o.Name == name {
			return o, nil
		}
	}
	return Objective{}, fmt.Errorf("unknown objective %q", name)
}

// Builtins returns the built-in objectives with the given names.
func Builtins(names ...string) ([]Objective, error) {
	objs := make([]Objective, len(names))
	for i, name := range names {
		o, err := Builtin(name)
		if err != nil {
			return nil, err
		}
		objs[i] = o
	}
	return objs, nil
}

// A Point is the objective vector of one group.
type Point struct {
	// Objectives holds one value per objective, oriented so lower
	// is better.
	Objectives []float64

	Group *sweepagg.ArchGroup
}

// Value returns objective k of p in its natural orientation.
func (p Point) Value(objs []Objective, k int) float64 {
	if objs[k].Maximize {
		return -p.Objectives[k]
	}
	return p.Objectives[k]
}

// Points builds one point per group of m, in sorted group order.
// Groups missing any objective are left out and counted in skipped.
func Points(m sweepagg.Map, objs []Objective) (points []Point, skipped int) {
	for _, g := range m.Groups() {
		vec := make([]float64, len(objs))
		ok := true
		for k, o := range objs {
			v, has := o.Value(g)
			if !has {
				ok = false
				break
			}
			if o.Maximize {
				v = -v
			}
			vec[k] = v
		}
		if !ok {
			skipped++
			continue
		}
		points = append(points, Point{vec, g})
	}
	return points, skipped
}

// Mask returns the efficiency mask of points under d.
func Mask(points []Point, d Dominance) []bool {
	costs := make([][]float64, len(points))
	for i, p := range points {
		costs[i] = p.Objectives
	}
	return Efficient(costs, d)
}

// Front returns the points that are efficient over all objectives, in
// their original order.
func Front(points []Point, d Dominance) []Point {
	mask := Mask(points, d)
	return lo.Filter(points, func(_ Point, i int) bool { return mask[i] })
}

// A FamilyFront is the 2-D front of one family's points.
type FamilyFront struct {
	Family sweepagg.Family

	// Points is sorted by the first objective, then the second,
	// so it can be drawn as an envelope.
	Points []Point
}

// FamilyFronts computes, for each family, the front of that family's
// points projected onto objectives i and j.
//
// These fronts are not subsets of the global front: a point can be
// efficient within its family on (i, j) yet dominated by another
// family's point, or dominated on (i, j) yet efficient once the
// remaining objectives are considered.
func FamilyFronts(points []Point, i, j int, d Dominance) []FamilyFront {
	byFam := lo.GroupBy(points, func(p Point) sweepagg.Family { return p.Group.Family })
	fams := lo.Keys(byFam)
	sort.Slice(fams, func(a, b int) bool { return fams[a].String() < fams[b].String() })

	var out []FamilyFront
	for _, f := range fams {
		ps := byFam[f]
		costs := make([][]float64, len(ps))
		for k, p := range ps {
			costs[k] = []float64{p.Objectives[i], p.Objectives[j]}
		}
		mask := Efficient(costs, d)
		front := lo.Filter(ps, func(_ Point, k int) bool { return mask[k] })
		sort.SliceStable(front, func(a, b int) bool {
			pa, pb := front[a].Objectives, front[b].Objectives
			if pa[i] != pb[i] {
				return pa[i] < pb[i]
			}
			return pa[j] < pb[j]
		})
		out = append(out, FamilyFront{f, front})
	}
	return out
}
