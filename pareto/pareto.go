// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pareto computes Pareto fronts over aggregated sweep
// results.
//
// All objectives are minimized. Objectives that are naturally
// maximized, such as accuracy, are negated when points are built.
package pareto

import "fmt"

// Dominance selects when one point removes another from the front.
type Dominance int

const (
	// Strict removes a point only if another point is strictly
	// lower in every objective. Points that tie in any objective
	// never remove each other.
	Strict Dominance = iota

	// Weak removes a point if another point is no higher in every
	// objective and strictly lower in at least one. This is the
	// textbook definition of Pareto dominance.
	Weak
)

func (d Dominance) String() string {
	switch d {
	case Strict:
		return "strict"
	case Weak:
		return "weak"
	}
	return fmt.Sprintf("Dominance(%d)", int(d))
}

// ParseDominance parses the String form of a Dominance.
func ParseDominance(s string) (Dominance, error) {
	switch s {
	case "strict":
		return Strict, nil
	case "weak":
		return Weak, nil
	}
	return 0, fmt.Errorf("unknown dominance rule %q (want strict or weak)", s)
}

// Dominates reports whether a removes b under d. a and b must have
// the same length. Equal vectors never dominate each other.
func (d Dominance) Dominates(a, b []float64) bool {
	switch d {
	case Strict:
		for k := range a {
			if !(a[k] < b[k]) {
				return false
			}
		}
		return len(a) > 0
	case Weak:
		better := false
		for k := range a {
			if a[k] > b[k] {
				return false
			}
			if a[k] < b[k] {
				better = true
			}
		}
		return better
	}
	panic("unknown Dominance " + d.String())
}

// Efficient returns a mask marking the rows of costs that no other
// row dominates under d. Every row must have the same length.
//
// It works by iterative elimination: each row still marked efficient
// clears the mark of every other marked row it dominates. A row
// never clears itself. This takes O(N²·K) time for N rows of K
// objectives.
func Efficient(costs [][]float64, d Dominance) []bool {
	eff := make([]bool, len(costs))
	for i := range eff {
		eff[i] = true
	}
	for i, c := range costs {
		if !eff[i] {
			continue
		}
		for j, o := range costs {
			if j == i || !eff[j] {
				continue
			}
			if len(o) != len(c) {
				panic(fmt.Sprintf("row %d has %d objectives, row %d has %d", j, len(o), i, len(c)))
			}
			if d.Dominates(c, o) {
				eff[j] = false
			}
		}
	}
	return eff
}
