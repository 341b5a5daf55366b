// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sweepagg groups sweep records by configuration family,
// microarchitecture, and ISA, and reduces each group to summary
// statistics.
//
// The central type is Map, a three-level map
//
//	family → microarchitecture → ISA → *ArchGroup
//
// built by a Builder. Each ArchGroup collects one SeedResult per
// contributing record. Later passes (accuracy import, resource
// annotation, normalization) annotate groups in place but never add
// or remove them.
package sweepagg

import (
	"sort"

	"github.com/samber/lo"
	"github.com/tpg-expe/sweepstat/canon"
	"github.com/tpg-expe/sweepstat/sweepfmt"
)

// A Family identifies a TPG configuration family: an operator-set
// label together with the data type it was trained with.
type Family struct {
	ISet  string
	DType sweepfmt.DType
}

func (f Family) String() string {
	return f.ISet + "-" + string(f.DType)
}

func (f Family) less(g Family) bool {
	if f.ISet != g.ISet {
		return f.ISet < g.ISet
	}
	return f.DType < g.DType
}

// A SeedResult is the measurement of one seed of one group.
type SeedResult struct {
	Mean, Stddev float64
	Seed         int

	// Source and Identifier record where the result came from.
	Source     string
	Identifier string
	Config     canon.Key
}

// Resources is the FPGA resource usage of a microarchitecture.
type Resources struct {
	DSP int
	LUT int
	Reg int
}

// An ArchGroup is the aggregation cell for one (family, uarch, ISA)
// triple.
type ArchGroup struct {
	Family Family
	UArch  string
	ISA    string
	ABI    string

	// Seeds holds one entry per contributing record, in the order
	// records were added.
	Seeds []SeedResult

	// Accuracy is the task-quality metric of the family, if known.
	Accuracy *float64

	// Resources is the resource usage of UArch, if known.
	Resources *Resources

	// NormalizedCost is the weighted resource cost relative to
	// the baseline, where the baseline is 100.
	NormalizedCost *float64
}

// A Map is the hierarchical grouping of ArchGroups by family, then
// microarchitecture nickname, then ISA nickname.
type Map map[Family]map[string]map[string]*ArchGroup

// Lookup returns the group for the given triple, or nil.
func (m Map) Lookup(f Family, uarch, isa string) *ArchGroup {
	return m[f][uarch][isa]
}

// insert returns the group for the given triple, creating it if
// needed. This is the only place groups are created.
func (m Map) insert(f Family, uarch, isa string) (g *ArchGroup, created bool) {
	byUArch := m[f]
	if byUArch == nil {
		byUArch = make(map[string]map[string]*ArchGroup)
		m[f] = byUArch
	}
	byISA := byUArch[uarch]
	if byISA == nil {
		byISA = make(map[string]*ArchGroup)
		byUArch[uarch] = byISA
	}
	if g = byISA[isa]; g != nil {
		return g, false
	}
	g = &ArchGroup{Family: f, UArch: uarch, ISA: isa}
	byISA[isa] = g
	return g, true
}

// put stores g at its own triple, replacing any existing group.
func (m Map) put(g *ArchGroup) {
	byUArch := m[g.Family]
	if byUArch == nil {
		byUArch = make(map[string]map[string]*ArchGroup)
		m[g.Family] = byUArch
	}
	if byUArch[g.UArch] == nil {
		byUArch[g.UArch] = make(map[string]*ArchGroup)
	}
	byUArch[g.UArch][g.ISA] = g
}

// Families returns the families of m in sorted order.
func (m Map) Families() []Family {
	fs := lo.Keys(m)
	sort.Slice(fs, func(i, j int) bool { return fs[i].less(fs[j]) })
	return fs
}

func sortedKeys[V any](m map[string]V) []string {
	ks := lo.Keys(m)
	sort.Strings(ks)
	return ks
}

// Groups returns every group of m, sorted by family, uarch, and ISA.
func (m Map) Groups() []*ArchGroup {
	var gs []*ArchGroup
	for _, f := range m.Families() {
		for _, u := range sortedKeys(m[f]) {
			for _, i := range sortedKeys(m[f][u]) {
				gs = append(gs, m[f][u][i])
			}
		}
	}
	return gs
}

// Len returns the number of groups in m.
func (m Map) Len() int {
	n := 0
	for _, byUArch := range m {
		for _, byISA := range byUArch {
			n += len(byISA)
		}
	}
	return n
}
