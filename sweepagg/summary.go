// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweepagg

import (
	"fmt"

	"github.com/aclements/go-moremath/stats"
)

// A Summary reduces the seeds of one ArchGroup.
type Summary struct {
	// MeanLatencyAvg is the mean of the per-seed mean latencies.
	MeanLatencyAvg float64

	// MeanLatencyStddev is the mean of the per-seed standard
	// deviations: the typical within-run noise. It is not the
	// spread of the per-seed means across seeds.
	MeanLatencyStddev float64

	// N is the number of seeds.
	N int
}

// Summarize reduces g's seeds. It returns false if g has no seeds.
func (g *ArchGroup) Summarize() (Summary, bool) {
	if len(g.Seeds) == 0 {
		return Summary{}, false
	}
	means := make([]float64, len(g.Seeds))
	stddevs := make([]float64, len(g.Seeds))
	for i, s := range g.Seeds {
		means[i], stddevs[i] = s.Mean, s.Stddev
	}
	return Summary{
		MeanLatencyAvg:    stats.Mean(means),
		MeanLatencyStddev: stats.Mean(stddevs),
		N:                 len(g.Seeds),
	}, true
}

// An ISAPolicy selects how SelectBestISA picks the best ISA of a
// microarchitecture.
type ISAPolicy int

const (
	// PerFamily picks the fastest ISA independently within each
	// family.
	PerFamily ISAPolicy = iota

	// Global picks, for each microarchitecture, the ISA whose
	// latency averaged over all families is lowest, and keeps
	// that ISA in every family.
	Global
)

func (p ISAPolicy) String() string {
	switch p {
	case PerFamily:
		return "per-family"
	case Global:
		return "global"
	}
	return fmt.Sprintf("ISAPolicy(%d)", int(p))
}

// ParseISAPolicy parses the String form of an ISAPolicy.
func ParseISAPolicy(s string) (ISAPolicy, error) {
	switch s {
	case "per-family":
		return PerFamily, nil
	case "global":
		return Global, nil
	}
	return 0, fmt.Errorf("unknown ISA policy %q (want per-family or global)", s)
}

// SelectBestISA returns a Map that keeps, for each family and
// microarchitecture, only the ISA with the lowest summarized mean
// latency under policy p. Groups without seeds never win. Ties go to
// the lexically smaller ISA.
//
// Under Global, a family that lacks the globally best ISA for a
// microarchitecture has that microarchitecture dropped.
//
// The result shares ArchGroups with m.
func SelectBestISA(m Map, p ISAPolicy) Map {
	out := make(Map)
	switch p {
	case PerFamily:
		for _, byUArch := range m {
			for _, isas := range byUArch {
				var best *ArchGroup
				var bestLat float64
				for _, isa := range sortedKeys(isas) {
					g := isas[isa]
					s, ok := g.Summarize()
					if !ok {
						continue
					}
					if best == nil || s.MeanLatencyAvg < bestLat {
						best, bestLat = g, s.MeanLatencyAvg
					}
				}
				if best != nil {
					out.put(best)
				}
			}
		}

	case Global:
		// Collect each ISA's latencies per uarch across families.
		lats := make(map[string]map[string][]float64)
		for _, g := range m.Groups() {
			s, ok := g.Summarize()
			if !ok {
				continue
			}
			if lats[g.UArch] == nil {
				lats[g.UArch] = make(map[string][]float64)
			}
			lats[g.UArch][g.ISA] = append(lats[g.UArch][g.ISA], s.MeanLatencyAvg)
		}
		bestISA := make(map[string]string)
		for uarch, byISA := range lats {
			var bestLat float64
			for _, isa := range sortedKeys(byISA) {
				lat := stats.Mean(byISA[isa])
				if _, ok := bestISA[uarch]; !ok || lat < bestLat {
					bestISA[uarch], bestLat = isa, lat
				}
			}
		}
		for _, byUArch := range m {
			for uarch, isas := range byUArch {
				isa, ok := bestISA[uarch]
				if !ok {
					continue
				}
				if g := isas[isa]; g != nil && len(g.Seeds) > 0 {
					out.put(g)
				}
			}
		}

	default:
		panic("unknown ISAPolicy " + p.String())
	}
	return out
}
