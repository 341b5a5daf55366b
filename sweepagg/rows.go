// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweepagg

import (
	"math"

	"github.com/aclements/go-gg/table"
)

// A Row is one line of the flat projection of a Map.
type Row struct {
	Family          Family
	UArch, ISA, ABI string

	// Seed is the seed of a per-seed row, or -1 in a summary row.
	Seed int

	// Mean and Stddev are the latency of one seed in a per-seed
	// row, or the Summary of the group in a summary row.
	Mean, Stddev float64

	// Accuracy and Cost are the group's annotations, or NaN if
	// the group has none.
	Accuracy, Cost float64
}

// Rows flattens m into rows sorted by family, uarch, ISA, and (for
// per-seed rows) insertion order. If perSeed is false, Rows emits one
// summary row per group and omits groups without seeds.
func Rows(m Map, perSeed bool) []Row {
	var rows []Row
	for _, g := range m.Groups() {
		base := Row{
			Family:   g.Family,
			UArch:    g.UArch,
			ISA:      g.ISA,
			ABI:      g.ABI,
			Seed:     -1,
			Accuracy: optional(g.Accuracy),
			Cost:     optional(g.NormalizedCost),
		}
		if perSeed {
			for _, s := range g.Seeds {
				r := base
				r.Seed, r.Mean, r.Stddev = s.Seed, s.Mean, s.Stddev
				rows = append(rows, r)
			}
			continue
		}
		sum, ok := g.Summarize()
		if !ok {
			continue
		}
		base.Mean, base.Stddev = sum.MeanLatencyAvg, sum.MeanLatencyStddev
		rows = append(rows, base)
	}
	return rows
}

func optional(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

// Column names of the tables produced by Table.
const (
	ColISet     = "iset"
	ColDType    = "dtype"
	ColUArch    = "uarch"
	ColISA      = "isa"
	ColABI      = "abi"
	ColSeed     = "seed"
	ColMean     = "tpg_mean_latency"
	ColStddev   = "tpg_stddev_latency"
	ColAvg      = "mean_latency_avg"
	ColAvgSD    = "mean_latency_stddev"
	ColAccuracy = "accuracy"
	ColCost     = "normalized_cost"
)

// Table converts rows to a table. Per-seed tables have a seed column
// and the raw latency columns; summary tables have the summarized
// latency columns plus accuracy and normalized cost.
func Table(rows []Row, perSeed bool) *table.Table {
	n := len(rows)
	iset, dtype := make([]string, n), make([]string, n)
	uarch, isa, abi := make([]string, n), make([]string, n), make([]string, n)
	seed := make([]int, n)
	mean, stddev := make([]float64, n), make([]float64, n)
	acc, cost := make([]float64, n), make([]float64, n)
	for i, r := range rows {
		iset[i], dtype[i] = r.Family.ISet, string(r.Family.DType)
		uarch[i], isa[i], abi[i] = r.UArch, r.ISA, r.ABI
		seed[i] = r.Seed
		mean[i], stddev[i] = r.Mean, r.Stddev
		acc[i], cost[i] = r.Accuracy, r.Cost
	}

	var b table.Builder
	b.Add(ColISet, iset).Add(ColDType, dtype)
	b.Add(ColUArch, uarch).Add(ColISA, isa).Add(ColABI, abi)
	if perSeed {
		b.Add(ColSeed, seed).Add(ColMean, mean).Add(ColStddev, stddev)
	} else {
		b.Add(ColAvg, mean).Add(ColAvgSD, stddev)
		b.Add(ColAccuracy, acc).Add(ColCost, cost)
	}
	return b.Done()
}
