// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweepagg

import (
	"fmt"
	"strings"

	"github.com/tpg-expe/sweepstat/canon"
)

// A PairViolation reports a (family, uarch) cell that does not hold
// exactly two ISA variants.
type PairViolation struct {
	Family Family
	UArch  string
	ISAs   []string
}

func (v PairViolation) Error() string {
	return fmt.Sprintf("%s %s: want 2 ISA variants, have %d [%s]", v.Family, v.UArch, len(v.ISAs), strings.Join(v.ISAs, " "))
}

// ValidateISAPairs checks that every (family, uarch) cell of m has
// exactly two ISA variants, the compressed and uncompressed encoding
// of the same base ISA. It returns one violation per offending cell,
// in sorted order.
func ValidateISAPairs(m Map) []PairViolation {
	var vs []PairViolation
	for _, f := range m.Families() {
		for _, u := range sortedKeys(m[f]) {
			if isas := sortedKeys(m[f][u]); len(isas) != 2 {
				vs = append(vs, PairViolation{f, u, isas})
			}
		}
	}
	return vs
}

// A CompressionPair is the compressed and uncompressed variant of one
// (family, uarch) cell.
type CompressionPair struct {
	Family Family
	UArch  string

	Compressed, Base *ArchGroup

	// Ordered is false if the ISA nicknames did not say which of
	// the two is compressed. Compressed and Base are then in
	// lexical ISA order.
	Ordered bool
}

// Ratio returns the summarized latency of the compressed variant
// divided by that of the base variant. It returns false if either
// variant has no seeds or the base latency is zero.
func (p CompressionPair) Ratio() (float64, bool) {
	cs, ok1 := p.Compressed.Summarize()
	bs, ok2 := p.Base.Summarize()
	if !ok1 || !ok2 || bs.MeanLatencyAvg == 0 {
		return 0, false
	}
	return cs.MeanLatencyAvg / bs.MeanLatencyAvg, true
}

// CompressionPairs splits every valid (family, uarch) cell of m into
// its compressed and base variant using c's compression rules. Cells
// without exactly two variants are skipped and reported as
// violations.
func CompressionPairs(m Map, c *canon.Canonicalizer) ([]CompressionPair, []PairViolation) {
	var ps []CompressionPair
	var vs []PairViolation
	for _, f := range m.Families() {
		for _, u := range sortedKeys(m[f]) {
			isas := sortedKeys(m[f][u])
			if len(isas) != 2 {
				vs = append(vs, PairViolation{f, u, isas})
				continue
			}
			comp, base, ok := c.SplitCompressed(isas[0], isas[1])
			ps = append(ps, CompressionPair{
				Family:     f,
				UArch:      u,
				Compressed: m[f][u][comp],
				Base:       m[f][u][base],
				Ordered:    ok,
			})
		}
	}
	return ps, vs
}
