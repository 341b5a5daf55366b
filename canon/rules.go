// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package canon

import (
	"regexp"
	"strings"
)

// A Replacement replaces every occurrence of Old with New.
type Replacement struct {
	Old string `yaml:"old" json:"old"`
	New string `yaml:"new" json:"new"`
}

// A Rewrite is an ordered list of substring replacements.
type Rewrite []Replacement

// Apply applies each replacement of rw to s in order and returns the
// result. Each replacement sees the output of the previous ones.
func (rw Rewrite) Apply(s string) string {
	for _, r := range rw {
		if r.Old == "" {
			continue
		}
		s = strings.ReplaceAll(s, r.Old, r.New)
	}
	return s
}

// A FlagOps maps a boolean flag to the operators it enables.
type FlagOps struct {
	Flag string   `yaml:"flag" json:"flag"`
	Ops  []string `yaml:"ops" json:"ops"`
}

// A Vocabulary is an ordered list of flags. Order determines the
// order of operators in a nickname.
type Vocabulary []FlagOps

// ISetRules configures ISetNickname.
type ISetRules struct {
	// Discriminators are the flags whose presence selects
	// dialect B.
	Discriminators []string

	// A and B are the two flag dialects.
	A, B Vocabulary

	// Base is the operator set appended to every label.
	Base []string
}

// Rules is the complete configuration of a Canonicalizer.
type Rules struct {
	// SeedPattern matches a seed token. Its single group captures
	// the seed number.
	SeedPattern *regexp.Regexp

	ISet ISetRules

	// ISA and UArch are the rewrite chains for ISA strings and
	// microarchitecture names.
	ISA, UArch Rewrite

	// CompressedInfix and CompressedSuffix identify the
	// compressed ISA of a pair. See SplitCompressed.
	CompressedInfix, CompressedSuffix string
}

// XpulpBundle is the extension list that ISANickname collapses into
// "_xpulp".
const XpulpBundle = "_xcvalu_xcvbi_xcvbitmanip_xcvhwlp_xcvmac_xcvmem_xcvsimd"

// DefaultRules returns the built-in rules. The result is a fresh copy
// that callers may modify.
func DefaultRules() Rules {
	return Rules{
		SeedPattern: regexp.MustCompile(`_seed-(\d+)_`),
		ISet: ISetRules{
			Discriminators: []string{"useInstrLog2Exp2", "useInstrZmmul"},
			A: Vocabulary{
				{"useInstrTrig", []string{"trig"}},
				{"useInstrLogExp", []string{"ln", "exp"}},
				{"useInstrExpensiveArithmetic", []string{"*", "/"}},
			},
			B: Vocabulary{
				{"useInstrLog2Exp2", []string{"log2", "exp2"}},
				{"useInstrZmmul", []string{"*"}},
				{"useInstrExpensiveArithmetic", []string{"*", "/"}},
			},
			Base: []string{">", "-", "+"},
		},
		ISA: Rewrite{
			{XpulpBundle, "_xpulp"},
			// zicsr is present on every core and tells runs apart
			// by nothing.
			{"_zicsr", ""},
		},
		UArch: Rewrite{
			// "compressed" is a substring of "uncompressed".
			{"_uncompressed", ""},
			{"_compressed", ""},

			{"cv32e40px", "e40px"},
			{"cv32e40p", "e40p"},
			{"cv32e40x", "e40x"},
			{"cv32e20", "e20"},
			{"_corev_pulp", "_pulp"},

			// cv32e40x tiers: 0 none, 1 Zmmul, 2 full M.
			{"e40x_im0", "e40x_i"},
			{"e40x_im1", "e40x_i-zmmul"},
			{"e40x_im2", "e40x_im"},
			{"e40x_em0", "e40x_e"},
			{"e40x_em1", "e40x_e-zmmul"},
			{"e40x_em2", "e40x_em"},

			// cv32e20 RV32M tiers: 0 none, 1 slow, 2 fast,
			// 3 single-cycle.
			{"_im0", "_i"},
			{"_im1", "_im-slow"},
			{"_im2", "_im-fast"},
			{"_im3", "_im-1c"},
			{"_em0", "_e"},
			{"_em1", "_em-slow"},
			{"_em2", "_em-fast"},
			{"_em3", "_em-1c"},
		},
		CompressedInfix:  "c_",
		CompressedSuffix: "c",
	}
}
