// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package canon derives seed-independent keys and compact nicknames
// from sweep run identifiers.
//
// A run identifier is a flat string such as
//
//	useInstrTrig-True_useInstrLogExp-False_seed-3_instrType-float
//
// Canonicalize strips the seed token from it, yielding a Key shared by
// every seed of the same configuration. The nickname operations then
// compress a Key, a microarchitecture name, or an ISA string into the
// short labels used to group and report results.
//
// All rewriting is driven by a Rules value. The rule lists are ordered
// and applied strictly in sequence, so later rules may match text
// produced by earlier ones.
package canon

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// A Key is a canonical, seed-independent run identifier.
type Key string

var (
	// ErrNoSeed is returned by Canonicalize when the identifier
	// has no seed token. Such a run cannot be assigned to a seed
	// bucket.
	ErrNoSeed = errors.New("no seed token")

	// ErrMultipleSeeds is returned by Canonicalize when the
	// identifier has more than one seed token.
	ErrMultipleSeeds = errors.New("more than one seed token")
)

var underscores = regexp.MustCompile(`_{2,}`)

// Collapse replaces every run of two or more underscores in s with a
// single underscore and trims leading and trailing underscores.
// Collapse is idempotent.
func Collapse(s string) string {
	return strings.Trim(underscores.ReplaceAllString(s, "_"), "_")
}

// A Canonicalizer canonicalizes identifiers and derives nicknames
// according to a fixed set of Rules.
type Canonicalizer struct {
	rules Rules

	// flags caches the compiled matcher for each flag name.
	flags map[string]*regexp.Regexp
	dtype *regexp.Regexp
}

// New returns a Canonicalizer for rules. The seed pattern must have
// exactly one capturing group, which captures the seed digits.
func New(rules Rules) (*Canonicalizer, error) {
	if rules.SeedPattern == nil {
		return nil, fmt.Errorf("canon: missing seed pattern")
	}
	if n := rules.SeedPattern.NumSubexp(); n != 1 {
		return nil, fmt.Errorf("canon: seed pattern %q has %d groups, want 1", rules.SeedPattern, n)
	}
	c := &Canonicalizer{
		rules: rules,
		flags: make(map[string]*regexp.Regexp),
		dtype: regexp.MustCompile(`(?:^|_)instrType-(double|float|fixedpt)(?:_|$)`),
	}
	add := func(flag string) {
		if _, ok := c.flags[flag]; !ok {
			c.flags[flag] = regexp.MustCompile(`(?:^|_)` + regexp.QuoteMeta(flag) + `-(True|False)(?:_|$)`)
		}
	}
	for _, f := range rules.ISet.Discriminators {
		add(f)
	}
	for _, v := range []Vocabulary{rules.ISet.A, rules.ISet.B} {
		for _, e := range v {
			add(e.Flag)
		}
	}
	return c, nil
}

// Default returns a Canonicalizer using DefaultRules.
func Default() *Canonicalizer {
	c, err := New(DefaultRules())
	if err != nil {
		panic(err)
	}
	return c
}

// Rules returns the rules c was constructed with.
func (c *Canonicalizer) Rules() Rules {
	return c.rules
}

// Canonicalize removes the seed token from id and returns the
// resulting Key together with the seed number.
//
// id must contain exactly one seed token, counting tokens that share
// an underscore such as "_seed-1_seed-2_". The token is replaced by a
// single underscore and the result is passed through Collapse.
func (c *Canonicalizer) Canonicalize(id string) (Key, int, error) {
	m := c.rules.SeedPattern.FindAllStringSubmatchIndex(id, -1)
	switch {
	case len(m) == 0:
		return "", 0, fmt.Errorf("identifier %q: %w", id, ErrNoSeed)
	case len(m) > 1:
		return "", 0, fmt.Errorf("identifier %q: %w", id, ErrMultipleSeeds)
	}
	loc := m[0]
	rest := id[:loc[0]] + "_" + id[loc[1]:]
	// Tokens sharing an underscore do not match separately.
	if c.rules.SeedPattern.MatchString(rest) {
		return "", 0, fmt.Errorf("identifier %q: %w", id, ErrMultipleSeeds)
	}
	seed, err := strconv.Atoi(id[loc[2]:loc[3]])
	if err != nil {
		return "", 0, fmt.Errorf("identifier %q: bad seed: %v", id, err)
	}
	return Key(Collapse(rest)), seed, nil
}

// flag reports the value of the boolean flag name in k, and whether
// the flag appears at all.
func (c *Canonicalizer) flag(k Key, name string) (val, ok bool) {
	re := c.flags[name]
	if re == nil {
		return false, false
	}
	m := re.FindStringSubmatch(string(k))
	if m == nil {
		return false, false
	}
	return m[1] == "True", true
}

// DType returns the data type named by the instrType token of k.
func (c *Canonicalizer) DType(k Key) (string, bool) {
	m := c.dtype.FindStringSubmatch(string(k))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ISetNickname returns the operator-set label of k, such as
// "{trig,*,/,>,-,+}".
//
// Dialect B is used if any discriminator flag appears in k, whatever
// its value. Otherwise dialect A is used. Each enabled flag of the
// chosen dialect contributes its operators in vocabulary order, and
// the base operators always come last. An operator appears at most
// once. Flags missing from k contribute nothing.
func (c *Canonicalizer) ISetNickname(k Key) string {
	isr := &c.rules.ISet
	vocab := isr.A
	for _, d := range isr.Discriminators {
		if _, ok := c.flag(k, d); ok {
			vocab = isr.B
			break
		}
	}

	var ops []string
	seen := make(map[string]bool)
	add := func(list []string) {
		for _, op := range list {
			if !seen[op] {
				seen[op] = true
				ops = append(ops, op)
			}
		}
	}
	for _, e := range vocab {
		if on, _ := c.flag(k, e.Flag); on {
			add(e.Ops)
		}
	}
	add(isr.Base)
	return "{" + strings.Join(ops, ",") + "}"
}

// ISANickname shortens an ISA extension string.
func (c *Canonicalizer) ISANickname(isa string) string {
	return c.rules.ISA.Apply(isa)
}

// UArchNickname shortens a microarchitecture name.
func (c *Canonicalizer) UArchNickname(uarch string) string {
	return c.rules.UArch.Apply(uarch)
}

// SplitCompressed decides which of two ISA nicknames is the
// compressed-instruction variant.
//
// An ISA containing the compressed infix (such as "rv32imc_xpulp")
// wins first; failing that, an ISA ending in the compressed suffix
// (such as "rv32imc"). If neither test tells a and b apart,
// SplitCompressed returns a, b, false; callers must treat the pair
// as unordered.
func (c *Canonicalizer) SplitCompressed(a, b string) (compressed, base string, ok bool) {
	if infix := c.rules.CompressedInfix; infix != "" {
		ai, bi := strings.Contains(a, infix), strings.Contains(b, infix)
		if ai != bi {
			if ai {
				return a, b, true
			}
			return b, a, true
		}
	}
	if suffix := c.rules.CompressedSuffix; suffix != "" {
		as, bs := strings.HasSuffix(a, suffix), strings.HasSuffix(b, suffix)
		if as != bs {
			if as {
				return a, b, true
			}
			return b, a, true
		}
	}
	return a, b, false
}
