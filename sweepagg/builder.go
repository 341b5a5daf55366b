// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweepagg

import (
	"fmt"

	"github.com/tpg-expe/sweepstat/canon"
	"github.com/tpg-expe/sweepstat/sweepfmt"
)

// A Builder folds records into a Map.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	canon *canon.Canonicalizer
	m     Map

	// Skipped lists the records that were rejected, in the order
	// they were seen.
	Skipped []*sweepfmt.RecordError

	// Warnings lists non-fatal inconsistencies found while adding
	// records, such as a group whose records disagree on ABI.
	Warnings []error
}

// NewBuilder returns a Builder that derives keys with c.
func NewBuilder(c *canon.Canonicalizer) *Builder {
	return &Builder{canon: c, m: make(Map)}
}

// AddItem adds a record, or counts a *sweepfmt.RecordError as
// skipped.
func (b *Builder) AddItem(it sweepfmt.Item) error {
	switch it := it.(type) {
	case *sweepfmt.Record:
		return b.Add(it)
	case *sweepfmt.RecordError:
		b.Skipped = append(b.Skipped, it)
		return nil
	}
	panic(fmt.Sprintf("unknown item type %T", it))
}

// Add adds rec to the group of its (family, uarch, ISA) triple,
// creating the group if needed.
//
// The family is derived from the canonical form of rec.Identifier.
// If the identifier has no seed token, Add returns an error wrapping
// canon.ErrNoSeed and leaves the Map unchanged; the batch cannot be
// trusted past that point.
func (b *Builder) Add(rec *sweepfmt.Record) error {
	key, seed, err := b.canon.Canonicalize(rec.Identifier)
	if err != nil {
		return fmt.Errorf("%s: %w", rec.Source, err)
	}
	if dt, ok := b.canon.DType(key); ok && dt != string(rec.DType) {
		b.Warnings = append(b.Warnings, fmt.Errorf("%s: identifier says %s but record says %s", rec.Source, dt, rec.DType))
	}

	fam := Family{ISet: b.canon.ISetNickname(key), DType: rec.DType}
	uarch := b.canon.UArchNickname(rec.Simulator)
	isa := b.canon.ISANickname(rec.ISA)

	g, created := b.m.insert(fam, uarch, isa)
	if created {
		g.ABI = rec.ABI
	} else if g.ABI != rec.ABI {
		b.Warnings = append(b.Warnings, fmt.Errorf("%s: ABI %s differs from %s for %s %s %s", rec.Source, rec.ABI, g.ABI, fam, uarch, isa))
	}
	g.Seeds = append(g.Seeds, SeedResult{
		Mean:       rec.MeanLatency,
		Stddev:     rec.StddevLatency,
		Seed:       seed,
		Source:     rec.Source,
		Identifier: rec.Identifier,
		Config:     key,
	})
	return nil
}

// Map returns the map built so far. The Builder retains ownership;
// later calls to Add modify it.
func (b *Builder) Map() Map {
	return b.m
}

// Build folds items into a new Map. It stops at the first error
// returned by Add.
func Build(c *canon.Canonicalizer, items []sweepfmt.Item) (*Builder, error) {
	b := NewBuilder(c)
	for _, it := range items {
		if err := b.AddItem(it); err != nil {
			return b, err
		}
	}
	return b, nil
}
