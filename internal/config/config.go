// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the YAML configuration of the sweep tools.
package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/tpg-expe/sweepstat/canon"
	"github.com/tpg-expe/sweepstat/pareto"
	"github.com/tpg-expe/sweepstat/resource"
	"github.com/tpg-expe/sweepstat/sweepagg"
	"github.com/tpg-expe/sweepstat/sweepgen"
	"gopkg.in/yaml.v3"
)

// Rules is the YAML form of canon.Rules.
type Rules struct {
	SeedPattern        string           `yaml:"seed_pattern"`
	ISetDiscriminators []string         `yaml:"iset_discriminators"`
	ISetA              canon.Vocabulary `yaml:"iset_a"`
	ISetB              canon.Vocabulary `yaml:"iset_b"`
	ISetBase           []string         `yaml:"iset_base"`
	ISA                canon.Rewrite    `yaml:"isa"`
	UArch              canon.Rewrite    `yaml:"uarch"`
	CompressedInfix    string           `yaml:"compressed_infix"`
	CompressedSuffix   string           `yaml:"compressed_suffix"`
}

// A Config holds every setting of the sweep tools. Its YAML form
// mirrors the field tags; Load starts from Default, so a file only
// needs the settings it changes.
type Config struct {
	Rules Rules `yaml:"rules"`

	Weights resource.Weights `yaml:"weights"`

	Pareto struct {
		// Objectives names the built-in objectives of the
		// global front.
		Objectives []string `yaml:"objectives"`
		Dominance  string   `yaml:"dominance"`
		// X and Y name the objectives of the per-family fronts
		// and charts. Both must be in Objectives.
		X string `yaml:"x"`
		Y string `yaml:"y"`
	} `yaml:"pareto"`

	ISAPolicy string `yaml:"isa_policy"`

	Accuracy struct {
		Column  string            `yaml:"column"`
		Aliases map[string]string `yaml:"aliases"`
	} `yaml:"accuracy"`

	Targets []sweepgen.Target `yaml:"targets"`
}

// Default returns the built-in configuration.
func Default() Config {
	r := canon.DefaultRules()
	var c Config
	c.Rules = Rules{
		SeedPattern:        r.SeedPattern.String(),
		ISetDiscriminators: r.ISet.Discriminators,
		ISetA:              r.ISet.A,
		ISetB:              r.ISet.B,
		ISetBase:           r.ISet.Base,
		ISA:                r.ISA,
		UArch:              r.UArch,
		CompressedInfix:    r.CompressedInfix,
		CompressedSuffix:   r.CompressedSuffix,
	}
	c.Weights = resource.DefaultWeights()
	c.Pareto.Objectives, c.Pareto.X, c.Pareto.Y = DefaultObjectives(true, true)
	c.Pareto.Dominance = pareto.Strict.String()
	c.ISAPolicy = sweepagg.PerFamily.String()
	c.Accuracy.Column = "accuracy"
	c.Targets = append([]sweepgen.Target(nil), sweepgen.DefaultTargets...)
	return c
}

// DefaultObjectives returns the built-in Pareto objectives and axes
// for a run that has resource costs (hasCost) and accuracy
// (hasAccuracy). Latency is always the Y axis. The X axis is cost,
// then accuracy, then the latency stddev if neither is available.
func DefaultObjectives(hasCost, hasAccuracy bool) (objs []string, x, y string) {
	objs = []string{"latency"}
	if hasCost {
		objs = append(objs, "cost")
	}
	if hasAccuracy {
		objs = append(objs, "accuracy")
	}
	if len(objs) == 1 {
		objs = append(objs, "stddev")
	}
	return objs, objs[1], "latency"
}

// Load reads the YAML file at path over the built-in configuration
// and validates the result. Settings the file leaves out keep their
// defaults.
func Load(path string) (Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate checks that every named setting is known.
func (c Config) Validate() error {
	if _, err := c.Canonicalizer(); err != nil {
		return err
	}
	if _, err := c.Objectives(); err != nil {
		return err
	}
	if _, _, err := c.Axes(); err != nil {
		return err
	}
	if _, err := c.Dominance(); err != nil {
		return err
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	if c.Weights.LUT < 0 || c.Weights.Reg < 0 || c.Weights.DSPEquivalence < 0 {
		return fmt.Errorf("resource weights must not be negative")
	}
	return nil
}

// Canonicalizer builds a Canonicalizer from c's rules.
func (c Config) Canonicalizer() (*canon.Canonicalizer, error) {
	re, err := regexp.Compile(c.Rules.SeedPattern)
	if err != nil {
		return nil, fmt.Errorf("bad seed pattern: %w", err)
	}
	return canon.New(canon.Rules{
		SeedPattern: re,
		ISet: canon.ISetRules{
			Discriminators: c.Rules.ISetDiscriminators,
			A:              c.Rules.ISetA,
			B:              c.Rules.ISetB,
			Base:           c.Rules.ISetBase,
		},
		ISA:              c.Rules.ISA,
		UArch:            c.Rules.UArch,
		CompressedInfix:  c.Rules.CompressedInfix,
		CompressedSuffix: c.Rules.CompressedSuffix,
	})
}

// Objectives returns the objectives of the global front.
func (c Config) Objectives() ([]pareto.Objective, error) {
	if len(c.Pareto.Objectives) == 0 {
		return nil, fmt.Errorf("no Pareto objectives")
	}
	return pareto.Builtins(c.Pareto.Objectives...)
}

// Axes returns the indexes of the X and Y objectives within
// Objectives.
func (c Config) Axes() (x, y int, err error) {
	index := func(name string) (int, error) {
		for i, o := range c.Pareto.Objectives {
			if o == name {
				return i, nil
			}
		}
		return -1, fmt.Errorf("axis objective %q is not one of %v", name, c.Pareto.Objectives)
	}
	if x, err = index(c.Pareto.X); err != nil {
		return
	}
	y, err = index(c.Pareto.Y)
	return
}

// Dominance returns the dominance rule.
func (c Config) Dominance() (pareto.Dominance, error) {
	return pareto.ParseDominance(c.Pareto.Dominance)
}

// Policy returns the best-ISA policy.
func (c Config) Policy() (sweepagg.ISAPolicy, error) {
	return sweepagg.ParseISAPolicy(c.ISAPolicy)
}
