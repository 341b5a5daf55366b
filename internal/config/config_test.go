// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tpg-expe/sweepstat/canon"
	"github.com/tpg-expe/sweepstat/pareto"
	"github.com/tpg-expe/sweepstat/sweepagg"
)

func TestDefault(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	cz, err := c.Canonicalizer()
	if err != nil {
		t.Fatal(err)
	}
	// The default configuration behaves like the built-in rules.
	def := canon.Default()
	for _, u := range []string{"cv32e20_im1", "cv32e40px_corev_pulp", "cv32e40x_em2"} {
		if got, want := cz.UArchNickname(u), def.UArchNickname(u); got != want {
			t.Errorf("UArchNickname(%s) = %s, want %s", u, got, want)
		}
	}
	x, y, err := c.Axes()
	if err != nil || x != 1 || y != 0 {
		t.Errorf("Axes = %d, %d, %v", x, y, err)
	}
}

func TestDefaultObjectives(t *testing.T) {
	check := func(hasCost, hasAccuracy bool, want []string, wantX string) {
		t.Helper()
		objs, x, y := DefaultObjectives(hasCost, hasAccuracy)
		if diff := cmp.Diff(want, objs); diff != "" || x != wantX || y != "latency" {
			t.Errorf("DefaultObjectives(%v, %v) = %v, %s, %s; want %v, %s, latency", hasCost, hasAccuracy, objs, x, y, want, wantX)
		}
		if _, err := pareto.Builtins(objs...); err != nil {
			t.Error(err)
		}
	}
	check(true, true, []string{"latency", "cost", "accuracy"}, "cost")
	check(true, false, []string{"latency", "cost"}, "cost")
	check(false, true, []string{"latency", "accuracy"}, "accuracy")
	check(false, false, []string{"latency", "stddev"}, "stddev")
}

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	if err := os.WriteFile(path, []byte(data), 0666); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
rules:
  seed_pattern: '_run(\d+)_'
  uarch:
    - {old: cv32, new: ""}
weights:
  lut: 1
  reg: 0
  dsp_equivalence: 10
pareto:
  objectives: [latency, distance]
  dominance: weak
  x: distance
  y: latency
isa_policy: global
accuracy:
  column: score
  aliases:
    trig: "{trig,>,-,+}"
`)
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	cz, err := c.Canonicalizer()
	if err != nil {
		t.Fatal(err)
	}
	if key, seed, err := cz.Canonicalize("a_run7_b"); err != nil || key != "a_b" || seed != 7 {
		t.Errorf("Canonicalize = %q, %d, %v", key, seed, err)
	}
	if got := cz.UArchNickname("cv32e20_im1"); got != "e20_im1" {
		t.Errorf("UArchNickname = %q", got)
	}
	// Rules the file leaves out keep their defaults.
	if got := cz.ISANickname("rv32im_zicsr"); got != "rv32im" {
		t.Errorf("ISANickname = %q", got)
	}

	if d, _ := c.Dominance(); d != pareto.Weak {
		t.Errorf("Dominance = %v", d)
	}
	if p, _ := c.Policy(); p != sweepagg.Global {
		t.Errorf("Policy = %v", p)
	}
	if c.Weights.DSP() != 10 {
		t.Errorf("DSP weight = %v", c.Weights.DSP())
	}
	if diff := cmp.Diff(map[string]string{"trig": "{trig,>,-,+}"}, c.Accuracy.Aliases); diff != "" {
		t.Errorf("aliases (-want +got):\n%s", diff)
	}
	if c.Accuracy.Column != "score" || len(c.Targets) == 0 {
		t.Errorf("accuracy column %q, %d targets", c.Accuracy.Column, len(c.Targets))
	}
}

func TestLoadErrors(t *testing.T) {
	for _, data := range []string{
		"rules: [",
		"rules:\n  seed_pattern: '_seed-\\d+_'\n",
		"rules:\n  seed_pattern: '('\n",
		"pareto:\n  objectives: [speed]\n",
		"pareto:\n  objectives: []\n",
		"pareto:\n  x: stddev\n",
		"pareto:\n  dominance: pareto\n",
		"isa_policy: best\n",
		"weights:\n  lut: -1\n",
	} {
		if _, err := Load(writeConfig(t, data)); err == nil {
			t.Errorf("Load(%q) succeeded", data)
		}
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("Load of missing file succeeded")
	}
}
