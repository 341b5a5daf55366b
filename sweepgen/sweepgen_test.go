// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweepgen

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/tpg-expe/sweepstat/canon"
	"github.com/tpg-expe/sweepstat/sweepfmt"
)

func TestExpandISA(t *testing.T) {
	check := func(isa string, want ...string) {
		t.Helper()
		if got := ExpandISA(isa); !reflect.DeepEqual(got, want) {
			t.Errorf("ExpandISA(%q) = %v, want %v", isa, got, want)
		}
	}
	check("rv32im(c)", "rv32im", "rv32imc")
	check("rv32im(c)_zicsr", "rv32im_zicsr", "rv32imc_zicsr")
	check("rv32i(c)_zicsr_zmmul", "rv32i_zicsr_zmmul", "rv32ic_zicsr_zmmul")
	check("rv32imf_zicsr", "rv32imf_zicsr")
}

func TestInferDType(t *testing.T) {
	check := func(folder string, want sweepfmt.DType, wantErr bool) {
		t.Helper()
		got, err := InferDType(folder)
		if got != want || (err != nil) != wantErr {
			t.Errorf("InferDType(%q) = %q, %v", folder, got, err)
		}
	}
	check("useInstrTrig-True_seed-1_instrType-float", sweepfmt.Float, false)
	check("instrType-double_seed-2", sweepfmt.Double, false)
	check("x_instrType-fixedpt", sweepfmt.FixedPt, false)
	check("x_instrType-half", "", true)
}

func TestValid(t *testing.T) {
	for _, test := range []struct {
		dtype sweepfmt.DType
		uarch string
		want  bool
	}{
		{sweepfmt.Float, "cv32e40px_fpu", true},
		{sweepfmt.Double, "cv32e40px_fpu", false},
		{sweepfmt.FixedPt, "cv32e40px_corev_pulp_FPU", false},
		{sweepfmt.FixedPt, "cv32e40p", true},
	} {
		if got := Valid(test.dtype, test.uarch); got != test.want {
			t.Errorf("Valid(%s, %s) = %v, want %v", test.dtype, test.uarch, got, test.want)
		}
	}
}

func TestCompiler(t *testing.T) {
	if got := Compiler("rv32imc_zicsr_xpulp"); got != CoreVToolchain {
		t.Errorf("Compiler(xpulp) = %s", got)
	}
	if got := Compiler("rv32imc_zicsr"); got != RISCVToolchain {
		t.Errorf("Compiler(rv32imc_zicsr) = %s", got)
	}
}

func TestConfigs(t *testing.T) {
	cfgs, skips, err := Configs("useInstrTrig-True_seed-1_instrType-double", DefaultTargets)
	if err != nil {
		t.Fatal(err)
	}
	// Two FPU targets are skipped for double; every other target
	// runs both encodings.
	if len(skips) != 2 {
		t.Errorf("skipped %v, want the 2 FPU targets", skips)
	}
	if want := 2 * (len(DefaultTargets) - 2); len(cfgs) != want {
		t.Errorf("got %d configs, want %d", len(cfgs), want)
	}

	// Every target's two encodings form exactly one compression
	// pair once nicknamed.
	c := canon.Default()
	for i := 0; i < len(cfgs); i += 2 {
		a, b := c.ISANickname(cfgs[i].ISA), c.ISANickname(cfgs[i+1].ISA)
		comp, base, ok := c.SplitCompressed(a, b)
		if !ok || comp != b || base != a {
			t.Errorf("%s: SplitCompressed(%s, %s) = %s, %s, %v", cfgs[i].UArch, a, b, comp, base, ok)
		}
	}

	if _, _, err := Configs("no-dtype", DefaultTargets); err == nil {
		t.Errorf("Configs without dtype succeeded")
	}
}

func TestGenerate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "training_results", "useInstrTrig-True_seed-1_instrType-float")
	targets := []Target{{"cv32e40p_corev_pulp", "rv32im(c)_zicsr_xpulp", "ilp32"}}
	cfgs, skips, err := Generate(dir, targets)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfgs) != 2 || len(skips) != 0 {
		t.Fatalf("got %d configs, %d skips", len(cfgs), len(skips))
	}
	for _, sub := range inferenceDirs {
		if fi, err := os.Stat(filepath.Join(dir, "inference", sub)); err != nil || !fi.IsDir() {
			t.Errorf("missing inference/%s: %v", sub, err)
		}
	}

	path := filepath.Join(dir, "inference", "configs", "cv32e40p_corev_pulp_rv32imc_zicsr_xpulp_ilp32_float.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got Config
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	want := Config{
		TPG:      "useInstrTrig-True_seed-1_instrType-float",
		UArch:    "cv32e40p_corev_pulp",
		ISA:      "rv32imc_zicsr_xpulp",
		ABI:      "ilp32",
		DType:    sweepfmt.Float,
		Compiler: CoreVToolchain,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	// The generated configs are what the missing-results check
	// compares against.
	paths, err := sweepfmt.Discover(filepath.Dir(filepath.Dir(dir)), sweepfmt.Configs)
	if err != nil {
		t.Fatal(err)
	}
	missing, err := sweepfmt.Missing(paths, nil)
	if err != nil || len(missing) != 2 {
		t.Errorf("Missing = %v, %v; want both configs", missing, err)
	}
}

func TestExperimentName(t *testing.T) {
	got := ExperimentName([]Param{
		{"useInstrTrig", true},
		{"instrSetName", "trig"},
		{"seed", 3},
		{"instrType", "float"},
	})
	if want := "useInstrTrig-true_seed-3_instrType-float"; got != want {
		t.Errorf("ExperimentName = %q, want %q", got, want)
	}
}
