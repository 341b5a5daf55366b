// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sweepgen generates the per-TPG inference configurations of
// a sweep.
//
// For each trained TPG directory, a sweep runs the TPG on every
// target microarchitecture in both its compressed and uncompressed
// ISA encoding. sweepgen writes one JSON configuration file per run
// into <tpg>/inference/configs and prepares the sibling directories
// the runs write into.
package sweepgen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/tpg-expe/sweepstat/sweepfmt"
)

// A Target is a microarchitecture with the ISA and ABI it is built
// for. ISA may contain the marker "(c)" standing for an optional
// compressed extension.
type Target struct {
	UArch string `json:"uarch" yaml:"uarch"`
	ISA   string `json:"isa" yaml:"isa"`
	ABI   string `json:"abi" yaml:"abi"`
}

// DefaultTargets is the standard list of CORE-V targets.
var DefaultTargets = []Target{
	{"cv32e20_im0", "rv32i(c)_zicsr", "ilp32"},
	{"cv32e20_im1", "rv32im(c)_zicsr", "ilp32"},
	{"cv32e20_im2", "rv32im(c)_zicsr", "ilp32"},
	{"cv32e20_im3", "rv32im(c)_zicsr", "ilp32"},

	{"cv32e20_em0", "rv32e(c)_zicsr", "ilp32e"},
	{"cv32e20_em1", "rv32em(c)_zicsr", "ilp32e"},
	{"cv32e20_em2", "rv32em(c)_zicsr", "ilp32e"},
	{"cv32e20_em3", "rv32em(c)_zicsr", "ilp32e"},

	{"cv32e40x_im0", "rv32i(c)_zicsr", "ilp32"},
	{"cv32e40x_im1", "rv32i(c)_zicsr_zmmul", "ilp32"},
	{"cv32e40x_im2", "rv32im(c)_zicsr", "ilp32"},

	{"cv32e40x_em0", "rv32e(c)_zicsr", "ilp32e"},
	{"cv32e40x_em1", "rv32e(c)_zicsr_zmmul", "ilp32e"},
	{"cv32e40x_em2", "rv32em(c)_zicsr", "ilp32e"},

	{"cv32e40px", "rv32im(c)_zicsr", "ilp32"},
	{"cv32e40px_fpu", "rv32imf(c)_zicsr", "ilp32f"},
	{"cv32e40px_corev_pulp", "rv32im(c)_zicsr_xpulp", "ilp32f"},
	{"cv32e40px_corev_pulp_fpu", "rv32imf(c)_zicsr_xpulp", "ilp32f"},

	{"cv32e40p", "rv32im(c)_zicsr", "ilp32"},
	{"cv32e40p_corev_pulp", "rv32im(c)_zicsr_xpulp", "ilp32"},
}

const compressedMarker = "(c)"

// ExpandISA expands the "(c)" marker of isa into the uncompressed and
// the compressed ISA, in that order. An ISA without the marker
// expands to itself.
//
//	rv32im(c)_zicsr -> rv32im_zicsr, rv32imc_zicsr
func ExpandISA(isa string) []string {
	i := strings.Index(isa, compressedMarker)
	if i < 0 {
		return []string{isa}
	}
	base := isa[:i]
	suffix := strings.ReplaceAll(isa[i+len(compressedMarker):], compressedMarker, "")
	return []string{base + suffix, base + "c" + suffix}
}

// InferDType returns the data type named by the instrType token of a
// TPG directory name.
func InferDType(folder string) (sweepfmt.DType, error) {
	for _, dt := range []sweepfmt.DType{sweepfmt.Float, sweepfmt.Double, sweepfmt.FixedPt} {
		if strings.Contains(folder, "instrType-"+string(dt)) {
			return dt, nil
		}
	}
	return "", fmt.Errorf("cannot detect dtype from folder name: %s", folder)
}

// HasFPU reports whether a microarchitecture has a floating-point
// unit.
func HasFPU(uarch string) bool {
	return strings.Contains(strings.ToLower(uarch), "fpu")
}

// Valid reports whether a TPG of type dtype can run on uarch.
// Fixed-point and double TPGs are not run on FPU targets.
func Valid(dtype sweepfmt.DType, uarch string) bool {
	if dtype == sweepfmt.FixedPt || dtype == sweepfmt.Double {
		return !HasFPU(uarch)
	}
	return true
}

// Toolchain directories.
const (
	CoreVToolchain  = "/opt/tools/corev"
	RISCVToolchain  = "/opt/tools/riscv"
	xpulpIdentifier = "xpulp"
)

// Compiler returns the toolchain directory that can build for isa.
func Compiler(isa string) string {
	if strings.Contains(strings.ToLower(isa), xpulpIdentifier) {
		return CoreVToolchain
	}
	return RISCVToolchain
}

// A Config is one inference run of a TPG.
type Config struct {
	TPG      string         `json:"tpg"`
	UArch    string         `json:"uarch"`
	ISA      string         `json:"isa"`
	ABI      string         `json:"abi"`
	DType    sweepfmt.DType `json:"dtype"`
	Compiler string         `json:"compiler"`
}

// FileName returns the name of c's configuration file.
func (c Config) FileName() string {
	return fmt.Sprintf("%s_%s_%s_%s.json", c.UArch, c.ISA, c.ABI, c.DType)
}

// A Skip records a target that was left out for a TPG.
type Skip struct {
	TPG    string
	Target Target
	DType  sweepfmt.DType
}

func (s Skip) String() string {
	return fmt.Sprintf("%s on %s (dtype=%s)", s.TPG, s.Target.UArch, s.DType)
}

// Configs returns the configurations of the TPG named folder on each
// valid target, and the targets that were skipped.
func Configs(folder string, targets []Target) ([]Config, []Skip, error) {
	dtype, err := InferDType(folder)
	if err != nil {
		return nil, nil, err
	}
	var cfgs []Config
	var skips []Skip
	for _, t := range targets {
		if !Valid(dtype, t.UArch) {
			skips = append(skips, Skip{folder, t, dtype})
			continue
		}
		for _, isa := range ExpandISA(t.ISA) {
			cfgs = append(cfgs, Config{
				TPG:      folder,
				UArch:    t.UArch,
				ISA:      isa,
				ABI:      t.ABI,
				DType:    dtype,
				Compiler: Compiler(isa),
			})
		}
	}
	return cfgs, skips, nil
}

// Directories created under <tpg>/inference.
var inferenceDirs = []string{"configs", "results", "overlays", "tpg_inference_expe"}

// Generate writes the configurations of the TPG directory dir for
// targets into dir/inference/configs, creating the inference
// directories as needed. It returns the written configurations and
// the skipped targets.
func Generate(dir string, targets []Target) ([]Config, []Skip, error) {
	cfgs, skips, err := Configs(filepath.Base(filepath.Clean(dir)), targets)
	if err != nil {
		return nil, nil, err
	}
	for _, sub := range inferenceDirs {
		if err := os.MkdirAll(filepath.Join(dir, "inference", sub), 0777); err != nil {
			return nil, nil, err
		}
	}
	for _, c := range cfgs {
		data, err := json.MarshalIndent(c, "", "    ")
		if err != nil {
			return nil, nil, err
		}
		path := filepath.Join(dir, "inference", "configs", c.FileName())
		if err := os.WriteFile(path, append(data, '\n'), 0666); err != nil {
			return nil, nil, err
		}
	}
	return cfgs, skips, nil
}

// A Param is one training parameter of a TPG experiment.
type Param struct {
	Key   string
	Value interface{}
}

// ExperimentName returns the directory name of a training experiment:
// its parameters as key-value tokens joined by underscores, in order.
// The instrSetName parameter only labels results and is left out.
func ExperimentName(params []Param) string {
	var parts []string
	for _, p := range params {
		if p.Key == "instrSetName" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s-%v", p.Key, p.Value))
	}
	return strings.Join(parts, "_")
}
