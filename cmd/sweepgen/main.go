// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Sweepgen writes the inference configurations of a TPG sweep.
//
// Usage:
//
//	sweepgen [-config file] [-n] root
//
// For every trained TPG directory under root/training_results,
// sweepgen writes one JSON configuration per target
// microarchitecture and ISA encoding into <tpg>/inference/configs,
// and creates the results, overlays and tpg_inference_expe
// directories beside it. The data type of a TPG comes from the
// instrType token of its directory name. Fixed-point and double TPGs
// are not run on FPU targets; each such target is reported with a
// [SKIP] line.
//
// The targets come from the targets list of the -config file, or the
// built-in CORE-V list. The -n flag prints the configuration files
// that would be written without writing them.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/tpg-expe/sweepstat/internal/config"
	"github.com/tpg-expe/sweepstat/sweepgen"
)

func main() {
	log.SetPrefix("sweepgen: ")
	log.SetFlags(0)
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func run(w, wErr io.Writer, args []string) error {
	fs := flag.NewFlagSet("sweepgen", flag.ContinueOnError)
	fs.SetOutput(wErr)
	fs.Usage = func() {
		fmt.Fprintf(wErr, "usage: sweepgen [flags] root\n")
		fs.PrintDefaults()
	}
	flagConfig := fs.String("config", "", "read targets from YAML `file`")
	flagDryRun := fs.Bool("n", false, "print the configurations without writing them")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return flag.ErrHelp
	}

	cfg := config.Default()
	if *flagConfig != "" {
		var err error
		if cfg, err = config.Load(*flagConfig); err != nil {
			return err
		}
	}

	base := filepath.Join(fs.Arg(0), "training_results")
	ents, err := os.ReadDir(base)
	if err != nil {
		return fmt.Errorf("expected training_results under %s: %w", fs.Arg(0), err)
	}
	var nTPG, nCfg, nSkip int
	for _, ent := range ents {
		if !ent.IsDir() {
			continue
		}
		dir := filepath.Join(base, ent.Name())
		var cfgs []sweepgen.Config
		var skips []sweepgen.Skip
		if *flagDryRun {
			cfgs, skips, err = sweepgen.Configs(ent.Name(), cfg.Targets)
		} else {
			cfgs, skips, err = sweepgen.Generate(dir, cfg.Targets)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", dir, err)
		}
		for _, s := range skips {
			fmt.Fprintf(wErr, "[SKIP] %s\n", s)
		}
		for _, c := range cfgs {
			fmt.Fprintln(w, filepath.Join(dir, "inference", "configs", c.FileName()))
		}
		nTPG++
		nCfg += len(cfgs)
		nSkip += len(skips)
	}
	verb := "wrote"
	if *flagDryRun {
		verb = "would write"
	}
	fmt.Fprintf(wErr, "%s %d configurations for %d TPGs, %d targets skipped\n", verb, nCfg, nTPG, nSkip)
	return nil
}
