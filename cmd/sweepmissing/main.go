// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Sweepmissing lists the inference configurations of a TPG sweep that
// have no result yet.
//
// Usage:
//
//	sweepmissing root
//
// A configuration root/training_results/<tpg>/inference/configs/<x>.json
// is missing if there is no root/training_results/<tpg>/inference/results/<x>.json.
// Missing configurations are printed one per line, sorted, and the
// counts are printed to standard error. The exit status is 1 if
// anything is missing.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/tpg-expe/sweepstat/sweepfmt"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: sweepmissing root\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	log.SetPrefix("sweepmissing: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
	}
	n, err := missing(os.Stdout, os.Stderr, flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	if n > 0 {
		os.Exit(1)
	}
}

// missing prints the configurations under root without a result and
// returns how many there are.
func missing(w, wErr io.Writer, root string) (int, error) {
	configs, err := sweepfmt.Discover(root, sweepfmt.Configs)
	if err != nil {
		return 0, err
	}
	results, err := sweepfmt.Discover(root, sweepfmt.Results)
	if err != nil {
		return 0, err
	}
	paths, err := sweepfmt.Missing(configs, results)
	if err != nil {
		return 0, err
	}
	for _, p := range paths {
		fmt.Fprintln(w, p)
	}
	fmt.Fprintf(wErr, "%d configurations, %d results, %d missing\n", len(configs), len(results), len(paths))
	return len(paths), nil
}
