// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Sweepstat aggregates the inference results of a TPG sweep and
// reports latency, resource cost, accuracy and Pareto fronts.
//
// Usage:
//
//	sweepstat [flags] root
//
// Sweepstat reads every result file under
// root/training_results/*/inference/results/. Each file holds one
// inference run of one trained program on one (microarchitecture,
// ISA) target. Runs that differ only by training seed are merged into
// a group, and each group is summarized by the mean of its per-seed
// mean latencies and the mean of its per-seed standard deviations.
//
// Groups are keyed by family (operator set and data type),
// microarchitecture and ISA. The -per-seed flag prints one row per
// seed instead of one per group.
//
// The -resources flag names a JSON table of FPGA utilization per
// microarchitecture:
//
//	{"cv32e40p": {"DSPs": [6], "Slice LUTs": [5000], "Slice Registers": [2500]}, ...}
//
// Costs are normalized so the smallest core (by LUT count) scores 100.
//
// The -accuracy flag names a CSV file with instrType, instrSetName
// and accuracy columns. Rows are averaged per (instrType,
// instrSetName) and attached to the matching family.
//
// After picking the best ISA of every microarchitecture (per family,
// or globally with isa_policy: global in the -config file), sweepstat
// prints the global Pareto front over the configured objectives and
// the 2-D front of each family. The -chart flag additionally plots
// them, and -db stores all groups in a SQL database.
//
// Without -config or -objectives, the Pareto objectives are latency
// plus cost if -resources is given and accuracy if -accuracy is
// given, or latency and its stddev if neither is. The X axis is the
// second objective and the Y axis is latency. The -objectives, -x and
// -y flags override them.
//
// The -config flag names a YAML file that overrides the built-in
// naming rules, resource weights, objectives and policies.
//
// Malformed result files are skipped. A summary of everything that
// was skipped or left unmatched is printed to standard error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/aclements/go-gg/table"
	_ "github.com/go-sql-driver/mysql"
	"github.com/tpg-expe/sweepstat/accuracy"
	"github.com/tpg-expe/sweepstat/canon"
	"github.com/tpg-expe/sweepstat/internal/config"
	"github.com/tpg-expe/sweepstat/internal/report"
	"github.com/tpg-expe/sweepstat/pareto"
	"github.com/tpg-expe/sweepstat/resource"
	"github.com/tpg-expe/sweepstat/sweepagg"
	"github.com/tpg-expe/sweepstat/sweepfmt"
	"github.com/tpg-expe/sweepstat/sweepplot"
	"github.com/tpg-expe/sweepstat/sweepstore"
	_ "github.com/tpg-expe/sweepstat/sweepstore/sqlite3"
	"gonum.org/v1/plot/vg"
)

func main() {
	log.SetPrefix("sweepstat: ")
	log.SetFlags(0)
	if err := sweepstat(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

type flags struct {
	config     string
	accuracy   string
	resources  string
	format     string
	perSeed    bool
	objectives string
	x, y       string
	out        string
	chart      string
	dbDriver   string
	db         string
}

func parseFlags(wErr io.Writer, args []string) (*flags, []string, error) {
	var f flags
	fs := flag.NewFlagSet("sweepstat", flag.ContinueOnError)
	fs.SetOutput(wErr)
	fs.Usage = func() {
		fmt.Fprintf(wErr, "usage: sweepstat [flags] root\n")
		fs.PrintDefaults()
	}
	fs.StringVar(&f.config, "config", "", "read settings from YAML `file`")
	fs.StringVar(&f.accuracy, "accuracy", "", "attach accuracy from CSV `file`")
	fs.StringVar(&f.resources, "resources", "", "attach FPGA resources from JSON `file`")
	fs.StringVar(&f.format, "format", "text", "print results in `format`: text, csv, html")
	fs.BoolVar(&f.perSeed, "per-seed", false, "print one row per seed instead of per group")
	fs.StringVar(&f.objectives, "objectives", "", "override Pareto objectives with comma-separated `names`")
	fs.StringVar(&f.x, "x", "", "override the X-axis `objective` of family fronts and charts")
	fs.StringVar(&f.y, "y", "", "override the Y-axis `objective` of family fronts and charts")
	fs.StringVar(&f.out, "o", "", "write results to `file` instead of standard output")
	fs.StringVar(&f.chart, "chart", "", "plot the Pareto fronts to `file` (.png, .svg, .pdf)")
	fs.StringVar(&f.dbDriver, "db-driver", "sqlite3", "SQL `driver` for -db: sqlite3 or mysql")
	fs.StringVar(&f.db, "db", "", "store all groups in the SQL database `dsn`")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	switch f.format {
	case "text", "csv", "html":
	default:
		fs.Usage()
		return nil, nil, fmt.Errorf("unknown -format %q", f.format)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, nil, flag.ErrHelp
	}
	return &f, fs.Args(), nil
}

func loadConfig(f *flags) (config.Config, error) {
	cfg := config.Default()
	if f.config != "" {
		var err error
		if cfg, err = config.Load(f.config); err != nil {
			return cfg, err
		}
	}
	if f.objectives != "" {
		cfg.Pareto.Objectives = strings.Split(f.objectives, ",")
	} else if f.config == "" {
		cfg.Pareto.Objectives, cfg.Pareto.X, cfg.Pareto.Y = config.DefaultObjectives(f.resources != "", f.accuracy != "")
	}
	if f.x != "" {
		cfg.Pareto.X = f.x
	}
	if f.y != "" {
		cfg.Pareto.Y = f.y
	}
	return cfg, cfg.Validate()
}

func sweepstat(w, wErr io.Writer, args []string) error {
	f, args, err := parseFlags(wErr, args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	cz, err := cfg.Canonicalizer()
	if err != nil {
		return err
	}
	objs, _ := cfg.Objectives()
	x, y, _ := cfg.Axes()
	dom, _ := cfg.Dominance()
	policy, _ := cfg.Policy()

	// Read and group the results.
	paths, err := sweepfmt.Discover(args[0], sweepfmt.Results)
	if err != nil {
		return err
	}
	files := &sweepfmt.Files{Paths: paths}
	b := sweepagg.NewBuilder(cz)
	for files.Scan() {
		if err := b.AddItem(files.Item()); err != nil {
			return err
		}
	}
	m := b.Map()
	var notes []string
	note := func(format string, args ...interface{}) {
		notes = append(notes, fmt.Sprintf(format, args...))
	}
	note("%d result files, %d groups, %d skipped records", len(paths), m.Len(), len(b.Skipped))
	for _, e := range b.Skipped {
		fmt.Fprintf(wErr, "skipped %v\n", e)
	}
	for _, e := range b.Warnings {
		fmt.Fprintf(wErr, "warning: %v\n", e)
	}

	// Annotate.
	if f.accuracy != "" {
		tab, err := readAccuracy(f.accuracy, cfg.Accuracy.Column)
		if err != nil {
			return err
		}
		tab.Aliases = cfg.Accuracy.Aliases
		note("%d groups without accuracy", sweepagg.AttachAccuracy(m, tab))
	}
	if f.resources != "" {
		tab, err := readResources(f.resources, cz)
		if err != nil {
			return err
		}
		n := resource.Normalizer{Weights: cfg.Weights}
		base, unmatched, err := n.Run(m, tab)
		if err != nil {
			return fmt.Errorf("%s: %w", f.resources, err)
		}
		note("cost baseline %s (%d LUTs, %d registers, %d DSPs), %d groups without resources",
			base.UArch, base.LUT, base.Reg, base.DSP, unmatched)
	}

	// Reduce and rank.
	violations := sweepagg.ValidateISAPairs(m)
	for _, v := range violations {
		fmt.Fprintf(wErr, "warning: %v\n", v)
	}
	pairs, _ := sweepagg.CompressionPairs(m, cz)
	pairs, unordered := orderedPairs(pairs)
	note("%d cells without exactly two ISAs, %d ISA pairs without a compressed variant", len(violations), unordered)

	best := sweepagg.SelectBestISA(m, policy)
	points, missing := pareto.Points(best, objs)
	mask := pareto.Mask(points, dom)
	note("%d best-ISA groups (%s), %d without a value for every objective", best.Len(), policy, missing)

	sections := []report.Section{
		{Title: "Groups", Table: sweepagg.Table(sweepagg.Rows(m, f.perSeed), f.perSeed)},
		{Title: fmt.Sprintf("Best ISA (%s)", policy), Table: sweepagg.Table(sweepagg.Rows(best, false), false)},
	}
	if len(pairs) > 0 {
		sections = append(sections, report.Section{Title: "Compression", Table: pairTable(pairs)})
	}
	sections = append(sections, report.Section{
		Title: fmt.Sprintf("Pareto front (%s, %s)", strings.Join(cfg.Pareto.Objectives, ", "), dom),
		Table: report.FrontTable(pareto.Front(points, dom), objs),
	})
	for _, ff := range pareto.FamilyFronts(points, x, y, dom) {
		sections = append(sections, report.Section{
			Title: fmt.Sprintf("Front of %s (%s, %s)", ff.Family, objs[x].Name, objs[y].Name),
			Table: report.FrontTable(ff.Points, objs),
		})
	}

	// Write outputs.
	if f.out == "" {
		err = writeReport(w, f.format, args[0], notes, sections)
	} else {
		err = writeFile(f.out, func(w io.Writer) error {
			return writeReport(w, f.format, args[0], notes, sections)
		})
	}
	if err != nil {
		return err
	}

	if f.chart != "" {
		pl, err := sweepplot.Chart(points, objs, sweepplot.Options{X: x, Y: y, Dominance: dom, Front: mask})
		if err != nil {
			return err
		}
		if err := sweepplot.Save(f.chart, pl, 8*vg.Inch, 6*vg.Inch); err != nil {
			return err
		}
	}

	if f.db != "" {
		onFront := make(map[*sweepagg.ArchGroup]bool)
		for i, p := range points {
			onFront[p.Group] = mask[i]
		}
		if err := store(f.dbDriver, f.db, m, func(g *sweepagg.ArchGroup) bool { return onFront[g] }); err != nil {
			return err
		}
	}

	for _, n := range notes {
		fmt.Fprintln(wErr, n)
	}
	return nil
}

func readAccuracy(path, col string) (*accuracy.Table, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	t, err := accuracy.ReadCSV(r, col)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func readResources(path string, cz *canon.Canonicalizer) (resource.Table, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	t, err := resource.ReadTable(r, cz.UArchNickname)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func store(driver, dsn string, m sweepagg.Map, front func(*sweepagg.ArchGroup) bool) error {
	db, err := sweepstore.OpenSQL(driver, dsn)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	if err := db.WriteBatch(context.Background(), m, front); err != nil {
		db.Close()
		return fmt.Errorf("writing database: %w", err)
	}
	return db.Close()
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// orderedPairs returns the pairs whose compressed variant is known
// and the number of pairs dropped.
func orderedPairs(pairs []sweepagg.CompressionPair) ([]sweepagg.CompressionPair, int) {
	var ps []sweepagg.CompressionPair
	for _, p := range pairs {
		if p.Ordered {
			ps = append(ps, p)
		}
	}
	return ps, len(pairs) - len(ps)
}

// pairTable lists the latency ratio of the compressed to the base ISA
// of every pair.
func pairTable(pairs []sweepagg.CompressionPair) *table.Table {
	var iset, dtype, uarch, comp, base []string
	var ratio []float64
	for _, p := range pairs {
		r, ok := p.Ratio()
		if !ok {
			continue
		}
		iset = append(iset, p.Family.ISet)
		dtype = append(dtype, string(p.Family.DType))
		uarch = append(uarch, p.UArch)
		comp = append(comp, p.Compressed.ISA)
		base = append(base, p.Base.ISA)
		ratio = append(ratio, r)
	}
	var b table.Builder
	b.Add(sweepagg.ColISet, iset).Add(sweepagg.ColDType, dtype).Add(sweepagg.ColUArch, uarch)
	b.Add("compressed", comp).Add("base", base).Add("latency_ratio", ratio)
	return b.Done()
}

func writeReport(w io.Writer, format, root string, notes []string, sections []report.Section) error {
	if format == "html" {
		return report.HTML(w, report.Page{Title: "sweepstat " + root, Notes: notes, Sections: sections})
	}
	for i, s := range sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if format == "text" {
			fmt.Fprintf(w, "%s\n\n", s.Title)
			if err := report.Text(w, s.Table); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintf(w, "# %s\n", s.Title)
		if err := report.CSV(w, s.Table); err != nil {
			return err
		}
	}
	return nil
}
