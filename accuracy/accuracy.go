// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package accuracy reads per-configuration task-quality results.
//
// The input is a CSV file with a header row. Each row carries an
// instrType column (the data type), an instrSetName column (the
// operator-set name), and a numeric value column. Training produces
// one row per seed (and possibly per generation), so rows sharing a
// key are averaged.
package accuracy

import (
	"encoding/csv"
	"fmt"
	"io"
	"reflect"
	"sort"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
	"github.com/samber/lo"
)

// Column names of the accuracy CSV.
const (
	ColDType = "instrType"
	ColISet  = "instrSetName"

	// DefaultValueCol is the value column used when none is
	// specified.
	DefaultValueCol = "accuracy"
)

type key struct {
	dtype, iset string
}

// A Table maps (data type, operator-set label) to an averaged value.
type Table struct {
	// Aliases maps an instrSetName to the operator-set label it
	// corresponds to. Names without an alias are used as labels
	// unchanged.
	Aliases map[string]string

	vals map[key]float64
	n    map[key]int
}

// ReadCSV reads an accuracy table from r. valueCol names the value
// column; if empty, DefaultValueCol is used. Every row must have a
// numeric value.
func ReadCSV(r io.Reader, valueCol string) (*Table, error) {
	if valueCol == "" {
		valueCol = DefaultValueCol
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accuracy CSV: %w", err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("accuracy CSV is empty")
	}
	tab := table.TableFromStrings(recs[0], recs[1:], true)
	for _, col := range []string{ColDType, ColISet, valueCol} {
		if tab.Column(col) == nil {
			return nil, fmt.Errorf("accuracy CSV has no %q column", col)
		}
	}

	dtypes := asStrings(tab.Column(ColDType))
	isets := asStrings(tab.Column(ColISet))
	var vals []float64
	switch col := tab.Column(valueCol).(type) {
	case []float64:
		vals = col
	case []int:
		vals = make([]float64, len(col))
		for i, v := range col {
			vals[i] = float64(v)
		}
	default:
		if tab.Len() > 0 {
			return nil, fmt.Errorf("accuracy column %q is not numeric", valueCol)
		}
	}

	samples := make(map[key][]float64)
	for i := range vals {
		k := key{dtypes[i], isets[i]}
		samples[k] = append(samples[k], vals[i])
	}
	t := &Table{vals: make(map[key]float64), n: make(map[key]int)}
	for k, xs := range samples {
		t.vals[k] = stats.Mean(xs)
		t.n[k] = len(xs)
	}
	return t, nil
}

// asStrings formats any table column as strings. Key columns may have
// been coerced to numbers if every value looked numeric.
func asStrings(col table.Slice) []string {
	if ss, ok := col.([]string); ok {
		return ss
	}
	rv := reflect.ValueOf(col)
	out := make([]string, rv.Len())
	for i := range out {
		out[i] = fmt.Sprint(rv.Index(i).Interface())
	}
	return out
}

// Lookup returns the averaged value for a data type and operator-set
// label.
//
// An instrSetName equal to iset matches unless it has an alias of its
// own. Failing that, the first name in sorted order whose alias is
// iset matches.
func (t *Table) Lookup(dtype, iset string) (float64, bool) {
	if _, aliased := t.Aliases[iset]; !aliased {
		if v, ok := t.vals[key{dtype, iset}]; ok {
			return v, true
		}
	}
	names := lo.Keys(t.Aliases)
	sort.Strings(names)
	for _, name := range names {
		if t.Aliases[name] != iset {
			continue
		}
		if v, ok := t.vals[key{dtype, name}]; ok {
			return v, true
		}
	}
	return 0, false
}

// Count returns the number of rows averaged into the value for a
// data type and instrSetName.
func (t *Table) Count(dtype, name string) int {
	return t.n[key{dtype, name}]
}

// Len returns the number of distinct keys in t.
func (t *Table) Len() int {
	return len(t.vals)
}
