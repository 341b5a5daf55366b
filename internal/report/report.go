// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report renders aggregated sweep tables as aligned text,
// CSV, or HTML.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"

	"github.com/aclements/go-gg/table"
	"github.com/tpg-expe/sweepstat/pareto"
	"github.com/tpg-expe/sweepstat/sweepagg"
)

// Digits is the number of decimal places printed for floating-point
// columns. Values are kept at full precision until printed.
const Digits = 2

// formatFloat formats v for output. NaN marks a missing value and
// prints as the empty string.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', Digits, 64)
}

// cells converts column col of t to strings.
func cells(t *table.Table, col string) []string {
	switch c := t.Column(col).(type) {
	case []string:
		return c
	case []float64:
		out := make([]string, len(c))
		for i, v := range c {
			out[i] = formatFloat(v)
		}
		return out
	}
	rv := reflect.ValueOf(t.Column(col))
	out := make([]string, rv.Len())
	for i := range out {
		out[i] = fmt.Sprint(rv.Index(i).Interface())
	}
	return out
}

// rows converts t to a list of string rows, without a header.
func rows(t *table.Table) [][]string {
	cols := t.Columns()
	byCol := make([][]string, len(cols))
	for i, col := range cols {
		byCol[i] = cells(t, col)
	}
	out := make([][]string, t.Len())
	for r := range out {
		out[r] = make([]string, len(cols))
		for c := range cols {
			out[r][c] = byCol[c][r]
		}
	}
	return out
}

// Text writes t to w as an aligned text table.
//
// Float columns are rounded to Digits places. A float column holding
// missing values is printed as text with blanks for the missing
// entries.
func Text(w io.Writer, t *table.Table) error {
	if t.Columns() == nil {
		return nil
	}
	var b table.Builder
	var formats []string
	for _, col := range t.Columns() {
		data := t.Column(col)
		format := "%v"
		if fs, ok := data.([]float64); ok {
			format = fmt.Sprintf("%%.%df", Digits)
			for _, v := range fs {
				if math.IsNaN(v) {
					data, format = cells(t, col), "%v"
					break
				}
			}
		}
		b.Add(col, data)
		formats = append(formats, format)
	}
	return table.Fprint(w, b.Done(), formats...)
}

// CSV writes t to w as CSV with a header row.
func CSV(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns()); err != nil {
		return err
	}
	if err := cw.WriteAll(rows(t)); err != nil {
		return err
	}
	return cw.Error()
}

// FrontTable converts points to a table with one row per point: the
// family, uarch, and ISA of its group followed by one column per
// objective in its natural orientation.
func FrontTable(points []pareto.Point, objs []pareto.Objective) *table.Table {
	n := len(points)
	iset, dtype := make([]string, n), make([]string, n)
	uarch, isa := make([]string, n), make([]string, n)
	vals := make([][]float64, len(objs))
	for k := range vals {
		vals[k] = make([]float64, n)
	}
	for i, p := range points {
		g := p.Group
		iset[i], dtype[i] = g.Family.ISet, string(g.Family.DType)
		uarch[i], isa[i] = g.UArch, g.ISA
		for k := range objs {
			vals[k][i] = p.Value(objs, k)
		}
	}
	var b table.Builder
	b.Add(sweepagg.ColISet, iset).Add(sweepagg.ColDType, dtype)
	b.Add(sweepagg.ColUArch, uarch).Add(sweepagg.ColISA, isa)
	for k, o := range objs {
		b.Add(o.Name, vals[k])
	}
	return b.Done()
}
