// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweepstore_test

import (
	"context"
	"testing"

	"github.com/tpg-expe/sweepstat/sweepagg"
	"github.com/tpg-expe/sweepstat/sweepfmt"
	"github.com/tpg-expe/sweepstat/sweepstore/dbtest"
)

func testMap() sweepagg.Map {
	m := make(sweepagg.Map)
	f := sweepagg.Family{ISet: "{>,-,+}", DType: sweepfmt.Float}
	acc, cost := 0.5, 100.0
	m[f] = map[string]map[string]*sweepagg.ArchGroup{
		"e20_i": {
			"rv32im": {Family: f, UArch: "e20_i", ISA: "rv32im", ABI: "ilp32",
				Seeds: []sweepagg.SeedResult{{Mean: 10, Stddev: 1, Seed: 1}, {Mean: 20, Stddev: 3, Seed: 2}},
				Accuracy: &acc, NormalizedCost: &cost,
				Resources: &sweepagg.Resources{DSP: 0, LUT: 100, Reg: 50}},
		},
		"e40p": {
			"rv32im": {Family: f, UArch: "e40p", ISA: "rv32im", ABI: "ilp32",
				Seeds: []sweepagg.SeedResult{{Mean: 5, Stddev: 1, Seed: 1}}},
		},
	}
	return m
}

func TestWriteBatch(t *testing.T) {
	ctx := context.Background()
	db, cleanup := dbtest.NewDB(t)
	defer cleanup()

	m := testMap()
	front := func(g *sweepagg.ArchGroup) bool { return g.UArch == "e40p" }
	if err := db.WriteBatch(ctx, m, front); err != nil {
		t.Fatal(err)
	}

	rows, err := db.Groups(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d groups, want 2", len(rows))
	}
	r := rows[0]
	if r.UArch != "e20_i" || r.Seeds != 2 || r.MeanLatencyAvg.Float64 != 15 || r.OnFront {
		t.Errorf("row 0 = %+v", r)
	}
	if !r.Accuracy.Valid || r.Accuracy.Float64 != 0.5 || !r.NormalizedCost.Valid || r.NormalizedCost.Float64 != 100 {
		t.Errorf("row 0 annotations = %+v", r)
	}
	if r := rows[1]; r.UArch != "e40p" || r.Accuracy.Valid || r.NormalizedCost.Valid || !r.OnFront {
		t.Errorf("row 1 = %+v", r)
	}

	onFront, err := db.Groups(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(onFront) != 1 || onFront[0].UArch != "e40p" {
		t.Errorf("front groups = %+v", onFront)
	}

	// A second batch replaces the first.
	delete(m[sweepagg.Family{ISet: "{>,-,+}", DType: sweepfmt.Float}], "e20_i")
	if err := db.WriteBatch(ctx, m, nil); err != nil {
		t.Fatal(err)
	}
	rows, err = db.Groups(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].OnFront {
		t.Errorf("after second batch: %+v", rows)
	}
	if n, err := db.CountSeeds(ctx); err != nil || n != 1 {
		t.Errorf("CountSeeds = %d, %v; want 1", n, err)
	}
}

func TestWriteBatchCanceled(t *testing.T) {
	db, cleanup := dbtest.NewDB(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := db.WriteBatch(ctx, testMap(), nil); err == nil {
		t.Errorf("WriteBatch with canceled context succeeded")
	}
	if n, err := db.CountSeeds(context.Background()); err != nil || n != 0 {
		t.Errorf("CountSeeds after failed batch = %d, %v", n, err)
	}
}
