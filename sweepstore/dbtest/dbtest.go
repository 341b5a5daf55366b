// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dbtest opens throwaway sweepstore databases for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/tpg-expe/sweepstat/sweepstore"
	_ "github.com/tpg-expe/sweepstat/sweepstore/sqlite3"
)

// NewDB makes a connection to an empty in-memory sqlite3 database.
// cleanup must be called when done with the database, instead of
// calling db.Close().
func NewDB(t *testing.T) (*sweepstore.DB, func()) {
	t.Helper()
	d, err := sweepstore.OpenSQL("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	cleanup := func() {
		if err := d.Close(); err != nil {
			t.Error(err)
		}
	}
	// Make sure the database really is empty.
	n, err := d.CountSeeds(context.Background())
	if err != nil {
		cleanup()
		t.Fatal(err)
	}
	if n != 0 {
		cleanup()
		t.Fatalf("found %d row(s) in SeedResults, want 0", n)
	}
	return d, cleanup
}
