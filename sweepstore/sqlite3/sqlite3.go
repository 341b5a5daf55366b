// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sqlite3 provides the sqlite3 driver for
// sweepstore.OpenSQL. It must be imported instead of go-sqlite3 to
// ensure foreign keys are properly honored.
package sqlite3

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"github.com/tpg-expe/sweepstat/sweepstore"
)

func init() {
	sweepstore.RegisterOpenHook("sqlite3", func(db *sql.DB) error {
		// An in-memory database exists per connection, so
		// everything must share one.
		db.SetMaxOpenConns(1)
		_, err := db.Exec("PRAGMA foreign_keys = ON")
		return err
	})
}
