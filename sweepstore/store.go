// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sweepstore exports one aggregated sweep to a SQL database.
//
// Each call to WriteBatch replaces the previous contents of the
// tables, so the database always reflects a single batch.
package sweepstore

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
	"text/template"

	"github.com/tpg-expe/sweepstat/sweepagg"
)

// DB is a SQL database holding one exported sweep. It's safe for
// concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB

	insertGroup *sql.Stmt
	insertSeed  *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a
// connection to driverName. It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is evaluated with . as a map containing one entry whose
// key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS ArchGroups (
	GroupID BIGINT PRIMARY KEY,
	ISet VARCHAR(255) NOT NULL,
	DType VARCHAR(16) NOT NULL,
	UArch VARCHAR(255) NOT NULL,
	ISA VARCHAR(255) NOT NULL,
	ABI VARCHAR(64) NOT NULL,
	Seeds INTEGER NOT NULL,
	MeanLatencyAvg DOUBLE,
	MeanLatencyStddev DOUBLE,
	Accuracy DOUBLE,
	DSPs INTEGER,
	LUTs INTEGER,
	Registers INTEGER,
	NormalizedCost DOUBLE,
	OnFront BOOLEAN NOT NULL{{if not .sqlite3}},
	UNIQUE INDEX (ISet(100), DType, UArch(100), ISA(100)){{end}}
);
{{if .sqlite3}}
CREATE UNIQUE INDEX IF NOT EXISTS ArchGroupsTriple ON ArchGroups(ISet, DType, UArch, ISA);
{{end}}
CREATE TABLE IF NOT EXISTS SeedResults (
	GroupID BIGINT NOT NULL,
	Idx INTEGER NOT NULL,
	Seed INTEGER NOT NULL,
	Mean DOUBLE NOT NULL,
	Stddev DOUBLE NOT NULL,
	Source VARCHAR(1024),
	PRIMARY KEY (GroupID, Idx),
	FOREIGN KEY (GroupID) REFERENCES ArchGroups(GroupID) ON UPDATE CASCADE ON DELETE CASCADE
);
`))

// createTables creates any missing tables. driverName selects the
// correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

func (db *DB) prepareStatements() error {
	var err error
	db.insertGroup, err = db.sql.Prepare(`INSERT INTO ArchGroups
		(GroupID, ISet, DType, UArch, ISA, ABI, Seeds, MeanLatencyAvg, MeanLatencyStddev,
		Accuracy, DSPs, LUTs, Registers, NormalizedCost, OnFront)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	db.insertSeed, err = db.sql.Prepare("INSERT INTO SeedResults(GroupID, Idx, Seed, Mean, Stddev, Source) VALUES (?, ?, ?, ?, ?, ?)")
	return err
}

// WriteBatch replaces the contents of the database with the groups of
// m, in a single transaction. front reports which groups are on the
// Pareto front; it may be nil.
func (db *DB) WriteBatch(ctx context.Context, m sweepagg.Map, front func(*sweepagg.ArchGroup) bool) (err error) {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	for _, q := range []string{"DELETE FROM SeedResults", "DELETE FROM ArchGroups"} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return err
		}
	}

	insertGroup := tx.StmtContext(ctx, db.insertGroup)
	insertSeed := tx.StmtContext(ctx, db.insertSeed)
	for id, g := range m.Groups() {
		var avg, sd *float64
		if s, ok := g.Summarize(); ok {
			avg, sd = &s.MeanLatencyAvg, &s.MeanLatencyStddev
		}
		var dsp, lut, reg *int
		if r := g.Resources; r != nil {
			dsp, lut, reg = &r.DSP, &r.LUT, &r.Reg
		}
		onFront := front != nil && front(g)
		if _, err := insertGroup.ExecContext(ctx, id, g.Family.ISet, string(g.Family.DType), g.UArch, g.ISA, g.ABI,
			len(g.Seeds), avg, sd, g.Accuracy, dsp, lut, reg, g.NormalizedCost, onFront); err != nil {
			return fmt.Errorf("inserting %s %s %s: %w", g.Family, g.UArch, g.ISA, err)
		}
		for i, s := range g.Seeds {
			if _, err := insertSeed.ExecContext(ctx, id, i, s.Seed, s.Mean, s.Stddev, s.Source); err != nil {
				return err
			}
		}
	}
	return nil
}

// A GroupRow is one row of the ArchGroups table.
type GroupRow struct {
	ISet, DType, UArch, ISA string
	Seeds                   int
	MeanLatencyAvg          sql.NullFloat64
	Accuracy                sql.NullFloat64
	NormalizedCost          sql.NullFloat64
	OnFront                 bool
}

// Groups returns the exported groups in (iset, dtype, uarch, isa)
// order. If frontOnly is set, only groups on the Pareto front are
// returned.
func (db *DB) Groups(ctx context.Context, frontOnly bool) ([]GroupRow, error) {
	q := "SELECT ISet, DType, UArch, ISA, Seeds, MeanLatencyAvg, Accuracy, NormalizedCost, OnFront FROM ArchGroups"
	if frontOnly {
		q += " WHERE OnFront"
	}
	q += " ORDER BY ISet, DType, UArch, ISA"
	rows, err := db.sql.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []GroupRow
	for rows.Next() {
		var r GroupRow
		if err := rows.Scan(&r.ISet, &r.DType, &r.UArch, &r.ISA, &r.Seeds, &r.MeanLatencyAvg, &r.Accuracy, &r.NormalizedCost, &r.OnFront); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountSeeds returns the number of rows in the SeedResults table.
func (db *DB) CountSeeds(ctx context.Context) (int, error) {
	var n int
	err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM SeedResults").Scan(&n)
	return n, err
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	if err := db.insertGroup.Close(); err != nil {
		return err
	}
	if err := db.insertSeed.Close(); err != nil {
		return err
	}
	return db.sql.Close()
}
