// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package summarydb stores an aggregate table in a SQL database.
//
// The table is stored in long form, one row per cell:
//
//	Results(Model, Dataset, Field, Kind, Value)
//
// Absent values are stored with a NULL Value, so every row and column
// of the table survives a round trip. A table with no columns stores
// nothing.
package summarydb

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
	"text/template"

	"golang.org/x/indexbench/aggtable"
	"golang.org/x/indexbench/report"
)

// DB is a summary database. It's safe for concurrent use by multiple
// goroutines.
type DB struct {
	sql *sql.DB
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
//
// The caller must import the driver, for example
// golang.org/x/indexbench/summarydb/sqlite3 or
// github.com/go-sql-driver/mysql.
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
CREATE TABLE IF NOT EXISTS Results (
	Model VARCHAR(255) NOT NULL,
	Dataset VARCHAR(255) NOT NULL,
	Field VARCHAR(255) NOT NULL,
	Kind VARCHAR(8) NOT NULL,
	Value {{if .sqlite3}}REAL{{else}}DOUBLE{{end}},
	PRIMARY KEY (Model, Dataset, Field)
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS ResultsField ON Results(Field);
{{end}}
`))

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
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

// ReplaceTable replaces the stored summary with t in a single
// transaction.
func (db *DB) ReplaceTable(ctx context.Context, t *aggtable.Table) (err error) {
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

	if _, err := tx.ExecContext(ctx, "DELETE FROM Results"); err != nil {
		return err
	}
	insert, err := tx.PrepareContext(ctx, "INSERT INTO Results(Model, Dataset, Field, Kind, Value) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer insert.Close()
	for _, r := range t.Rows {
		for i, v := range r.Values {
			num := sql.NullFloat64{Float64: v.Num, Valid: v.Present}
			if _, err := insert.ExecContext(ctx, r.Model, r.Dataset, t.Columns[i], v.Kind.String(), num); err != nil {
				return fmt.Errorf("insert %s %s: %w", r.Key, t.Columns[i], err)
			}
		}
	}
	return nil
}

// Table reads the stored summary back into a Table. Rows are ordered
// by model and dataset.
func (db *DB) Table(ctx context.Context) (*aggtable.Table, error) {
	rows, err := db.sql.QueryContext(ctx, "SELECT Model, Dataset, Field, Kind, Value FROM Results ORDER BY Model, Dataset, Field")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var b aggtable.Builder
	var u *aggtable.Unit
	for rows.Next() {
		var k aggtable.Key
		var field, kind string
		var num sql.NullFloat64
		if err := rows.Scan(&k.Model, &k.Dataset, &field, &kind, &num); err != nil {
			return nil, err
		}
		kd, err := report.ParseKind(kind)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", k, field, err)
		}
		if u == nil || u.Key != k {
			u = &aggtable.Unit{Key: k, Fields: make(report.Fields)}
			b.Add(u)
		}
		if num.Valid {
			u.Fields[field] = report.Value{Num: num.Float64, Kind: kd, Present: true}
		} else {
			u.Fields[field] = report.Value{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return b.Table()
}

// Count returns the number of stored present values.
func (db *DB) Count(ctx context.Context) (int, error) {
	var n int
	err := db.sql.QueryRowContext(ctx, "SELECT COUNT(Value) FROM Results").Scan(&n)
	return n, err
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	return db.sql.Close()
}
