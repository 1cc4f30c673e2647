// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aggtable

import (
	"github.com/aclements/go-gg/table"
	"golang.org/x/indexbench/report"
)

// Names of the key columns in Header and Frame.
const (
	modelCol   = "Model"
	datasetCol = "Dataset"
)

// A Table is the aggregate of a set of Units.
//
// Tables are built once by a Builder and should be treated as
// immutable.
type Table struct {
	// Columns is the column universe: every field present in at
	// least one row.
	Columns []string

	Rows []Row
}

// A Row is one Unit materialized against a Table's Columns.
type Row struct {
	Key
	// Values is parallel to Table.Columns. Fields the Unit did
	// not have are absent.
	Values []report.Value
}

// Header returns the names of the key columns followed by the field
// columns.
func (t *Table) Header() []string {
	return append([]string{modelCol, datasetCol}, t.Columns...)
}

// Column returns the index of the named column in t.Columns.
func (t *Table) Column(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// Value returns the value of column name in row i, or the absent
// marker if t has no such column.
func (t *Table) Value(i int, name string) report.Value {
	c, ok := t.Column(name)
	if !ok {
		return report.Value{}
	}
	return t.Rows[i].Values[c]
}

// Lookup returns the row with key k.
func (t *Table) Lookup(k Key) (Row, bool) {
	for _, r := range t.Rows {
		if r.Key == k {
			return r, true
		}
	}
	return Row{}, false
}

// Fields returns row i as a report.Fields holding every column.
func (t *Table) Fields(i int) report.Fields {
	f := make(report.Fields, len(t.Columns))
	for c, name := range t.Columns {
		f[name] = t.Rows[i].Values[c]
	}
	return f
}

// duplicates returns the keys that occur in more than one row, sorted.
func (t *Table) duplicates() []Key {
	count := make(map[Key]int, len(t.Rows))
	var dups []Key
	for _, r := range t.Rows {
		count[r.Key]++
		if count[r.Key] == 2 {
			dups = append(dups, r.Key)
		}
	}
	sortKeys(dups)
	return dups
}

// Frame returns t as a go-gg table with a []string column for each of
// Model and Dataset and a []report.Value column for each field, in
// Header order.
func (t *Table) Frame() *table.Table {
	return t.frame(t.Columns...)
}

func (t *Table) frame(cols ...string) *table.Table {
	models := make([]string, len(t.Rows))
	datasets := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		models[i], datasets[i] = r.Model, r.Dataset
	}
	var b table.Builder
	b.Add(modelCol, models).Add(datasetCol, datasets)
	for _, name := range cols {
		c, _ := t.Column(name)
		vals := make([]report.Value, len(t.Rows))
		for i, r := range t.Rows {
			if c >= 0 {
				vals[i] = r.Values[c]
			}
		}
		b.Add(name, vals)
	}
	return b.Done()
}
