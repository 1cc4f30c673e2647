// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aggtable

import (
	"fmt"
	"sort"

	"github.com/aclements/go-gg/table"
	"golang.org/x/indexbench/report"
)

// A PivotAmbiguityError reports that a pivot was requested over a table
// in which some (model, dataset) key has more than one row, so a cell
// would have more than one value.
type PivotAmbiguityError struct {
	Field string
	Keys  []Key // sorted
}

func (e *PivotAmbiguityError) Error() string {
	return fmt.Sprintf("cannot pivot %s: duplicate results for %s", e.Field, joinKeys(e.Keys))
}

// A Pivot is a model × dataset view of one column of a Table.
type Pivot struct {
	Field string

	// Models and Datasets are the row and column labels, sorted.
	Models, Datasets []string

	cells map[Key]report.Value
}

// At returns the cell for model and dataset, or the absent marker if
// the table has no such row or the row lacks the field.
func (p *Pivot) At(model, dataset string) report.Value {
	return p.cells[Key{model, dataset}]
}

// Present returns the present cells of p in row-major order.
func (p *Pivot) Present() []float64 {
	var xs []float64
	for _, m := range p.Models {
		for _, d := range p.Datasets {
			if v := p.At(m, d); v.Present {
				xs = append(xs, v.Num)
			}
		}
	}
	return xs
}

// pivotRow names the row label column of the intermediate pivot frame.
// Datasets become column names there, and a directory name can never
// contain NUL, so this cannot collide with one.
const pivotRow = "\x00model"

// Pivot returns the model × dataset projection of column name.
//
// Pivot fails with a *PivotAmbiguityError if any key occurs more than
// once in t. If name is not one of t's columns, every cell is absent.
func (t *Table) Pivot(name string) (*Pivot, error) {
	if dups := t.duplicates(); len(dups) > 0 {
		return nil, &PivotAmbiguityError{name, dups}
	}
	if name == modelCol || name == datasetCol {
		return nil, fmt.Errorf("cannot pivot key column %s", name)
	}
	p := &Pivot{Field: name, cells: make(map[Key]report.Value)}
	if len(t.Rows) == 0 {
		return p, nil
	}

	f := table.Grouping(t.frame(name))
	f = table.Rename(f, modelCol, pivotRow)
	f = table.Pivot(f, datasetCol, name)
	f = table.SortBy(f, pivotRow)
	pt := f.Table(table.RootGroupID)

	p.Models = pt.MustColumn(pivotRow).([]string)
	for _, col := range pt.Columns() {
		if col == pivotRow {
			continue
		}
		p.Datasets = append(p.Datasets, col)
		for i, v := range pt.MustColumn(col).([]report.Value) {
			if v.Present {
				p.cells[Key{p.Models[i], col}] = v
			}
		}
	}
	sort.Strings(p.Datasets)
	return p, nil
}
